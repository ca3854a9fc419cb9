package engine

import (
	"fmt"
	"strings"

	"github.com/samdwyer/ashardalon/internal/rng"
)

// defaultFilterCount is the batch size of a deck-filter encounter with no count.
const defaultFilterCount = 5

// filterMonsterDeck draws a batch of monster cards, shuffles the ones whose
// category contains the word back on top and discards the rest. Fewer cards are
// drawn when the pile runs short; kept plus discarded always equals the number drawn.
func (r *reducer) filterMonsterDeck(category string, count int) string {
	if count <= 0 {
		count = defaultFilterCount
	}
	drawn := r.s.MonsterDeck.DrawN(count)

	var kept, discarded []string
	for _, id := range drawn {
		def := r.e.catalog.Monsters.GetByID(id)
		if def != nil && def.HasCategory(category) {
			kept = append(kept, id)
		} else {
			discarded = append(discarded, id)
		}
	}

	r.s.MonsterDeck.PutOnTop(rng.Shuffle(r.src, kept)...)
	r.s.MonsterDeck.Discard(discarded...)

	return fmt.Sprintf("Drew %d monster cards: %d %ss placed on top, %d discarded",
		len(drawn), len(kept), titleCase(category), len(discarded))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
