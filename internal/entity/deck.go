package entity

import (
	"slices"

	"github.com/samdwyer/ashardalon/internal/rng"
)

// Deck is a face-down draw pile and a face-up discard pile of card IDs.
// The top of the draw pile is index 0.
type Deck struct {
	DrawPile    []string `json:"drawPile"`
	DiscardPile []string `json:"discardPile"`
}

// NewDeck shuffles cards into a fresh draw pile.
func NewDeck(src rng.Source, cards []string) Deck {
	return Deck{DrawPile: rng.Shuffle(src, cards), DiscardPile: []string{}}
}

// Clone returns a deep copy.
func (d Deck) Clone() Deck {
	return Deck{DrawPile: slices.Clone(d.DrawPile), DiscardPile: slices.Clone(d.DiscardPile)}
}

// Draw takes the top card. An empty draw pile is refilled by shuffling the discards.
func (d *Deck) Draw(src rng.Source) (string, bool) {
	if len(d.DrawPile) == 0 {
		if len(d.DiscardPile) == 0 {
			return "", false
		}
		d.DrawPile = rng.Shuffle(src, d.DiscardPile)
		d.DiscardPile = []string{}
	}
	top := d.DrawPile[0]
	d.DrawPile = slices.Clone(d.DrawPile[1:])
	return top, true
}

// DrawN takes up to n cards from the top without reshuffling.
func (d *Deck) DrawN(n int) []string {
	n = min(n, len(d.DrawPile))
	drawn := slices.Clone(d.DrawPile[:n])
	d.DrawPile = slices.Clone(d.DrawPile[n:])
	return drawn
}

// Take removes a specific card from the draw pile, reporting whether it was there.
func (d *Deck) Take(id string) bool {
	i := slices.Index(d.DrawPile, id)
	if i < 0 {
		return false
	}
	d.DrawPile = slices.Delete(slices.Clone(d.DrawPile), i, i+1)
	return true
}

// PutOnTop places cards on top of the draw pile, first card topmost.
func (d *Deck) PutOnTop(cards ...string) {
	d.DrawPile = append(slices.Clone(cards), d.DrawPile...)
}

// Discard adds cards to the discard pile.
func (d *Deck) Discard(cards ...string) {
	d.DiscardPile = append(slices.Clone(d.DiscardPile), cards...)
}
