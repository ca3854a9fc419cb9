package entity

import (
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/world"
)

// BoardToken is a marker placed by a power card. A token in play always has at
// least one charge; Spend reports when it must be removed.
type BoardToken struct {
	ID       string             `json:"id"`
	Type     gamedata.TokenType `json:"type"`
	OwnerID  string             `json:"ownerId"`
	Position world.Position     `json:"position"`
	TileID   string             `json:"tileId"`
	Charges  int                `json:"charges"`
	CanMove  bool               `json:"canMove"`
}

// Spend uses one charge and reports whether the token is now depleted.
func (t *BoardToken) Spend() bool {
	if t.Charges > 0 {
		t.Charges--
	}
	return t.Charges == 0
}

// Trap is a trap or hazard marker left on a tile by an encounter.
type Trap struct {
	ID          string         `json:"id"`
	EncounterID string         `json:"encounterId"`
	Kind        string         `json:"kind"` // "trap" or "hazard"
	Position    world.Position `json:"position"`
	TileID      string         `json:"tileId"`
}
