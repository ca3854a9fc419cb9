// Package entity provides the figures and card piles that make up a game state.
package entity

import (
	"slices"

	"github.com/samdwyer/ashardalon/internal/combat"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/world"
)

// Hero is a hero figure on the board together with its hit points and ledger.
type Hero struct {
	HeroID            string          `json:"heroId"`
	Name              string          `json:"name"`
	Position          world.Position  `json:"position"`
	TurnStartPosition world.Position  `json:"turnStartPosition"`
	CurrentHP         int             `json:"currentHp"`
	MaxHP             int             `json:"maxHp"`
	AC                int             `json:"ac"`
	Speed             int             `json:"speed"`
	SurgeValue        int             `json:"surgeValue"`
	AttackBonus       int             `json:"attackBonus"`
	Damage            int             `json:"damage"`
	Level             int             `json:"level"`
	Statuses          combat.Statuses `json:"statuses"`
	RemovedFromPlay   bool            `json:"removedFromPlay"`
	Powers            []string        `json:"powers"`
	UsedPowers        []string        `json:"usedPowers"`
	Items             []string        `json:"items"`
}

// NewHero creates a hero from its definition, standing at pos.
func NewHero(def *gamedata.HeroDef, pos world.Position) Hero {
	return Hero{
		HeroID:            def.ID,
		Name:              def.Name,
		Position:          pos,
		TurnStartPosition: pos,
		CurrentHP:         def.HP,
		MaxHP:             def.HP,
		AC:                def.AC,
		Speed:             def.Speed,
		SurgeValue:        def.SurgeValue,
		AttackBonus:       def.AttackBonus,
		Damage:            def.Damage,
		Level:             1,
		Powers:            slices.Clone(def.Powers),
	}
}

// Clone returns a deep copy.
func (h Hero) Clone() Hero {
	h.Statuses = h.Statuses.Clone()
	h.Powers = slices.Clone(h.Powers)
	h.UsedPowers = slices.Clone(h.UsedPowers)
	h.Items = slices.Clone(h.Items)
	return h
}

// InPlay reports whether the hero is on the board and able to be targeted.
func (h *Hero) InPlay() bool {
	return !h.RemovedFromPlay && h.CurrentHP > 0
}

// HasStatus reports whether the hero's ledger holds the status.
func (h *Hero) HasStatus(t gamedata.StatusType) bool {
	return h.Statuses.Has(t)
}

// Modifiers returns the hero's status modifiers.
func (h *Hero) Modifiers() combat.Modifiers {
	return h.Statuses.Modifiers()
}

// HasUsedPower reports whether a daily power was already spent.
func (h *Hero) HasUsedPower(powerID string) bool {
	return slices.Contains(h.UsedPowers, powerID)
}

// HasPower reports whether the hero owns the power card.
func (h *Hero) HasPower(powerID string) bool {
	return slices.Contains(h.Powers, powerID)
}

// EquipTreasure records an item and applies its permanent bonuses.
func (h *Hero) EquipTreasure(def *gamedata.TreasureDef) {
	h.Items = append(h.Items, def.ID)
	h.AttackBonus += def.AttackBonus
	h.AC += def.ACBonus
	h.Speed += def.SpeedBonus
	h.Damage += def.DamageBonus
}

// DropItem removes one copy of a carried item, reporting whether the hero had it.
func (h *Hero) DropItem(id string) bool {
	i := slices.Index(h.Items, id)
	if i < 0 {
		return false
	}
	h.Items = slices.Delete(slices.Clone(h.Items), i, i+1)
	return true
}

// LevelUp raises the hero to level 2.
func (h *Hero) LevelUp() {
	h.Level++
	h.AC++
	h.AttackBonus++
	h.MaxHP += 2
	h.CurrentHP += 2
}

// =============================================================================
// Combatant interface implementation
// =============================================================================

// GetName returns the hero's name.
func (h *Hero) GetName() string { return h.Name }

// IsAlive returns true if the hero has HP remaining.
func (h *Hero) IsAlive() bool { return h.CurrentHP > 0 }

// GetHP returns current HP.
func (h *Hero) GetHP() int { return h.CurrentHP }

// GetMaxHP returns maximum HP.
func (h *Hero) GetMaxHP() int { return h.MaxHP }

// ArmorClass returns AC after curse penalties.
func (h *Hero) ArmorClass() int { return h.AC + h.Modifiers().AC }

// TakeDamage reduces HP and returns actual damage taken.
func (h *Hero) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, h.CurrentHP)
	h.CurrentHP -= actual
	return actual
}

// Heal restores HP and returns actual amount healed.
func (h *Hero) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, h.MaxHP-h.CurrentHP)
	h.CurrentHP += actual
	return actual
}

// Ensure Hero implements combat.Combatant
var _ combat.Combatant = (*Hero)(nil)
