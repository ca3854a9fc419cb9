package entity

import (
	"github.com/samdwyer/ashardalon/internal/combat"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/world"
)

// Monster is a monster figure in play. Card stats are copied in at spawn so the
// state can be read without the catalog.
type Monster struct {
	InstanceID   string              `json:"instanceId"`
	MonsterID    string              `json:"monsterId"`
	Name         string              `json:"name"`
	Position     world.Position      `json:"position"`
	CurrentHP    int                 `json:"currentHp"`
	MaxHP        int                 `json:"maxHp"`
	AC           int                 `json:"ac"`
	AttackBonus  int                 `json:"attackBonus"`
	Damage       int                 `json:"damage"`
	Speed        int                 `json:"speed"`
	XP           int                 `json:"xp"`
	OnHit        gamedata.StatusType `json:"onHit,omitempty"`
	ControllerID string              `json:"controllerId"`
	TileID       string              `json:"tileId"`
	HasActivated bool                `json:"hasActivated"`
}

// NewMonster creates a monster instance from its definition.
func NewMonster(def *gamedata.MonsterDef, instanceID string, pos world.Position, controllerID, tileID string) Monster {
	return Monster{
		InstanceID:   instanceID,
		MonsterID:    def.ID,
		Name:         def.Name,
		Position:     pos,
		CurrentHP:    def.HP,
		MaxHP:        def.HP,
		AC:           def.AC,
		AttackBonus:  def.AttackBonus,
		Damage:       def.Damage,
		Speed:        def.Speed,
		XP:           def.XP,
		OnHit:        def.OnHit,
		ControllerID: controllerID,
		TileID:       tileID,
	}
}

// AttackProfile returns the monster's attack.
func (m *Monster) AttackProfile() combat.Attack {
	return combat.Attack{Name: m.Name, Bonus: m.AttackBonus, Damage: m.Damage, OnHit: m.OnHit}
}

// GetName returns the monster's name.
func (m *Monster) GetName() string { return m.Name }

// IsAlive returns true if the monster has HP remaining.
func (m *Monster) IsAlive() bool { return m.CurrentHP > 0 }

// GetHP returns current HP.
func (m *Monster) GetHP() int { return m.CurrentHP }

// GetMaxHP returns maximum HP.
func (m *Monster) GetMaxHP() int { return m.MaxHP }

// ArmorClass returns the monster's AC.
func (m *Monster) ArmorClass() int { return m.AC }

// TakeDamage reduces HP and returns actual damage taken.
func (m *Monster) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, m.CurrentHP)
	m.CurrentHP -= actual
	return actual
}

// Heal restores HP and returns actual amount healed.
func (m *Monster) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, m.MaxHP-m.CurrentHP)
	m.CurrentHP += actual
	return actual
}

var _ combat.Combatant = (*Monster)(nil)
