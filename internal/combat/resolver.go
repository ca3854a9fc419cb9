// Package combat provides attack resolution and the status effect ledger.
package combat

import (
	"fmt"

	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/rng"
)

// Combatant is the interface for any figure that can be the target of an attack.
// Both heroes and monsters implement this interface.
type Combatant interface {
	GetName() string
	IsAlive() bool
	GetHP() int
	GetMaxHP() int
	ArmorClass() int

	TakeDamage(amount int) int // Returns actual damage taken
	Heal(amount int) int       // Returns actual amount healed
}

// Attack describes one attack roll before it is made.
type Attack struct {
	Name       string              // Power, monster, or encounter name
	Bonus      int                 // Added to the d20
	Damage     int                 // Damage on a hit
	MissDamage int                 // Damage on a miss
	OnHit      gamedata.StatusType // Condition applied on a hit
}

// AttackResult contains the outcome of resolving an attack.
type AttackResult struct {
	Roll     int  // Natural d20
	Total    int  // Roll plus bonus
	TargetAC int  // Armor class rolled against
	Hit      bool // True on a hit
	Critical bool // Natural 20
	Damage   int  // Damage actually taken
	Defeated bool // Target dropped to 0 HP
	Message  string
}

// Resolver rolls attacks against combatants.
type Resolver struct {
	src rng.Source
}

// NewResolver creates a resolver drawing rolls from src.
func NewResolver(src rng.Source) *Resolver {
	return &Resolver{src: src}
}

// Roll makes the attack roll without applying damage. A natural 20 always hits.
func (r *Resolver) Roll(atk Attack, targetAC int) AttackResult {
	roll := rng.D20(r.src)
	total := roll + atk.Bonus
	return AttackResult{
		Roll:     roll,
		Total:    total,
		TargetAC: targetAC,
		Critical: roll == 20,
		Hit:      roll == 20 || total >= targetAC,
	}
}

// Resolve rolls the attack and applies damage to the target.
func (r *Resolver) Resolve(atk Attack, target Combatant) AttackResult {
	result := r.Roll(atk, target.ArmorClass())

	damage := atk.MissDamage
	if result.Hit {
		damage = atk.Damage
	}
	result.Damage = target.TakeDamage(damage)
	result.Defeated = !target.IsAlive()
	result.Message = Describe(atk.Name, target.GetName(), result)
	return result
}

// Describe builds the log line for an attack result.
func Describe(attacker, target string, result AttackResult) string {
	verb := "misses"
	if result.Hit {
		verb = "hits"
	}
	msg := fmt.Sprintf("%s %s %s (rolled %d, total %d vs AC %d)",
		attacker, verb, target, result.Roll, result.Total, result.TargetAC)
	if result.Damage > 0 {
		msg += fmt.Sprintf(" for %d damage", result.Damage)
	}
	if result.Defeated {
		msg += fmt.Sprintf("; %s is defeated", target)
	}
	return msg
}

// RollCheck rolls a d20 against a target number, returning the roll and whether it succeeded.
func (r *Resolver) RollCheck(target int) (int, bool) {
	roll := rng.D20(r.src)
	return roll, roll >= target
}
