package combat

import (
	"slices"

	"github.com/samdwyer/ashardalon/internal/gamedata"
)

// Status is one entry in a hero's status ledger.
type Status struct {
	Type          gamedata.StatusType `json:"type"`
	Source        string              `json:"source"`
	Duration      int                 `json:"duration,omitempty"` // Turns; 0 lasts until removed
	AppliedOnTurn int                 `json:"appliedOnTurn"`
	Damage        int                 `json:"damage,omitempty"` // Ongoing damage per turn
}

// Expired reports whether a timed status has run its course by the given turn.
func (s Status) Expired(turn int) bool {
	return s.Duration > 0 && turn-s.AppliedOnTurn >= s.Duration
}

// Statuses is a hero's status ledger. Methods return a new slice and never
// modify the receiver's backing array.
type Statuses []Status

// Apply adds a status. An entry with the same type and source is replaced, so
// re-applying a curse from the same card never produces a duplicate.
func (s Statuses) Apply(st Status) Statuses {
	out := slices.Clone(s)
	for i, existing := range out {
		if existing.Type == st.Type && existing.Source == st.Source {
			out[i] = st
			return out
		}
	}
	return append(out, st)
}

// Remove drops every entry of the given type.
func (s Statuses) Remove(t gamedata.StatusType) Statuses {
	out := make(Statuses, 0, len(s))
	for _, st := range s {
		if st.Type != t {
			out = append(out, st)
		}
	}
	return out
}

// Has reports whether any entry of the given type is present.
func (s Statuses) Has(t gamedata.StatusType) bool {
	return s.Count(t) > 0
}

// Count returns the number of entries of the given type.
func (s Statuses) Count(t gamedata.StatusType) int {
	n := 0
	for _, st := range s {
		if st.Type == t {
			n++
		}
	}
	return n
}

// Get returns the first entry of the given type.
func (s Statuses) Get(t gamedata.StatusType) (Status, bool) {
	for _, st := range s {
		if st.Type == t {
			return st, true
		}
	}
	return Status{}, false
}

// Expire splits the ledger into entries still active at turn and entries that ran out.
func (s Statuses) Expire(turn int) (active, expired Statuses) {
	for _, st := range s {
		if st.Expired(turn) {
			expired = append(expired, st)
		} else {
			active = append(active, st)
		}
	}
	return active, expired
}

// Curses returns the curse entries in ledger order.
func (s Statuses) Curses() Statuses {
	var out Statuses
	for _, st := range s {
		if st.Type.IsCurse() {
			out = append(out, st)
		}
	}
	return out
}

// Clone returns an independent copy.
func (s Statuses) Clone() Statuses {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// =============================================================================
// Modifiers
// =============================================================================

// Modifiers are the mechanical consequences of a status ledger.
type Modifiers struct {
	Attack     int  // Added to attack rolls
	AC         int  // Added to armor class
	Damage     int  // Added to damage dealt
	Speed      int  // Added to speed after halving
	HalveSpeed bool // Slowed
	CanMove    bool
	CanAttack  bool
	Actions    int // Actions allowed per hero phase
}

// Modifiers computes the combined effect of every entry in the ledger.
func (s Statuses) Modifiers() Modifiers {
	m := Modifiers{CanMove: true, CanAttack: true, Actions: 2}
	for _, st := range s {
		switch st.Type {
		case gamedata.StatusBlinded:
			m.Attack -= 2
		case gamedata.CurseTerrifyingRoar:
			m.Attack -= 4
		case gamedata.CurseGapInArmor:
			m.AC -= 4
		case gamedata.CurseCage:
			m.AC -= 2
			m.CanMove = false
		case gamedata.StatusWeakened:
			m.Damage--
		case gamedata.StatusSlowed:
			m.HalveSpeed = true
		case gamedata.StatusImmobilized:
			m.CanMove = false
		case gamedata.StatusDazed:
			m.Actions = min(m.Actions, 1)
		case gamedata.StatusStunned:
			m.Actions = 0
			m.CanMove = false
			m.CanAttack = false
		}
	}
	return m
}

// ApplySpeed returns the effective speed for a base speed, never below zero.
func (m Modifiers) ApplySpeed(base int) int {
	if !m.CanMove {
		return 0
	}
	speed := base
	if m.HalveSpeed {
		speed /= 2
	}
	return max(speed+m.Speed, 0)
}

// ApplyDamage returns damage dealt after weakening, never below zero.
func (m Modifiers) ApplyDamage(base int) int {
	return max(base+m.Damage, 0)
}
