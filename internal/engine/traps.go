package engine

import (
	"slices"

	"github.com/samdwyer/ashardalon/internal/combat"
	"github.com/samdwyer/ashardalon/internal/entity"
)

// trapIndex returns the index of the trap with the given ID, or -1.
func (r *reducer) trapIndex(id string) int {
	return slices.IndexFunc(r.s.Traps, func(t entity.Trap) bool { return t.ID == id })
}

// activateTraps triggers every trap and hazard during the active hero's villain
// phase. Each one affects the heroes standing on its tile.
func (r *reducer) activateTraps() {
	for _, trap := range r.s.Traps {
		def := r.e.catalog.Encounters.GetByID(trap.EncounterID)
		if def == nil {
			continue
		}
		eff := def.Effect
		for i := range r.s.Heroes {
			h := &r.s.Heroes[i]
			if !h.InPlay() || r.s.Dungeon.TileIDAt(h.Position) != trap.TileID {
				continue
			}
			if eff.AttackBonus > 0 || eff.Damage > 0 {
				atk := combat.Attack{Name: def.Name, Bonus: eff.AttackBonus, Damage: eff.Damage, OnHit: eff.Status}
				r.logf("%s", r.attackHero(atk, h, def.ID))
				continue
			}
			dealt := h.TakeDamage(eff.Amount)
			r.logf("%s: %s takes %d damage", def.Name, h.Name, dealt)
		}
	}
}

func (r *reducer) disableTrap() error {
	if err := r.requirePhase(PhaseHero); err != nil {
		return err
	}
	hero, err := r.heroFor(r.action.HeroID)
	if err != nil {
		return err
	}
	idx := r.trapIndex(r.action.TrapID)
	if idx < 0 {
		return r.invalid("unknown trap %q", r.action.TrapID)
	}
	trap := r.s.Traps[idx]
	def := r.e.catalog.Encounters.GetByID(trap.EncounterID)
	if def == nil || def.Effect.DisableDC <= 0 {
		return r.invalid("%s cannot be disabled", trap.ID)
	}
	if !hero.InPlay() || !r.s.HeroActions.CanAttack {
		return r.invalid("%s cannot disable a trap now", hero.Name)
	}
	if r.s.Dungeon.TileIDAt(hero.Position) != trap.TileID {
		return r.invalid("%s must be on the trap's tile", hero.Name)
	}

	roll, ok := r.res.RollCheck(def.Effect.DisableDC)
	r.recordHeroAction(ActionAttack)
	if !ok {
		r.logf("%s rolled %d and failed to disable %s (need %d+)", hero.Name, roll, def.Name, def.Effect.DisableDC)
		return nil
	}
	r.s.Traps = slices.Delete(r.s.Traps, idx, idx+1)
	if r.s.SelectedTargetID == trap.ID {
		r.s.SelectedTargetID, r.s.SelectedTargetType = "", ""
	}
	r.logf("%s rolled %d and disabled %s", hero.Name, roll, def.Name)
	return nil
}
