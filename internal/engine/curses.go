package engine

import (
	"github.com/samdwyer/ashardalon/internal/entity"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/world"
)

// rollCurseRemoval rolls once for each removable curse on the hero at the end of
// their villain phase.
func (r *reducer) rollCurseRemoval(hero *entity.Hero) {
	for _, st := range hero.Statuses.Curses() {
		def, ok := gamedata.LookupStatus(st.Type)
		if !ok || !def.RollToRemove || !hero.HasStatus(st.Type) {
			continue
		}
		roll, removed := r.res.RollCheck(gamedata.CurseRemovalTarget)
		if removed {
			hero.Statuses = hero.Statuses.Remove(st.Type)
			r.logf("%s rolled %d: removed %s curse", hero.Name, roll, def.Name)
		} else {
			r.logf("%s rolled %d: failed to remove %s curse (need %d+)", hero.Name, roll, def.Name, gamedata.CurseRemovalTarget)
		}
	}
}

// applyWrathOfTheEnemy moves the closest monster to a free square next to the hero.
func (r *reducer) applyWrathOfTheEnemy(hero *entity.Hero) {
	var closest *entity.Monster
	for i := range r.s.Monsters {
		m := &r.s.Monsters[i]
		if closest == nil || world.Chebyshev(m.Position, hero.Position) < world.Chebyshev(closest.Position, hero.Position) {
			closest = m
		}
	}
	if closest == nil {
		r.logf("Wrath of the Enemy: no monster answers the call")
		return
	}
	if world.Adjacent(closest.Position, hero.Position) {
		r.logf("Wrath of the Enemy: %s is already next to %s", closest.Name, hero.Name)
		return
	}

	var options []world.Position
	for _, p := range r.s.Dungeon.Neighbors(hero.Position) {
		if !r.s.Occupied(p) {
			options = append(options, p)
		}
	}
	if len(options) == 0 {
		r.logf("Wrath of the Enemy: there is no room next to %s", hero.Name)
		return
	}
	world.SortPositions(options)
	dest := options[0]
	for _, p := range options[1:] {
		if world.Chebyshev(p, closest.Position) < world.Chebyshev(dest, closest.Position) {
			dest = p
		}
	}

	closest.Position = dest
	closest.TileID = r.s.Dungeon.TileIDAt(dest)
	r.logf("Wrath of the Enemy: %s moves next to %s", closest.Name, hero.Name)
	r.triggerBladeBarrier(closest.InstanceID)
}

// passMonsterOnHighAlert hands one of the active hero's monsters to the next hero
// while an environment with that effect is active.
func (r *reducer) passMonsterOnHighAlert(hero *entity.Hero) {
	env := r.environment()
	if env == nil || !env.Effect.PassMonster || len(r.s.Heroes) < 2 {
		return
	}
	next := r.s.Heroes[(r.s.Turn.CurrentHeroIndex+1)%len(r.s.Heroes)]
	for i := range r.s.Monsters {
		m := &r.s.Monsters[i]
		if m.ControllerID != hero.HeroID {
			continue
		}
		m.ControllerID = next.HeroID
		r.logf("%s: %s passes %s to %s", env.Name, hero.Name, m.Name, next.Name)
		return
	}
}
