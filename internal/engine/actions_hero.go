package engine

// resetHeroActions clears the action record for a new hero phase.
func (r *reducer) resetHeroActions() {
	r.s.HeroActions = HeroActions{ActionsTaken: []ActionKind{}}
	r.recomputeHeroActions()
}

// recordHeroAction counts an action against the active hero's turn.
func (r *reducer) recordHeroAction(kind ActionKind) {
	r.s.HeroActions.ActionsTaken = append(r.s.HeroActions.ActionsTaken, kind)
	r.recomputeHeroActions()
}

// recomputeHeroActions derives canMove and canAttack. A hero gets two actions:
// move twice, move then attack, or attack then move. Statuses can lower the
// allowance (dazed one, stunned none) or forbid moving.
func (r *reducer) recomputeHeroActions() {
	ha := &r.s.HeroActions
	moves, attacks := 0, 0
	for _, a := range ha.ActionsTaken {
		switch a {
		case ActionMove:
			moves++
		case ActionAttack:
			attacks++
		}
	}

	hero := r.s.ActiveHero()
	if hero == nil || !hero.InPlay() {
		ha.CanMove, ha.CanAttack = false, false
		return
	}
	mods := hero.Modifiers()
	remaining := mods.Actions - len(ha.ActionsTaken)

	ha.CanAttack = attacks == 0 && remaining > 0 && mods.CanAttack
	ha.CanMove = moves < 2 && !(moves == 1 && attacks == 1) && remaining > 0 && mods.CanMove
}
