package engine

import (
	"slices"
)

// resolveMonsterDecision applies the player's choice for the pending decision and
// resumes the monster's activation. Anything that does not match the pending
// decision is rejected and leaves the game paused.
func (r *reducer) resolveMonsterDecision() error {
	d, ok := r.s.Mode.Decision()
	if !ok {
		return r.illegal("no monster decision is pending")
	}
	if r.action.DecisionID != d.DecisionID {
		return r.mismatch("decision %q is not pending (expected %q)", r.action.DecisionID, d.DecisionID)
	}
	if r.s.MonsterByID(d.MonsterID) == nil {
		return r.mismatch("monster %s is no longer in play", d.MonsterID)
	}

	switch d.Type {
	case DecisionChooseHeroTarget:
		heroID := r.action.HeroID
		if !slices.Contains(d.Options.HeroIDs, heroID) {
			return r.mismatch("hero %q was not offered for %s", heroID, d.DecisionID)
		}
		r.s.Mode = Idle()
		r.logf("%s targets %s", r.s.MonsterByID(d.MonsterID).Name, r.s.HeroByID(heroID).Name)
		if d.Context.Reason == reasonAttack {
			r.monsterAttack(d.MonsterID, heroID)
			r.finishActivation(d.MonsterID)
		} else {
			r.moveToward(d.MonsterID, heroID)
		}

	case DecisionChooseMoveDestination:
		if r.action.Position == nil {
			return r.mismatch("%s requires a position", d.DecisionID)
		}
		dest := *r.action.Position
		if !slices.Contains(d.Options.Positions, dest) {
			return r.mismatch("position %s was not offered for %s", dest, d.DecisionID)
		}
		if r.s.HeroByID(d.Context.TargetHeroID) == nil {
			return r.mismatch("target hero %s is unknown", d.Context.TargetHeroID)
		}
		r.s.Mode = Idle()
		r.completeMove(d.MonsterID, d.Context.TargetHeroID, dest)

	default:
		return r.mismatch("unknown decision type %q", d.Type)
	}

	r.checkDefeat()
	return nil
}
