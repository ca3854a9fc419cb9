package engine

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/ashardalon/internal/combat"
	"github.com/samdwyer/ashardalon/internal/gamedata"
)

// poisonDamage is dealt to a poisoned hero at the start of each of their turns.
const poisonDamage = 1

func (r *reducer) endHeroPhase() error {
	if err := r.requirePhase(PhaseHero); err != nil {
		return err
	}
	hero := r.s.ActiveHero()

	if hero.HasStatus(gamedata.CurseGapInArmor) && !r.s.Movement.MovedThisTurn {
		hero.Statuses = hero.Statuses.Remove(gamedata.CurseGapInArmor)
		r.logf("%s held position: A Gap in the Armor is removed", hero.Name)
	}
	r.hideMovement()
	r.s.SelectedTargetID, r.s.SelectedTargetType = "", ""

	if hero.InPlay() {
		if ref, ok := r.s.Dungeon.ExplorableEdge(hero.Position); ok {
			r.explore(ref)
		}
	}

	r.s.Turn.CurrentPhase = PhaseExploration
	return nil
}

func (r *reducer) endExplorationPhase() error {
	if err := r.requirePhase(PhaseExploration); err != nil {
		return err
	}
	hero := r.s.ActiveHero()

	if !r.s.Turn.DrewOnlyWhiteTilesThisTurn {
		r.drawEncounter("", false)
	} else {
		r.logf("Only white-arrow tiles were placed: no encounter this turn")
	}

	if hero.InPlay() {
		if env := r.environment(); env != nil && env.Effect.VillainDamage > 0 {
			dealt := hero.TakeDamage(env.Effect.VillainDamage)
			r.logf("%s: %s takes %d damage", env.Name, hero.Name, dealt)
		}
		if hero.HasStatus(gamedata.CurseWrathOfTheEnemy) {
			r.applyWrathOfTheEnemy(hero)
		}
		r.activateTraps()
	}

	r.s.Turn.CurrentPhase = PhaseVillain
	r.s.Turn.VillainMonsterIndex = 0
	for i := range r.s.Monsters {
		r.s.Monsters[i].HasActivated = false
	}
	r.checkDefeat()
	return nil
}

func (r *reducer) endVillainPhase() error {
	if err := r.requirePhase(PhaseVillain); err != nil {
		return err
	}
	if r.s.Mode.Awaiting() {
		return r.illegal("a monster decision is pending")
	}
	if r.s.DrawnEncounter != "" {
		return r.illegal("the drawn encounter must be resolved first")
	}
	hero := r.s.ActiveHero()
	for _, m := range r.s.Monsters {
		if m.ControllerID == hero.HeroID && !m.HasActivated {
			return r.illegal("%s has not activated", m.Name)
		}
	}

	r.rollCurseRemoval(hero)
	r.passMonsterOnHighAlert(hero)

	next := (r.s.Turn.CurrentHeroIndex + 1) % len(r.s.Heroes)
	if next == 0 {
		r.s.Turn.TurnNumber++
	}
	r.s.Turn = TurnState{
		CurrentPhase:     PhaseHero,
		CurrentHeroIndex: next,
		TurnNumber:       r.s.Turn.TurnNumber,
	}
	r.s.Movement = MovementState{}
	r.hideMovement()

	r.startHeroTurn()
	r.resetHeroActions()
	return nil
}

// startHeroTurn processes the statuses that trigger at the start of a hero's turn
// and spends a healing surge for a hero at 0 HP.
func (r *reducer) startHeroTurn() {
	_, span := r.e.tracer.Start(r.ctx, "engine.start_hero_turn")
	defer span.End()

	hero := r.s.ActiveHero()
	span.SetAttributes(attribute.String("hero", hero.HeroID), attribute.Int("turn", r.s.Turn.TurnNumber))

	if hero.HasStatus(gamedata.CurseTimeLeap) {
		hero.Statuses = hero.Statuses.Remove(gamedata.CurseTimeLeap)
		if r.s.Occupied(hero.Position) {
			if p, ok := r.freeSquareNear(hero.Position); ok {
				hero.Position = p
			}
		}
		hero.RemovedFromPlay = false
		r.logf("Time Leap ends: %s returns to play", hero.Name)
	}

	var expired combat.Statuses
	hero.Statuses, expired = hero.Statuses.Expire(r.s.Turn.TurnNumber)
	for _, st := range expired {
		r.logf("%s is no longer %s", hero.Name, st.Type.Name())
	}

	for _, st := range hero.Statuses {
		if st.Type == gamedata.StatusOngoingDamage && st.Damage > 0 {
			hero.TakeDamage(st.Damage)
			r.logf("%s takes %d ongoing damage", hero.Name, st.Damage)
		}
	}
	if hero.HasStatus(gamedata.StatusPoisoned) {
		hero.TakeDamage(poisonDamage)
		roll, ok := r.res.RollCheck(gamedata.CurseRemovalTarget)
		if ok {
			hero.Statuses = hero.Statuses.Remove(gamedata.StatusPoisoned)
			r.logf("%s takes %d poison damage, rolled %d and recovers", hero.Name, poisonDamage, roll)
		} else {
			r.logf("%s takes %d poison damage, rolled %d and stays poisoned", hero.Name, poisonDamage, roll)
		}
	}
	if hero.HasStatus(gamedata.CurseBloodlust) {
		hero.TakeDamage(1)
		r.logf("Bloodlust: %s takes 1 damage", hero.Name)
	}

	if hero.CurrentHP <= 0 {
		if r.s.Party.SpendSurge() {
			hero.CurrentHP = min(hero.SurgeValue, hero.MaxHP)
			r.logf("%s spends a healing surge and returns with %d HP (%d surges left)",
				hero.Name, hero.CurrentHP, r.s.Party.HealingSurges)
		} else {
			r.s.Outcome = OutcomeDefeat
			r.logf("%s is at 0 HP with no healing surges left. The party is defeated", hero.Name)
			return
		}
	}

	hero.TurnStartPosition = hero.Position
	r.logf("Turn %d: %s's hero phase", r.s.Turn.TurnNumber, hero.Name)
}
