package engine

import (
	"slices"
	"testing"

	"github.com/samdwyer/ashardalon/internal/entity"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/world"
)

// villainGame returns a villain-phase game with the heroes moved to the given squares.
func villainGame(t *testing.T, e *Engine, heroes []string, positions ...world.Position) GameState {
	t.Helper()
	s := newTestGame(t, e, heroes...)
	for i, p := range positions {
		s.Heroes[i].Position = p
	}
	s.Turn.CurrentPhase = PhaseVillain
	return s
}

func TestMonsterAttacksSingleAdjacentHero(t *testing.T) {
	e := newTestEngine(t, 20)
	s := villainGame(t, e, []string{"quinn"}, world.Position{X: 2, Y: 2})
	id := addMonster(t, e, &s, "kobold", world.Position{X: 3, Y: 2}, "quinn")

	s = dispatch(t, e, s, Action{Type: ActionActivateMonster})

	if s.Mode.Awaiting() {
		t.Fatal("single adjacent hero produced a decision")
	}
	if got := s.Heroes[0].CurrentHP; got != s.Heroes[0].MaxHP-1 {
		t.Errorf("HP = %d after a natural 20, want %d", got, s.Heroes[0].MaxHP-1)
	}
	if !s.MonsterByID(id).HasActivated || s.Turn.VillainMonsterIndex != 1 {
		t.Errorf("monster not marked activated: index %d", s.Turn.VillainMonsterIndex)
	}

	expectRejected(t, e, s, Action{Type: ActionActivateMonster}, CodeIllegalTransition)
}

func TestMonsterOnHitAppliesStatus(t *testing.T) {
	e := newTestEngine(t, 20)
	s := villainGame(t, e, []string{"quinn"}, world.Position{X: 2, Y: 2})
	addMonster(t, e, &s, "snake", world.Position{X: 2, Y: 1}, "quinn")

	s = dispatch(t, e, s, Action{Type: ActionActivateMonster})
	if !s.Heroes[0].HasStatus(gamedata.StatusPoisoned) {
		t.Error("snake hit did not poison the hero")
	}
}

func TestAdjacentTieRequestsHeroDecision(t *testing.T) {
	e := newTestEngine(t, 1)
	s := villainGame(t, e, []string{"quinn", "vistra"}, world.Position{X: 1, Y: 2}, world.Position{X: 3, Y: 2})
	id := addMonster(t, e, &s, "kobold", world.Position{X: 2, Y: 1}, "quinn")

	s = dispatch(t, e, s, Action{Type: ActionActivateMonster})

	if !s.VillainPhasePaused() || s.Mode.Kind() != ModeAwaitingDecision {
		t.Fatalf("mode = %s, want awaiting-decision", s.Mode.Kind())
	}
	d, _ := s.PendingDecision()
	if d.Type != DecisionChooseHeroTarget || d.MonsterID != id || d.Context.Reason != "attack" {
		t.Errorf("decision = %+v", d)
	}
	if !slices.Equal(d.Options.HeroIDs, []string{"quinn", "vistra"}) {
		t.Errorf("options = %v, want both heroes", d.Options.HeroIDs)
	}
	if s.MonsterByID(id).HasActivated {
		t.Error("monster finished activating before the decision")
	}

	// Paused: nothing else may advance the villain phase.
	expectRejected(t, e, s, Action{Type: ActionEndVillainPhase}, CodeIllegalTransition)
	expectRejected(t, e, s, Action{Type: ActionActivateMonster}, CodeIllegalTransition)
	expectRejected(t, e, s, Action{Type: ActionRunVillainPhase}, CodeIllegalTransition)

	// Mismatches leave the decision pending.
	expectRejected(t, e, s, Action{Type: ActionResolveMonsterDecision, DecisionID: "decision-99", HeroID: "vistra"}, CodeDecisionMismatch)
	expectRejected(t, e, s, Action{Type: ActionResolveMonsterDecision, DecisionID: d.DecisionID, HeroID: "keyleth"}, CodeDecisionMismatch)
	expectRejected(t, e, s, Action{Type: ActionResolveMonsterDecision, DecisionID: d.DecisionID}, CodeDecisionMismatch)

	s = dispatch(t, e, s, Action{Type: ActionResolveMonsterDecision, DecisionID: d.DecisionID, HeroID: "vistra"})
	if s.VillainPhasePaused() || s.Mode.Kind() != ModeIdle {
		t.Errorf("mode = %s after resolution, want idle", s.Mode.Kind())
	}
	if !s.MonsterByID(id).HasActivated || s.Turn.VillainMonsterIndex != 1 {
		t.Error("resolution did not finish the activation")
	}
	if !logContains(s, "Kobold Dragonshield misses Vistra") {
		t.Errorf("log = %v, want the attack on the chosen hero", s.Log)
	}

	dispatch(t, e, s, Action{Type: ActionEndVillainPhase})
}

func TestEquidistantHeroesRequestMoveTarget(t *testing.T) {
	e := newTestEngine(t, 1)
	s := villainGame(t, e, []string{"quinn", "vistra"}, world.Position{X: 1, Y: 0}, world.Position{X: 3, Y: 0})
	id := addMonster(t, e, &s, "kobold", world.Position{X: 2, Y: 2}, "quinn")

	s = dispatch(t, e, s, Action{Type: ActionActivateMonster})
	d, ok := s.PendingDecision()
	if !ok || d.Type != DecisionChooseHeroTarget || d.Context.Reason != "move" {
		t.Fatalf("decision = %+v, %v, want a move-target choice", d, ok)
	}

	s = dispatch(t, e, s, Action{Type: ActionResolveMonsterDecision, DecisionID: d.DecisionID, HeroID: "vistra"})
	m := s.MonsterByID(id)
	if want := (world.Position{X: 3, Y: 1}); m.Position != want {
		t.Errorf("monster at %s, want %s", m.Position, want)
	}
	if !m.HasActivated || s.Mode.Awaiting() {
		t.Error("move-and-attack did not complete")
	}
}

func TestTiedSquaresRequestMoveDestination(t *testing.T) {
	e := newTestEngine(t, 1)
	s := villainGame(t, e, []string{"quinn"}, world.Position{X: 2, Y: 7})
	blocker := addMonster(t, e, &s, "cultist", world.Position{X: 2, Y: 6}, "quinn")
	s.MonsterByID(blocker).HasActivated = true
	id := addMonster(t, e, &s, "kobold", world.Position{X: 2, Y: 5}, "quinn")

	s = dispatch(t, e, s, Action{Type: ActionActivateMonster})
	d, ok := s.PendingDecision()
	if !ok || d.Type != DecisionChooseMoveDestination {
		t.Fatalf("decision = %+v, %v, want choose-move-destination", d, ok)
	}
	want := []world.Position{{X: 1, Y: 6}, {X: 3, Y: 6}}
	if !slices.Equal(d.Options.Positions, want) {
		t.Errorf("options = %v, want %v", d.Options.Positions, want)
	}
	if d.Context.TargetHeroID != "quinn" {
		t.Errorf("TargetHeroID = %q", d.Context.TargetHeroID)
	}

	expectRejected(t, e, s, Action{Type: ActionResolveMonsterDecision, DecisionID: d.DecisionID}.At(world.Position{X: 3, Y: 5}), CodeDecisionMismatch)
	expectRejected(t, e, s, Action{Type: ActionResolveMonsterDecision, DecisionID: d.DecisionID}, CodeDecisionMismatch)

	s = dispatch(t, e, s, Action{Type: ActionResolveMonsterDecision, DecisionID: d.DecisionID}.At(world.Position{X: 3, Y: 6}))
	if got := s.MonsterByID(id).Position; got != (world.Position{X: 3, Y: 6}) {
		t.Errorf("monster at %s, want the chosen square", got)
	}
	if !logContains(s, "Kobold Dragonshield misses Quinn") {
		t.Errorf("log = %v, want a move-and-attack", s.Log)
	}
	if s.Mode.Awaiting() || s.Turn.VillainMonsterIndex != 1 {
		t.Error("decision not cleared")
	}
}

func TestMonsterPrefersSquaresItCanAttackFrom(t *testing.T) {
	tests := []struct {
		name    string
		hero    world.Position
		blocker world.Position
		start   world.Position
		want    world.Position
	}{
		// (3,4) is closer in a straight line but out of reach of the hero.
		{"around a blocker", world.Position{X: 3, Y: 6}, world.Position{X: 3, Y: 5}, world.Position{X: 3, Y: 3}, world.Position{X: 2, Y: 5}},
		{"orthogonal face wins a tie", world.Position{X: 3, Y: 0}, world.Position{X: 1, Y: 7}, world.Position{X: 2, Y: 2}, world.Position{X: 3, Y: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, 20)
			s := villainGame(t, e, []string{"quinn"}, tt.hero)
			blocker := addMonster(t, e, &s, "cultist", tt.blocker, "quinn")
			s.MonsterByID(blocker).HasActivated = true
			id := addMonster(t, e, &s, "kobold", tt.start, "quinn")

			s = dispatch(t, e, s, Action{Type: ActionActivateMonster})
			if s.Mode.Awaiting() {
				t.Fatalf("unexpected decision %+v", s.Mode)
			}
			if got := s.MonsterByID(id).Position; got != tt.want {
				t.Errorf("monster at %s, want %s", got, tt.want)
			}
			if logContains(s, "moved but could not attack") {
				t.Errorf("log = %v, want a move-and-attack", s.Log)
			}
			if got := s.Heroes[0].CurrentHP; got != s.Heroes[0].MaxHP-1 {
				t.Errorf("hero HP = %d, want %d", got, s.Heroes[0].MaxHP-1)
			}
		})
	}
}

func TestMonsterMovesButCannotAttack(t *testing.T) {
	e := newTestEngine(t, 1)
	s := villainGame(t, e, []string{"quinn"}, world.Position{X: 3, Y: 7})
	id := addMonster(t, e, &s, "kobold", world.Position{X: 3, Y: 0}, "quinn")

	s = dispatch(t, e, s, Action{Type: ActionActivateMonster})
	if got := s.MonsterByID(id).Position; got != (world.Position{X: 3, Y: 2}) {
		t.Errorf("monster at %s, want (3,2)", got)
	}
	if !logContains(s, "moved but could not attack") {
		t.Errorf("log = %v", s.Log)
	}
	if s.Heroes[0].CurrentHP != s.Heroes[0].MaxHP {
		t.Error("hero took damage from a monster out of reach")
	}
}

func TestRunVillainPhase(t *testing.T) {
	e := newTestEngine(t, 1)
	s := villainGame(t, e, []string{"quinn", "vistra"}, world.Position{X: 3, Y: 7}, world.Position{X: 2, Y: 2})
	a := addMonster(t, e, &s, "kobold", world.Position{X: 3, Y: 5}, "quinn")
	b := addMonster(t, e, &s, "orc-archer", world.Position{X: 1, Y: 1}, "quinn")
	other := addMonster(t, e, &s, "cultist", world.Position{X: 1, Y: 6}, "vistra")

	s = dispatch(t, e, s, Action{Type: ActionRunVillainPhase})

	for _, id := range []string{a, b} {
		if !s.MonsterByID(id).HasActivated {
			t.Errorf("%s did not activate", id)
		}
	}
	if s.MonsterByID(other).HasActivated {
		t.Error("a monster controlled by another hero activated")
	}
	if s.Turn.VillainMonsterIndex != 2 {
		t.Errorf("VillainMonsterIndex = %d, want 2", s.Turn.VillainMonsterIndex)
	}
	dispatch(t, e, s, Action{Type: ActionEndVillainPhase})
}

func TestRunVillainPhaseStopsAtDecision(t *testing.T) {
	e := newTestEngine(t, 1)
	s := villainGame(t, e, []string{"quinn", "vistra"}, world.Position{X: 1, Y: 2}, world.Position{X: 3, Y: 2})
	first := addMonster(t, e, &s, "kobold", world.Position{X: 2, Y: 1}, "quinn")
	second := addMonster(t, e, &s, "cultist", world.Position{X: 3, Y: 6}, "quinn")

	s = dispatch(t, e, s, Action{Type: ActionRunVillainPhase})
	if !s.VillainPhasePaused() {
		t.Fatal("run-villain-phase did not pause on the tie")
	}
	if s.MonsterByID(second).HasActivated {
		t.Error("activation continued past a pending decision")
	}

	d, _ := s.PendingDecision()
	s = dispatch(t, e, s, Action{Type: ActionResolveMonsterDecision, DecisionID: d.DecisionID, HeroID: "quinn"})
	s = dispatch(t, e, s, Action{Type: ActionRunVillainPhase})
	if !s.MonsterByID(first).HasActivated || !s.MonsterByID(second).HasActivated {
		t.Error("villain phase did not finish after the decision")
	}
}

func TestMirrorImageAbsorbsAttacks(t *testing.T) {
	e := newTestEngine(t, 20)
	s := villainGame(t, e, []string{"haskan"}, world.Position{X: 2, Y: 2})
	s.BoardTokens = []entity.BoardToken{{ID: "token-mirror-image-1", Type: gamedata.TokenMirrorImage, OwnerID: "haskan", Position: world.Position{X: 2, Y: 2}, Charges: 2}}
	addMonster(t, e, &s, "kobold", world.Position{X: 2, Y: 1}, "haskan")
	addMonster(t, e, &s, "cultist", world.Position{X: 3, Y: 2}, "haskan")

	s = dispatch(t, e, s, Action{Type: ActionActivateMonster})
	if s.Heroes[0].CurrentHP != s.Heroes[0].MaxHP {
		t.Error("attack was not absorbed by the mirror image")
	}
	if got := s.TokenByID("token-mirror-image-1").Charges; got != 1 {
		t.Errorf("Charges = %d, want 1", got)
	}

	s = dispatch(t, e, s, Action{Type: ActionActivateMonster})
	if s.TokenByID("token-mirror-image-1") != nil {
		t.Error("mirror image with no charges left is still on the board")
	}
	if s.Heroes[0].CurrentHP != s.Heroes[0].MaxHP {
		t.Error("second attack was not absorbed")
	}
}

func TestBladeBarrierStopsMovingMonster(t *testing.T) {
	e := newTestEngine(t, 1)
	s := villainGame(t, e, []string{"quinn"}, world.Position{X: 3, Y: 7})
	s.BoardTokens = []entity.BoardToken{{ID: "token-blade-barrier-1", Type: gamedata.TokenBladeBarrier, OwnerID: "quinn", Position: world.Position{X: 3, Y: 2}, Charges: 1}}
	id := addMonster(t, e, &s, "kobold", world.Position{X: 3, Y: 0}, "quinn")

	s = dispatch(t, e, s, Action{Type: ActionActivateMonster})
	if s.MonsterByID(id) != nil {
		t.Fatal("kobold survived the blade barrier")
	}
	if len(s.BoardTokens) != 0 {
		t.Errorf("BoardTokens = %v, want the barrier used up", s.BoardTokens)
	}
	if s.MonstersDefeated != 1 || s.Party.XP != 1 {
		t.Errorf("MonstersDefeated = %d, XP = %d, want 1 and 1", s.MonstersDefeated, s.Party.XP)
	}
	if got := s.MonsterDeck.DiscardPile; len(got) == 0 || got[len(got)-1] != "kobold" {
		t.Errorf("monster discard pile = %v, want the kobold card", got)
	}
	if s.Turn.TreasureDrawnThisTurn {
		t.Error("treasure drawn outside the hero phase")
	}
}

func TestHeroOutOfPlayIsNotTargeted(t *testing.T) {
	e := newTestEngine(t, 20)
	s := villainGame(t, e, []string{"quinn"}, world.Position{X: 2, Y: 2})
	s.Heroes[0].RemovedFromPlay = true
	id := addMonster(t, e, &s, "kobold", world.Position{X: 3, Y: 2}, "quinn")

	s = dispatch(t, e, s, Action{Type: ActionActivateMonster})
	if s.Heroes[0].CurrentHP != s.Heroes[0].MaxHP || !s.MonsterByID(id).HasActivated {
		t.Error("monster attacked a hero removed from play")
	}
}
