package engine

import (
	"testing"

	"github.com/samdwyer/ashardalon/internal/combat"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/world"
)

func statusOf(typ gamedata.StatusType) combat.Status {
	return combat.Status{Type: typ, Source: string(typ)}
}

func TestCurseRemovalRoll(t *testing.T) {
	tests := []struct {
		roll        int
		wantRemoved bool
		wantLog     string
	}{
		{10, true, "Quinn rolled 10: removed Cage curse"},
		{20, true, "Quinn rolled 20: removed Cage curse"},
		{9, false, "Quinn rolled 9: failed to remove Cage curse (need 10+)"},
		{1, false, "Quinn rolled 1: failed to remove Cage curse (need 10+)"},
	}
	for _, tt := range tests {
		e := newTestEngine(t, tt.roll)
		s := newTestGame(t, e, "quinn", "vistra")
		s.Turn.CurrentPhase = PhaseVillain
		s.Heroes[0].Statuses = s.Heroes[0].Statuses.Apply(statusOf(gamedata.CurseCage))

		s = dispatch(t, e, s, Action{Type: ActionEndVillainPhase})

		if got := s.Heroes[0].HasStatus(gamedata.CurseCage); got == tt.wantRemoved {
			t.Errorf("roll %d: cage present = %v, want %v", tt.roll, got, !tt.wantRemoved)
		}
		if !logContains(s, tt.wantLog) {
			t.Errorf("roll %d: log = %v, want %q", tt.roll, s.Log, tt.wantLog)
		}
	}
}

func TestCurseRemovalSkipsUnrollableCurses(t *testing.T) {
	e := newTestEngine(t, 20)
	s := newTestGame(t, e, "quinn", "vistra")
	s.Turn.CurrentPhase = PhaseVillain
	s.Heroes[0].Statuses = s.Heroes[0].Statuses.
		Apply(statusOf(gamedata.CurseGapInArmor)).
		Apply(statusOf(gamedata.CurseBloodlust))

	s = dispatch(t, e, s, Action{Type: ActionEndVillainPhase})
	if !s.Heroes[0].HasStatus(gamedata.CurseGapInArmor) || !s.Heroes[0].HasStatus(gamedata.CurseBloodlust) {
		t.Error("a curse without a removal roll was rolled off")
	}
}

func TestStartOfTurnStatuses(t *testing.T) {
	tests := []struct {
		name       string
		status     combat.Status
		roll       int
		wantDamage int
		wantKept   bool
	}{
		{"poison stays on a low roll", statusOf(gamedata.StatusPoisoned), 5, 1, true},
		{"poison recovers on 10+", statusOf(gamedata.StatusPoisoned), 10, 1, false},
		{"bloodlust", statusOf(gamedata.CurseBloodlust), 1, 1, true},
		{"ongoing damage", combat.Status{Type: gamedata.StatusOngoingDamage, Source: "fire", Damage: 2}, 1, 2, true},
		{"timed daze expires", combat.Status{Type: gamedata.StatusDazed, Source: "grell", Duration: 1}, 1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, tt.roll)
			s := newTestGame(t, e, "quinn")
			s.Turn.CurrentPhase = PhaseVillain
			s.Heroes[0].Statuses = s.Heroes[0].Statuses.Apply(tt.status)

			s = dispatch(t, e, s, Action{Type: ActionEndVillainPhase})

			h := s.Heroes[0]
			if got := h.MaxHP - h.CurrentHP; got != tt.wantDamage {
				t.Errorf("damage = %d, want %d", got, tt.wantDamage)
			}
			if got := h.HasStatus(tt.status.Type); got != tt.wantKept {
				t.Errorf("has %s = %v, want %v", tt.status.Type, got, tt.wantKept)
			}
		})
	}
}

func TestWrathOfTheEnemyPullsClosestMonster(t *testing.T) {
	e := newTestEngine(t, 1)
	s := newTestGame(t, e, "quinn")
	s.Turn.CurrentPhase = PhaseExploration
	s.Turn.ExploredThisTurn, s.Turn.DrewOnlyWhiteTilesThisTurn = true, true
	s.Heroes[0].Statuses = s.Heroes[0].Statuses.Apply(statusOf(gamedata.CurseWrathOfTheEnemy))
	near := addMonster(t, e, &s, "kobold", world.Position{X: 3, Y: 5}, "quinn")
	far := addMonster(t, e, &s, "cultist", world.Position{X: 3, Y: 7}, "quinn")

	s = dispatch(t, e, s, Action{Type: ActionEndExplorationPhase})

	if got := s.MonsterByID(near).Position; !world.Adjacent(got, s.Heroes[0].Position) {
		t.Errorf("closest monster at %s, want adjacent to %s", got, s.Heroes[0].Position)
	}
	if got := s.MonsterByID(far).Position; got != (world.Position{X: 3, Y: 7}) {
		t.Errorf("farther monster moved to %s", got)
	}
}

func TestHighAlertPassesMonster(t *testing.T) {
	e := newTestEngine(t, 1)
	s := newTestGame(t, e, "quinn", "vistra")
	s.ActiveEnvironmentID = "high-alert"
	s.Turn.CurrentPhase = PhaseVillain
	id := addMonster(t, e, &s, "kobold", world.Position{X: 3, Y: 7}, "quinn")
	s.Monsters[0].HasActivated = true

	s = dispatch(t, e, s, Action{Type: ActionEndVillainPhase})
	if got := s.MonsterByID(id).ControllerID; got != "vistra" {
		t.Errorf("ControllerID = %q, want vistra", got)
	}
}

func TestEnvironmentModifiers(t *testing.T) {
	e := newTestEngine(t, 1)
	s := newTestGame(t, e, "quinn")
	base := dispatch(t, e, s, Action{Type: ActionShowMovement})

	s.ActiveEnvironmentID = "thick-rubble"
	rubble := dispatch(t, e, s, Action{Type: ActionShowMovement})
	if len(rubble.Movement.ValidMoveSquares) > len(base.Movement.ValidMoveSquares) {
		t.Error("thick rubble increased the move range")
	}

	s.ActiveEnvironmentID = "unbearable-heat"
	s.Turn.CurrentPhase = PhaseExploration
	s.Turn.ExploredThisTurn, s.Turn.DrewOnlyWhiteTilesThisTurn = true, true
	s = dispatch(t, e, s, Action{Type: ActionEndExplorationPhase})
	if got := s.Heroes[0].MaxHP - s.Heroes[0].CurrentHP; got != 1 {
		t.Errorf("unbearable heat dealt %d damage, want 1", got)
	}
}
