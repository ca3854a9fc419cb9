package game

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/samdwyer/ashardalon/internal/engine"
	"github.com/samdwyer/ashardalon/internal/game/mocks"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/storage"
)

var testSetup = engine.Setup{HeroIDs: []string{"quinn", "vistra"}, Seed: 11}

func newTestSession(t *testing.T, repo Repository) *Session {
	t.Helper()
	eng := engine.New(gamedata.MustLoadCatalog())
	s, err := NewSession(context.Background(), eng, repo, zap.NewNop(), testSetup)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

func TestNewSessionStoresGame(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	var saved storage.Game
	repo.EXPECT().CreateGame(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, g storage.Game) error {
			saved = g
			return nil
		})

	s := newTestSession(t, repo)
	if saved.ID != s.ID() || saved.ID == "" {
		t.Errorf("saved ID = %q, session ID = %q", saved.ID, s.ID())
	}
	if saved.Setup.Seed != testSetup.Seed || len(saved.Initial.Heroes) != 2 {
		t.Errorf("saved game = %+v", saved.Setup)
	}
}

func TestNewSessionRejectsBadSetup(t *testing.T) {
	eng := engine.New(gamedata.MustLoadCatalog())
	_, err := NewSession(context.Background(), eng, nil, nil, engine.Setup{HeroIDs: []string{"nobody"}})
	if !errors.Is(err, engine.ErrInvalidAction) {
		t.Errorf("NewSession() error = %v, want %v", err, engine.ErrInvalidAction)
	}
}

func TestSessionDispatchPersistsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().CreateGame(gomock.Any(), gomock.Any()).Return(nil)

	var seqs []int
	repo.EXPECT().AppendAction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec storage.ActionRecord) error {
			seqs = append(seqs, rec.Seq)
			return nil
		}).Times(2)

	s := newTestSession(t, repo)
	ctx := context.Background()
	if _, err := s.Dispatch(ctx, engine.Action{Type: engine.ActionShowMovement}); err != nil {
		t.Fatalf("show-movement: %v", err)
	}
	got, err := s.Dispatch(ctx, engine.Action{Type: engine.ActionEndHeroPhase})
	if err != nil {
		t.Fatalf("end-hero-phase: %v", err)
	}

	if got.Turn.CurrentPhase != engine.PhaseExploration {
		t.Errorf("phase = %s, want %s", got.Turn.CurrentPhase, engine.PhaseExploration)
	}
	if len(seqs) != 2 || seqs[0] != 1 || seqs[1] != 2 {
		t.Errorf("persisted seqs = %v, want [1 2]", seqs)
	}
}

func TestSessionRejectedActionIsNotPersisted(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().CreateGame(gomock.Any(), gomock.Any()).Return(nil)
	// No AppendAction expectation: a call would fail the test.

	s := newTestSession(t, repo)
	before := s.Snapshot()

	_, err := s.Dispatch(context.Background(), engine.Action{Type: engine.ActionEndVillainPhase})
	if code := engine.CodeOf(err); code != engine.CodeIllegalTransition {
		t.Fatalf("Dispatch() code = %q, want %q", code, engine.CodeIllegalTransition)
	}
	if after := s.Snapshot(); after.Turn != before.Turn || after.Seed != before.Seed {
		t.Errorf("state changed after a rejected action")
	}
}

func TestSessionPersistFailureKeepsState(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().CreateGame(gomock.Any(), gomock.Any()).Return(nil)

	diskFull := errors.New("disk full")
	gomock.InOrder(
		repo.EXPECT().AppendAction(gomock.Any(), gomock.Any()).Return(diskFull),
		repo.EXPECT().AppendAction(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, rec storage.ActionRecord) error {
				if rec.Seq != 1 {
					t.Errorf("retry seq = %d, want 1", rec.Seq)
				}
				return nil
			}),
	)

	s := newTestSession(t, repo)
	action := engine.Action{Type: engine.ActionEndHeroPhase}

	if _, err := s.Dispatch(context.Background(), action); !errors.Is(err, diskFull) {
		t.Fatalf("Dispatch() error = %v, want %v", err, diskFull)
	}
	if got := s.Snapshot().Turn.CurrentPhase; got != engine.PhaseHero {
		t.Errorf("phase after failed save = %s, want %s", got, engine.PhaseHero)
	}
	if _, err := s.Dispatch(context.Background(), action); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestSessionSubscribe(t *testing.T) {
	s := newTestSession(t, nil)
	ch, cancel := s.Subscribe()
	defer cancel()

	initial := <-ch
	if initial.Turn.CurrentPhase != engine.PhaseHero {
		t.Fatalf("initial phase = %s, want %s", initial.Turn.CurrentPhase, engine.PhaseHero)
	}

	// Two actions without reading: only the latest state is kept.
	ctx := context.Background()
	if _, err := s.Dispatch(ctx, engine.Action{Type: engine.ActionShowMovement}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Dispatch(ctx, engine.Action{Type: engine.ActionEndHeroPhase}); err != nil {
		t.Fatal(err)
	}
	latest := <-ch
	if latest.Turn.CurrentPhase != engine.PhaseExploration {
		t.Errorf("latest phase = %s, want %s", latest.Turn.CurrentPhase, engine.PhaseExploration)
	}

	cancel()
	if _, ok := <-ch; ok {
		t.Error("channel still open after unsubscribe")
	}
	cancel()
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestSession(t, nil)
	snap := s.Snapshot()
	snap.Heroes[0].CurrentHP = -100
	snap.Log = append(snap.Log, "tampered")

	if got := s.Snapshot(); got.Heroes[0].CurrentHP == -100 || len(got.Log) == len(snap.Log) {
		t.Error("mutating a snapshot changed the session state")
	}
}

func TestResumeSessionReplaysLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	eng := engine.New(gamedata.MustLoadCatalog())
	ctx := context.Background()

	initial, err := eng.NewGame(ctx, testSetup)
	if err != nil {
		t.Fatal(err)
	}
	actions := []engine.Action{
		{Type: engine.ActionEndHeroPhase},
		{Type: engine.ActionEndExplorationPhase},
	}
	repo.EXPECT().GetGame(gomock.Any(), "game-7").Return(storage.Game{ID: "game-7", Setup: testSetup, Initial: initial}, nil)
	repo.EXPECT().ListActions(gomock.Any(), "game-7").Return(actions, nil)
	repo.EXPECT().LatestSnapshot(gomock.Any(), "game-7").Return(storage.Snapshot{}, storage.ErrNotFound)

	s, err := ResumeSession(ctx, eng, repo, zap.NewNop(), "game-7")
	if err != nil {
		t.Fatalf("ResumeSession() error = %v", err)
	}
	if s.ID() != "game-7" {
		t.Errorf("ID = %q, want game-7", s.ID())
	}
	want, err := eng.Replay(ctx, initial, actions)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot(); got.Turn != want.Turn || got.Seed != want.Seed {
		t.Errorf("resumed turn %+v, want %+v", got.Turn, want.Turn)
	}

	repo.EXPECT().AppendAction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec storage.ActionRecord) error {
			if rec.Seq != 3 {
				t.Errorf("next seq = %d, want 3", rec.Seq)
			}
			return nil
		})
	if _, err := s.Dispatch(ctx, engine.Action{Type: engine.ActionHideMovement}); err != nil {
		t.Fatalf("dispatch after resume: %v", err)
	}
}

func TestResumeSessionErrors(t *testing.T) {
	eng := engine.New(gamedata.MustLoadCatalog())
	ctx := context.Background()
	initial, err := eng.NewGame(ctx, testSetup)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		prepare func(repo *mocks.MockRepository)
		want    error
	}{
		{
			name: "missing game",
			prepare: func(repo *mocks.MockRepository) {
				repo.EXPECT().GetGame(gomock.Any(), "g").Return(storage.Game{}, storage.ErrNotFound)
			},
			want: storage.ErrNotFound,
		},
		{
			name: "log no longer replays",
			prepare: func(repo *mocks.MockRepository) {
				repo.EXPECT().GetGame(gomock.Any(), "g").Return(storage.Game{ID: "g", Initial: initial}, nil)
				repo.EXPECT().ListActions(gomock.Any(), "g").Return([]engine.Action{{Type: engine.ActionEndVillainPhase}}, nil)
			},
			want: engine.ErrIllegalTransition,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockRepository(ctrl)
			tt.prepare(repo)

			if _, err := ResumeSession(ctx, eng, repo, nil, "g"); !errors.Is(err, tt.want) {
				t.Errorf("ResumeSession() error = %v, want %v", err, tt.want)
			}
		})
	}
}
