package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/samdwyer/ashardalon/internal/engine"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "ashardalon.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func newGame(t *testing.T) (*engine.Engine, storage.Game) {
	t.Helper()

	eng := engine.New(gamedata.MustLoadCatalog())
	setup := engine.Setup{HeroIDs: []string{"quinn", "vistra"}, Seed: 42}
	state, err := eng.NewGame(context.Background(), setup)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return eng, storage.Game{
		ID:        "game-1",
		Setup:     setup,
		Initial:   state,
		CreatedAt: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenTwiceKeepsSchema(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reopen.db")
	for i := 0; i < 2; i++ {
		store, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("open %d: %v", i+1, err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("close %d: %v", i+1, err)
		}
	}
}

func TestCreateGetGameRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, game := newGame(t)
	ctx := context.Background()

	if err := store.CreateGame(ctx, game); err != nil {
		t.Fatalf("create game: %v", err)
	}
	got, err := store.GetGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if got.ID != game.ID {
		t.Errorf("id = %q, want %q", got.ID, game.ID)
	}
	if got.Setup.Seed != game.Setup.Seed || len(got.Setup.HeroIDs) != 2 {
		t.Errorf("setup = %+v, want %+v", got.Setup, game.Setup)
	}
	if got.Initial.Seed != game.Initial.Seed || len(got.Initial.Heroes) != 2 {
		t.Errorf("initial state not restored: seed %d heroes %d", got.Initial.Seed, len(got.Initial.Heroes))
	}
	if got.Outcome != engine.OutcomeInProgress {
		t.Errorf("outcome = %q, want %q", got.Outcome, engine.OutcomeInProgress)
	}
	if !got.CreatedAt.Equal(game.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, game.CreatedAt)
	}

	snap, err := store.LatestSnapshot(ctx, game.ID)
	if err != nil {
		t.Fatalf("latest snapshot: %v", err)
	}
	if snap.Seq != 0 {
		t.Errorf("initial snapshot seq = %d, want 0", snap.Seq)
	}
}

func TestCreateGameReturnsAlreadyExistsOnDuplicate(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, game := newGame(t)
	if err := store.CreateGame(context.Background(), game); err != nil {
		t.Fatalf("create game: %v", err)
	}
	err := store.CreateGame(context.Background(), game)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate create error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestGetGameNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if _, err := store.GetGame(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("get missing game error = %v, want %v", err, storage.ErrNotFound)
	}
	if _, err := store.LatestSnapshot(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing snapshot error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestAppendActionAndReplay(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	eng, game := newGame(t)
	ctx := context.Background()
	if err := store.CreateGame(ctx, game); err != nil {
		t.Fatalf("create game: %v", err)
	}

	actions := []engine.Action{
		{Type: engine.ActionShowMovement},
		{Type: engine.ActionHideMovement},
		{Type: engine.ActionEndHeroPhase},
	}
	state := game.Initial
	for i, a := range actions {
		next, err := eng.Dispatch(ctx, state, a)
		if err != nil {
			t.Fatalf("dispatch %s: %v", a.Type, err)
		}
		state = next
		if err := store.AppendAction(ctx, storage.ActionRecord{GameID: game.ID, Seq: i + 1, Action: a, State: state}); err != nil {
			t.Fatalf("append action %d: %v", i+1, err)
		}
	}

	logged, err := store.ListActions(ctx, game.ID)
	if err != nil {
		t.Fatalf("list actions: %v", err)
	}
	if len(logged) != len(actions) {
		t.Fatalf("logged actions = %d, want %d", len(logged), len(actions))
	}
	for i := range actions {
		if logged[i].Type != actions[i].Type {
			t.Errorf("action %d = %s, want %s", i, logged[i].Type, actions[i].Type)
		}
	}

	snap, err := store.LatestSnapshot(ctx, game.ID)
	if err != nil {
		t.Fatalf("latest snapshot: %v", err)
	}
	if snap.Seq != len(actions) {
		t.Errorf("snapshot seq = %d, want %d", snap.Seq, len(actions))
	}

	replayed, err := eng.Replay(ctx, game.Initial, logged)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if replayed.Seed != snap.State.Seed || replayed.Turn != snap.State.Turn {
		t.Errorf("replayed turn %+v seed %d, want turn %+v seed %d",
			replayed.Turn, replayed.Seed, snap.State.Turn, snap.State.Seed)
	}
}

func TestAppendActionRejectsDuplicateSeq(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, game := newGame(t)
	ctx := context.Background()
	if err := store.CreateGame(ctx, game); err != nil {
		t.Fatalf("create game: %v", err)
	}
	rec := storage.ActionRecord{GameID: game.ID, Seq: 1, Action: engine.Action{Type: engine.ActionShowMovement}, State: game.Initial}
	if err := store.AppendAction(ctx, rec); err != nil {
		t.Fatalf("append action: %v", err)
	}
	if err := store.AppendAction(ctx, rec); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("duplicate seq error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestAppendActionUnknownGame(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	rec := storage.ActionRecord{GameID: "nope", Seq: 1, Action: engine.Action{Type: engine.ActionShowMovement}}
	if err := store.AppendAction(context.Background(), rec); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("append to unknown game error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestListGamesMostRecentFirst(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, game := newGame(t)
	ctx := context.Background()

	older := game
	older.ID = "older"
	newer := game
	newer.ID = "newer"
	newer.CreatedAt = game.CreatedAt.Add(time.Hour)
	for _, g := range []storage.Game{older, newer} {
		if err := store.CreateGame(ctx, g); err != nil {
			t.Fatalf("create %s: %v", g.ID, err)
		}
	}

	games, err := store.ListGames(ctx, 10)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 2 || games[0].ID != "newer" || games[1].ID != "older" {
		t.Errorf("list games = %v, want [newer older]", gameIDs(games))
	}
	if _, err := store.ListGames(ctx, 0); err == nil {
		t.Error("ListGames(0) error = nil, want error")
	}
}

func gameIDs(games []storage.Game) []string {
	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	return ids
}
