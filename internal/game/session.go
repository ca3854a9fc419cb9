package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samdwyer/ashardalon/internal/engine"
	"github.com/samdwyer/ashardalon/internal/storage"
)

//go:generate go tool mockgen -destination=./mocks/repository_mock.go -package=mocks . Repository

// Repository persists a game's header, action log and latest snapshot.
type Repository interface {
	CreateGame(ctx context.Context, game storage.Game) error
	AppendAction(ctx context.Context, rec storage.ActionRecord) error
	GetGame(ctx context.Context, id string) (storage.Game, error)
	ListActions(ctx context.Context, gameID string) ([]engine.Action, error)
	LatestSnapshot(ctx context.Context, gameID string) (storage.Snapshot, error)
}

// Session owns one running game. It serializes dispatches, persists every
// accepted action and fans the new state out to subscribers.
type Session struct {
	mu     sync.Mutex
	id     string
	engine *engine.Engine
	repo   Repository
	logger *zap.Logger

	state engine.GameState
	seq   int

	subs    map[int]chan engine.GameState
	nextSub int
}

// NewSession deals a new game and stores it. A nil repo keeps the game in memory only.
func NewSession(ctx context.Context, eng *engine.Engine, repo Repository, logger *zap.Logger, setup engine.Setup) (*Session, error) {
	state, err := eng.NewGame(ctx, setup)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	s := newSession(uuid.NewString(), eng, repo, logger, state, 0)
	if repo != nil {
		if err := repo.CreateGame(ctx, storage.Game{ID: s.id, Setup: setup, Initial: state}); err != nil {
			return nil, fmt.Errorf("save new game: %w", err)
		}
	}
	s.logger.Info("game created",
		zap.String("scenario", state.ScenarioID),
		zap.Strings("heroes", setup.HeroIDs),
		zap.Uint32("seed", setup.Seed),
	)
	return s, nil
}

// ResumeSession rebuilds a saved game by replaying its action log from the
// initial state. The stored snapshot is only used to detect divergence.
func ResumeSession(ctx context.Context, eng *engine.Engine, repo Repository, logger *zap.Logger, id string) (*Session, error) {
	if repo == nil {
		return nil, fmt.Errorf("resume %s: no repository", id)
	}
	game, err := repo.GetGame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	actions, err := repo.ListActions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load actions for %s: %w", id, err)
	}
	state, err := eng.Replay(ctx, game.Initial, actions)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", id, err)
	}

	s := newSession(id, eng, repo, logger, state, len(actions))
	snap, err := repo.LatestSnapshot(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		s.logger.Warn("could not load snapshot", zap.Error(err))
	case snap.Seq != len(actions) || snap.State.Seed != state.Seed:
		s.logger.Warn("replayed state differs from stored snapshot",
			zap.Int("snapshot_seq", snap.Seq),
			zap.Int("actions", len(actions)),
		)
	}
	s.logger.Info("game resumed", zap.Int("actions", len(actions)), zap.String("phase", string(state.Turn.CurrentPhase)))
	return s, nil
}

func newSession(id string, eng *engine.Engine, repo Repository, logger *zap.Logger, state engine.GameState, seq int) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		id:     id,
		engine: eng,
		repo:   repo,
		logger: logger.With(zap.String("game_id", id)),
		state:  state,
		seq:    seq,
		subs:   make(map[int]chan engine.GameState),
	}
}

// ID returns the game ID.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() engine.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies an action. Rejected actions leave the game untouched and
// return the engine's *engine.Error. An action is only committed once it is stored.
func (s *Session) Dispatch(ctx context.Context, action engine.Action) (engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.engine.Dispatch(ctx, s.state, action)
	if err != nil {
		s.logger.Info("action rejected",
			zap.String("action", string(action.Type)),
			zap.String("code", string(engine.CodeOf(err))),
			zap.Error(err),
		)
		return s.state.Clone(), err
	}

	if s.repo != nil {
		rec := storage.ActionRecord{GameID: s.id, Seq: s.seq + 1, Action: action, State: next}
		if err := s.repo.AppendAction(ctx, rec); err != nil {
			s.logger.Error("persist action", zap.String("action", string(action.Type)), zap.Error(err))
			return s.state.Clone(), fmt.Errorf("persist %s: %w", action.Type, err)
		}
	}

	s.state = next
	s.seq++
	s.logger.Debug("action applied",
		zap.String("action", string(action.Type)),
		zap.Int("seq", s.seq),
		zap.String("phase", string(next.Turn.CurrentPhase)),
		zap.Bool("paused", next.VillainPhasePaused()),
	)
	if next.Outcome != engine.OutcomeInProgress {
		s.logger.Info("game over", zap.String("outcome", string(next.Outcome)))
	}
	s.broadcast()
	return next.Clone(), nil
}

// Subscribe returns a channel that receives the current state immediately and
// then the latest state after each accepted action. A slow reader only misses
// intermediate states. Call the returned func to unsubscribe.
func (s *Session) Subscribe() (<-chan engine.GameState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan engine.GameState, 1)
	ch <- s.state.Clone()
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// broadcast must be called with mu held.
func (s *Session) broadcast() {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s.state.Clone()
	}
}
