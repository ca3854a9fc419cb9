// Package sqlite provides a SQLite-backed store for saved games and their action logs.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/samdwyer/ashardalon/internal/engine"
	"github.com/samdwyer/ashardalon/internal/storage"
	"github.com/samdwyer/ashardalon/internal/storage/sqlite/migrations"
	"github.com/samdwyer/ashardalon/internal/storage/sqlitemigrate"
)

// Store persists games in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// CreateGame inserts a game header and its initial snapshot at seq 0.
func (s *Store) CreateGame(ctx context.Context, game storage.Game) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	id := strings.TrimSpace(game.ID)
	if id == "" {
		return fmt.Errorf("game id is required")
	}
	setupJSON, err := json.Marshal(game.Setup)
	if err != nil {
		return fmt.Errorf("encode setup: %w", err)
	}
	stateJSON, err := json.Marshal(game.Initial)
	if err != nil {
		return fmt.Errorf("encode initial state: %w", err)
	}
	createdAt := game.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create game: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO games (id, scenario_id, setup_json, initial_state_json, outcome, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		game.Initial.ScenarioID,
		string(setupJSON),
		string(stateJSON),
		string(game.Initial.Outcome),
		toMillis(createdAt),
		toMillis(createdAt),
	); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create game: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO game_snapshots (game_id, seq, state_json, updated_at) VALUES (?, 0, ?, ?)`,
		id, string(stateJSON), toMillis(createdAt),
	); err != nil {
		return fmt.Errorf("create initial snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create game: %w", err)
	}
	return nil
}

// AppendAction stores an accepted action and replaces the game's snapshot with
// the state it produced, in one transaction.
func (s *Store) AppendAction(ctx context.Context, rec storage.ActionRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if rec.Seq <= 0 {
		return fmt.Errorf("action seq must be greater than zero")
	}
	actionJSON, err := json.Marshal(rec.Action)
	if err != nil {
		return fmt.Errorf("encode action: %w", err)
	}
	stateJSON, err := json.Marshal(rec.State)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	now := toMillis(s.now())

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append action: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE games SET outcome = ?, updated_at = ? WHERE id = ?`,
		string(rec.State.Outcome), now, rec.GameID,
	)
	if err != nil {
		return fmt.Errorf("touch game: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO game_actions (game_id, seq, action_type, action_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.GameID, rec.Seq, string(rec.Action.Type), string(actionJSON), now,
	); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert action: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO game_snapshots (game_id, seq, state_json, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(game_id) DO UPDATE SET seq = excluded.seq, state_json = excluded.state_json, updated_at = excluded.updated_at`,
		rec.GameID, rec.Seq, string(stateJSON), now,
	); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append action: %w", err)
	}
	return nil
}

// GetGame returns a game header by ID.
func (s *Store) GetGame(ctx context.Context, id string) (storage.Game, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Game{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, setup_json, initial_state_json, outcome, created_at, updated_at
		   FROM games
		  WHERE id = ?`,
		strings.TrimSpace(id),
	)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Game{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Game{}, fmt.Errorf("get game: %w", err)
	}
	return game, nil
}

// ListGames returns up to limit games, most recently played first.
func (s *Store) ListGames(ctx context.Context, limit int) ([]storage.Game, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, setup_json, initial_state_json, outcome, created_at, updated_at
		   FROM games
		  ORDER BY updated_at DESC, id ASC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []storage.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return games, nil
}

// ListActions returns a game's action log in sequence order.
func (s *Store) ListActions(ctx context.Context, gameID string) ([]engine.Action, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT action_json FROM game_actions WHERE game_id = ? ORDER BY seq ASC`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	actions := []engine.Action{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		var a engine.Action
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, fmt.Errorf("decode action: %w", err)
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return actions, nil
}

// LatestSnapshot returns the most recent stored state of a game.
func (s *Store) LatestSnapshot(ctx context.Context, gameID string) (storage.Snapshot, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Snapshot{}, err
	}
	var (
		snap      = storage.Snapshot{GameID: gameID}
		raw       string
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT seq, state_json, updated_at FROM game_snapshots WHERE game_id = ?`,
		gameID,
	).Scan(&snap.Seq, &raw, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Snapshot{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &snap.State); err != nil {
		return storage.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	snap.UpdatedAt = fromMillis(updatedAt)
	return snap, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (storage.Game, error) {
	var (
		game                 storage.Game
		setupJSON, stateJSON string
		outcome              string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&game.ID, &setupJSON, &stateJSON, &outcome, &createdAt, &updatedAt); err != nil {
		return storage.Game{}, err
	}
	if err := json.Unmarshal([]byte(setupJSON), &game.Setup); err != nil {
		return storage.Game{}, fmt.Errorf("decode setup: %w", err)
	}
	if err := json.Unmarshal([]byte(stateJSON), &game.Initial); err != nil {
		return storage.Game{}, fmt.Errorf("decode initial state: %w", err)
	}
	game.Outcome = engine.Outcome(outcome)
	game.CreatedAt = fromMillis(createdAt)
	game.UpdatedAt = fromMillis(updatedAt)
	return game, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
