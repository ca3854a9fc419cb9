// Package storage defines persistence records for saved games.
package storage

import (
	"errors"
	"time"

	"github.com/samdwyer/ashardalon/internal/engine"
)

var (
	// ErrNotFound indicates a requested game record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a game or action sequence number is already stored.
	ErrAlreadyExists = errors.New("record already exists")
)

// Game is a saved game header: how it was dealt and the state it started from.
type Game struct {
	ID        string
	Setup     engine.Setup
	Initial   engine.GameState
	Outcome   engine.Outcome
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActionRecord is one accepted action and the state it produced.
// Seq starts at 1 and has no gaps within a game.
type ActionRecord struct {
	GameID string
	Seq    int
	Action engine.Action
	State  engine.GameState
}

// Snapshot is the latest stored state of a game.
type Snapshot struct {
	GameID    string
	Seq       int
	State     engine.GameState
	UpdatedAt time.Time
}
