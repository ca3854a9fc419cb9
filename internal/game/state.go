// Package game runs a game session: it serializes actions through the rules
// engine, persists them and drives the terminal view.
package game

import "github.com/samdwyer/ashardalon/internal/engine"

// Prompt is what the terminal is waiting for the player to do.
type Prompt int

const (
	// PromptHeroTurn is the active hero's move and attack step.
	PromptHeroTurn Prompt = iota
	// PromptExploration waits for the exploration phase to be ended.
	PromptExploration
	// PromptEncounter waits for the drawn encounter to be accepted or cancelled.
	PromptEncounter
	// PromptVillain waits for monsters to activate and the villain phase to end.
	PromptVillain
	// PromptDecision waits for a monster decision to be resolved.
	PromptDecision
	// PromptGameOver accepts no game actions.
	PromptGameOver
)

// PromptFor derives the prompt from a game state.
func PromptFor(s engine.GameState) Prompt {
	switch {
	case s.Outcome != engine.OutcomeInProgress && s.Outcome != "":
		return PromptGameOver
	case s.Mode.Awaiting():
		return PromptDecision
	case s.DrawnEncounter != "":
		return PromptEncounter
	}
	switch s.Turn.CurrentPhase {
	case engine.PhaseExploration:
		return PromptExploration
	case engine.PhaseVillain:
		return PromptVillain
	default:
		return PromptHeroTurn
	}
}

// String returns a human-readable prompt name.
func (p Prompt) String() string {
	switch p {
	case PromptHeroTurn:
		return "hero turn"
	case PromptExploration:
		return "exploration"
	case PromptEncounter:
		return "encounter"
	case PromptVillain:
		return "villain"
	case PromptDecision:
		return "decision"
	case PromptGameOver:
		return "game over"
	default:
		return "unknown"
	}
}
