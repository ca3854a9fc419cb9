package engine

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/samdwyer/ashardalon/internal/entity"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/world"
)

// maxLogEntries bounds the message log carried in the state.
const maxLogEntries = 50

// Phase is one step of the turn cycle.
type Phase string

const (
	PhaseHero        Phase = "hero-phase"
	PhaseExploration Phase = "exploration-phase"
	PhaseVillain     Phase = "villain-phase"
)

// Next returns the phase that follows p in the cycle.
func (p Phase) Next() Phase {
	switch p {
	case PhaseHero:
		return PhaseExploration
	case PhaseExploration:
		return PhaseVillain
	default:
		return PhaseHero
	}
}

// Outcome is the result of the adventure so far.
type Outcome string

const (
	OutcomeInProgress Outcome = "in-progress"
	OutcomeVictory    Outcome = "victory"
	OutcomeDefeat     Outcome = "defeat"
)

// TurnState tracks whose turn it is and what has happened during it.
type TurnState struct {
	CurrentPhase               Phase `json:"currentPhase"`
	CurrentHeroIndex           int   `json:"currentHeroIndex"`
	TurnNumber                 int   `json:"turnNumber"`
	ExploredThisTurn           bool  `json:"exploredThisTurn"`
	DrewOnlyWhiteTilesThisTurn bool  `json:"drewOnlyWhiteTilesThisTurn"`
	VillainMonsterIndex        int   `json:"villainMonsterIndex"`
	TreasureDrawnThisTurn      bool  `json:"treasureDrawnThisTurn"`
}

// ActionKind is a hero-phase action counted against the two-action limit.
type ActionKind string

const (
	ActionMove   ActionKind = "move"
	ActionAttack ActionKind = "attack"
)

// HeroActions records the active hero's actions this hero phase.
type HeroActions struct {
	ActionsTaken []ActionKind `json:"actionsTaken"`
	CanMove      bool         `json:"canMove"`
	CanAttack    bool         `json:"canAttack"`
}

// MovementState holds the movement overlay for the active hero.
// ValidMoveSquares is empty whenever ShowingMovement is false.
type MovementState struct {
	ShowingMovement  bool             `json:"showingMovement"`
	ValidMoveSquares []world.Position `json:"validMoveSquares"`
	MovedThisTurn    bool             `json:"movedThisTurn"`
}

// Counters mint deterministic IDs.
type Counters struct {
	Monster  int `json:"monster"`
	Token    int `json:"token"`
	Trap     int `json:"trap"`
	Decision int `json:"decision"`
}

// GameState is the aggregate root of a game. It is plain data and round-trips through JSON.
type GameState struct {
	ScenarioID string `json:"scenarioId"`

	Turn        TurnState     `json:"turn"`
	HeroActions HeroActions   `json:"heroActions"`
	Movement    MovementState `json:"movement"`

	Heroes      []entity.Hero       `json:"heroes"`
	Monsters    []entity.Monster    `json:"monsters"`
	BoardTokens []entity.BoardToken `json:"boardTokens"`
	Traps       []entity.Trap       `json:"traps"`
	Party       entity.Party        `json:"party"`

	Dungeon       world.Dungeon `json:"dungeon"`
	MonsterDeck   entity.Deck   `json:"monsterDeck"`
	EncounterDeck entity.Deck   `json:"encounterDeck"`
	TreasureDeck  entity.Deck   `json:"treasureDeck"`

	DrawnEncounter               string `json:"drawnEncounter"`
	ActiveEnvironmentID          string `json:"activeEnvironmentId"`
	BadLuckExtraEncounterPending bool   `json:"badLuckExtraEncounterPending"`
	EncounterEffectMessage       string `json:"encounterEffectMessage"`

	Mode Mode `json:"mode"`

	SelectedTargetID   string `json:"selectedTargetId"`
	SelectedTargetType string `json:"selectedTargetType"`

	Outcome          Outcome `json:"outcome"`
	MonstersDefeated int     `json:"monstersDefeated"`
	MonstersToDefeat int     `json:"monstersToDefeat"`

	LastMessage string   `json:"lastMessage"`
	Log         []string `json:"log"`

	Counters Counters `json:"counters"`
	Seed     uint32   `json:"seed"`
}

// VillainPhasePaused reports whether monster activation is waiting on a player decision.
func (s *GameState) VillainPhasePaused() bool {
	return s.Mode.Awaiting()
}

// PendingDecision returns the decision the game is waiting on, if any.
func (s *GameState) PendingDecision() (MonsterDecision, bool) {
	return s.Mode.Decision()
}

// ActiveHero returns the hero whose turn it is.
func (s *GameState) ActiveHero() *entity.Hero {
	if s.Turn.CurrentHeroIndex < 0 || s.Turn.CurrentHeroIndex >= len(s.Heroes) {
		return nil
	}
	return &s.Heroes[s.Turn.CurrentHeroIndex]
}

// HeroByID returns the hero with the given ID, or nil.
func (s *GameState) HeroByID(id string) *entity.Hero {
	for i := range s.Heroes {
		if s.Heroes[i].HeroID == id {
			return &s.Heroes[i]
		}
	}
	return nil
}

// MonsterByID returns the monster instance with the given ID, or nil.
func (s *GameState) MonsterByID(id string) *entity.Monster {
	for i := range s.Monsters {
		if s.Monsters[i].InstanceID == id {
			return &s.Monsters[i]
		}
	}
	return nil
}

// TokenByID returns the board token with the given ID, or nil.
func (s *GameState) TokenByID(id string) *entity.BoardToken {
	for i := range s.BoardTokens {
		if s.BoardTokens[i].ID == id {
			return &s.BoardTokens[i]
		}
	}
	return nil
}

// HeroAt returns the in-play hero standing on p, or nil.
func (s *GameState) HeroAt(p world.Position) *entity.Hero {
	for i := range s.Heroes {
		if s.Heroes[i].Position == p && !s.Heroes[i].RemovedFromPlay {
			return &s.Heroes[i]
		}
	}
	return nil
}

// MonsterAt returns the monster standing on p, or nil.
func (s *GameState) MonsterAt(p world.Position) *entity.Monster {
	for i := range s.Monsters {
		if s.Monsters[i].Position == p {
			return &s.Monsters[i]
		}
	}
	return nil
}

// TokenAt returns the first board token of the given type on p, or nil.
func (s *GameState) TokenAt(p world.Position, typ gamedata.TokenType) *entity.BoardToken {
	for i := range s.BoardTokens {
		if s.BoardTokens[i].Position == p && s.BoardTokens[i].Type == typ {
			return &s.BoardTokens[i]
		}
	}
	return nil
}

// Occupied reports whether a hero or monster stands on p.
func (s *GameState) Occupied(p world.Position) bool {
	return s.HeroAt(p) != nil || s.MonsterAt(p) != nil
}

// Clone returns a deep copy of the state.
func (s GameState) Clone() GameState {
	out := s
	out.HeroActions.ActionsTaken = slices.Clone(s.HeroActions.ActionsTaken)
	out.Movement.ValidMoveSquares = slices.Clone(s.Movement.ValidMoveSquares)
	out.Heroes = make([]entity.Hero, len(s.Heroes))
	for i, h := range s.Heroes {
		out.Heroes[i] = h.Clone()
	}
	out.Monsters = slices.Clone(s.Monsters)
	out.BoardTokens = slices.Clone(s.BoardTokens)
	out.Traps = slices.Clone(s.Traps)
	out.Dungeon = s.Dungeon.Clone()
	out.MonsterDeck = s.MonsterDeck.Clone()
	out.EncounterDeck = s.EncounterDeck.Clone()
	out.TreasureDeck = s.TreasureDeck.Clone()
	out.Mode = s.Mode.clone()
	out.Log = slices.Clone(s.Log)
	return out
}

// =============================================================================
// Mode
// =============================================================================

// ModeKind tags the Mode variant.
type ModeKind string

const (
	ModeIdle             ModeKind = "idle"
	ModeAwaitingDecision ModeKind = "awaiting-decision"
)

// Mode is either Idle or AwaitingDecision. The decision is only reachable through
// the awaiting variant, so a pending decision without a pause cannot be built.
type Mode struct {
	decision *MonsterDecision
}

// Idle returns the idle mode.
func Idle() Mode { return Mode{} }

// AwaitingDecision returns a mode paused on d.
func AwaitingDecision(d MonsterDecision) Mode {
	return Mode{decision: &d}
}

// Kind returns the variant tag.
func (m Mode) Kind() ModeKind {
	if m.decision != nil {
		return ModeAwaitingDecision
	}
	return ModeIdle
}

// Awaiting reports whether the mode is AwaitingDecision.
func (m Mode) Awaiting() bool { return m.decision != nil }

// Decision returns the pending decision.
func (m Mode) Decision() (MonsterDecision, bool) {
	if m.decision == nil {
		return MonsterDecision{}, false
	}
	return m.decision.clone(), true
}

func (m Mode) clone() Mode {
	if m.decision == nil {
		return Mode{}
	}
	d := m.decision.clone()
	return Mode{decision: &d}
}

type modeJSON struct {
	Kind               ModeKind         `json:"kind"`
	Decision           *MonsterDecision `json:"decision,omitempty"`
	VillainPhasePaused bool             `json:"villainPhasePaused"`
}

// MarshalJSON encodes the mode as {"kind": ..., "decision": ...}.
func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(modeJSON{Kind: m.Kind(), Decision: m.decision, VillainPhasePaused: m.Awaiting()})
}

// UnmarshalJSON decodes a mode, rejecting inconsistent combinations.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind               ModeKind         `json:"kind"`
		Decision           *MonsterDecision `json:"decision"`
		VillainPhasePaused *bool            `json:"villainPhasePaused"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case ModeIdle, "":
		if raw.Decision != nil {
			return fmt.Errorf("idle mode cannot carry a decision")
		}
		*m = Idle()
	case ModeAwaitingDecision:
		if raw.Decision == nil {
			return fmt.Errorf("awaiting-decision mode requires a decision")
		}
		*m = AwaitingDecision(*raw.Decision)
	default:
		return fmt.Errorf("unknown mode kind %q", raw.Kind)
	}
	if raw.VillainPhasePaused != nil && *raw.VillainPhasePaused != m.Awaiting() {
		return fmt.Errorf("villainPhasePaused=%v contradicts mode %s", *raw.VillainPhasePaused, m.Kind())
	}
	return nil
}

// =============================================================================
// Monster decisions
// =============================================================================

// DecisionType names what the player must choose for a monster.
type DecisionType string

const (
	DecisionChooseHeroTarget      DecisionType = "choose-hero-target"
	DecisionChooseMoveDestination DecisionType = "choose-move-destination"
)

// DecisionOptions lists the equally good choices the monster could make.
type DecisionOptions struct {
	HeroIDs   []string         `json:"heroIds,omitempty"`
	Positions []world.Position `json:"positions,omitempty"`
}

// DecisionContext carries what the activation needs to resume.
type DecisionContext struct {
	Reason       string `json:"reason"` // "attack" or "move"
	TargetHeroID string `json:"targetHeroId,omitempty"`
}

// MonsterDecision is an ambiguity in monster AI that a player must resolve.
type MonsterDecision struct {
	DecisionID string          `json:"decisionId"`
	Type       DecisionType    `json:"type"`
	MonsterID  string          `json:"monsterId"`
	Options    DecisionOptions `json:"options"`
	Context    DecisionContext `json:"context"`
}

func (d MonsterDecision) clone() MonsterDecision {
	d.Options.HeroIDs = slices.Clone(d.Options.HeroIDs)
	d.Options.Positions = slices.Clone(d.Options.Positions)
	return d
}
