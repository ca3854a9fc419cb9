// Package engine implements the game rules as a pure reducer over GameState.
//
// Dispatch never mutates the state it is given: it works on a deep copy and
// returns either the updated copy or the original state with a typed *Error.
// All randomness flows through an rng.Source rebuilt from GameState.Seed on every
// dispatch, so a seed plus an action log replays a game exactly.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/ashardalon/internal/combat"
	"github.com/samdwyer/ashardalon/internal/entity"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/rng"
	"github.com/samdwyer/ashardalon/internal/telemetry"
	"github.com/samdwyer/ashardalon/internal/world"
)

const (
	// DefaultScenarioID is used when a setup names no scenario.
	DefaultScenarioID = "into-the-mountain"
	// MaxHeroes is the largest supported party.
	MaxHeroes = 5
)

// StartPositions are the start-tile squares heroes are dealt from.
var StartPositions = []world.Position{
	{X: 1, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 2},
	{X: 3, Y: 3}, {X: 3, Y: 4},
	{X: 1, Y: 5}, {X: 2, Y: 5}, {X: 3, Y: 5},
}

// Engine applies actions to game states using a read-only catalog.
type Engine struct {
	catalog *gamedata.Catalog
	random  func(seed uint32) rng.Source
	tracer  trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandom replaces the seeded generator. Tests use it to force die rolls.
func WithRandom(fn func(seed uint32) rng.Source) Option {
	return func(e *Engine) { e.random = fn }
}

// WithTracer sets the tracer used for dispatch spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// New creates an engine over the catalog.
func New(cat *gamedata.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: cat,
		random:  func(seed uint32) rng.Source { return rng.NewLCG(seed) },
		tracer:  telemetry.Tracer("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *gamedata.Catalog {
	return e.catalog
}

// Setup describes a new game.
type Setup struct {
	HeroIDs    []string         `json:"heroIds"`
	ScenarioID string           `json:"scenarioId"`
	Seed       uint32           `json:"seed"`
	Positions  []world.Position `json:"positions,omitempty"` // Optional fixed start squares
}

// NewGame deals a new game: heroes on the start tile, shuffled decks, hero phase of turn 1.
func (e *Engine) NewGame(ctx context.Context, setup Setup) (GameState, error) {
	_, span := e.tracer.Start(ctx, "engine.new_game")
	defer span.End()

	if len(setup.HeroIDs) == 0 || len(setup.HeroIDs) > MaxHeroes {
		return GameState{}, &Error{Code: CodeInvalidAction, Message: fmt.Sprintf("need 1 to %d heroes, got %d", MaxHeroes, len(setup.HeroIDs))}
	}
	scenarioID := setup.ScenarioID
	if scenarioID == "" {
		scenarioID = DefaultScenarioID
	}
	scenario := e.catalog.Scenarios.GetByID(scenarioID)
	if scenario == nil {
		return GameState{}, &Error{Code: CodeInvalidAction, Message: "unknown scenario " + scenarioID}
	}
	if setup.Positions != nil && len(setup.Positions) < len(setup.HeroIDs) {
		return GameState{}, &Error{Code: CodeInvalidAction, Message: "not enough start positions for the party"}
	}

	src := e.random(setup.Seed)
	positions := setup.Positions
	if positions == nil {
		positions = rng.Shuffle(src, StartPositions)
	}

	state := GameState{
		ScenarioID:       scenario.ID,
		Turn:             TurnState{CurrentPhase: PhaseHero, TurnNumber: 1},
		Movement:         MovementState{ValidMoveSquares: []world.Position{}},
		Monsters:         []entity.Monster{},
		BoardTokens:      []entity.BoardToken{},
		Traps:            []entity.Trap{},
		Party:            entity.NewParty(scenario.StartingXP, scenario.HealingSurges),
		Mode:             Idle(),
		Outcome:          OutcomeInProgress,
		MonstersToDefeat: scenario.MonstersToDefeat,
		Log:              []string{},
	}

	for i, id := range setup.HeroIDs {
		def := e.catalog.Heroes.GetByID(id)
		if def == nil {
			return GameState{}, &Error{Code: CodeInvalidAction, Message: "unknown hero " + id}
		}
		if state.HeroByID(id) != nil {
			return GameState{}, &Error{Code: CodeInvalidAction, Message: "duplicate hero " + id}
		}
		state.Heroes = append(state.Heroes, entity.NewHero(def, positions[i]))
	}

	state.Dungeon = world.NewDungeon(&e.catalog.StartTile, rng.Shuffle(src, e.catalog.TileDeck(scenario)))
	state.MonsterDeck = entity.NewDeck(src, e.catalog.MonsterDeck())
	state.EncounterDeck = entity.NewDeck(src, e.catalog.EncounterDeck())
	state.TreasureDeck = entity.NewDeck(src, e.catalog.TreasureDeck())

	r := &reducer{e: e, ctx: ctx, s: &state, src: src}
	r.resetHeroActions()
	r.logf("%s begins. %s takes the first turn", scenario.Name, state.Heroes[0].Name)
	state.Seed = src.Seed()

	span.SetAttributes(
		attribute.String("scenario", scenario.ID),
		attribute.Int("heroes", len(state.Heroes)),
		attribute.Int64("seed", int64(setup.Seed)),
	)
	return state, nil
}

// Dispatch applies an action to a state. On success it returns the new state; on
// failure it returns the given state unchanged and an *Error.
func (e *Engine) Dispatch(ctx context.Context, state GameState, action Action) (GameState, error) {
	ctx, span := e.tracer.Start(ctx, "engine.dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("action.type", string(action.Type)),
		attribute.String("phase", string(state.Turn.CurrentPhase)),
		attribute.Int("turn", state.Turn.TurnNumber),
	)

	next := state.Clone()
	src := e.random(state.Seed)
	r := &reducer{
		e:      e,
		ctx:    ctx,
		s:      &next,
		src:    src,
		res:    combat.NewResolver(src),
		action: action,
	}

	if err := r.apply(); err != nil {
		var ee *Error
		if errors.As(err, &ee) {
			span.SetAttributes(attribute.String("error.code", string(ee.Code)))
		}
		span.RecordError(err)
		return state, err
	}
	next.Seed = src.Seed()
	span.SetAttributes(attribute.Bool("paused", next.VillainPhasePaused()))
	return next, nil
}

// Replay rebuilds a game by dispatching actions in order from an initial state.
// It stops at the first rejected action and reports its index.
func (e *Engine) Replay(ctx context.Context, initial GameState, actions []Action) (GameState, error) {
	state := initial
	for i, a := range actions {
		next, err := e.Dispatch(ctx, state, a)
		if err != nil {
			return state, fmt.Errorf("replay action %d (%s): %w", i, a.Type, err)
		}
		state = next
	}
	return state, nil
}

// =============================================================================
// Reducer
// =============================================================================

// reducer carries one dispatch's working state.
type reducer struct {
	e      *Engine
	ctx    context.Context
	s      *GameState
	src    rng.Source
	res    *combat.Resolver
	action Action
}

func (r *reducer) apply() error {
	if r.s.Outcome != OutcomeInProgress && r.s.Outcome != "" {
		return r.illegal("the game has ended in %s", r.s.Outcome)
	}

	switch r.action.Type {
	case ActionEndHeroPhase:
		return r.endHeroPhase()
	case ActionEndExplorationPhase:
		return r.endExplorationPhase()
	case ActionEndVillainPhase:
		return r.endVillainPhase()

	case ActionShowMovement:
		return r.showMovement()
	case ActionMoveHero:
		return r.moveHero()
	case ActionHideMovement:
		r.hideMovement()
		return nil
	case ActionAttackTarget:
		return r.heroAttack()
	case ActionSelectTarget:
		return r.selectTarget()
	case ActionClearTarget:
		r.s.SelectedTargetID, r.s.SelectedTargetType = "", ""
		return nil

	case ActionDrawEncounter:
		return r.drawEncounterAction()
	case ActionAcceptEncounter, ActionDismissEncounter:
		return r.acceptEncounter()
	case ActionCancelEncounter:
		return r.cancelEncounter()
	case ActionDisableTrap:
		return r.disableTrap()

	case ActionActivateMonster:
		return r.activateMonsterAction()
	case ActionRunVillainPhase:
		return r.runVillainPhase()
	case ActionResolveMonsterDecision:
		return r.resolveMonsterDecision()

	case ActionUsePower:
		return r.usePower()
	case ActionActivateToken:
		return r.activateToken()
	case ActionMoveToken:
		return r.moveToken()
	case ActionUseItem:
		return r.useItem()

	default:
		return r.invalid("unknown action type %q", r.action.Type)
	}
}

// logf appends a message to the bounded log and makes it the last message.
func (r *reducer) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.s.LastMessage = msg
	r.s.Log = append(r.s.Log, msg)
	if over := len(r.s.Log) - maxLogEntries; over > 0 {
		r.s.Log = slices.Clone(r.s.Log[over:])
	}
}

// heroFor resolves the acting hero: the named hero, or the active hero when no
// ID is given. Only the active hero may act.
func (r *reducer) heroFor(id string) (*entity.Hero, error) {
	active := r.s.ActiveHero()
	if active == nil {
		return nil, r.illegal("no active hero")
	}
	if id == "" {
		return active, nil
	}
	h := r.s.HeroByID(id)
	if h == nil {
		return nil, r.invalid("unknown hero %s", id)
	}
	if h.HeroID != active.HeroID {
		return nil, r.invalid("%s is not the active hero", h.Name)
	}
	return h, nil
}

// requirePhase rejects the action unless the game is in phase p.
func (r *reducer) requirePhase(p Phase) error {
	if r.s.Turn.CurrentPhase != p {
		return r.illegal("requires %s, current phase is %s", p, r.s.Turn.CurrentPhase)
	}
	return nil
}

// environment returns the active environment card, if any.
func (r *reducer) environment() *gamedata.EncounterDef {
	if r.s.ActiveEnvironmentID == "" {
		return nil
	}
	return r.e.catalog.Encounters.GetByID(r.s.ActiveEnvironmentID)
}

// checkDefeat ends the game when no hero has hit points left.
func (r *reducer) checkDefeat() {
	for _, h := range r.s.Heroes {
		if h.CurrentHP > 0 {
			return
		}
	}
	r.s.Outcome = OutcomeDefeat
	r.logf("All heroes have fallen. The party is defeated")
}

func (r *reducer) selectTarget() error {
	id, typ := r.action.TargetID, r.action.TargetType
	switch typ {
	case "monster":
		if r.s.MonsterByID(id) == nil {
			return r.invalid("unknown monster %s", id)
		}
	case "hero":
		if r.s.HeroByID(id) == nil {
			return r.invalid("unknown hero %s", id)
		}
	case "token":
		if r.s.TokenByID(id) == nil {
			return r.invalid("unknown token %s", id)
		}
	case "trap":
		if r.trapIndex(id) < 0 {
			return r.invalid("unknown trap %s", id)
		}
	default:
		return r.invalid("unknown target type %q", typ)
	}
	r.s.SelectedTargetID, r.s.SelectedTargetType = id, typ
	return nil
}
