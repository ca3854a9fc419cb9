package game

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/ashardalon/internal/engine"
	"github.com/samdwyer/ashardalon/internal/entity"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/telemetry"
	"github.com/samdwyer/ashardalon/internal/ui"
	"github.com/samdwyer/ashardalon/internal/world"
)

// Game is the terminal front end for a session.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *Session
	logger   *zap.Logger

	state   engine.GameState
	cursor  world.Position
	message string
	running bool
}

// New creates a terminal front end on the real terminal.
func New(session *Session, catalog *gamedata.Catalog, logger *zap.Logger) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	return newGame(screen, session, catalog, logger), nil
}

func newGame(screen *ui.Screen, session *Session, catalog *gamedata.Catalog, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen, catalog),
		session:  session,
		logger:   logger,
		state:    session.Snapshot(),
		running:  true,
	}
	if h := g.state.ActiveHero(); h != nil {
		g.cursor = h.Position
	}
	return g
}

// Run executes the main loop until the player quits or ctx is cancelled.
// States dispatched by other clients are redrawn as they arrive.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	_, initSpan := tracer.Start(ctx, "game.init")
	states, unsubscribe := g.session.Subscribe()
	defer unsubscribe()
	g.state = <-states
	initSpan.SetAttributes(
		attribute.String("game.id", g.session.ID()),
		attribute.Int("heroes", len(g.state.Heroes)),
	)
	initSpan.End()

	go g.forward(ctx, states)

	for g.running {
		g.renderer.Render(g.state, ui.View{Cursor: g.cursor, Message: g.message})

		ev := g.screen.PollEvent()
		if ev == nil {
			break
		}
		g.handleEvent(ctx, ev)
		if ctx.Err() != nil {
			break
		}
	}

	g.screen.Close()
	return nil
}

// forward wakes the event loop for every new state and once more on cancellation.
func (g *Game) forward(ctx context.Context, states <-chan engine.GameState) {
	for {
		select {
		case <-ctx.Done():
			_ = g.screen.PostEvent(tcell.NewEventInterrupt(nil))
			return
		case s, ok := <-states:
			if !ok {
				return
			}
			_ = g.screen.PostEvent(tcell.NewEventInterrupt(s))
		}
	}
}

func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventInterrupt:
		if s, ok := ev.Data().(engine.GameState); ok {
			g.state = s
		}
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false
		return
	case tcell.KeyUp:
		g.moveCursor(0, -1)
		return
	case tcell.KeyDown:
		g.moveCursor(0, 1)
		return
	case tcell.KeyLeft:
		g.moveCursor(-1, 0)
		return
	case tcell.KeyRight:
		g.moveCursor(1, 0)
		return
	case tcell.KeyRune:
		if r := ev.Rune(); r == 'q' || r == 'Q' {
			g.running = false
			return
		}
	}

	action, ok := actionForKey(g.state, g.cursor, ev)
	if !ok {
		return
	}
	g.dispatch(ctx, action)
}

func (g *Game) dispatch(ctx context.Context, action engine.Action) {
	next, err := g.session.Dispatch(ctx, action)
	g.state = next
	if err != nil {
		g.logger.Debug("terminal action rejected", zap.String("action", string(action.Type)), zap.Error(err))
		g.message = err.Error()
		return
	}
	g.message = ""
	if action.Type == engine.ActionEndVillainPhase {
		if h := next.ActiveHero(); h != nil {
			g.cursor = h.Position
		}
	}
}

// moveCursor moves the board cursor, keeping it on the explored board.
func (g *Game) moveCursor(dx, dy int) {
	next := g.cursor.Add(dx, dy)
	if ui.BoardBounds(g.state.Dungeon).Contains(next) {
		g.cursor = next
	}
}

// actionForKey maps a key to the engine action it means in state s with the
// cursor on square cursor.
func actionForKey(s engine.GameState, cursor world.Position, ev *tcell.EventKey) (engine.Action, bool) {
	if ev.Key() == tcell.KeyEnter {
		return confirmAction(s, cursor)
	}
	if ev.Key() != tcell.KeyRune {
		return engine.Action{}, false
	}

	hero := s.ActiveHero()
	r := ev.Rune()
	switch {
	case r >= '1' && r <= '9':
		i := int(r - '1')
		if hero == nil || i >= len(hero.Powers) {
			return engine.Action{}, false
		}
		a := engine.Action{Type: engine.ActionUsePower, PowerID: hero.Powers[i]}.At(cursor)
		if m := s.MonsterAt(cursor); m != nil {
			a.MonsterID = m.InstanceID
		}
		return a, true
	}

	switch r {
	case 'm':
		if s.Movement.ShowingMovement {
			return engine.Action{Type: engine.ActionHideMovement}, true
		}
		return engine.Action{Type: engine.ActionShowMovement}, true
	case 'a':
		a := engine.Action{Type: engine.ActionAttackTarget}
		if m := s.MonsterAt(cursor); m != nil {
			a.MonsterID = m.InstanceID
		}
		return a, true
	case 't':
		if m := s.MonsterAt(cursor); m != nil {
			return engine.Action{Type: engine.ActionSelectTarget, TargetID: m.InstanceID, TargetType: "monster"}, true
		}
		if t := trapAt(s, cursor); t != "" {
			return engine.Action{Type: engine.ActionSelectTarget, TargetID: t, TargetType: "trap"}, true
		}
		return engine.Action{Type: engine.ActionClearTarget}, true
	case 'f':
		if tok := ownedToken(s, hero, gamedata.TokenFlamingSphere); tok != "" {
			return engine.Action{Type: engine.ActionActivateToken, TokenID: tok}, true
		}
	case 'g':
		for _, t := range s.BoardTokens {
			if hero != nil && t.OwnerID == hero.HeroID && t.CanMove {
				return engine.Action{Type: engine.ActionMoveToken, TokenID: t.ID}.At(cursor), true
			}
		}
	case 'r':
		if hero != nil {
			tile := s.Dungeon.TileIDAt(hero.Position)
			for _, t := range s.Traps {
				if t.TileID == tile {
					return engine.Action{Type: engine.ActionDisableTrap, TrapID: t.ID}, true
				}
			}
		}
	case 'd':
		return engine.Action{Type: engine.ActionDrawEncounter}, true
	case 'c':
		return engine.Action{Type: engine.ActionAcceptEncounter}, true
	case 'x':
		return engine.Action{Type: engine.ActionCancelEncounter}, true
	case 'n':
		return engine.Action{Type: engine.ActionActivateMonster}, true
	case 'v':
		return engine.Action{Type: engine.ActionRunVillainPhase}, true
	case 'e':
		switch PromptFor(s) {
		case PromptHeroTurn:
			return engine.Action{Type: engine.ActionEndHeroPhase}, true
		case PromptExploration:
			return engine.Action{Type: engine.ActionEndExplorationPhase}, true
		case PromptVillain:
			return engine.Action{Type: engine.ActionEndVillainPhase}, true
		}
	}
	return engine.Action{}, false
}

// confirmAction is what Enter does: resolve a pending decision with the
// cursor, or move the hero to the cursor while the movement overlay is shown.
func confirmAction(s engine.GameState, cursor world.Position) (engine.Action, bool) {
	if d, ok := s.PendingDecision(); ok {
		a := engine.Action{Type: engine.ActionResolveMonsterDecision, DecisionID: d.DecisionID}
		switch d.Type {
		case engine.DecisionChooseHeroTarget:
			h := s.HeroAt(cursor)
			if h == nil {
				return engine.Action{}, false
			}
			a.HeroID = h.HeroID
		case engine.DecisionChooseMoveDestination:
			a = a.At(cursor)
		}
		return a, true
	}
	if s.Movement.ShowingMovement {
		return engine.Action{Type: engine.ActionMoveHero}.At(cursor), true
	}
	return engine.Action{}, false
}

func ownedToken(s engine.GameState, hero *entity.Hero, typ gamedata.TokenType) string {
	if hero == nil {
		return ""
	}
	for _, t := range s.BoardTokens {
		if t.OwnerID == hero.HeroID && t.Type == typ {
			return t.ID
		}
	}
	return ""
}

func trapAt(s engine.GameState, p world.Position) string {
	for _, t := range s.Traps {
		if t.Position == p {
			return t.ID
		}
	}
	return ""
}
