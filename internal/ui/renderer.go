package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/ashardalon/internal/engine"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/world"
)

const (
	boardLeft  = 1
	boardTop   = 1
	panelGap   = 3
	logLines   = 6
	helpLine   = "arrows cursor | m move | enter confirm | a attack | t target | 1-9 power | f sphere | g move token | r disarm | d draw | c accept | x cancel | v villain | e end phase | q quit"
	trapRune   = '^'
	hazardRune = '~'
)

// View is the terminal-only state drawn on top of the game state.
type View struct {
	Cursor  world.Position
	Message string // Last rejection or status line
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen  *Screen
	catalog *gamedata.Catalog
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, catalog *gamedata.Catalog) *Renderer {
	return &Renderer{screen: screen, catalog: catalog}
}

// Render draws the board, side panel and log.
func (r *Renderer) Render(s engine.GameState, v View) {
	r.screen.Clear()

	bounds := BoardBounds(s.Dungeon)
	r.renderBoard(s, v, bounds)

	panelX := boardLeft + bounds.Width + panelGap
	y := r.renderPanel(s, panelX, boardTop)

	_, height := r.screen.Size()
	logTop := max(boardTop+bounds.Height+1, y+1)
	if logTop+logLines+2 > height {
		logTop = max(0, height-logLines-2)
	}
	r.renderLog(s, v, logTop)
	r.RenderMessage(helpLine, logTop+logLines+1, tcell.StyleDefault.Foreground(tcell.ColorDarkGray))

	r.screen.Show()
}

// BoardBounds returns the rectangle covering every placed tile.
func BoardBounds(d world.Dungeon) world.Bounds {
	if len(d.Tiles) == 0 {
		return world.Bounds{}
	}
	b := d.Tiles[0].Bounds()
	minX, minY, maxX, maxY := b.X, b.Y, b.MaxX(), b.MaxY()
	for i := range d.Tiles[1:] {
		tb := d.Tiles[i+1].Bounds()
		minX, minY = min(minX, tb.X), min(minY, tb.Y)
		maxX, maxY = max(maxX, tb.MaxX()), max(maxY, tb.MaxY())
	}
	return world.Bounds{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

// ScreenPos maps a board square to a screen cell.
func ScreenPos(bounds world.Bounds, p world.Position) (int, int) {
	return boardLeft + p.X - bounds.X, boardTop + p.Y - bounds.Y
}

func (r *Renderer) renderBoard(s engine.GameState, v View, bounds world.Bounds) {
	highlight := map[world.Position]tcell.Color{}
	if s.Movement.ShowingMovement {
		for _, p := range s.Movement.ValidMoveSquares {
			highlight[p] = tcell.ColorDarkGreen
		}
	}
	if d, ok := s.PendingDecision(); ok {
		for _, p := range d.Options.Positions {
			highlight[p] = tcell.ColorOlive
		}
		for _, id := range d.Options.HeroIDs {
			if h := s.HeroByID(id); h != nil {
				highlight[h.Position] = tcell.ColorOlive
			}
		}
	}

	for y := bounds.Y; y <= bounds.MaxY(); y++ {
		for x := bounds.X; x <= bounds.MaxX(); x++ {
			p := world.Position{X: x, Y: y}
			terrain := s.Dungeon.Terrain(p)
			style := getTerrainStyle(terrain)
			if bg, ok := highlight[p]; ok {
				style = style.Background(bg)
			}
			sx, sy := ScreenPos(bounds, p)
			r.screen.SetContent(sx, sy, terrain.Rune(), style)
		}
	}

	for _, t := range s.Traps {
		ch := trapRune
		if t.Kind == "hazard" {
			ch = hazardRune
		}
		r.drawOnBoard(bounds, t.Position, ch, tcell.StyleDefault.Foreground(tcell.ColorRed), highlight)
	}
	for _, t := range s.BoardTokens {
		r.drawOnBoard(bounds, t.Position, gamedata.TokenRune(t.Type), tcell.StyleDefault.Foreground(gamedata.TokenColor(t.Type)), highlight)
	}
	for _, m := range s.Monsters {
		glyph, color := 'M', tcell.ColorWhite
		if def := r.catalog.Monsters.GetByID(m.MonsterID); def != nil {
			glyph, color = def.GlyphRune(), def.TCellColor()
		}
		style := tcell.StyleDefault.Foreground(color)
		if m.InstanceID == s.SelectedTargetID {
			style = style.Underline(true)
		}
		r.drawOnBoard(bounds, m.Position, glyph, style, highlight)
	}
	active := s.ActiveHero()
	for _, h := range s.Heroes {
		if !h.InPlay() {
			continue
		}
		symbol, color := '@', tcell.ColorYellow
		if def := r.catalog.Heroes.GetByID(h.HeroID); def != nil {
			symbol, color = def.SymbolRune(), def.TCellColor()
		}
		style := tcell.StyleDefault.Foreground(color)
		if active != nil && h.HeroID == active.HeroID {
			style = style.Bold(true)
		}
		r.drawOnBoard(bounds, h.Position, symbol, style, highlight)
	}

	if bounds.Contains(v.Cursor) {
		sx, sy := ScreenPos(bounds, v.Cursor)
		ch := s.Dungeon.Terrain(v.Cursor).Rune()
		if h := s.HeroAt(v.Cursor); h != nil {
			if def := r.catalog.Heroes.GetByID(h.HeroID); def != nil {
				ch = def.SymbolRune()
			}
		} else if m := s.MonsterAt(v.Cursor); m != nil {
			if def := r.catalog.Monsters.GetByID(m.MonsterID); def != nil {
				ch = def.GlyphRune()
			}
		}
		r.screen.SetContent(sx, sy, ch, tcell.StyleDefault.Reverse(true))
	}
}

func (r *Renderer) drawOnBoard(bounds world.Bounds, p world.Position, ch rune, style tcell.Style, highlight map[world.Position]tcell.Color) {
	if bg, ok := highlight[p]; ok {
		style = style.Background(bg)
	}
	sx, sy := ScreenPos(bounds, p)
	r.screen.SetContent(sx, sy, ch, style)
}

// getTerrainStyle returns the appropriate style for a terrain type.
func getTerrainStyle(t world.Terrain) tcell.Style {
	switch t {
	case world.TerrainWall:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case world.TerrainFloor:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case world.TerrainStairs:
		return tcell.StyleDefault.Foreground(tcell.ColorSilver).Bold(true)
	default:
		return tcell.StyleDefault
	}
}

// renderPanel draws the turn, party and hero summaries and returns the next free row.
func (r *Renderer) renderPanel(s engine.GameState, x, y int) int {
	title := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	text := tcell.StyleDefault.Foreground(tcell.ColorSilver)

	active := s.ActiveHero()
	activeName := "-"
	if active != nil {
		activeName = active.Name
	}
	r.drawText(x, y, fmt.Sprintf("Turn %d  %s  %s", s.Turn.TurnNumber, s.Turn.CurrentPhase, activeName), title)
	y++
	r.drawText(x, y, fmt.Sprintf("XP %d  Surges %d  Defeated %d/%d", s.Party.XP, s.Party.HealingSurges, s.MonstersDefeated, s.MonstersToDefeat), text)
	y++
	if s.Turn.CurrentPhase == engine.PhaseHero {
		r.drawText(x, y, fmt.Sprintf("Actions %v  move:%v attack:%v", s.HeroActions.ActionsTaken, s.HeroActions.CanMove, s.HeroActions.CanAttack), text)
		y++
	}
	if s.ActiveEnvironmentID != "" {
		r.drawText(x, y, "Environment: "+r.encounterName(s.ActiveEnvironmentID), text)
		y++
	}
	y++

	for _, h := range s.Heroes {
		style := text
		if active != nil && h.HeroID == active.HeroID {
			style = title
		}
		line := fmt.Sprintf("%-8s HP %2d/%-2d AC %d L%d", h.Name, h.CurrentHP, h.MaxHP, h.ArmorClass(), h.Level)
		if !h.InPlay() {
			line += " (down)"
		}
		r.drawText(x, y, line, style)
		y++
		if len(h.Statuses) > 0 {
			names := make([]string, len(h.Statuses))
			for i, st := range h.Statuses {
				names[i] = st.Type.Name()
			}
			r.drawText(x+2, y, strings.Join(names, ", "), tcell.StyleDefault.Foreground(tcell.ColorPurple))
			y++
		}
	}
	y++

	if len(s.Monsters) > 0 {
		for _, m := range s.Monsters {
			r.drawText(x, y, fmt.Sprintf("%-14s HP %d/%d -> %s", m.Name, m.CurrentHP, m.MaxHP, m.ControllerID), text)
			y++
		}
		y++
	}

	warn := tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	if s.DrawnEncounter != "" {
		r.drawText(x, y, "Encounter: "+r.encounterName(s.DrawnEncounter)+" (c accept, x cancel for 5 XP)", warn)
		y++
	}
	if d, ok := s.PendingDecision(); ok {
		r.drawText(x, y, decisionPrompt(s, d), warn)
		y++
	}
	switch s.Outcome {
	case engine.OutcomeVictory:
		r.drawText(x, y, "VICTORY", tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true))
		y++
	case engine.OutcomeDefeat:
		r.drawText(x, y, "DEFEAT", tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
		y++
	}
	return y
}

func (r *Renderer) encounterName(id string) string {
	if def := r.catalog.Encounters.GetByID(id); def != nil {
		return def.Name
	}
	return id
}

func decisionPrompt(s engine.GameState, d engine.MonsterDecision) string {
	name := d.MonsterID
	if m := s.MonsterByID(d.MonsterID); m != nil {
		name = m.Name
	}
	switch d.Type {
	case engine.DecisionChooseHeroTarget:
		return fmt.Sprintf("%s: choose a hero to %s (cursor + enter)", name, d.Context.Reason)
	case engine.DecisionChooseMoveDestination:
		return fmt.Sprintf("%s: choose where it moves (cursor + enter)", name)
	default:
		return name + ": decision pending"
	}
}

func (r *Renderer) renderLog(s engine.GameState, v View, top int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	lines := s.Log
	if len(lines) > logLines {
		lines = lines[len(lines)-logLines:]
	}
	for i, line := range lines {
		r.drawText(boardLeft, top+i, line, style)
	}
	if v.Message != "" {
		r.RenderMessage(v.Message, top+logLines, tcell.StyleDefault.Foreground(tcell.ColorRed))
	}
}

func (r *Renderer) drawText(x, y int, msg string, style tcell.Style) {
	r.screen.DrawText(x, y, msg, style)
}

// RenderMessage displays a message starting at the left edge of row y.
func (r *Renderer) RenderMessage(msg string, y int, style tcell.Style) {
	r.drawText(boardLeft, y, msg, style)
}
