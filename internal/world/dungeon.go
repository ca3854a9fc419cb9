package world

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/telemetry"
)

const (
	// TileSize is the side length of a regular tile, and of each half of the start tile.
	TileSize = 4

	// StartTileID is the placed-tile ID of the start tile.
	StartTileID = "start-tile"

	// edgeScanDepth is how many lines inward an edge may sit behind a wall border.
	edgeScanDepth = 2
)

// ErrPlacementBlocked is returned when an explored edge faces an already placed tile.
var ErrPlacementBlocked = errors.New("tile placement blocked by an existing tile")

// EdgeState is the state of one side of a placed tile.
type EdgeState string

const (
	EdgeOpen       EdgeState = "open"
	EdgeWall       EdgeState = "wall"
	EdgeUnexplored EdgeState = "unexplored"
)

// TileEdge is one side (or half-side, for the start tile) of a placed tile.
type TileEdge struct {
	Direction Direction `json:"direction"`
	Half      int       `json:"half"`
	State     EdgeState `json:"state"`
}

// EdgeRef identifies an unexplored edge.
type EdgeRef struct {
	TileID    string    `json:"tileId"`
	Direction Direction `json:"direction"`
	Half      int       `json:"half"`
}

// PlacedTile is a tile on the board. Terrain rows are stored already rotated so
// the board can be queried without the catalog.
type PlacedTile struct {
	ID       string         `json:"id"`
	TileType string         `json:"tileType"`
	Origin   Position       `json:"origin"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Rotation int            `json:"rotation"`
	Arrow    gamedata.Arrow `json:"arrow"`
	Terrain  []string       `json:"terrain"`
	Edges    []TileEdge     `json:"edges"`
}

// Bounds returns the squares covered by the tile.
func (t *PlacedTile) Bounds() Bounds {
	return Bounds{X: t.Origin.X, Y: t.Origin.Y, Width: t.Width, Height: t.Height}
}

// TerrainAt returns the terrain of a global square on this tile.
func (t *PlacedTile) TerrainAt(p Position) Terrain {
	if !t.Bounds().Contains(p) {
		return TerrainVoid
	}
	row := t.Terrain[p.Y-t.Origin.Y]
	return Terrain(row[p.X-t.Origin.X])
}

// HalfOf returns which half of the tile's side in direction d the square lies on.
func (t *PlacedTile) HalfOf(p Position, d Direction) int {
	if d == East || d == West {
		return (p.Y - t.Origin.Y) / TileSize
	}
	return (p.X - t.Origin.X) / TileSize
}

// Edge returns the edge for a side and half, or nil.
func (t *PlacedTile) Edge(d Direction, half int) *TileEdge {
	for i := range t.Edges {
		if t.Edges[i].Direction == d && t.Edges[i].Half == half {
			return &t.Edges[i]
		}
	}
	return nil
}

// Squares returns the tile's passable squares in row order.
func (t *PlacedTile) Squares() []Position {
	var squares []Position
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			p := Position{X: t.Origin.X + x, Y: t.Origin.Y + y}
			if t.TerrainAt(p).IsPassable() {
				squares = append(squares, p)
			}
		}
	}
	return squares
}

// EdgeSquares returns the passable squares a hero must stand on to explore the edge.
// The edge line is the outermost row or column of the half that has floor on it,
// so a wall border (the start tile's west column) is skipped.
func (t *PlacedTile) EdgeSquares(d Direction, half int) []Position {
	b := t.Bounds()
	for depth := 0; depth < edgeScanDepth; depth++ {
		var line []Position
		switch d {
		case North, South:
			y := b.Y + depth
			if d == South {
				y = b.MaxY() - depth
			}
			for x := b.X + half*TileSize; x < min(b.X+(half+1)*TileSize, b.X+b.Width); x++ {
				line = append(line, Position{X: x, Y: y})
			}
		case East, West:
			x := b.X + depth
			if d == East {
				x = b.MaxX() - depth
			}
			for y := b.Y + half*TileSize; y < min(b.Y+(half+1)*TileSize, b.Y+b.Height); y++ {
				line = append(line, Position{X: x, Y: y})
			}
		}
		var squares []Position
		for _, p := range line {
			if t.TerrainAt(p).IsPassable() {
				squares = append(squares, p)
			}
		}
		if len(squares) > 0 {
			return squares
		}
	}
	return nil
}

// scorchMarks is the monster spawn square for each rotation, in tile-local coordinates.
var scorchMarks = map[int]Position{
	0:   {X: 2, Y: 1},
	90:  {X: 2, Y: 2},
	180: {X: 1, Y: 2},
	270: {X: 1, Y: 1},
}

// ScorchMark returns the global square where a monster spawns on this tile.
func (t *PlacedTile) ScorchMark() Position {
	local, ok := scorchMarks[t.Rotation]
	if !ok {
		local = scorchMarks[0]
	}
	return Position{X: t.Origin.X + local.X, Y: t.Origin.Y + local.Y}
}

// Dungeon represents the explored board and the remaining tile stack.
type Dungeon struct {
	Tiles           []PlacedTile `json:"tiles"`
	UnexploredEdges []EdgeRef    `json:"unexploredEdges"`
	TileDeck        []string     `json:"tileDeck"`
}

// NewDungeon creates a dungeon holding only the start tile, with every side unexplored.
// East and west sides of a double-height start tile are split into halves.
func NewDungeon(start *gamedata.TileDef, deck []string) Dungeon {
	tile := PlacedTile{
		ID:       StartTileID,
		TileType: start.ID,
		Width:    start.Width(),
		Height:   start.Height(),
		Arrow:    start.Arrow,
		Terrain:  append([]string(nil), start.Map...),
	}

	d := Dungeon{TileDeck: append([]string(nil), deck...)}
	for _, dir := range Directions {
		halves := 1
		if dir == East || dir == West {
			halves = max(1, tile.Height/TileSize)
		} else {
			halves = max(1, tile.Width/TileSize)
		}
		for half := 0; half < halves; half++ {
			tile.Edges = append(tile.Edges, TileEdge{Direction: dir, Half: half, State: EdgeUnexplored})
			d.UnexploredEdges = append(d.UnexploredEdges, EdgeRef{TileID: tile.ID, Direction: dir, Half: half})
		}
	}
	d.Tiles = []PlacedTile{tile}
	return d
}

// Clone returns a deep copy of the dungeon.
func (d Dungeon) Clone() Dungeon {
	out := Dungeon{
		Tiles:           make([]PlacedTile, len(d.Tiles)),
		UnexploredEdges: append([]EdgeRef(nil), d.UnexploredEdges...),
		TileDeck:        append([]string(nil), d.TileDeck...),
	}
	for i, t := range d.Tiles {
		t.Terrain = append([]string(nil), t.Terrain...)
		t.Edges = append([]TileEdge(nil), t.Edges...)
		out.Tiles[i] = t
	}
	return out
}

// TileAt returns the tile containing the square, or nil.
func (d *Dungeon) TileAt(p Position) *PlacedTile {
	for i := range d.Tiles {
		if d.Tiles[i].Bounds().Contains(p) {
			return &d.Tiles[i]
		}
	}
	return nil
}

// TileByID returns the placed tile with the given ID, or nil.
func (d *Dungeon) TileByID(id string) *PlacedTile {
	for i := range d.Tiles {
		if d.Tiles[i].ID == id {
			return &d.Tiles[i]
		}
	}
	return nil
}

// TileIDAt returns the ID of the tile containing the square, or "".
func (d *Dungeon) TileIDAt(p Position) string {
	if t := d.TileAt(p); t != nil {
		return t.ID
	}
	return ""
}

// Terrain returns the terrain at a square.
func (d *Dungeon) Terrain(p Position) Terrain {
	t := d.TileAt(p)
	if t == nil {
		return TerrainVoid
	}
	return t.TerrainAt(p)
}

// IsPassable returns true if the given square can be walked on.
func (d *Dungeon) IsPassable(p Position) bool {
	return d.Terrain(p).IsPassable()
}

// CanStep reports whether a figure may move one square from one position to another.
// Diagonal steps never cross a tile boundary, and orthogonal crossings need the
// shared side to be open on both tiles.
func (d *Dungeon) CanStep(from, to Position) bool {
	if !Adjacent(from, to) || !d.IsPassable(to) {
		return false
	}
	a, b := d.TileAt(from), d.TileAt(to)
	if a == nil || b == nil {
		return false
	}
	if a.ID == b.ID {
		return true
	}
	if from.X != to.X && from.Y != to.Y {
		return false
	}

	var dir Direction
	switch {
	case to.Y < from.Y:
		dir = North
	case to.Y > from.Y:
		dir = South
	case to.X > from.X:
		dir = East
	default:
		dir = West
	}
	ea := a.Edge(dir, a.HalfOf(from, dir))
	eb := b.Edge(dir.Opposite(), b.HalfOf(to, dir.Opposite()))
	return ea != nil && ea.State == EdgeOpen && eb != nil && eb.State == EdgeOpen
}

// Neighbors returns the squares reachable in one step, in a fixed order.
func (d *Dungeon) Neighbors(p Position) []Position {
	var out []Position
	for _, s := range steps {
		q := p.Add(s[0], s[1])
		if d.CanStep(p, q) {
			out = append(out, q)
		}
	}
	return out
}

// ExplorableEdge returns the unexplored edge whose edge squares include p.
func (d *Dungeon) ExplorableEdge(p Position) (EdgeRef, bool) {
	tile := d.TileAt(p)
	if tile == nil {
		return EdgeRef{}, false
	}
	for _, ref := range d.UnexploredEdges {
		if ref.TileID != tile.ID {
			continue
		}
		if ContainsPosition(tile.EdgeSquares(ref.Direction, ref.Half), p) {
			return ref, true
		}
	}
	return EdgeRef{}, false
}

// DrawTile removes and returns the top tile of the stack.
func (d *Dungeon) DrawTile() (string, bool) {
	if len(d.TileDeck) == 0 {
		return "", false
	}
	top := d.TileDeck[0]
	d.TileDeck = d.TileDeck[1:]
	return top, true
}

// MoveBottomTileToTop takes the bottom tile of the stack and puts it on top.
func (d *Dungeon) MoveBottomTileToTop() {
	n := len(d.TileDeck)
	if n <= 1 {
		return
	}
	bottom := d.TileDeck[n-1]
	d.TileDeck = append([]string{bottom}, d.TileDeck[:n-1]...)
}

// Explore places a new tile against an unexplored edge.
// If the space is already occupied the edge is walled off and ErrPlacementBlocked is returned.
func (d *Dungeon) Explore(ctx context.Context, ref EdgeRef, def *gamedata.TileDef) (*PlacedTile, error) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "dungeon.explore")
	defer span.End()

	source := d.TileByID(ref.TileID)
	if source == nil {
		return nil, fmt.Errorf("unknown tile %s", ref.TileID)
	}
	if def == nil {
		return nil, errors.New("tile definition is required")
	}
	sourceEdge := source.Edge(ref.Direction, ref.Half)
	if sourceEdge == nil || sourceEdge.State != EdgeUnexplored {
		return nil, fmt.Errorf("edge %s/%d of %s is not unexplored", ref.Direction, ref.Half, ref.TileID)
	}

	origin := newTileOrigin(source, ref)
	bounds := Bounds{X: origin.X, Y: origin.Y, Width: def.Width(), Height: def.Height()}
	for _, t := range d.Tiles {
		if t.Bounds().Intersects(bounds) {
			sourceEdge.State = EdgeWall
			d.removeUnexplored(ref)
			span.SetAttributes(attribute.Bool("blocked", true))
			return nil, ErrPlacementBlocked
		}
	}

	connecting := ref.Direction.Opposite()
	rotation := tileRotation(connecting, def.Edges)
	rotated := rotateEdges(def.Edges, rotation)

	tile := PlacedTile{
		ID:       fmt.Sprintf("tile-%d", len(d.Tiles)),
		TileType: def.ID,
		Origin:   origin,
		Width:    def.Width(),
		Height:   def.Height(),
		Rotation: rotation,
		Arrow:    def.Arrow,
		Terrain:  rotateTerrain(def.Map, rotation),
	}

	var added []EdgeRef
	for _, dir := range Directions {
		state := EdgeUnexplored
		switch {
		case rotated[dir] == gamedata.EdgeWall:
			state = EdgeWall
		case dir == connecting:
			state = EdgeOpen
		default:
			added = append(added, EdgeRef{TileID: tile.ID, Direction: dir})
		}
		tile.Edges = append(tile.Edges, TileEdge{Direction: dir, State: state})
	}

	sourceEdge.State = EdgeOpen
	d.removeUnexplored(ref)
	d.UnexploredEdges = append(d.UnexploredEdges, added...)
	d.Tiles = append(d.Tiles, tile)

	span.SetAttributes(
		attribute.String("tile.id", tile.ID),
		attribute.String("tile.type", tile.TileType),
		attribute.Int("tile.rotation", rotation),
		attribute.Int("tile.origin_x", origin.X),
		attribute.Int("tile.origin_y", origin.Y),
	)
	return &d.Tiles[len(d.Tiles)-1], nil
}

// TilesWithin returns the IDs of the tile and every tile within n tiles of it.
func (d *Dungeon) TilesWithin(tileID string, n int) []string {
	if d.TileByID(tileID) == nil {
		return nil
	}
	dist := map[string]int{tileID: 0}
	queue := []string{tileID}
	order := []string{tileID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if dist[cur] >= n {
			continue
		}
		curBounds := d.TileByID(cur).Bounds()
		for _, t := range d.Tiles {
			if _, seen := dist[t.ID]; seen || !curBounds.Touches(t.Bounds()) {
				continue
			}
			dist[t.ID] = dist[cur] + 1
			queue = append(queue, t.ID)
			order = append(order, t.ID)
		}
	}
	return order
}

func (d *Dungeon) removeUnexplored(ref EdgeRef) {
	kept := d.UnexploredEdges[:0:0]
	for _, e := range d.UnexploredEdges {
		if e != ref {
			kept = append(kept, e)
		}
	}
	d.UnexploredEdges = kept
}

// newTileOrigin returns the top-left square of a tile placed against ref.
func newTileOrigin(source *PlacedTile, ref EdgeRef) Position {
	b := source.Bounds()
	offset := ref.Half * TileSize
	switch ref.Direction {
	case North:
		return Position{X: b.X + offset, Y: b.Y - TileSize}
	case South:
		return Position{X: b.X + offset, Y: b.Y + b.Height}
	case East:
		return Position{X: b.X + b.Width, Y: b.Y + offset}
	default:
		return Position{X: b.X - TileSize, Y: b.Y + offset}
	}
}

// tileRotation returns the first clockwise rotation that puts an opening on the connecting side.
func tileRotation(connecting Direction, edges gamedata.TileEdges) int {
	for _, rotation := range []int{0, 90, 180, 270} {
		if rotateEdges(edges, rotation)[connecting] == gamedata.EdgeOpen {
			return rotation
		}
	}
	return 0
}

// rotateEdges rotates default edges clockwise by rotation degrees.
func rotateEdges(e gamedata.TileEdges, rotation int) map[Direction]gamedata.EdgeType {
	switch ((rotation % 360) + 360) % 360 {
	case 90:
		return map[Direction]gamedata.EdgeType{North: e.West, East: e.North, South: e.East, West: e.South}
	case 180:
		return map[Direction]gamedata.EdgeType{North: e.South, East: e.West, South: e.North, West: e.East}
	case 270:
		return map[Direction]gamedata.EdgeType{North: e.East, East: e.South, South: e.West, West: e.North}
	default:
		return map[Direction]gamedata.EdgeType{North: e.North, East: e.East, South: e.South, West: e.West}
	}
}

// rotateTerrain rotates square terrain rows clockwise. Non-square maps are returned unchanged.
func rotateTerrain(rows []string, rotation int) []string {
	out := append([]string(nil), rows...)
	n := len(out)
	if n == 0 || len(out[0]) != n {
		return out
	}
	for r := 0; r < (((rotation%360)+360)%360)/90; r++ {
		next := make([]string, n)
		for y := 0; y < n; y++ {
			row := make([]byte, n)
			for x := 0; x < n; x++ {
				row[x] = out[n-1-x][y]
			}
			next[y] = string(row)
		}
		out = next
	}
	return out
}
