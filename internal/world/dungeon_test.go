package world

import (
	"context"
	"errors"
	"testing"

	"github.com/samdwyer/ashardalon/internal/gamedata"
)

func testStartTile() *gamedata.TileDef {
	return &gamedata.TileDef{
		ID:    "start",
		Arrow: gamedata.ArrowNone,
		Edges: gamedata.TileEdges{North: gamedata.EdgeOpen, South: gamedata.EdgeOpen, East: gamedata.EdgeOpen, West: gamedata.EdgeOpen},
		Map:   []string{"#...", "#...", "#...", "#SS.", "#SS.", "#...", "#...", "#..."},
	}
}

func testTile(id string, edges gamedata.TileEdges) *gamedata.TileDef {
	return &gamedata.TileDef{
		ID:    id,
		Arrow: gamedata.ArrowBlack,
		Edges: edges,
		Map:   []string{"....", "....", "....", "...."},
	}
}

var allOpen = gamedata.TileEdges{North: gamedata.EdgeOpen, South: gamedata.EdgeOpen, East: gamedata.EdgeOpen, West: gamedata.EdgeOpen}

func TestNewDungeonEdges(t *testing.T) {
	d := NewDungeon(testStartTile(), []string{"a", "b"})

	if len(d.Tiles) != 1 || d.Tiles[0].ID != StartTileID {
		t.Fatalf("NewDungeon() tiles = %v, want only the start tile", d.Tiles)
	}
	// North, south, and two halves each for east and west.
	if got := len(d.UnexploredEdges); got != 6 {
		t.Errorf("unexplored edges = %d, want 6", got)
	}
	if d.Tiles[0].Edge(East, 1) == nil {
		t.Error("start tile should have an east edge half 1")
	}
}

func TestPassability(t *testing.T) {
	d := NewDungeon(testStartTile(), nil)

	tests := []struct {
		pos  Position
		want bool
	}{
		{Position{0, 0}, false}, // wall border
		{Position{1, 0}, true},
		{Position{1, 3}, false}, // staircase
		{Position{3, 3}, true},
		{Position{4, 0}, false}, // off board
	}
	for _, tt := range tests {
		if got := d.IsPassable(tt.pos); got != tt.want {
			t.Errorf("IsPassable(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestEdgeSquaresSkipWallBorder(t *testing.T) {
	d := NewDungeon(testStartTile(), nil)
	start := d.TileByID(StartTileID)

	west := start.EdgeSquares(West, 0)
	want := []Position{{1, 0}, {1, 1}, {1, 2}}
	if len(west) != len(want) {
		t.Fatalf("EdgeSquares(west, 0) = %v, want %v", west, want)
	}
	for i := range want {
		if west[i] != want[i] {
			t.Errorf("EdgeSquares(west, 0)[%d] = %v, want %v", i, west[i], want[i])
		}
	}

	north := start.EdgeSquares(North, 0)
	if len(north) != 3 || north[0] != (Position{1, 0}) {
		t.Errorf("EdgeSquares(north, 0) = %v, want 3 squares starting at (1,0)", north)
	}
}

func TestExplorePlacesTile(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		ref    EdgeRef
		origin Position
	}{
		{"north", EdgeRef{StartTileID, North, 0}, Position{0, -4}},
		{"south", EdgeRef{StartTileID, South, 0}, Position{0, 8}},
		{"east lower half", EdgeRef{StartTileID, East, 1}, Position{4, 4}},
		{"west upper half", EdgeRef{StartTileID, West, 0}, Position{-4, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDungeon(testStartTile(), nil)
			tile, err := d.Explore(ctx, tt.ref, testTile("junction", allOpen))
			if err != nil {
				t.Fatalf("Explore() error = %v", err)
			}
			if tile.Origin != tt.origin {
				t.Errorf("origin = %v, want %v", tile.Origin, tt.origin)
			}
			if tile.ID != "tile-1" {
				t.Errorf("ID = %s, want tile-1", tile.ID)
			}
			if e := d.TileByID(StartTileID).Edge(tt.ref.Direction, tt.ref.Half); e.State != EdgeOpen {
				t.Errorf("source edge state = %s, want open", e.State)
			}
			if e := tile.Edge(tt.ref.Direction.Opposite(), 0); e.State != EdgeOpen {
				t.Errorf("connecting edge state = %s, want open", e.State)
			}
			for _, ref := range d.UnexploredEdges {
				if ref == tt.ref {
					t.Error("explored edge still listed as unexplored")
				}
			}
		})
	}
}

func TestExploreRotatesToConnect(t *testing.T) {
	d := NewDungeon(testStartTile(), nil)
	// Bend is open only south and east; placed north of the start tile it must
	// rotate so an opening faces south. Rotation 0 already does.
	bend := testTile("bend", gamedata.TileEdges{North: gamedata.EdgeWall, South: gamedata.EdgeOpen, East: gamedata.EdgeOpen, West: gamedata.EdgeWall})
	tile, err := d.Explore(context.Background(), EdgeRef{StartTileID, North, 0}, bend)
	if err != nil {
		t.Fatalf("Explore() error = %v", err)
	}
	if tile.Rotation != 0 {
		t.Errorf("rotation = %d, want 0", tile.Rotation)
	}

	// Placed south, it needs an opening on its north side: 90 gives north=west (wall),
	// 180 gives north=south (open).
	d = NewDungeon(testStartTile(), nil)
	tile, err = d.Explore(context.Background(), EdgeRef{StartTileID, South, 0}, bend)
	if err != nil {
		t.Fatalf("Explore() error = %v", err)
	}
	if tile.Rotation != 180 {
		t.Errorf("rotation = %d, want 180", tile.Rotation)
	}
	if e := tile.Edge(North, 0); e.State != EdgeOpen {
		t.Errorf("north edge = %s, want open", e.State)
	}
	if e := tile.Edge(South, 0); e.State != EdgeWall {
		t.Errorf("south edge = %s, want wall", e.State)
	}
}

func TestExploreBlockedByExistingTile(t *testing.T) {
	ctx := context.Background()
	d := NewDungeon(testStartTile(), nil)

	if _, err := d.Explore(ctx, EdgeRef{StartTileID, North, 0}, testTile("junction", allOpen)); err != nil {
		t.Fatalf("Explore(north) error = %v", err)
	}
	if _, err := d.Explore(ctx, EdgeRef{StartTileID, East, 0}, testTile("junction", allOpen)); err != nil {
		t.Fatalf("Explore(east) error = %v", err)
	}
	// tile-1 sits at (0,-4); its east side faces (4,-4), free. tile-2 sits at (4,0);
	// its north side faces (4,-4) as well.
	if _, err := d.Explore(ctx, EdgeRef{"tile-1", East, 0}, testTile("junction", allOpen)); err != nil {
		t.Fatalf("Explore(tile-1 east) error = %v", err)
	}
	_, err := d.Explore(ctx, EdgeRef{"tile-2", North, 0}, testTile("junction", allOpen))
	if !errors.Is(err, ErrPlacementBlocked) {
		t.Fatalf("Explore(tile-2 north) error = %v, want ErrPlacementBlocked", err)
	}
	if e := d.TileByID("tile-2").Edge(North, 0); e.State != EdgeWall {
		t.Errorf("blocked edge state = %s, want wall", e.State)
	}
}

func TestCanStepAcrossTiles(t *testing.T) {
	ctx := context.Background()
	d := NewDungeon(testStartTile(), nil)
	if _, err := d.Explore(ctx, EdgeRef{StartTileID, East, 1}, testTile("junction", allOpen)); err != nil {
		t.Fatalf("Explore() error = %v", err)
	}

	tests := []struct {
		name     string
		from, to Position
		want     bool
	}{
		{"same tile orthogonal", Position{1, 0}, Position{2, 0}, true},
		{"same tile diagonal", Position{1, 0}, Position{2, 1}, true},
		{"into staircase", Position{1, 2}, Position{1, 3}, false},
		{"across open edge", Position{3, 5}, Position{4, 5}, true},
		{"diagonal across edge", Position{3, 5}, Position{4, 6}, false},
		{"across unexplored edge", Position{3, 1}, Position{4, 1}, false},
		{"not adjacent", Position{1, 0}, Position{3, 0}, false},
	}
	for _, tt := range tests {
		if got := d.CanStep(tt.from, tt.to); got != tt.want {
			t.Errorf("%s: CanStep(%v, %v) = %v, want %v", tt.name, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestScorchMarkFollowsRotation(t *testing.T) {
	tests := []struct {
		rotation int
		want     Position
	}{
		{0, Position{12, 5}},
		{90, Position{12, 6}},
		{180, Position{11, 6}},
		{270, Position{11, 5}},
	}
	for _, tt := range tests {
		tile := PlacedTile{Origin: Position{10, 4}, Rotation: tt.rotation, Width: 4, Height: 4}
		if got := tile.ScorchMark(); got != tt.want {
			t.Errorf("ScorchMark(rotation %d) = %v, want %v", tt.rotation, got, tt.want)
		}
	}
}

func TestExplorableEdge(t *testing.T) {
	d := NewDungeon(testStartTile(), nil)

	ref, ok := d.ExplorableEdge(Position{3, 6})
	if !ok {
		t.Fatal("ExplorableEdge((3,6)) should find the east lower edge")
	}
	if ref.Direction != East || ref.Half != 1 {
		t.Errorf("ExplorableEdge((3,6)) = %+v, want east half 1", ref)
	}
	if _, ok := d.ExplorableEdge(Position{2, 5}); ok {
		t.Error("ExplorableEdge((2,5)) should find nothing")
	}
}

func TestTileDeckOps(t *testing.T) {
	d := NewDungeon(testStartTile(), []string{"a", "b", "c"})

	d.MoveBottomTileToTop()
	if d.TileDeck[0] != "c" {
		t.Errorf("after MoveBottomTileToTop top = %s, want c", d.TileDeck[0])
	}
	top, ok := d.DrawTile()
	if !ok || top != "c" {
		t.Errorf("DrawTile() = %s, %v, want c, true", top, ok)
	}
	if len(d.TileDeck) != 2 {
		t.Errorf("deck length = %d, want 2", len(d.TileDeck))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := NewDungeon(testStartTile(), []string{"a"})
	c := d.Clone()
	c.Tiles[0].Edges[0].State = EdgeWall
	c.TileDeck[0] = "z"

	if d.Tiles[0].Edges[0].State != EdgeUnexplored {
		t.Error("Clone shares edge slices with the original")
	}
	if d.TileDeck[0] != "a" {
		t.Error("Clone shares the tile deck with the original")
	}
}

func TestRotateTerrain(t *testing.T) {
	rows := []string{"#...", "....", "....", "...."}
	got := rotateTerrain(rows, 90)
	// Clockwise: the top-left corner moves to the top-right.
	if got[0] != "...#" {
		t.Errorf("rotateTerrain(90)[0] = %q, want %q", got[0], "...#")
	}
	if back := rotateTerrain(got, 270); back[0] != rows[0] {
		t.Errorf("rotating back = %q, want %q", back[0], rows[0])
	}
}

func TestTilesWithin(t *testing.T) {
	ctx := context.Background()
	d := NewDungeon(testStartTile(), nil)
	if _, err := d.Explore(ctx, EdgeRef{StartTileID, North, 0}, testTile("junction", allOpen)); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Explore(ctx, EdgeRef{"tile-1", North, 0}, testTile("junction", allOpen)); err != nil {
		t.Fatal(err)
	}

	if got := d.TilesWithin(StartTileID, 1); len(got) != 2 {
		t.Errorf("TilesWithin(start, 1) = %v, want 2 tiles", got)
	}
	if got := d.TilesWithin(StartTileID, 2); len(got) != 3 {
		t.Errorf("TilesWithin(start, 2) = %v, want 3 tiles", got)
	}
}

func TestDistancesAndReachable(t *testing.T) {
	d := NewDungeon(testStartTile(), nil)

	dist := d.Distances(Position{1, 0}, -1, nil)
	if got := dist[Position{3, 0}]; got != 2 {
		t.Errorf("distance (1,0)->(3,0) = %d, want 2", got)
	}
	// The staircase forces a detour along column 3.
	if got := dist[Position{1, 5}]; got != 6 {
		t.Errorf("distance (1,0)->(1,5) = %d, want 6", got)
	}

	blocker := Position{2, 0}
	classify := func(p Position) Visit {
		if p == blocker {
			return VisitBlocked
		}
		return VisitOpen
	}
	reach := d.ReachableSquares(Position{1, 0}, 1, classify, nil)
	if ContainsPosition(reach, blocker) {
		t.Error("ReachableSquares should not include a blocked square")
	}
	if !ContainsPosition(reach, Position{2, 1}) {
		t.Error("ReachableSquares should include the diagonal (2,1)")
	}

	if n := d.PathLength(Position{1, 0}, Position{0, 0}, nil); n != -1 {
		t.Errorf("PathLength to a wall = %d, want -1", n)
	}
}
