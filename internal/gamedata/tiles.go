package gamedata

// Arrow is the color of a tile's exploration arrow. Black arrows trigger an encounter.
type Arrow string

const (
	ArrowBlack Arrow = "black"
	ArrowWhite Arrow = "white"
	ArrowNone  Arrow = "none"
)

// EdgeType describes a tile side in its default orientation.
type EdgeType string

const (
	EdgeOpen EdgeType = "open"
	EdgeWall EdgeType = "wall"
)

// TileEdges lists the side types of a tile in its default orientation (arrow pointing south).
type TileEdges struct {
	North EdgeType `json:"north"`
	South EdgeType `json:"south"`
	East  EdgeType `json:"east"`
	West  EdgeType `json:"west"`
}

// TileDef defines a dungeon tile loaded from JSON.
type TileDef struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Arrow  Arrow     `json:"arrow"`
	Edges  TileEdges `json:"edges"`
	Map    []string  `json:"map"` // Rows of terrain runes: '.' floor, '#' wall, 'S' staircase
	Copies int       `json:"copies"`
}

// Width returns the tile width in squares.
func (t *TileDef) Width() int {
	if len(t.Map) == 0 {
		return 0
	}
	return len(t.Map[0])
}

// Height returns the tile height in squares.
func (t *TileDef) Height() int {
	return len(t.Map)
}

// TilesFile represents the structure of tiles.json.
type TilesFile struct {
	StartTile TileDef   `json:"startTile"`
	Tiles     []TileDef `json:"tiles"`
}

// LoadTiles loads tile definitions from the embedded tiles.json file.
func LoadTiles() (TilesFile, error) {
	return Load[TilesFile]("tiles.json")
}
