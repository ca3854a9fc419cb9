// Package world provides board geometry: placed tiles, terrain, exploration and pathfinding.
package world

// Terrain represents a single board square's terrain.
type Terrain rune

const (
	// TerrainWall represents an impassable wall square.
	TerrainWall Terrain = '#'
	// TerrainFloor represents a passable floor square.
	TerrainFloor Terrain = '.'
	// TerrainStairs represents the start tile staircase, which cannot be entered.
	TerrainStairs Terrain = 'S'
	// TerrainVoid is returned for squares outside every placed tile.
	TerrainVoid Terrain = ' '
)

// IsPassable returns true if the square can be walked on.
func (t Terrain) IsPassable() bool {
	return t == TerrainFloor
}

// Rune returns the terrain's display character.
func (t Terrain) Rune() rune {
	return rune(t)
}
