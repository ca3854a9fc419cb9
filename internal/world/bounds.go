package world

// Bounds represents the rectangle of squares covered by a tile.
type Bounds struct {
	X, Y          int // Top-left corner position
	Width, Height int // Dimensions in squares
}

// MaxX returns the rightmost column inside the bounds.
func (b Bounds) MaxX() int {
	return b.X + b.Width - 1
}

// MaxY returns the bottom row inside the bounds.
func (b Bounds) MaxY() int {
	return b.Y + b.Height - 1
}

// Contains returns true if the given point is inside the bounds.
func (b Bounds) Contains(p Position) bool {
	return p.X >= b.X && p.X < b.X+b.Width && p.Y >= b.Y && p.Y < b.Y+b.Height
}

// Intersects returns true if these bounds overlap with another rectangle.
func (b Bounds) Intersects(other Bounds) bool {
	return b.X < other.X+other.Width &&
		b.X+b.Width > other.X &&
		b.Y < other.Y+other.Height &&
		b.Y+b.Height > other.Y
}

// Touches returns true if the rectangles share a side segment without overlapping.
func (b Bounds) Touches(other Bounds) bool {
	if b.Intersects(other) {
		return false
	}
	overlapX := b.X < other.X+other.Width && other.X < b.X+b.Width
	overlapY := b.Y < other.Y+other.Height && other.Y < b.Y+b.Height
	horizontal := (b.X+b.Width == other.X || other.X+other.Width == b.X) && overlapY
	vertical := (b.Y+b.Height == other.Y || other.Y+other.Height == b.Y) && overlapX
	return horizontal || vertical
}
