package world

// Visit classifies a square for a breadth-first search.
type Visit int

const (
	// VisitOpen squares can be entered and moved through.
	VisitOpen Visit = iota
	// VisitStop squares can be entered but the search does not continue past them.
	VisitStop
	// VisitBlocked squares cannot be entered.
	VisitBlocked
)

// Distances runs a breadth-first search over king moves from start and returns the
// step count to every square reached within limit steps. A negative limit searches
// the whole board. classify may be nil, in which case every passable square is open.
func (d *Dungeon) Distances(start Position, limit int, classify func(Position) Visit) map[Position]int {
	if classify == nil {
		classify = func(Position) Visit { return VisitOpen }
	}
	dist := map[Position]int{start: 0}
	queue := []Position{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur != start && classify(cur) == VisitStop {
			continue
		}
		if limit >= 0 && dist[cur] >= limit {
			continue
		}
		for _, next := range d.Neighbors(cur) {
			if _, seen := dist[next]; seen {
				continue
			}
			if classify(next) == VisitBlocked {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

// ReachableSquares returns the squares within speed steps of start where canStop
// holds, sorted by row then column. The start square is never included.
func (d *Dungeon) ReachableSquares(start Position, speed int, classify func(Position) Visit, canStop func(Position) bool) []Position {
	var out []Position
	for p, n := range d.Distances(start, speed, classify) {
		if n == 0 {
			continue
		}
		if canStop != nil && !canStop(p) {
			continue
		}
		out = append(out, p)
	}
	SortPositions(out)
	return out
}

// PathLength returns the number of steps between two squares, or -1 if unreachable.
func (d *Dungeon) PathLength(from, to Position, classify func(Position) Visit) int {
	if n, ok := d.Distances(from, -1, classify)[to]; ok {
		return n
	}
	return -1
}
