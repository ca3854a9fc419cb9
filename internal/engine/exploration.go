package engine

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/ashardalon/internal/entity"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/world"
)

// explore draws a tile, places it against ref and spawns its monster.
func (r *reducer) explore(ref world.EdgeRef) {
	ctx, span := r.e.tracer.Start(r.ctx, "engine.explore")
	defer span.End()

	tileType, ok := r.s.Dungeon.DrawTile()
	if !ok {
		r.logf("The dungeon stack is empty: nothing to explore")
		return
	}
	def := r.e.catalog.TileDef(tileType)
	if def == nil {
		r.logf("Unknown tile %s was discarded", tileType)
		return
	}

	tile, err := r.s.Dungeon.Explore(ctx, ref, def)
	if errors.Is(err, world.ErrPlacementBlocked) {
		r.s.Dungeon.TileDeck = append([]string{tileType}, r.s.Dungeon.TileDeck...)
		r.logf("The passage %s is blocked by an existing tile", ref.Direction)
		return
	}
	if err != nil {
		r.s.Dungeon.TileDeck = append([]string{tileType}, r.s.Dungeon.TileDeck...)
		r.logf("Exploration failed: %v", err)
		return
	}

	white := tile.Arrow == gamedata.ArrowWhite
	if !r.s.Turn.ExploredThisTurn {
		r.s.Turn.DrewOnlyWhiteTilesThisTurn = white
	} else if !white {
		r.s.Turn.DrewOnlyWhiteTilesThisTurn = false
	}
	r.s.Turn.ExploredThisTurn = true
	r.logf("%s explores %s and reveals %s", r.s.ActiveHero().Name, ref.Direction, def.Name)

	span.SetAttributes(
		attribute.String("tile.id", tile.ID),
		attribute.String("tile.type", tile.TileType),
		attribute.String("tile.arrow", string(tile.Arrow)),
	)
	r.spawnMonster(tile.ID)
}

// spawnMonster places the top monster card on a tile's scorch mark, controlled
// by the active hero.
func (r *reducer) spawnMonster(tileID string) {
	tile := r.s.Dungeon.TileByID(tileID)
	if tile == nil {
		return
	}
	monsterID, ok := r.s.MonsterDeck.Draw(r.src)
	if !ok {
		r.logf("The monster deck is empty")
		return
	}
	def := r.e.catalog.Monsters.GetByID(monsterID)
	if def == nil {
		r.logf("Unknown monster %s was discarded", monsterID)
		return
	}

	pos := tile.ScorchMark()
	if !r.s.Dungeon.IsPassable(pos) || r.s.Occupied(pos) {
		free, ok := r.freeSquareNear(pos)
		if !ok {
			r.s.MonsterDeck.Discard(monsterID)
			r.logf("No room for %s on %s", def.Name, tile.ID)
			return
		}
		pos = free
	}

	r.s.Counters.Monster++
	instanceID := fmt.Sprintf("%s-%d", def.ID, r.s.Counters.Monster)
	controller := r.s.ActiveHero().HeroID
	r.s.Monsters = append(r.s.Monsters, entity.NewMonster(def, instanceID, pos, controller, tile.ID))
	r.logf("%s appears at %s", def.Name, pos)

	r.triggerBladeBarrier(instanceID)
}

// freeSquareNear returns the closest passable, unoccupied square to p, scanning
// outward by king-move distance and then row order.
func (r *reducer) freeSquareNear(p world.Position) (world.Position, bool) {
	var candidates []world.Position
	for _, tile := range r.s.Dungeon.Tiles {
		for _, sq := range tile.Squares() {
			if !r.s.Occupied(sq) {
				candidates = append(candidates, sq)
			}
		}
	}
	world.SortPositions(candidates)

	best, found := world.Position{}, false
	for _, sq := range candidates {
		if !found || world.Chebyshev(sq, p) < world.Chebyshev(best, p) {
			best, found = sq, true
		}
	}
	return best, found
}
