package engine

import (
	"slices"

	"github.com/samdwyer/ashardalon/internal/entity"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/world"
)

// heroSpeed returns the hero's speed after statuses and the active environment.
func (r *reducer) heroSpeed(h *entity.Hero) int {
	speed := h.Modifiers().ApplySpeed(h.Speed)
	if env := r.environment(); env != nil && speed > 0 {
		speed = max(speed+env.Effect.SpeedModifier, 0)
	}
	return speed
}

// heroMoveSquares returns where the hero can end a move. Heroes may pass through
// other heroes but not stop on them; monsters block.
func (r *reducer) heroMoveSquares(h *entity.Hero) []world.Position {
	classify := func(p world.Position) world.Visit {
		if r.s.MonsterAt(p) != nil {
			return world.VisitBlocked
		}
		return world.VisitOpen
	}
	canStop := func(p world.Position) bool {
		other := r.s.HeroAt(p)
		return other == nil || other.HeroID == h.HeroID
	}
	squares := r.s.Dungeon.ReachableSquares(h.Position, r.heroSpeed(h), classify, canStop)
	if squares == nil {
		squares = []world.Position{}
	}
	return squares
}

func (r *reducer) showMovement() error {
	if err := r.requirePhase(PhaseHero); err != nil {
		return err
	}
	hero, err := r.heroFor(r.action.HeroID)
	if err != nil {
		return err
	}
	if !hero.InPlay() {
		return r.invalid("%s is not in play", hero.Name)
	}
	if !r.s.HeroActions.CanMove {
		return r.invalid("%s cannot move now", hero.Name)
	}

	r.s.Movement.ShowingMovement = true
	r.s.Movement.ValidMoveSquares = r.heroMoveSquares(hero)
	return nil
}

// hideMovement clears the overlay. It never fails.
func (r *reducer) hideMovement() {
	r.s.Movement.ShowingMovement = false
	r.s.Movement.ValidMoveSquares = []world.Position{}
}

func (r *reducer) moveHero() error {
	if err := r.requirePhase(PhaseHero); err != nil {
		return err
	}
	hero, err := r.heroFor(r.action.HeroID)
	if err != nil {
		return err
	}
	if r.action.Position == nil {
		return r.invalid("move-hero requires a position")
	}
	if !hero.InPlay() || !r.s.HeroActions.CanMove {
		return r.invalid("%s cannot move now", hero.Name)
	}

	dest := *r.action.Position
	valid := r.s.Movement.ValidMoveSquares
	if !r.s.Movement.ShowingMovement {
		valid = r.heroMoveSquares(hero)
	}
	if !slices.Contains(valid, dest) {
		return r.invalid("%s cannot reach %s", hero.Name, dest)
	}

	fromTile := r.s.Dungeon.TileIDAt(hero.Position)
	hero.Position = dest
	for i := range r.s.BoardTokens {
		tok := &r.s.BoardTokens[i]
		if tok.Type == gamedata.TokenMirrorImage && tok.OwnerID == hero.HeroID {
			tok.Position = dest
			tok.TileID = r.s.Dungeon.TileIDAt(dest)
		}
	}
	r.s.Movement.MovedThisTurn = true
	r.hideMovement()
	r.recordHeroAction(ActionMove)
	r.logf("%s moves to %s", hero.Name, dest)

	if hero.HasStatus(gamedata.CurseDragonFear) && r.s.Dungeon.TileIDAt(dest) != fromTile {
		hero.TakeDamage(1)
		r.logf("Dragon Fear: %s takes 1 damage moving to a new tile", hero.Name)
	}
	return nil
}
