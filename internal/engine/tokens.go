package engine

import (
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/ashardalon/internal/entity"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/world"
)

// flamingSphereDamage is dealt to each monster on the sphere's tile per activation.
const flamingSphereDamage = 1

// bladeBarrierDamage is dealt to a monster entering a blade barrier square.
const bladeBarrierDamage = 1

func (r *reducer) usePower() error {
	if err := r.requirePhase(PhaseHero); err != nil {
		return err
	}
	hero, err := r.heroFor(r.action.HeroID)
	if err != nil {
		return err
	}
	power := r.e.catalog.Powers.GetByID(r.action.PowerID)
	switch {
	case power == nil:
		return r.invalid("unknown power %q", r.action.PowerID)
	case !hero.HasPower(power.ID):
		return r.invalid("%s does not have %s", hero.Name, power.Name)
	case power.Kind == gamedata.PowerDaily && hero.HasUsedPower(power.ID):
		return r.invalid("%s has already been used", power.Name)
	case !hero.InPlay():
		return r.invalid("%s is not in play", hero.Name)
	}
	if power.IsAttack() {
		return r.heroAttack()
	}
	if power.Token == gamedata.TokenNone {
		return r.invalid("%s has no board effect", power.Name)
	}
	utility := power.Kind == gamedata.PowerUtility
	if !utility && !r.s.HeroActions.CanAttack {
		return r.invalid("%s cannot use %s now", hero.Name, power.Name)
	}

	_, span := r.e.tracer.Start(r.ctx, "engine.use_power")
	defer span.End()
	span.SetAttributes(attribute.String("hero", hero.HeroID), attribute.String("power", power.ID))

	var placed []entity.BoardToken
	switch power.Token {
	case gamedata.TokenMirrorImage:
		placed = []entity.BoardToken{r.newToken(power, hero, hero.Position, false)}

	case gamedata.TokenBladeBarrier:
		squares, err := r.bladeBarrierSquares(hero, power)
		if err != nil {
			return err
		}
		for _, sq := range squares {
			placed = append(placed, r.newToken(power, hero, sq, false))
		}

	default:
		pos, err := r.tokenPlacement(hero, power)
		if err != nil {
			return err
		}
		placed = []entity.BoardToken{r.newToken(power, hero, pos, true)}
	}

	r.s.BoardTokens = append(r.s.BoardTokens, placed...)
	if power.Kind == gamedata.PowerDaily {
		hero.UsedPowers = append(hero.UsedPowers, power.ID)
	}
	if !utility {
		r.recordHeroAction(ActionAttack)
	}
	span.SetAttributes(attribute.Int("tokens", len(placed)))
	r.logf("%s uses %s: %d %s token(s) placed", hero.Name, power.Name, len(placed), power.Token)

	// Blade barriers placed under monsters cut them at once.
	for _, tok := range placed {
		if m := r.s.MonsterAt(tok.Position); m != nil && tok.Type == gamedata.TokenBladeBarrier {
			r.triggerBladeBarrier(m.InstanceID)
		}
	}
	return nil
}

// newToken allocates a token with the next token ID.
func (r *reducer) newToken(power *gamedata.PowerDef, hero *entity.Hero, pos world.Position, movable bool) entity.BoardToken {
	r.s.Counters.Token++
	charges := max(power.Charges, 1)
	return entity.BoardToken{
		ID:       fmt.Sprintf("token-%s-%d", power.Token, r.s.Counters.Token),
		Type:     power.Token,
		OwnerID:  hero.HeroID,
		Position: pos,
		TileID:   r.s.Dungeon.TileIDAt(pos),
		Charges:  charges,
		CanMove:  movable,
	}
}

// inRange reports whether pos lies on a tile within the power's range of the hero.
func (r *reducer) inRange(hero *entity.Hero, power *gamedata.PowerDef, pos world.Position) bool {
	heroTile := r.s.Dungeon.TileIDAt(hero.Position)
	return slices.Contains(r.s.Dungeon.TilesWithin(heroTile, power.Range), r.s.Dungeon.TileIDAt(pos))
}

// tokenPlacement validates the requested square for a single movable token.
func (r *reducer) tokenPlacement(hero *entity.Hero, power *gamedata.PowerDef) (world.Position, error) {
	if r.action.Position == nil {
		return world.Position{}, r.invalid("%s requires a position", power.Name)
	}
	pos := *r.action.Position
	if !r.s.Dungeon.IsPassable(pos) {
		return pos, r.invalid("%s is not a passable square", pos)
	}
	if !r.inRange(hero, power, pos) {
		return pos, r.invalid("%s is out of range for %s", pos, power.Name)
	}
	return pos, nil
}

// bladeBarrierSquares picks distinct passable squares on the chosen tile, starting
// with the requested square when one is given.
func (r *reducer) bladeBarrierSquares(hero *entity.Hero, power *gamedata.PowerDef) ([]world.Position, error) {
	tileID := r.action.TileID
	if r.action.Position != nil {
		tileID = r.s.Dungeon.TileIDAt(*r.action.Position)
	}
	if tileID == "" {
		tileID = r.s.Dungeon.TileIDAt(hero.Position)
	}
	tile := r.s.Dungeon.TileByID(tileID)
	if tile == nil {
		return nil, r.invalid("unknown tile %q", tileID)
	}
	if !r.inRange(hero, power, tile.Origin) {
		return nil, r.invalid("%s is out of range for %s", tileID, power.Name)
	}

	var squares []world.Position
	if p := r.action.Position; p != nil && r.s.Dungeon.IsPassable(*p) {
		squares = append(squares, *p)
	}
	for _, sq := range tile.Squares() {
		if len(squares) >= power.TokenCount {
			break
		}
		if r.s.Dungeon.IsPassable(sq) && !slices.Contains(squares, sq) && r.s.TokenAt(sq, gamedata.TokenBladeBarrier) == nil {
			squares = append(squares, sq)
		}
	}
	if len(squares) == 0 {
		return nil, r.invalid("no room for %s on %s", power.Name, tileID)
	}
	return squares, nil
}

func (r *reducer) activateToken() error {
	if err := r.requirePhase(PhaseHero); err != nil {
		return err
	}
	tok, err := r.ownedToken()
	if err != nil {
		return err
	}
	if tok.Type != gamedata.TokenFlamingSphere {
		return r.invalid("%s tokens cannot be activated", tok.Type)
	}

	_, span := r.e.tracer.Start(r.ctx, "engine.activate_token")
	defer span.End()
	span.SetAttributes(attribute.String("token", tok.ID), attribute.Int("charges", tok.Charges))

	var hit []string
	for _, m := range r.s.Monsters {
		if r.s.Dungeon.TileIDAt(m.Position) == tok.TileID {
			hit = append(hit, m.InstanceID)
		}
	}
	for _, id := range hit {
		m := r.s.MonsterByID(id)
		dealt := m.TakeDamage(flamingSphereDamage)
		r.logf("The flaming sphere burns %s for %d damage", m.Name, dealt)
		if !m.IsAlive() {
			r.defeatMonster(id)
		}
	}

	id := tok.ID
	if tok.Spend() {
		r.removeToken(id)
		r.logf("The flaming sphere burns out")
	} else {
		r.logf("The flaming sphere has %d charges left", tok.Charges)
	}
	return nil
}

func (r *reducer) moveToken() error {
	if err := r.requirePhase(PhaseHero); err != nil {
		return err
	}
	tok, err := r.ownedToken()
	if err != nil {
		return err
	}
	if !tok.CanMove {
		return r.invalid("%s cannot be moved", tok.ID)
	}
	if r.action.Position == nil {
		return r.invalid("move-token requires a position")
	}
	dest := *r.action.Position
	if !r.s.Dungeon.IsPassable(dest) {
		return r.invalid("%s is not a passable square", dest)
	}
	tok.Position = dest
	tok.TileID = r.s.Dungeon.TileIDAt(dest)
	r.logf("%s moves to %s", tok.ID, dest)
	return nil
}

// ownedToken returns the action's token, which must belong to the active hero.
func (r *reducer) ownedToken() (*entity.BoardToken, error) {
	tok := r.s.TokenByID(r.action.TokenID)
	if tok == nil {
		return nil, r.invalid("unknown token %q", r.action.TokenID)
	}
	if active := r.s.ActiveHero(); active == nil || tok.OwnerID != active.HeroID {
		return nil, r.invalid("%s does not belong to the active hero", tok.ID)
	}
	return tok, nil
}

// removeToken takes a token off the board.
func (r *reducer) removeToken(id string) {
	r.s.BoardTokens = slices.DeleteFunc(r.s.BoardTokens, func(t entity.BoardToken) bool { return t.ID == id })
	if r.s.SelectedTargetID == id {
		r.s.SelectedTargetID, r.s.SelectedTargetType = "", ""
	}
}

// triggerBladeBarrier damages a monster standing on a blade barrier and removes
// the token. It reports whether the monster was destroyed.
func (r *reducer) triggerBladeBarrier(instanceID string) bool {
	m := r.s.MonsterByID(instanceID)
	if m == nil {
		return false
	}
	tok := r.s.TokenAt(m.Position, gamedata.TokenBladeBarrier)
	if tok == nil {
		return false
	}
	dealt := m.TakeDamage(bladeBarrierDamage)
	r.removeToken(tok.ID)
	r.logf("A blade barrier cuts %s for %d damage", m.Name, dealt)
	if m.IsAlive() {
		return false
	}
	r.defeatMonster(instanceID)
	return true
}
