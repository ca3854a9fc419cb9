package engine

import (
	"cmp"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/ashardalon/internal/entity"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/world"
)

const (
	reasonAttack = "attack"
	reasonMove   = "move"
)

// nextMonsterToActivate returns the first monster the active hero controls that
// has not activated this villain phase.
func (r *reducer) nextMonsterToActivate() *entity.Monster {
	hero := r.s.ActiveHero()
	for i := range r.s.Monsters {
		m := &r.s.Monsters[i]
		if m.ControllerID == hero.HeroID && !m.HasActivated {
			return m
		}
	}
	return nil
}

// checkCanActivate rejects monster activation outside an idle villain phase.
func (r *reducer) checkCanActivate() error {
	if err := r.requirePhase(PhaseVillain); err != nil {
		return err
	}
	if r.s.Mode.Awaiting() {
		return r.illegal("a monster decision is pending")
	}
	if r.s.DrawnEncounter != "" {
		return r.illegal("the drawn encounter must be resolved first")
	}
	return nil
}

func (r *reducer) activateMonsterAction() error {
	if err := r.checkCanActivate(); err != nil {
		return err
	}
	m := r.nextMonsterToActivate()
	if id := r.action.MonsterID; id != "" {
		named := r.s.MonsterByID(id)
		if named == nil {
			return r.invalid("unknown monster %s", id)
		}
		if named.ControllerID != r.s.ActiveHero().HeroID || named.HasActivated {
			return r.invalid("%s cannot activate now", named.Name)
		}
		m = named
	}
	if m == nil {
		return r.illegal("no monsters left to activate")
	}
	r.activateMonster(m.InstanceID)
	return nil
}

func (r *reducer) runVillainPhase() error {
	if err := r.checkCanActivate(); err != nil {
		return err
	}
	for !r.s.Mode.Awaiting() && r.s.Outcome == OutcomeInProgress {
		m := r.nextMonsterToActivate()
		if m == nil {
			break
		}
		r.activateMonster(m.InstanceID)
	}
	return nil
}

// activateMonster runs the monster tactics: attack an adjacent hero, otherwise
// move toward the closest hero and attack if that brings it adjacent. Ties are
// handed to the player as a decision.
func (r *reducer) activateMonster(instanceID string) {
	_, span := r.e.tracer.Start(r.ctx, "engine.activate_monster")
	defer span.End()
	span.SetAttributes(attribute.String("monster", instanceID))

	m := r.s.MonsterByID(instanceID)
	targets := r.targetableHeroes()
	if len(targets) == 0 {
		r.logf("%s has no one to attack", m.Name)
		r.finishActivation(instanceID)
		return
	}

	var adjacent []string
	for _, h := range targets {
		if world.Adjacent(m.Position, h.Position) {
			adjacent = append(adjacent, h.HeroID)
		}
	}
	switch len(adjacent) {
	case 1:
		r.monsterAttack(instanceID, adjacent[0])
		r.finishActivation(instanceID)
		return
	default:
		if len(adjacent) > 1 {
			r.requestDecision(m, DecisionChooseHeroTarget, DecisionOptions{HeroIDs: adjacent}, DecisionContext{Reason: reasonAttack})
			return
		}
	}

	closest := r.closestHeroes(m, targets)
	if len(closest) > 1 {
		r.requestDecision(m, DecisionChooseHeroTarget, DecisionOptions{HeroIDs: closest}, DecisionContext{Reason: reasonMove})
		return
	}
	r.moveToward(instanceID, closest[0])
}

// targetableHeroes returns heroes a monster may target, in turn order.
func (r *reducer) targetableHeroes() []*entity.Hero {
	var out []*entity.Hero
	for i := range r.s.Heroes {
		if r.s.Heroes[i].InPlay() {
			out = append(out, &r.s.Heroes[i])
		}
	}
	return out
}

// monsterClassify lets monsters walk through other monsters but not heroes.
func (r *reducer) monsterClassify() func(world.Position) world.Visit {
	return func(p world.Position) world.Visit {
		if r.s.HeroAt(p) != nil {
			return world.VisitBlocked
		}
		return world.VisitOpen
	}
}

// closestHeroes returns the IDs of the heroes at the shortest path distance from
// the monster. Distance is measured to a square adjacent to the hero, so heroes
// never block their own measurement. Unreachable heroes fall back to king-move distance.
func (r *reducer) closestHeroes(m *entity.Monster, targets []*entity.Hero) []string {
	dist := r.s.Dungeon.Distances(m.Position, -1, r.monsterClassify())
	const unreachable = 1 << 30

	best := unreachable
	distances := make(map[string]int, len(targets))
	for _, h := range targets {
		d := unreachable
		for p, n := range dist {
			if world.Adjacent(p, h.Position) && n+1 < d {
				d = n + 1
			}
		}
		if d == unreachable {
			d = unreachable/2 + world.Chebyshev(m.Position, h.Position)
		}
		distances[h.HeroID] = d
		best = min(best, d)
	}

	var out []string
	for _, h := range targets {
		if distances[h.HeroID] == best {
			out = append(out, h.HeroID)
		}
	}
	return out
}

// moveToward moves the monster up to its speed toward the hero. Squares from
// which it can attack come first, then king-move distance to the hero, then the
// shortest walk, then orthogonal distance. Several best squares become a decision.
func (r *reducer) moveToward(instanceID, heroID string) {
	m := r.s.MonsterByID(instanceID)
	hero := r.s.HeroByID(heroID)

	dist := r.s.Dungeon.Distances(m.Position, m.Speed, r.monsterClassify())
	type scored struct {
		pos        world.Position
		reach      int // 0 when the square is adjacent to the hero
		chebyshev  int
		pathLength int
		manhattan  int
	}
	var candidates []scored
	for p, n := range dist {
		if p != m.Position && r.s.Occupied(p) {
			continue
		}
		c := scored{pos: p, reach: 1, chebyshev: world.Chebyshev(p, hero.Position), pathLength: n, manhattan: world.Manhattan(p, hero.Position)}
		if world.Adjacent(p, hero.Position) {
			c.reach = 0
		}
		candidates = append(candidates, c)
	}

	rank := func(a, b scored) int {
		return cmp.Or(
			cmp.Compare(a.reach, b.reach),
			cmp.Compare(a.chebyshev, b.chebyshev),
			cmp.Compare(a.pathLength, b.pathLength),
			cmp.Compare(a.manhattan, b.manhattan),
		)
	}
	best := slices.MinFunc(candidates, rank)
	var options []world.Position
	for _, c := range candidates {
		if rank(c, best) == 0 {
			options = append(options, c.pos)
		}
	}
	world.SortPositions(options)

	if len(options) > 1 {
		r.requestDecision(m, DecisionChooseMoveDestination, DecisionOptions{Positions: options},
			DecisionContext{Reason: reasonMove, TargetHeroID: heroID})
		return
	}
	r.completeMove(instanceID, heroID, options[0])
}

// completeMove moves the monster and attacks if it ends adjacent to the hero.
func (r *reducer) completeMove(instanceID, heroID string, dest world.Position) {
	m := r.s.MonsterByID(instanceID)
	hero := r.s.HeroByID(heroID)

	if dest != m.Position {
		m.Position = dest
		m.TileID = r.s.Dungeon.TileIDAt(dest)
		r.logf("%s moves to %s", m.Name, dest)
	}
	if r.triggerBladeBarrier(instanceID) {
		r.finishActivation(instanceID)
		return
	}

	if world.Adjacent(m.Position, hero.Position) {
		r.monsterAttack(instanceID, heroID)
	} else {
		r.logf("%s moved but could not attack", m.Name)
	}
	r.finishActivation(instanceID)
}

// monsterAttack resolves the monster's attack on a hero. A mirror image owned by
// the hero absorbs the attack instead.
func (r *reducer) monsterAttack(instanceID, heroID string) {
	m := r.s.MonsterByID(instanceID)
	hero := r.s.HeroByID(heroID)

	for i := range r.s.BoardTokens {
		tok := &r.s.BoardTokens[i]
		if tok.Type != gamedata.TokenMirrorImage || tok.OwnerID != heroID {
			continue
		}
		depleted := tok.Spend()
		r.logf("A mirror image of %s absorbs the %s's attack (%d left)", hero.Name, m.Name, tok.Charges)
		if depleted {
			r.removeToken(tok.ID)
		}
		return
	}

	r.logf("%s", r.attackHero(m.AttackProfile(), hero, m.InstanceID))
}

// finishActivation marks the monster as done for this villain phase.
func (r *reducer) finishActivation(instanceID string) {
	if m := r.s.MonsterByID(instanceID); m != nil {
		m.HasActivated = true
	}
	r.s.Turn.VillainMonsterIndex++
}

// requestDecision pauses the villain phase until the player picks an option.
func (r *reducer) requestDecision(m *entity.Monster, typ DecisionType, options DecisionOptions, ctx DecisionContext) {
	r.s.Counters.Decision++
	r.s.Mode = AwaitingDecision(MonsterDecision{
		DecisionID: fmt.Sprintf("decision-%d", r.s.Counters.Decision),
		Type:       typ,
		MonsterID:  m.InstanceID,
		Options:    options,
		Context:    ctx,
	})
	r.logf("%s has several equally good choices: waiting for a decision (%s)", m.Name, typ)
}
