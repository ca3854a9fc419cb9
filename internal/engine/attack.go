package engine

import (
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/ashardalon/internal/combat"
	"github.com/samdwyer/ashardalon/internal/entity"
	"github.com/samdwyer/ashardalon/internal/gamedata"
	"github.com/samdwyer/ashardalon/internal/world"
)

// LevelUpCost is the XP spent when a natural 20 levels a hero up.
const LevelUpCost = 5

// maxLevel is the highest level a hero can reach.
const maxLevel = 2

func (r *reducer) heroAttack() error {
	if err := r.requirePhase(PhaseHero); err != nil {
		return err
	}
	hero, err := r.heroFor(r.action.HeroID)
	if err != nil {
		return err
	}
	if !hero.InPlay() || !r.s.HeroActions.CanAttack {
		return r.invalid("%s cannot attack now", hero.Name)
	}

	atk, power, err := r.heroAttackProfile(hero)
	if err != nil {
		return err
	}
	targets, err := r.attackTargets(hero, power)
	if err != nil {
		return err
	}

	_, span := r.e.tracer.Start(r.ctx, "engine.hero_attack")
	defer span.End()
	span.SetAttributes(
		attribute.String("hero", hero.HeroID),
		attribute.StringSlice("monsters", targets),
		attribute.String("power", r.action.PowerID),
	)

	if power != nil && power.Kind == gamedata.PowerDaily {
		hero.UsedPowers = append(hero.UsedPowers, power.ID)
	}
	r.recordHeroAction(ActionAttack)
	hits := 0
	for _, id := range targets {
		if r.s.Outcome == OutcomeVictory {
			break
		}
		m := r.s.MonsterByID(id)
		if m == nil {
			continue
		}
		result := r.res.Resolve(atk, m)
		r.logf("%s", result.Message)
		if result.Hit {
			hits++
		}
		if result.Critical {
			r.tryLevelUp(hero)
		}
		if result.Defeated {
			r.defeatMonster(id)
		}
	}
	span.SetAttributes(attribute.Int("hits", hits))
	return nil
}

// attackTargets resolves and validates the monsters one attack will resolve
// against, in the order given. Tile attacks hit every monster on the hero's tile.
func (r *reducer) attackTargets(hero *entity.Hero, power *gamedata.PowerDef) ([]string, error) {
	targeting, limit := gamedata.AttackAdjacent, 1
	if power != nil {
		limit = power.TargetLimit()
		if power.Targeting != "" {
			targeting = power.Targeting
		}
	}

	if targeting == gamedata.AttackTile {
		tile := r.s.Dungeon.TileIDAt(hero.Position)
		var ids []string
		for _, m := range r.s.Monsters {
			if r.s.Dungeon.TileIDAt(m.Position) == tile {
				ids = append(ids, m.InstanceID)
			}
		}
		if len(ids) == 0 {
			return nil, r.invalid("there are no monsters on %s's tile", hero.Name)
		}
		return ids, nil
	}

	ids := slices.Clone(r.action.MonsterIDs)
	switch {
	case len(ids) > 0:
	case r.action.MonsterID != "":
		ids = []string{r.action.MonsterID}
	case r.s.SelectedTargetType == "monster" && r.s.SelectedTargetID != "":
		ids = []string{r.s.SelectedTargetID}
	default:
		return nil, r.invalid("%s needs a monster to attack", hero.Name)
	}
	if len(ids) > limit {
		return nil, r.invalid("at most %d targets allowed, got %d", limit, len(ids))
	}
	for i, id := range ids {
		if slices.Contains(ids[:i], id) {
			return nil, r.invalid("monster %s is targeted twice", id)
		}
		m := r.s.MonsterByID(id)
		if m == nil {
			return nil, r.invalid("unknown monster %q", id)
		}
		switch targeting {
		case gamedata.AttackWithinTiles:
			if !r.inRange(hero, power, m.Position) {
				return nil, r.invalid("%s is out of range for %s", m.Name, power.Name)
			}
		default:
			if !world.Adjacent(hero.Position, m.Position) {
				return nil, r.invalid("%s is not adjacent to %s", m.Name, hero.Name)
			}
		}
	}
	return ids, nil
}

// heroAttackProfile builds the hero's attack from a power card or the basic attack,
// applying statuses and the active environment.
func (r *reducer) heroAttackProfile(hero *entity.Hero) (combat.Attack, *gamedata.PowerDef, error) {
	mods := hero.Modifiers()
	atk := combat.Attack{Name: hero.Name, Bonus: hero.AttackBonus, Damage: hero.Damage}

	var power *gamedata.PowerDef
	if id := r.action.PowerID; id != "" {
		power = r.e.catalog.Powers.GetByID(id)
		switch {
		case power == nil:
			return atk, nil, r.invalid("unknown power %s", id)
		case !hero.HasPower(id):
			return atk, nil, r.invalid("%s does not have %s", hero.Name, power.Name)
		case !power.IsAttack():
			return atk, nil, r.invalid("%s is not an attack power", power.Name)
		case power.Kind == gamedata.PowerDaily && hero.HasUsedPower(id):
			return atk, nil, r.invalid("%s has already been used", power.Name)
		}
		atk.Name = fmt.Sprintf("%s (%s)", hero.Name, power.Name)
		atk.Bonus = power.AttackBonus + hero.Level - 1
		atk.Damage = power.Damage
	}

	atk.Bonus += mods.Attack
	if env := r.environment(); env != nil {
		atk.Bonus += env.Effect.AttackModifier
	}
	atk.Damage = mods.ApplyDamage(atk.Damage)
	return atk, power, nil
}

// tryLevelUp spends XP to level the hero after a natural 20.
func (r *reducer) tryLevelUp(hero *entity.Hero) {
	if hero.Level >= maxLevel || !r.s.Party.SpendXP(LevelUpCost) {
		return
	}
	hero.LevelUp()
	r.logf("Natural 20! %s spends %d XP and reaches level %d", hero.Name, LevelUpCost, hero.Level)
}

// defeatMonster removes a monster at 0 HP, awards its XP and pays out treasure.
func (r *reducer) defeatMonster(instanceID string) {
	idx := slices.IndexFunc(r.s.Monsters, func(m entity.Monster) bool { return m.InstanceID == instanceID })
	if idx < 0 {
		return
	}
	m := r.s.Monsters[idx]
	r.s.Monsters = slices.Delete(r.s.Monsters, idx, idx+1)
	r.s.MonsterDeck.Discard(m.MonsterID)
	r.s.Party.XP += m.XP
	r.s.MonstersDefeated++
	if r.s.SelectedTargetID == instanceID {
		r.s.SelectedTargetID, r.s.SelectedTargetType = "", ""
	}
	r.logf("%s is defeated: the party gains %d XP", m.Name, m.XP)

	hero := r.s.ActiveHero()
	if hero.HasStatus(gamedata.CurseBloodlust) {
		hero.Statuses = hero.Statuses.Remove(gamedata.CurseBloodlust)
		r.logf("%s's Bloodlust is sated", hero.Name)
	}

	if r.s.Turn.CurrentPhase == PhaseHero && !r.s.Turn.TreasureDrawnThisTurn {
		r.drawTreasure(hero)
	}

	if r.s.MonstersToDefeat > 0 && r.s.MonstersDefeated >= r.s.MonstersToDefeat {
		r.s.Outcome = OutcomeVictory
		r.logf("%d monsters defeated. The heroes are victorious", r.s.MonstersDefeated)
	}
}

// drawTreasure gives the hero the top treasure card. One treasure is drawn per turn.
func (r *reducer) drawTreasure(hero *entity.Hero) {
	id, ok := r.s.TreasureDeck.Draw(r.src)
	if !ok {
		return
	}
	r.s.Turn.TreasureDrawnThisTurn = true
	def := r.e.catalog.Treasures.GetByID(id)
	if def == nil {
		r.s.TreasureDeck.Discard(id)
		return
	}
	hero.EquipTreasure(def)
	r.logf("%s finds %s", hero.Name, def.Name)
}
