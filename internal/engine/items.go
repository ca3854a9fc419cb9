package engine

import (
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/ashardalon/internal/world"
)

// useItem spends a consumable treasure from the active hero's pack. It does not
// use up one of the hero's actions.
func (r *reducer) useItem() error {
	if err := r.requirePhase(PhaseHero); err != nil {
		return err
	}
	hero, err := r.heroFor(r.action.HeroID)
	if err != nil {
		return err
	}
	if !hero.InPlay() {
		return r.invalid("%s cannot use items now", hero.Name)
	}
	id := r.action.ItemID
	if !slices.Contains(hero.Items, id) {
		return r.invalid("%s does not carry %q", hero.Name, id)
	}
	item := r.e.catalog.Treasures.GetByID(id)
	if item == nil || !item.Consumable {
		return r.invalid("%s cannot be used", id)
	}

	// Validate every effect before applying any of them.
	target := hero
	if item.Heal > 0 && r.action.TargetID != "" && r.action.TargetID != hero.HeroID {
		target = r.s.HeroByID(r.action.TargetID)
		switch {
		case target == nil:
			return r.invalid("unknown hero %s", r.action.TargetID)
		case target.RemovedFromPlay:
			return r.invalid("%s is out of play", target.Name)
		case !world.Adjacent(hero.Position, target.Position):
			return r.invalid("%s is not adjacent to %s", target.Name, hero.Name)
		}
	}
	if item.FlipPower && !hero.HasUsedPower(r.action.PowerID) {
		return r.invalid("%s has no used power %q to refresh", hero.Name, r.action.PowerID)
	}

	_, span := r.e.tracer.Start(r.ctx, "engine.use_item")
	defer span.End()
	span.SetAttributes(attribute.String("hero", hero.HeroID), attribute.String("item", id))

	hero.DropItem(id)
	r.s.TreasureDeck.Discard(id)
	if item.Heal > 0 {
		healed := target.Heal(item.Heal)
		r.logf("%s uses %s: %s regains %d HP", hero.Name, item.Name, target.Name, healed)
	}
	if item.FlipPower {
		power := r.action.PowerID
		if def := r.e.catalog.Powers.GetByID(power); def != nil {
			power = def.Name
		}
		hero.UsedPowers = slices.DeleteFunc(slices.Clone(hero.UsedPowers), func(p string) bool { return p == r.action.PowerID })
		r.logf("%s uses %s: %s is ready again", hero.Name, item.Name, power)
	}
	return nil
}
