package engine

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/ashardalon/internal/combat"
	"github.com/samdwyer/ashardalon/internal/entity"
	"github.com/samdwyer/ashardalon/internal/gamedata"
)

// CancelEncounterCost is the XP the party spends to cancel an encounter.
const CancelEncounterCost = 5

// drawEncounter puts an encounter into drawnEncounter: the named card, or the top
// of the deck. A normal draw by a hero with Bad Luck owes one extra draw, paid
// when this card is resolved.
func (r *reducer) drawEncounter(id string, extra bool) bool {
	if id != "" {
		r.s.EncounterDeck.Take(id)
	} else {
		var ok bool
		id, ok = r.s.EncounterDeck.Draw(r.src)
		if !ok {
			r.logf("The encounter deck is empty")
			return false
		}
	}

	def := r.e.catalog.Encounters.GetByID(id)
	r.s.DrawnEncounter = id
	r.s.EncounterEffectMessage = ""
	r.logf("Encounter: %s (%s)", def.Name, def.Type)

	if hero := r.s.ActiveHero(); !extra && hero != nil && hero.HasStatus(gamedata.CurseBadLuck) {
		r.s.BadLuckExtraEncounterPending = true
	}
	return true
}

func (r *reducer) drawEncounterAction() error {
	if r.s.DrawnEncounter != "" {
		return r.illegal("an encounter is already drawn")
	}
	if id := r.action.EncounterID; id != "" && r.e.catalog.Encounters.GetByID(id) == nil {
		return r.invalid("unknown encounter %s", id)
	}
	r.drawEncounter(r.action.EncounterID, false)
	return nil
}

func (r *reducer) acceptEncounter() error {
	if r.s.DrawnEncounter == "" {
		return r.illegal("no encounter to resolve")
	}
	def := r.e.catalog.Encounters.GetByID(r.s.DrawnEncounter)
	if def == nil {
		return r.invalid("unknown encounter %s", r.s.DrawnEncounter)
	}

	_, span := r.e.tracer.Start(r.ctx, "engine.resolve_encounter")
	defer span.End()
	span.SetAttributes(
		attribute.String("encounter.id", def.ID),
		attribute.String("encounter.kind", string(def.Effect.Kind)),
	)

	msg := r.applyEncounterEffect(def)
	if def.Effect.Kind != gamedata.EffectEnvironment {
		r.s.EncounterDeck.Discard(def.ID)
	}
	r.s.DrawnEncounter = ""
	r.finishEncounter(msg)
	r.recomputeHeroActions()
	r.checkDefeat()
	return nil
}

func (r *reducer) cancelEncounter() error {
	if r.s.DrawnEncounter == "" {
		return r.illegal("no encounter to cancel")
	}
	if !r.s.Party.SpendXP(CancelEncounterCost) {
		return r.invalid("cancelling costs %d XP, the party has %d", CancelEncounterCost, r.s.Party.XP)
	}
	def := r.e.catalog.Encounters.GetByID(r.s.DrawnEncounter)
	r.s.EncounterDeck.Discard(r.s.DrawnEncounter)
	r.s.DrawnEncounter = ""
	r.finishEncounter(fmt.Sprintf("%s cancelled for %d XP", def.Name, CancelEncounterCost))
	return nil
}

// finishEncounter records the effect message and pays any Bad Luck extra draw.
func (r *reducer) finishEncounter(msg string) {
	r.logf("%s", msg)
	if r.s.BadLuckExtraEncounterPending {
		r.s.BadLuckExtraEncounterPending = false
		if r.drawEncounter("", true) {
			extra := fmt.Sprintf("Bad Luck curse: %s draws an extra encounter", r.s.ActiveHero().Name)
			r.logf("%s", extra)
			msg += ". " + extra
		}
	}
	r.s.EncounterEffectMessage = msg
}

// applyEncounterEffect resolves the card completely and returns its message.
func (r *reducer) applyEncounterEffect(def *gamedata.EncounterDef) string {
	eff := def.Effect
	hero := r.s.ActiveHero()

	switch eff.Kind {
	case gamedata.EffectCurse:
		targets := r.encounterTargets(eff.Target)
		var names []string
		for _, h := range targets {
			r.applyCurse(h, eff.Status, def.ID)
			names = append(names, h.Name)
		}
		if len(names) == 0 {
			return fmt.Sprintf("%s has no one to curse", def.Name)
		}
		return fmt.Sprintf("%s is afflicted by %s", strings.Join(names, ", "), eff.Status.Name())

	case gamedata.EffectEnvironment:
		if prev := r.s.ActiveEnvironmentID; prev != "" && prev != def.ID {
			r.s.EncounterDeck.Discard(prev)
		}
		r.s.ActiveEnvironmentID = def.ID
		return fmt.Sprintf("%s is now in effect", def.Name)

	case gamedata.EffectDamage:
		var parts []string
		for _, h := range r.encounterTargets(eff.Target) {
			dealt := h.TakeDamage(eff.Amount)
			parts = append(parts, fmt.Sprintf("%s takes %d damage", h.Name, dealt))
		}
		return def.Name + ": " + joinOrNone(parts)

	case gamedata.EffectAttack:
		atk := combat.Attack{Name: def.Name, Bonus: eff.AttackBonus, Damage: eff.Damage, MissDamage: eff.MissDamage, OnHit: eff.Status}
		var parts []string
		for _, h := range r.encounterTargets(eff.Target) {
			parts = append(parts, r.attackHero(atk, h, def.ID))
		}
		return joinOrNone(parts)

	case gamedata.EffectTrap:
		if hero == nil || !hero.InPlay() {
			return fmt.Sprintf("%s finds no one to threaten", def.Name)
		}
		r.s.Counters.Trap++
		trap := entity.Trap{
			ID:          fmt.Sprintf("trap-%d", r.s.Counters.Trap),
			EncounterID: def.ID,
			Kind:        string(def.Type),
			Position:    hero.Position,
			TileID:      r.s.Dungeon.TileIDAt(hero.Position),
		}
		r.s.Traps = append(r.s.Traps, trap)
		return fmt.Sprintf("%s placed on %s", def.Name, trap.TileID)

	case gamedata.EffectDeckFilter:
		return r.filterMonsterDeck(eff.Category, eff.Count)

	case gamedata.EffectTileDeck:
		r.s.Dungeon.MoveBottomTileToTop()
		return fmt.Sprintf("%s: the bottom tile of the dungeon stack is now on top", def.Name)

	default:
		return fmt.Sprintf("%s has no effect", def.Name)
	}
}

// applyCurse attaches a curse. Re-applying the same card replaces the entry.
func (r *reducer) applyCurse(h *entity.Hero, curse gamedata.StatusType, source string) {
	h.Statuses = h.Statuses.Apply(combat.Status{Type: curse, Source: source, AppliedOnTurn: r.s.Turn.TurnNumber})
	if curse == gamedata.CurseTimeLeap {
		h.RemovedFromPlay = true
		r.hideMovement()
	}
}

// encounterTargets returns the in-play heroes an encounter affects.
func (r *reducer) encounterTargets(target gamedata.Target) []*entity.Hero {
	active := r.s.ActiveHero()
	var out []*entity.Hero
	switch target {
	case gamedata.TargetAllHeroes:
		for i := range r.s.Heroes {
			if r.s.Heroes[i].InPlay() {
				out = append(out, &r.s.Heroes[i])
			}
		}
	case gamedata.TargetHeroesTile:
		if active == nil {
			return nil
		}
		tileID := r.s.Dungeon.TileIDAt(active.Position)
		for i := range r.s.Heroes {
			h := &r.s.Heroes[i]
			if h.InPlay() && r.s.Dungeon.TileIDAt(h.Position) == tileID {
				out = append(out, h)
			}
		}
	default:
		if active != nil && active.InPlay() {
			out = append(out, active)
		}
	}
	return out
}

// attackHero resolves one non-monster attack against a hero and returns the log line.
func (r *reducer) attackHero(atk combat.Attack, h *entity.Hero, source string) string {
	result := r.res.Resolve(atk, h)
	if result.Hit && atk.OnHit != "" {
		h.Statuses = h.Statuses.Apply(combat.Status{Type: atk.OnHit, Source: source, AppliedOnTurn: r.s.Turn.TurnNumber})
		return fmt.Sprintf("%s; %s is %s", result.Message, h.Name, atk.OnHit.Name())
	}
	return result.Message
}

func joinOrNone(parts []string) string {
	if len(parts) == 0 {
		return "no heroes affected"
	}
	return strings.Join(parts, "; ")
}
