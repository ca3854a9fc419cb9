package gamedata

import (
	"errors"
	"fmt"
)

// Registry holds loaded definitions of one kind and provides lookup utilities.
type Registry[T any] struct {
	byID map[string]*T
	all  []T
}

// NewRegistry creates a registry keyed by the id function.
func NewRegistry[T any](items []T, id func(*T) string) *Registry[T] {
	registry := &Registry[T]{
		byID: make(map[string]*T, len(items)),
		all:  items,
	}
	for i := range items {
		registry.byID[id(&items[i])] = &items[i]
	}
	return registry
}

// GetByID returns the definition with the given ID, or nil if not found.
func (r *Registry[T]) GetByID(id string) *T {
	return r.byID[id]
}

// All returns all definitions in load order.
func (r *Registry[T]) All() []T {
	return r.all
}

// Count returns the number of definitions in the registry.
func (r *Registry[T]) Count() int {
	return len(r.all)
}

// =============================================================================
// Catalog
// =============================================================================

// Catalog bundles every registry the rules engine reads from.
type Catalog struct {
	Heroes     *Registry[HeroDef]
	Monsters   *Registry[MonsterDef]
	Encounters *Registry[EncounterDef]
	Tiles      *Registry[TileDef]
	Powers     *Registry[PowerDef]
	Treasures  *Registry[TreasureDef]
	Scenarios  *Registry[ScenarioDef]
	StartTile  TileDef
}

// LoadCatalog loads all embedded catalogs.
func LoadCatalog() (*Catalog, error) {
	heroes, err := LoadHeroes()
	if err != nil {
		return nil, err
	}
	monsters, err := LoadMonsters()
	if err != nil {
		return nil, err
	}
	encounters, err := LoadEncounters()
	if err != nil {
		return nil, err
	}
	tiles, err := LoadTiles()
	if err != nil {
		return nil, err
	}
	powers, err := LoadPowers()
	if err != nil {
		return nil, err
	}
	treasures, err := LoadTreasures()
	if err != nil {
		return nil, err
	}
	scenarios, err := LoadScenarios()
	if err != nil {
		return nil, err
	}

	switch {
	case len(heroes) == 0:
		return nil, errors.New("no heroes loaded from heroes.json")
	case len(monsters) == 0:
		return nil, errors.New("no monsters loaded from monsters.json")
	case len(encounters) == 0:
		return nil, errors.New("no encounters loaded from encounters.json")
	case len(tiles.Tiles) == 0:
		return nil, errors.New("no tiles loaded from tiles.json")
	case len(scenarios) == 0:
		return nil, errors.New("no scenarios loaded from scenarios.yaml")
	}

	cat := &Catalog{
		Heroes:     NewRegistry(heroes, func(h *HeroDef) string { return h.ID }),
		Monsters:   NewRegistry(monsters, func(m *MonsterDef) string { return m.ID }),
		Encounters: NewRegistry(encounters, func(e *EncounterDef) string { return e.ID }),
		Tiles:      NewRegistry(tiles.Tiles, func(t *TileDef) string { return t.ID }),
		Powers:     NewRegistry(powers, func(p *PowerDef) string { return p.ID }),
		Treasures:  NewRegistry(treasures, func(t *TreasureDef) string { return t.ID }),
		Scenarios:  NewRegistry(scenarios, func(s *ScenarioDef) string { return s.ID }),
		StartTile:  tiles.StartTile,
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// MustLoadCatalog loads the catalog, panicking on error.
func MustLoadCatalog() *Catalog {
	cat, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return cat
}

// validate checks cross references between catalogs.
func (c *Catalog) validate() error {
	for _, h := range c.Heroes.All() {
		for _, p := range h.Powers {
			if c.Powers.GetByID(p) == nil {
				return fmt.Errorf("hero %s references unknown power %s", h.ID, p)
			}
		}
	}
	for _, p := range c.Powers.All() {
		if !p.Targeting.Valid() {
			return fmt.Errorf("power %s has unknown targeting %q", p.ID, p.Targeting)
		}
		if p.Targeting == AttackWithinTiles && p.Range < 1 {
			return fmt.Errorf("power %s targets within tiles but has no range", p.ID)
		}
	}
	for _, t := range c.Treasures.All() {
		if t.Consumable && t.Bonus() {
			return fmt.Errorf("treasure %s is consumable but carries a permanent bonus", t.ID)
		}
		if t.Consumable && t.Heal == 0 && !t.FlipPower {
			return fmt.Errorf("treasure %s is consumable but has no effect", t.ID)
		}
	}
	for _, e := range c.Encounters.All() {
		if e.Effect.Status != "" && !e.Effect.Status.Valid() {
			return fmt.Errorf("encounter %s references unknown status %s", e.ID, e.Effect.Status)
		}
	}
	for _, s := range c.Scenarios.All() {
		for id := range s.Tiles {
			if c.Tiles.GetByID(id) == nil {
				return fmt.Errorf("scenario %s references unknown tile %s", s.ID, id)
			}
		}
	}
	return nil
}

// MonsterDeck returns monster IDs expanded by copy count, in catalog order.
func (c *Catalog) MonsterDeck() []string {
	var deck []string
	for _, m := range c.Monsters.All() {
		for i := 0; i < max(m.Copies, 1); i++ {
			deck = append(deck, m.ID)
		}
	}
	return deck
}

// EncounterDeck returns encounter IDs expanded by copy count, in catalog order.
func (c *Catalog) EncounterDeck() []string {
	var deck []string
	for _, e := range c.Encounters.All() {
		for i := 0; i < max(e.Copies, 1); i++ {
			deck = append(deck, e.ID)
		}
	}
	return deck
}

// TreasureDeck returns treasure IDs expanded by copy count, in catalog order.
func (c *Catalog) TreasureDeck() []string {
	var deck []string
	for _, t := range c.Treasures.All() {
		for i := 0; i < max(t.Copies, 1); i++ {
			deck = append(deck, t.ID)
		}
	}
	return deck
}

// TileDeck returns tile IDs for a scenario, in catalog order.
func (c *Catalog) TileDeck(scenario *ScenarioDef) []string {
	var deck []string
	for _, t := range c.Tiles.All() {
		copies := t.Copies
		if scenario != nil && len(scenario.Tiles) > 0 {
			copies = scenario.Tiles[t.ID]
		}
		for i := 0; i < copies; i++ {
			deck = append(deck, t.ID)
		}
	}
	return deck
}

// TileDef returns the definition for a placed tile type, including the start tile.
func (c *Catalog) TileDef(id string) *TileDef {
	if id == c.StartTile.ID {
		return &c.StartTile
	}
	return c.Tiles.GetByID(id)
}
