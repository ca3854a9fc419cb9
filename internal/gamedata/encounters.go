package gamedata

// EncounterType is the card family of an encounter.
type EncounterType string

const (
	EncounterCurse       EncounterType = "curse"
	EncounterEnvironment EncounterType = "environment"
	EncounterEvent       EncounterType = "event"
	EncounterTrap        EncounterType = "trap"
	EncounterHazard      EncounterType = "hazard"
	EncounterSpecial     EncounterType = "special"
)

// EffectKind selects how an encounter resolves.
type EffectKind string

const (
	EffectCurse       EffectKind = "curse"       // attach Status to the active hero
	EffectEnvironment EffectKind = "environment" // persistent global effect
	EffectDamage      EffectKind = "damage"      // fixed damage to Target
	EffectAttack      EffectKind = "attack"      // d20 + AttackBonus vs AC for each target
	EffectTrap        EffectKind = "trap"        // place a trap or hazard marker
	EffectDeckFilter  EffectKind = "deck-filter" // keep Category monsters on top of the deck
	EffectTileDeck    EffectKind = "tile-deck"   // move the bottom tile to the top
)

// Target selects which heroes an encounter affects.
type Target string

const (
	TargetActiveHero Target = "active-hero"
	TargetAllHeroes  Target = "all-heroes"
	TargetHeroesTile Target = "heroes-on-tile"
)

// EncounterEffect holds the numeric parameters of an encounter. Fields that do
// not apply to the effect kind are left zero.
type EncounterEffect struct {
	Kind        EffectKind `json:"kind"`
	Target      Target     `json:"target,omitempty"`
	Amount      int        `json:"amount,omitempty"`      // damage effects
	AttackBonus int        `json:"attackBonus,omitempty"` // attack effects and traps
	Damage      int        `json:"damage,omitempty"`      // attack effects and traps, on hit
	MissDamage  int        `json:"missDamage,omitempty"`  // attack effects, on miss
	Status      StatusType `json:"status,omitempty"`      // curse, or condition on hit
	Category    string     `json:"category,omitempty"`    // deck filter category word
	Count       int        `json:"count,omitempty"`       // deck filter batch size
	DisableDC   int        `json:"disableDC,omitempty"`   // traps; 0 means cannot be disabled

	// Environment modifiers.
	VillainDamage  int  `json:"villainDamage,omitempty"`  // damage to the active hero each villain phase
	AttackModifier int  `json:"attackModifier,omitempty"` // added to hero attack rolls
	SpeedModifier  int  `json:"speedModifier,omitempty"`  // added to hero speed
	PassMonster    bool `json:"passMonster,omitempty"`    // pass one monster to the next hero
}

// EncounterDef defines an encounter card loaded from JSON.
type EncounterDef struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        EncounterType   `json:"type"`
	Description string          `json:"description"`
	Effect      EncounterEffect `json:"effect"`
	Copies      int             `json:"copies"`
}

// EncountersFile represents the structure of encounters.json.
type EncountersFile struct {
	Encounters []EncounterDef `json:"encounters"`
}

// LoadEncounters loads encounter definitions from the embedded encounters.json file.
func LoadEncounters() ([]EncounterDef, error) {
	file, err := Load[EncountersFile]("encounters.json")
	if err != nil {
		return nil, err
	}
	return file.Encounters, nil
}
