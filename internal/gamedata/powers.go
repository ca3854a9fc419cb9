package gamedata

// PowerKind is the usage frequency of a power card.
type PowerKind string

const (
	PowerAtWill  PowerKind = "at-will"
	PowerDaily   PowerKind = "daily"
	PowerUtility PowerKind = "utility"
)

// TokenType names a board token a power can create.
type TokenType string

const (
	TokenNone          TokenType = ""
	TokenBladeBarrier  TokenType = "blade-barrier"
	TokenFlamingSphere TokenType = "flaming-sphere"
	TokenMirrorImage   TokenType = "mirror-image"
	TokenWizardEye     TokenType = "wizard-eye"
)

// AttackTarget says which monsters an attack power can reach.
type AttackTarget string

const (
	AttackAdjacent    AttackTarget = "adjacent"
	AttackWithinTiles AttackTarget = "within-tiles"
	AttackTile        AttackTarget = "tile" // every monster on the hero's tile
)

// Valid reports whether t is a known targeting mode. Empty means adjacent.
func (t AttackTarget) Valid() bool {
	switch t {
	case "", AttackAdjacent, AttackWithinTiles, AttackTile:
		return true
	}
	return false
}

// PowerDef defines a power card loaded from JSON.
type PowerDef struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Class       string    `json:"class"`
	Kind        PowerKind `json:"kind"`
	AttackBonus int       `json:"attackBonus,omitempty"` // Attack powers: replaces the hero's basic bonus
	Damage      int       `json:"damage,omitempty"`      // Attack powers: damage on hit
	Token       TokenType `json:"token,omitempty"`       // Token powers: token created
	TokenCount  int       `json:"tokenCount,omitempty"`  // Token powers: tokens placed
	Charges     int       `json:"charges,omitempty"`     // Token powers: charges per token
	Range       int       `json:"range,omitempty"`       // Placement or attack range in tiles

	Targeting  AttackTarget `json:"targeting,omitempty"`
	MaxTargets int          `json:"maxTargets,omitempty"` // Attack powers: monsters hit per use, default 1
}

// TargetLimit returns how many monsters one use may name.
func (p *PowerDef) TargetLimit() int {
	return max(p.MaxTargets, 1)
}

// IsAttack reports whether the power is used through an attack action.
func (p *PowerDef) IsAttack() bool {
	return p.Token == TokenNone && p.Damage > 0
}

// PowersFile represents the structure of powers.json.
type PowersFile struct {
	Powers []PowerDef `json:"powers"`
}

// LoadPowers loads power definitions from the embedded powers.json file.
func LoadPowers() ([]PowerDef, error) {
	file, err := Load[PowersFile]("powers.json")
	if err != nil {
		return nil, err
	}
	return file.Powers, nil
}
