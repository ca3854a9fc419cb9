package gamedata

// =============================================================================
// STATUS AND CURSE SYSTEM
// =============================================================================
//
// Overview:
// ---------
// Statuses are named conditions attached to a hero. Conditions come from
// monster attacks and power cards; curses come from encounter cards. Both live
// in the same ledger on the hero and are consulted whenever the engine computes
// speed, AC, attack bonus, damage or action eligibility.
//
// Conditions:
// -----------
//    - poisoned: 1 damage at turn start, roll 10+ afterwards to recover
//    - dazed: only one action per hero phase
//    - slowed: speed halved (rounded down)
//    - weakened: damage dealt reduced by 1
//    - immobilized: speed 0
//    - stunned: no actions
//    - blinded: attack -2
//    - ongoing-damage: N damage at turn start (N from the status data)
//
// Curses:
// -------
//    - curse-gap-in-armor: AC -4, removed at end of hero phase if the hero did not move
//    - curse-bad-luck: extra encounter each villain phase, roll 10+ to remove
//    - curse-bloodlust: 1 damage at hero phase start, removed on defeating a monster
//    - curse-cage: AC -2, cannot move, roll 10+ to remove
//    - curse-dragon-fear: 1 damage on moving to a new tile, roll 10+ to remove
//    - curse-terrifying-roar: attack -4, roll 10+ to remove
//    - curse-time-leap: hero removed from play until their next hero phase
//    - curse-wrath-of-enemy: closest monster moves adjacent, roll 10+ to remove
//
// Stacking:
// ---------
// Applying a status with the same type and source replaces the existing entry.
// Different sources stack as separate entries. Removal is by type.
//
// Removal rolls happen at the end of the afflicted hero's villain phase, one
// d20 per curse, succeeding on 10 or more.
// =============================================================================

// StatusType identifies a condition or curse.
type StatusType string

const (
	StatusPoisoned      StatusType = "poisoned"
	StatusDazed         StatusType = "dazed"
	StatusSlowed        StatusType = "slowed"
	StatusWeakened      StatusType = "weakened"
	StatusImmobilized   StatusType = "immobilized"
	StatusStunned       StatusType = "stunned"
	StatusBlinded       StatusType = "blinded"
	StatusOngoingDamage StatusType = "ongoing-damage"

	CurseGapInArmor      StatusType = "curse-gap-in-armor"
	CurseBadLuck         StatusType = "curse-bad-luck"
	CurseBloodlust       StatusType = "curse-bloodlust"
	CurseCage            StatusType = "curse-cage"
	CurseDragonFear      StatusType = "curse-dragon-fear"
	CurseTerrifyingRoar  StatusType = "curse-terrifying-roar"
	CurseTimeLeap        StatusType = "curse-time-leap"
	CurseWrathOfTheEnemy StatusType = "curse-wrath-of-enemy"
)

// CurseRemovalTarget is the minimum d20 roll that lifts a removable curse.
const CurseRemovalTarget = 10

// StatusDef describes a status for display and rules lookups.
type StatusDef struct {
	Type        StatusType
	Name        string
	Description string
	Curse       bool
	// RollToRemove marks curses that are checked at the end of the villain phase.
	RollToRemove bool
}

var statusDefs = map[StatusType]StatusDef{
	StatusPoisoned:      {Type: StatusPoisoned, Name: "Poisoned", Description: "Taking ongoing poison damage"},
	StatusDazed:         {Type: StatusDazed, Name: "Dazed", Description: "Can only take a single action on your turn"},
	StatusSlowed:        {Type: StatusSlowed, Name: "Slowed", Description: "Movement speed reduced by half"},
	StatusWeakened:      {Type: StatusWeakened, Name: "Weakened", Description: "Attack damage reduced"},
	StatusImmobilized:   {Type: StatusImmobilized, Name: "Immobilized", Description: "Cannot move from current position"},
	StatusStunned:       {Type: StatusStunned, Name: "Stunned", Description: "Cannot take actions"},
	StatusBlinded:       {Type: StatusBlinded, Name: "Blinded", Description: "Attack rolls take a penalty"},
	StatusOngoingDamage: {Type: StatusOngoingDamage, Name: "Ongoing Damage", Description: "Taking damage at the start of each turn"},

	CurseGapInArmor:      {Type: CurseGapInArmor, Name: "A Gap in the Armor", Description: "AC -4. Removed if hero does not move during Hero Phase.", Curse: true},
	CurseBadLuck:         {Type: CurseBadLuck, Name: "Bad Luck", Description: "Draw an extra encounter. Roll 10+ to remove.", Curse: true, RollToRemove: true},
	CurseBloodlust:       {Type: CurseBloodlust, Name: "Bloodlust", Description: "Take 1 damage at Hero Phase start. Removed when defeating a monster.", Curse: true},
	CurseCage:            {Type: CurseCage, Name: "Cage", Description: "AC -2, cannot move. Roll 10+ to remove.", Curse: true, RollToRemove: true},
	CurseDragonFear:      {Type: CurseDragonFear, Name: "Dragon Fear", Description: "Take 1 damage when moving to a new tile. Roll 10+ to remove.", Curse: true, RollToRemove: true},
	CurseTerrifyingRoar:  {Type: CurseTerrifyingRoar, Name: "Terrifying Roar", Description: "Attack -4. Roll 10+ to remove.", Curse: true, RollToRemove: true},
	CurseTimeLeap:        {Type: CurseTimeLeap, Name: "Time Leap", Description: "Hero removed from play until next Hero Phase.", Curse: true},
	CurseWrathOfTheEnemy: {Type: CurseWrathOfTheEnemy, Name: "Wrath of the Enemy", Description: "Closest monster moves adjacent. Roll 10+ to remove.", Curse: true, RollToRemove: true},
}

// LookupStatus returns the definition for a status type.
func LookupStatus(t StatusType) (StatusDef, bool) {
	def, ok := statusDefs[t]
	return def, ok
}

// IsCurse reports whether the status type is a curse.
func (t StatusType) IsCurse() bool {
	return statusDefs[t].Curse
}

// Name returns the display name, falling back to the raw identifier.
func (t StatusType) Name() string {
	if def, ok := statusDefs[t]; ok {
		return def.Name
	}
	return string(t)
}

// Valid reports whether the status type is known.
func (t StatusType) Valid() bool {
	_, ok := statusDefs[t]
	return ok
}
