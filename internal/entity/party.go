package entity

// Party holds the resources the heroes share.
type Party struct {
	XP            int `json:"xp"`
	HealingSurges int `json:"healingSurges"`
}

// NewParty creates a party with the scenario's starting resources.
func NewParty(xp, surges int) Party {
	return Party{XP: xp, HealingSurges: surges}
}

// SpendXP deducts XP, returning false if the party cannot afford it.
func (p *Party) SpendXP(amount int) bool {
	if p.XP < amount {
		return false
	}
	p.XP -= amount
	return true
}

// SpendSurge uses one healing surge, returning false if none remain.
func (p *Party) SpendSurge() bool {
	if p.HealingSurges <= 0 {
		return false
	}
	p.HealingSurges--
	return true
}
