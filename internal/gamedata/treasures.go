package gamedata

// TreasureDef defines a treasure item loaded from JSON.
type TreasureDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AttackBonus int    `json:"attackBonus,omitempty"`
	ACBonus     int    `json:"acBonus,omitempty"`
	SpeedBonus  int    `json:"speedBonus,omitempty"`
	DamageBonus int    `json:"damageBonus,omitempty"`

	// Consumable items sit in the hero's pack until used, then are discarded.
	Consumable bool `json:"consumable,omitempty"`
	Heal       int  `json:"heal,omitempty"`
	FlipPower  bool `json:"flipPower,omitempty"` // refreshes one used daily power

	Copies int `json:"copies"`
}

// Bonus reports whether the item changes the hero's stats while carried.
func (t *TreasureDef) Bonus() bool {
	return t.AttackBonus != 0 || t.ACBonus != 0 || t.SpeedBonus != 0 || t.DamageBonus != 0
}

// TreasuresFile represents the structure of treasures.json.
type TreasuresFile struct {
	Treasures []TreasureDef `json:"treasures"`
}

// LoadTreasures loads treasure definitions from the embedded treasures.json file.
func LoadTreasures() ([]TreasureDef, error) {
	file, err := Load[TreasuresFile]("treasures.json")
	if err != nil {
		return nil, err
	}
	return file.Treasures, nil
}
