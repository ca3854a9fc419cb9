package gamedata

import "github.com/gdamore/tcell/v2"

// HeroDef defines a playable hero loaded from JSON.
type HeroDef struct {
	ID          string   `json:"id"`          // Unique identifier (e.g., "quinn")
	Name        string   `json:"name"`        // Display name (e.g., "Quinn")
	Class       string   `json:"class"`       // Class name (e.g., "Cleric")
	Symbol      string   `json:"symbol"`      // Single character for rendering (e.g., "Q")
	Color       string   `json:"color"`       // Hex color code (e.g., "#FFD700")
	HP          int      `json:"hp"`          // Maximum hit points
	AC          int      `json:"ac"`          // Armor class
	Speed       int      `json:"speed"`       // Squares per move action
	SurgeValue  int      `json:"surgeValue"`  // HP restored by a healing surge
	AttackBonus int      `json:"attackBonus"` // Basic attack bonus
	Damage      int      `json:"damage"`      // Basic attack damage
	Powers      []string `json:"powers"`      // Power card IDs this hero starts with
}

// SymbolRune returns the symbol as a rune for rendering.
func (h *HeroDef) SymbolRune() rune {
	if len(h.Symbol) == 0 {
		return '?'
	}
	return rune(h.Symbol[0])
}

// TCellColor returns the color as a tcell.Color.
func (h *HeroDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(h.Color)
	if err != nil {
		return tcell.ColorYellow // fallback
	}
	return color
}

// HeroesFile represents the structure of heroes.json.
type HeroesFile struct {
	Heroes []HeroDef `json:"heroes"`
}

// LoadHeroes loads hero definitions from the embedded heroes.json file.
func LoadHeroes() ([]HeroDef, error) {
	file, err := Load[HeroesFile]("heroes.json")
	if err != nil {
		return nil, err
	}
	return file.Heroes, nil
}

// MustLoadHeroes loads hero definitions, panicking on error.
func MustLoadHeroes() []HeroDef {
	heroes, err := LoadHeroes()
	if err != nil {
		panic(err)
	}
	return heroes
}
