package gamedata

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// MonsterDef defines a monster card loaded from JSON.
type MonsterDef struct {
	ID          string     `json:"id"`              // Unique identifier (e.g., "kobold")
	Name        string     `json:"name"`            // Display name (e.g., "Kobold Dragonshield")
	Category    string     `json:"category"`        // Space-separated category words (e.g., "kobold reptile")
	Glyph       string     `json:"glyph"`           // Single character for rendering (e.g., "k")
	Color       string     `json:"color"`           // Hex color code (e.g., "#00FF00")
	HP          int        `json:"hp"`              // Hit points
	AC          int        `json:"ac"`              // Armor class
	XP          int        `json:"xp"`              // Experience awarded when defeated
	AttackBonus int        `json:"attackBonus"`     // d20 bonus on attacks
	Damage      int        `json:"damage"`          // Damage dealt on a hit
	Speed       int        `json:"speed"`           // Squares moved per activation
	OnHit       StatusType `json:"onHit,omitempty"` // Status applied on a hit
	Copies      int        `json:"copies"`          // Cards of this monster in the deck
}

// GlyphRune returns the glyph as a rune for rendering.
func (m *MonsterDef) GlyphRune() rune {
	if len(m.Glyph) == 0 {
		return '?'
	}
	return rune(m.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (m *MonsterDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(m.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// HasCategory reports whether word is one of the monster's category words.
func (m *MonsterDef) HasCategory(word string) bool {
	for _, c := range strings.Fields(m.Category) {
		if c == word {
			return true
		}
	}
	return false
}

// MonstersFile represents the structure of monsters.json.
type MonstersFile struct {
	Monsters []MonsterDef `json:"monsters"`
}

// LoadMonsters loads monster definitions from the embedded monsters.json file.
func LoadMonsters() ([]MonsterDef, error) {
	file, err := Load[MonstersFile]("monsters.json")
	if err != nil {
		return nil, err
	}
	return file.Monsters, nil
}
