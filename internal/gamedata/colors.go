package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}

	var rgb [3]int32
	for i, name := range []string{"red", "green", "blue"} {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid %s component in %s: %w", name, hex, err)
		}
		rgb[i] = int32(v)
	}

	return tcell.NewRGBColor(rgb[0], rgb[1], rgb[2]), nil
}

// MustParseHexColor converts a hex color string to tcell.Color, panicking on error.
func MustParseHexColor(hex string) tcell.Color {
	color, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return color
}

// tokenColors maps board tokens to their display colors.
var tokenColors = map[TokenType]string{
	TokenBladeBarrier:  "#E0E0E0",
	TokenFlamingSphere: "#FF8C00",
	TokenMirrorImage:   "#00CED1",
	TokenWizardEye:     "#9370DB",
}

// TokenColor returns the display color for a board token type.
func TokenColor(t TokenType) tcell.Color {
	hex, ok := tokenColors[t]
	if !ok {
		return tcell.ColorWhite
	}
	return MustParseHexColor(hex)
}

// TokenRune returns the display rune for a board token type.
func TokenRune(t TokenType) rune {
	switch t {
	case TokenBladeBarrier:
		return '*'
	case TokenFlamingSphere:
		return '@'
	case TokenMirrorImage:
		return '%'
	case TokenWizardEye:
		return 'e'
	default:
		return '?'
	}
}
