package level

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

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}

	return tcell.NewHexColor(int32(rgb)), nil
}

// Colors parses the palette. Codes without an entry are left to the
// renderer's defaults.
func (l *Level) Colors() (map[int]tcell.Color, error) {
	colors := make(map[int]tcell.Color, len(l.Palette))
	for code, hex := range l.Palette {
		c, err := ParseHexColor(hex)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", code, err)
		}
		colors[code] = c
	}
	return colors, nil
}
