package element

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB triple, compared by value.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{}
	White = Color{255, 255, 255}
	Blue  = Color{0, 0, 255}
)

var namedColors = map[string]Color{
	"black":   Black,
	"white":   White,
	"red":     {255, 0, 0},
	"green":   {0, 128, 0},
	"lime":    {0, 255, 0},
	"blue":    Blue,
	"yellow":  {255, 255, 0},
	"cyan":    {0, 255, 255},
	"magenta": {255, 0, 255},
	"gray":    {128, 128, 128},
	"grey":    {128, 128, 128},
	"silver":  {192, 192, 192},
	"maroon":  {128, 0, 0},
	"navy":    {0, 0, 128},
	"olive":   {128, 128, 0},
	"purple":  {128, 0, 128},
	"teal":    {0, 128, 128},
	"orange":  {255, 165, 0},
}

// ParseColor understands "#rgb", "#rrggbb", "rgb(r, g, b)" and basic color
// names.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return Color{}, fmt.Errorf("bad color %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("bad color %q: %w", s, err)
		}
		return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
	}

	if args, ok := strings.CutPrefix(s, "rgb("); ok {
		parts := strings.Split(strings.TrimSuffix(args, ")"), ",")
		if len(parts) != 3 {
			return Color{}, fmt.Errorf("bad color %q", s)
		}
		var c [3]uint8
		for i, p := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return Color{}, fmt.Errorf("bad color %q: %w", s, err)
			}
			c[i] = uint8(v)
		}
		return Color{c[0], c[1], c[2]}, nil
	}
	return Color{}, fmt.Errorf("unknown color %q", s)
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
