package compose

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses "#rrggbb" or "#rrggbbaa" into an RGBA value.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: expected 6- or 8-char hex", s)
	}

	parse := func(part, channel string) (uint8, error) {
		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid %s channel in %q: %w", channel, s, err)
		}
		return uint8(v), nil
	}

	r, err := parse(hex[0:2], "red")
	if err != nil {
		return color.RGBA{}, err
	}
	g, err := parse(hex[2:4], "green")
	if err != nil {
		return color.RGBA{}, err
	}
	b, err := parse(hex[4:6], "blue")
	if err != nil {
		return color.RGBA{}, err
	}

	a := uint8(255)
	if len(hex) == 8 {
		a, err = parse(hex[6:8], "alpha")
		if err != nil {
			return color.RGBA{}, err
		}
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// HexColorOrWhite converts a hex string to RGBA, falling back to opaque
// white on any parse error (safe default for rendering).
func HexColorOrWhite(s string) color.RGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		return white
	}
	return c
}
