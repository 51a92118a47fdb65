package models

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ColorKind enumerates the 16 named terminal colours plus true colour.
// The named kinds are ordered like the ANSI palette (0-15).
type ColorKind uint8

const (
	Black ColorKind = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
	TrueColorKind
)

var colorNames = [...]string{
	"Black", "Red", "Green", "Yellow", "Blue", "Magenta", "Cyan", "White",
	"BrightBlack", "BrightRed", "BrightGreen", "BrightYellow",
	"BrightBlue", "BrightMagenta", "BrightCyan", "BrightWhite",
}

// Color is a terminal colour: either one of the named kinds or an RGB triplet.
// R, G and B are only meaningful when Kind is TrueColorKind.
type Color struct {
	Kind    ColorKind
	R, G, B uint8
}

// Named returns the named colour of kind k.
func Named(k ColorKind) Color { return Color{Kind: k} }

// TrueColor returns a 24-bit colour.
func TrueColor(r, g, b uint8) Color { return Color{Kind: TrueColorKind, R: r, G: g, B: b} }

// IsTrueColor reports whether c carries an RGB triplet.
func (c Color) IsTrueColor() bool { return c.Kind == TrueColorKind }

// String returns the variant name, or #rrggbb for true colour.
func (c Color) String() string {
	if c.IsTrueColor() {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	if int(c.Kind) < len(colorNames) {
		return colorNames[c.Kind]
	}
	return fmt.Sprintf("ColorKind(%d)", c.Kind)
}

// Validate implements validation.Validatable.
func (c Color) Validate() error {
	if c.Kind > TrueColorKind {
		return fmt.Errorf("invalid colour kind %d", c.Kind)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler; the TOML and YAML encoders
// use it to write colours as plain strings.
func (c Color) MarshalText() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor parses a colour name (case-insensitive; "-", "_" and spaces are
// ignored, so "bright-blue" and "BrightBlue" are equivalent) or a "#rrggbb"
// hex triplet.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		raw, err := hex.DecodeString(s[1:])
		if err != nil || len(raw) != 3 {
			return Color{}, fmt.Errorf("invalid hex colour %q: want #rrggbb", s)
		}
		return TrueColor(raw[0], raw[1], raw[2]), nil
	}

	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for i, name := range colorNames {
		if strings.ToLower(name) == key {
			return Named(ColorKind(i)), nil
		}
	}
	return Color{}, fmt.Errorf("unknown colour %q", s)
}

// ColorNames lists the accepted colour names in palette order.
func ColorNames() []string {
	out := make([]string, len(colorNames))
	copy(out, colorNames[:])
	return out
}
