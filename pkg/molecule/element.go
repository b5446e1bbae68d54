package molecule

import "strings"

// Element is the closed set of element symbols the renderer knows how to color.
// Anything else maps to [Unknown], which renders like carbon.
type Element uint8

const (
	Unknown Element = iota
	C
	N
	O
	S
	Cl
	F
	Br
	H
)

var symbols = map[Element]string{
	Unknown: "?",
	C:       "C",
	N:       "N",
	O:       "O",
	S:       "S",
	Cl:      "Cl",
	F:       "F",
	Br:      "Br",
	H:       "H",
}

var bySymbol = map[string]Element{
	"C":  C,
	"N":  N,
	"O":  O,
	"S":  S,
	"CL": Cl,
	"F":  F,
	"BR": Br,
	"H":  H,
}

// Symbol returns the canonical element symbol ("C", "Cl", ...).
// Unknown elements return "?".
func (e Element) Symbol() string {
	if s, ok := symbols[e]; ok {
		return s
	}
	return symbols[Unknown]
}

// String implements fmt.Stringer.
func (e Element) String() string { return e.Symbol() }

// ParseElement maps a symbol to its Element, ignoring case.
// Lowercase aromatic forms ("c", "n") map to the same element as their
// uppercase counterparts. Unrecognized input returns [Unknown].
func ParseElement(s string) Element {
	if e, ok := bySymbol[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return e
	}
	return Unknown
}

// Elements lists every known element in table order, excluding Unknown.
func Elements() []Element {
	return []Element{C, O, N, S, Cl, F, Br, H}
}

// =============================================================================
// Color and size tables
// =============================================================================

// Color is a hex RGB color tag such as "#3b82f6".
type Color string

// Radii keyed by element category.
const (
	SizeHydrogen = 0.2
	SizeLarge    = 0.35 // oxygen, nitrogen
	SizeDefault  = 0.3
)

var colors = map[Element]Color{
	C:  "#3b82f6", // blue
	O:  "#ef4444", // red
	N:  "#a855f7", // purple
	S:  "#fbbf24", // yellow
	Cl: "#22c55e", // green
	F:  "#06b6d4", // cyan
	Br: "#f97316", // orange
	H:  "#94a3b8", // gray
}

var sizes = map[Element]float64{
	H: SizeHydrogen,
	O: SizeLarge,
	N: SizeLarge,
}

var names = map[Element]string{
	C:  "Carbon",
	O:  "Oxygen",
	N:  "Nitrogen",
	S:  "Sulfur",
	Cl: "Chlorine",
	F:  "Fluorine",
	Br: "Bromine",
	H:  "Hydrogen",
}

// Color returns the display color of e, falling back to carbon's color.
func (e Element) Color() Color {
	if c, ok := colors[e]; ok {
		return c
	}
	return colors[C]
}

// Size returns the sphere radius of e.
func (e Element) Size() float64 {
	if s, ok := sizes[e]; ok {
		return s
	}
	return SizeDefault
}

// Name returns the English element name, or "Unknown".
func (e Element) Name() string {
	if n, ok := names[e]; ok {
		return n
	}
	return "Unknown"
}

// RGB decodes c into 8-bit channels. Malformed colors decode as black.
func (c Color) RGB() (r, g, b uint8) {
	s := strings.TrimPrefix(string(c), "#")
	if len(s) != 6 {
		return 0, 0, 0
	}
	var v [3]uint8
	for i := range v {
		hi, ok1 := hexNibble(s[2*i])
		lo, ok2 := hexNibble(s[2*i+1])
		if !ok1 || !ok2 {
			return 0, 0, 0
		}
		v[i] = hi<<4 | lo
	}
	return v[0], v[1], v[2]
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
