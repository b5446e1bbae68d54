package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"math"

	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/render/scene"
)

// Background gradient stops, top-left to bottom-right.
var backgroundStops = []molecule.Color{"#0f172a", "#3b0764", "#0f172a"}

const (
	textColor      molecule.Color = "#e2e8f0"
	watermarkColor molecule.Color = "#64748b"
	fontFamily                    = "Helvetica, Arial, sans-serif"

	minShade    = 0.6 // brightness of the farthest atom
	legendRow   = 18.0
	legendInset = 16.0
)

// SVGOption configures the 3D view. SVG, PNG, GIF and PDF sinks all accept
// these, directly or through a pass-through option.
type SVGOption func(*view)

type view struct {
	width, height int
	angle, tilt   float64
	legend        bool
	title         string
	watermark     string
	transparent   bool
}

// WithSize sets the output size in pixels (default 600×600).
func WithSize(w, h int) SVGOption { return func(v *view) { v.width, v.height = w, h } }

// WithAngle sets the rotation about the vertical axis in radians.
func WithAngle(a float64) SVGOption { return func(v *view) { v.angle = a } }

// WithTilt sets the rotation about the horizontal axis in radians.
func WithTilt(t float64) SVGOption { return func(v *view) { v.tilt = t } }

// WithLegend draws a color key for the elements present.
func WithLegend() SVGOption { return func(v *view) { v.legend = true } }

// WithTitle draws a title in the top-left corner.
func WithTitle(s string) SVGOption { return func(v *view) { v.title = s } }

// WithWatermark draws small text in the bottom-right corner.
func WithWatermark(s string) SVGOption { return func(v *view) { v.watermark = s } }

// WithTransparent omits the background.
func WithTransparent() SVGOption { return func(v *view) { v.transparent = true } }

func newView(opts ...SVGOption) view {
	v := view{width: scene.DefaultWidth, height: scene.DefaultHeight}
	for _, opt := range opts {
		opt(&v)
	}
	if v.width <= 0 {
		v.width = scene.DefaultWidth
	}
	if v.height <= 0 {
		v.height = scene.DefaultHeight
	}
	return v
}

func (v view) project(st molecule.Structure) scene.Scene {
	return scene.Project(st, scene.Options{
		Angle:  v.angle,
		Tilt:   v.tilt,
		Width:  float64(v.width),
		Height: float64(v.height),
	})
}

// =============================================================================
// Legend
// =============================================================================

// LegendEntry is one row of the element key.
type LegendEntry struct {
	Symbol string         `json:"symbol"`
	Name   string         `json:"name"`
	Color  molecule.Color `json:"color"`
	Count  int            `json:"count"`
}

// Legend lists the elements of st in table order with their atom counts.
func Legend(st molecule.Structure) []LegendEntry {
	counts := st.Counts()
	var out []LegendEntry
	for _, e := range append(molecule.Elements(), molecule.Unknown) {
		if n := counts[e]; n > 0 {
			out = append(out, LegendEntry{Symbol: e.Symbol(), Name: e.Name(), Color: e.Color(), Count: n})
		}
	}
	return out
}

// Label returns the legend text for e, e.g. "Carbon (C): 6".
func (e LegendEntry) Label() string {
	return fmt.Sprintf("%s (%s): %d", e.Name, e.Symbol, e.Count)
}

// =============================================================================
// Color helpers
// =============================================================================

func rgba(c molecule.Color, alpha float64) color.NRGBA {
	r, g, b := c.RGB()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(alpha) * 255))}
}

// mix blends c toward target by t in [0, 1].
func mix(c, target molecule.Color, t float64) molecule.Color {
	r1, g1, b1 := c.RGB()
	r2, g2, b2 := target.RGB()
	t = clamp01(t)
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return molecule.Color(fmt.Sprintf("#%02x%02x%02x", lerp(r1, r2), lerp(g1, g2), lerp(b1, b2)))
}

func lighten(c molecule.Color, t float64) molecule.Color { return mix(c, "#ffffff", t) }
func darken(c molecule.Color, t float64) molecule.Color  { return mix(c, "#000000", t) }

func clamp01(x float64) float64 { return math.Max(0, math.Min(1, x)) }

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
