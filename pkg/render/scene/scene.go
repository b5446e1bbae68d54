// Package scene projects a 3D structure onto a 2D viewport.
//
// Every 3D renderer (SVG, PNG, GIF and the terminal viewer) draws from a
// [Scene]: atoms become [Sphere] values and bonds become [Segment] values,
// both in screen coordinates and sorted back to front so a painter's
// algorithm produces correct occlusion.
//
// The display rotates a structure continuously about its vertical axis.
// [Frames] samples that turn and [Project] renders a single sample.
package scene

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/molview/pkg/molecule"
)

// Display constants shared by the renderers.
const (
	BondColor  molecule.Color = "#94a3b8"
	BondRadius                = 0.07 // model units

	// Rotation speeds of the animated display in radians per second.
	SpeedGenerated = 0.4
	SpeedReference = 0.3

	DefaultWidth   = 600
	DefaultHeight  = 600
	DefaultPadding = 0.1 // fraction of the shorter side
)

var (
	axisY = r3.Vec{Y: 1}
	axisX = r3.Vec{X: 1}
)

// Options controls projection.
type Options struct {
	Angle   float64 // rotation about the vertical axis, radians
	Tilt    float64 // rotation about the horizontal axis, radians
	Scale   float64 // pixels per model unit; 0 fits the viewport
	Width   float64
	Height  float64
	Padding float64 // fraction of the shorter side left empty; 0 uses the default
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	return o
}

// Sphere is a projected atom.
type Sphere struct {
	Atom    int
	Element molecule.Element
	Color   molecule.Color
	X, Y    float64 // screen center
	R       float64 // screen radius
	Depth   float64 // larger is closer to the viewer
}

// Segment is a projected bond.
type Segment struct {
	Bond           int
	From, To       int
	X1, Y1, X2, Y2 float64
	Width          float64
	Depth          float64
}

// Item is one drawable in painter's order: exactly one of Sphere or
// Segment is set.
type Item struct {
	Sphere  *Sphere
	Segment *Segment
	Depth   float64
}

// Scene is a projected structure.
type Scene struct {
	Width, Height float64
	Scale         float64
	Spheres       []Sphere  // back to front
	Segments      []Segment // back to front
}

// Project rotates st about its center and projects it orthographically.
//
// With Scale unset, the scale is chosen from the structure's bounding
// sphere so the fitted size does not change as the angle changes; frames
// of an animation therefore share one scale.
func Project(st molecule.Structure, opts Options) Scene {
	opts = opts.withDefaults()
	center := boxCenter(st)
	rot := rotation(opts.Angle, opts.Tilt)

	scale := opts.Scale
	if scale <= 0 {
		scale = FitScale(st, opts.Width, opts.Height, opts.Padding)
	}

	cx, cy := opts.Width/2, opts.Height/2
	pts := make([]r3.Vec, len(st.Atoms))
	sc := Scene{Width: opts.Width, Height: opts.Height, Scale: scale}
	sc.Spheres = make([]Sphere, len(st.Atoms))
	for i, a := range st.Atoms {
		p := rot(r3.Sub(a.Position, center))
		pts[i] = p
		sc.Spheres[i] = Sphere{
			Atom:    i,
			Element: a.Element,
			Color:   a.Color,
			X:       cx + p.X*scale,
			Y:       cy - p.Y*scale,
			R:       a.Size * scale,
			Depth:   p.Z,
		}
	}

	sc.Segments = make([]Segment, 0, len(st.Bonds))
	for i, b := range st.Bonds {
		p := rot(r3.Sub(b.Start, center))
		q := rot(r3.Sub(b.End, center))
		sc.Segments = append(sc.Segments, Segment{
			Bond:  i,
			From:  b.From,
			To:    b.To,
			X1:    cx + p.X*scale,
			Y1:    cy - p.Y*scale,
			X2:    cx + q.X*scale,
			Y2:    cy - q.Y*scale,
			Width: 2 * BondRadius * scale,
			Depth: (p.Z + q.Z) / 2,
		})
	}

	sort.SliceStable(sc.Spheres, func(i, j int) bool { return sc.Spheres[i].Depth < sc.Spheres[j].Depth })
	sort.SliceStable(sc.Segments, func(i, j int) bool { return sc.Segments[i].Depth < sc.Segments[j].Depth })
	return sc
}

// Items merges spheres and segments into one back-to-front list. At equal
// depth a segment is drawn before a sphere so atoms cap their bonds.
func (s Scene) Items() []Item {
	out := make([]Item, 0, len(s.Spheres)+len(s.Segments))
	i, j := 0, 0
	for i < len(s.Spheres) || j < len(s.Segments) {
		switch {
		case j < len(s.Segments) && (i >= len(s.Spheres) || s.Segments[j].Depth <= s.Spheres[i].Depth):
			out = append(out, Item{Segment: &s.Segments[j], Depth: s.Segments[j].Depth})
			j++
		default:
			out = append(out, Item{Sphere: &s.Spheres[i], Depth: s.Spheres[i].Depth})
			i++
		}
	}
	return out
}

// DepthRange returns the nearest and farthest sphere depth.
func (s Scene) DepthRange() (near, far float64) {
	if len(s.Spheres) == 0 {
		return 0, 0
	}
	return s.Spheres[len(s.Spheres)-1].Depth, s.Spheres[0].Depth
}

// Shade maps a depth to a brightness factor in [lo, 1], 1 being nearest.
func (s Scene) Shade(depth, lo float64) float64 {
	near, far := s.DepthRange()
	if near == far {
		return 1
	}
	t := (depth - far) / (near - far)
	return lo + (1-lo)*t
}

// FitScale returns the pixels-per-unit scale that fits st inside a
// width × height viewport at any rotation.
func FitScale(st molecule.Structure, width, height, padding float64) float64 {
	extent := Extent(st)
	if extent == 0 {
		extent = 1
	}
	avail := math.Min(width, height) * (1 - 2*padding) / 2
	return avail / extent
}

// Extent returns the radius of the sphere around the bounding-box center
// that contains every atom, including atom radii.
func Extent(st molecule.Structure) float64 {
	center := boxCenter(st)
	var ext float64
	for _, a := range st.Atoms {
		ext = math.Max(ext, r3.Norm(r3.Sub(a.Position, center))+a.Size)
	}
	return ext
}

// Frames returns n angles evenly spaced over one full turn, starting at 0.
func Frames(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = 2 * math.Pi * float64(i) / float64(n)
	}
	return out
}

func boxCenter(st molecule.Structure) r3.Vec {
	lo, hi := st.Bounds()
	return r3.Scale(0.5, r3.Add(lo, hi))
}

func rotation(angle, tilt float64) func(r3.Vec) r3.Vec {
	yaw := r3.NewRotation(angle, axisY)
	pitch := r3.NewRotation(tilt, axisX)
	return func(p r3.Vec) r3.Vec {
		return pitch.Rotate(yaw.Rotate(p))
	}
}
