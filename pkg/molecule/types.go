package molecule

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// =============================================================================
// Atom
// =============================================================================

// Atom is one positioned sphere in a structure.
//
// Color and Size are normally derived from Element via [NewAtom], but
// hand-authored structures may override them.
type Atom struct {
	Element  Element
	Position r3.Vec
	Color    Color
	Size     float64
}

// NewAtom returns an atom at pos with the element's table color and size.
func NewAtom(e Element, pos r3.Vec) Atom {
	return Atom{Element: e, Position: pos, Color: e.Color(), Size: e.Size()}
}

// =============================================================================
// Bond
// =============================================================================

// Bond is a straight segment between two atoms.
//
// From and To index into the owning structure's Atoms. Start and End are
// copies of those atoms' positions; the index is what the topology and
// node-link views use, the positions are what the 3D views draw.
type Bond struct {
	From  int
	To    int
	Start r3.Vec
	End   r3.Vec
}

// Length returns the Euclidean distance between the bond endpoints.
func (b Bond) Length() float64 { return r3.Norm(r3.Sub(b.End, b.Start)) }

// =============================================================================
// Structure
// =============================================================================

// Structure is a complete atom/bond graph.
//
// A Structure is value data: builders produce a fresh one per call and
// nothing in this module mutates it afterwards.
type Structure struct {
	Name   string
	Source string
	Atoms  []Atom
	Bonds  []Bond
}

// Connect returns a bond between atoms i and j of s with copied positions.
// It panics if either index is out of range.
func (s Structure) Connect(i, j int) Bond {
	return Bond{From: i, To: j, Start: s.Atoms[i].Position, End: s.Atoms[j].Position}
}

// Elements returns the distinct elements of s in first-seen order.
func (s Structure) Elements() []Element {
	seen := make(map[Element]bool, len(s.Atoms))
	var out []Element
	for _, a := range s.Atoms {
		if !seen[a.Element] {
			seen[a.Element] = true
			out = append(out, a.Element)
		}
	}
	return out
}

// Counts returns the number of atoms per element.
func (s Structure) Counts() map[Element]int {
	out := make(map[Element]int)
	for _, a := range s.Atoms {
		out[a.Element]++
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the atom centers.
// An empty structure returns two zero vectors.
func (s Structure) Bounds() (lo, hi r3.Vec) {
	if len(s.Atoms) == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	lo, hi = s.Atoms[0].Position, s.Atoms[0].Position
	for _, a := range s.Atoms[1:] {
		p := a.Position
		lo.X, hi.X = min(lo.X, p.X), max(hi.X, p.X)
		lo.Y, hi.Y = min(lo.Y, p.Y), max(hi.Y, p.Y)
		lo.Z, hi.Z = min(lo.Z, p.Z), max(hi.Z, p.Z)
	}
	return lo, hi
}

// Centroid returns the mean atom position.
func (s Structure) Centroid() r3.Vec {
	if len(s.Atoms) == 0 {
		return r3.Vec{}
	}
	var c r3.Vec
	for _, a := range s.Atoms {
		c = r3.Add(c, a.Position)
	}
	return r3.Scale(1/float64(len(s.Atoms)), c)
}

// Clone returns a deep copy of s.
func (s Structure) Clone() Structure {
	out := s
	out.Atoms = append([]Atom(nil), s.Atoms...)
	out.Bonds = append([]Bond(nil), s.Bonds...)
	return out
}
