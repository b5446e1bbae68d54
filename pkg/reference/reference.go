// Package reference provides a small library of hand-authored molecule
// structures for display: Aspirin, Caffeine, Ibuprofen, Paracetamol and
// Penicillin G.
//
// The structures are simplified heavy-atom skeletons with fixed positions.
// Every accessor returns a fresh copy, so callers may modify results freely.
package reference

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/molview/pkg/molecule"
)

// Molecule is a reference structure with its display metadata.
type Molecule struct {
	molecule.Structure

	Formula     string
	Description string

	// CameraDistance is the suggested viewing distance in model units.
	CameraDistance float64

	// Offset recenters the structure for display.
	Offset r3.Vec
}

// Slug returns the lookup key for m ("penicillin-g").
func (m Molecule) Slug() string { return slug(m.Name) }

// All returns every reference molecule in display order.
func All() []Molecule {
	out := make([]Molecule, len(entries))
	for i, e := range entries {
		out[i] = e.build()
	}
	return out
}

// Structures returns the bare structures of [All].
func Structures() []molecule.Structure {
	out := make([]molecule.Structure, len(entries))
	for i, e := range entries {
		out[i] = e.build().Structure
	}
	return out
}

// Names returns the display names in order.
func Names() []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

// Lookup finds a molecule by name, ignoring case, spaces, hyphens and
// underscores. The first word of a multi-word name also matches, so
// "penicillin", "penicillin-g" and "Penicillin G" all find Penicillin G.
func Lookup(name string) (Molecule, bool) {
	key := slug(name)
	if key == "" {
		return Molecule{}, false
	}
	for _, e := range entries {
		full := slug(e.name)
		if key == full || key == strings.SplitN(full, "-", 2)[0] {
			return e.build(), true
		}
	}
	return Molecule{}, false
}

// Index returns the display position of name, or -1.
func Index(name string) int {
	key := slug(name)
	for i, e := range entries {
		if slug(e.name) == key {
			return i
		}
	}
	return -1
}

// Len returns the number of reference molecules.
func Len() int { return len(entries) }

// At returns the molecule at display position i, wrapping in both
// directions so callers can cycle with i+1 and i-1.
func At(i int) Molecule {
	k := len(entries)
	return entries[((i%k)+k)%k].build()
}

func (e entry) build() Molecule {
	st := molecule.Structure{
		Name:  e.name,
		Atoms: make([]molecule.Atom, len(e.atoms)),
		Bonds: make([]molecule.Bond, 0, len(e.bonds)),
	}
	for i, a := range e.atoms {
		at := molecule.NewAtom(a.elem, r3.Vec{X: a.x, Y: a.y, Z: a.z})
		at.Size = a.size
		st.Atoms[i] = at
	}
	for _, b := range e.bonds {
		st.Bonds = append(st.Bonds, st.Connect(b[0], b[1]))
	}
	return Molecule{
		Structure:      st,
		Formula:        e.formula,
		Description:    e.description,
		CameraDistance: e.cameraDistance,
		Offset:         r3.Vec{X: e.offset[0], Y: e.offset[1], Z: e.offset[2]},
	}
}

func slug(name string) string {
	f := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
	return strings.Join(f, "-")
}
