package layout

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/molview/pkg/molecule"
)

// MaxAtoms caps the number of atoms placed for any input.
const MaxAtoms = 20

// Placement constants.
const (
	shellSize     = 6   // atoms per layer
	baseRadius    = 1.5 // radius of layer 0
	radiusStep    = 0.5 // radius growth per layer
	layerRise     = 0.8 // z distance between layers
	centerStep    = 0.4 // downward shift per 12 atoms
	centerDivisor = 12
	ringInterval  = 5 // every 5th atom bonds back to atom 0 for aromatic input
)

// Fallback is the element sequence used when the input contains no
// recognized symbols.
var Fallback = []molecule.Element{molecule.C, molecule.C, molecule.C, molecule.O}

// Generate builds a decorative structure from s.
//
// Generate never fails and has no side effects: the same string always
// yields the same structure, so results can be cached by input alone.
// The result is not chemically meaningful geometry.
func Generate(s string) molecule.Structure {
	elems := ExtractElements(s)
	if len(elems) > MaxAtoms {
		elems = elems[:MaxAtoms]
	}
	if len(elems) == 0 {
		elems = append([]molecule.Element(nil), Fallback...)
	}

	st := molecule.Structure{
		Source: s,
		Atoms:  place(elems),
	}
	st.Bonds = connect(st, s)
	return st
}

// ExtractElements scans s left to right and returns every recognized
// element token. Cl and Br are matched before single letters; C, N, O and
// S are accepted in either case. All other characters are skipped.
func ExtractElements(s string) []molecule.Element {
	var out []molecule.Element
	for i := 0; i < len(s); i++ {
		if i+1 < len(s) {
			switch s[i : i+2] {
			case "Cl":
				out = append(out, molecule.Cl)
				i++
				continue
			case "Br":
				out = append(out, molecule.Br)
				i++
				continue
			}
		}
		switch s[i] {
		case 'C', 'c':
			out = append(out, molecule.C)
		case 'N', 'n':
			out = append(out, molecule.N)
		case 'O', 'o':
			out = append(out, molecule.O)
		case 'S', 's':
			out = append(out, molecule.S)
		}
	}
	return out
}

func place(elems []molecule.Element) []molecule.Atom {
	n := len(elems)
	step := 2 * math.Pi / float64(max(n, shellSize))
	offset := float64(n/centerDivisor) * centerStep

	atoms := make([]molecule.Atom, n)
	for i, e := range elems {
		layer := float64(i / shellSize)
		angle := float64(i) * step
		r := baseRadius + layer*radiusStep
		pos := r3.Vec{
			X: math.Cos(angle) * r,
			Y: math.Sin(angle) * r,
			Z: layer*layerRise - offset,
		}
		atoms[i] = molecule.NewAtom(e, pos)
	}
	return atoms
}

// connect emits the sequential path, the aromatic spokes and the ring
// closure. Spokes are interleaved after the path bond of the same atom.
func connect(st molecule.Structure, s string) []molecule.Bond {
	n := len(st.Atoms)
	aromatic := strings.Contains(s, "c") || strings.Contains(s, "C1")
	closed := (strings.Contains(s, "1") || strings.Contains(s, "c1")) && n > 3

	var bonds []molecule.Bond
	for i := 0; i < n-1; i++ {
		bonds = append(bonds, st.Connect(i, i+1))
		if aromatic && i > 0 && i%ringInterval == 0 {
			bonds = append(bonds, st.Connect(i, 0))
		}
	}
	if closed {
		bonds = append(bonds, st.Connect(n-1, 0))
	}
	return bonds
}
