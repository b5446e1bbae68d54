// Package molecule defines the atom/bond data model shared by the layout
// generator, the reference library and every renderer.
//
// # Elements
//
// [Element] is a closed set: C, N, O, S, Cl, F, Br and H, plus [Unknown].
// Each element maps to a display [Color] and a sphere radius through fixed
// tables; unknown elements render with carbon's color and the default size.
//
// # Structures
//
// A [Structure] holds [Atom] values and [Bond] values. Bonds carry both the
// indices of the atoms they join and copies of those atoms' positions, so
// 3D renderers can draw them without lookups and graph-based views can use
// the indices:
//
//	s := molecule.Structure{Atoms: []molecule.Atom{
//	    molecule.NewAtom(molecule.C, r3.Vec{X: 0}),
//	    molecule.NewAtom(molecule.O, r3.Vec{X: 1}),
//	}}
//	s.Bonds = append(s.Bonds, s.Connect(0, 1))
//
// # Serialization
//
// [MarshalStructure] and [UnmarshalStructure] convert to and from the JSON
// [Document] format used by the CLI, the HTTP API, the caches and storage.
// [Analyze] reports connected components and ring count over the bond graph.
package molecule
