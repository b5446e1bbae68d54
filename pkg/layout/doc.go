// Package layout turns an arbitrary string, nominally SMILES, into a
// bounded decorative atom/bond structure.
//
// This is not a SMILES parser. Element symbols are picked out of the input
// in order (Cl, Br, and C, N, O, S in either case), capped at [MaxAtoms],
// and placed on a stack of rings: six atoms per layer, each layer rising
// and widening. Atoms are bonded in sequence; a few substring heuristics
// add spokes back to the first atom and a closing bond for ring-like
// input.
//
//	st := layout.Generate("CC(=O)Oc1ccccc1C(=O)O")
//	fmt.Println(len(st.Atoms), len(st.Bonds))
package layout
