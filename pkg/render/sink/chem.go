package sink

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/molview/pkg/molecule"
)

// RenderXYZ writes st in XYZ format: an atom count line, a comment line
// holding the name (or source string) and one "symbol x y z" row per atom.
func RenderXYZ(st molecule.Structure) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%-4d\n", len(st.Atoms))
	buf.WriteString(oneLine(comment(st)) + "\n")
	for _, a := range st.Atoms {
		p := a.Position
		fmt.Fprintf(&buf, "%-2s  %8.3f%8.3f%8.3f \n", a.Element.Symbol(), p.X, p.Y, p.Z)
	}
	return buf.Bytes()
}

// RenderPDB writes st as PDB HETATM records followed by CONECT records for
// every bond and a closing END record. Atoms belong to one residue "MOL".
func RenderPDB(st molecule.Structure) []byte {
	var buf bytes.Buffer
	if c := comment(st); c != "" {
		fmt.Fprintf(&buf, "COMPND    %s\n", truncate(oneLine(c), 70))
	}

	perElement := map[molecule.Element]int{}
	for i, a := range st.Atoms {
		perElement[a.Element]++
		name := fmt.Sprintf("%s%d", a.Element.Symbol(), perElement[a.Element])
		p := a.Position
		fmt.Fprintf(&buf, "%-6s%5d %4s %3s %1c%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s  \n",
			"HETATM", i+1, pdbName(name), "MOL", 'A', 1, p.X, p.Y, p.Z, 1.0, 0.0, strings.ToUpper(a.Element.Symbol()))
	}

	neighbors := make([][]int, len(st.Atoms))
	for _, b := range st.Bonds {
		if b.From == b.To {
			continue
		}
		neighbors[b.From] = appendUnique(neighbors[b.From], b.To)
		neighbors[b.To] = appendUnique(neighbors[b.To], b.From)
	}
	for i, ns := range neighbors {
		slices.Sort(ns)
		for chunk := range slices.Chunk(ns, 4) {
			fmt.Fprintf(&buf, "CONECT%5d", i+1)
			for _, j := range chunk {
				fmt.Fprintf(&buf, "%5d", j+1)
			}
			buf.WriteString("\n")
		}
	}

	buf.WriteString("END\n")
	return buf.Bytes()
}

// pdbName left-aligns names of up to three characters one column in, as
// PDB files conventionally do for single-letter elements.
func pdbName(name string) string {
	if len(name) < 4 {
		return " " + fmt.Sprintf("%-3s", name)
	}
	return truncate(name, 4)
}

func comment(st molecule.Structure) string {
	if st.Name != "" {
		return st.Name
	}
	return st.Source
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func appendUnique(s []int, v int) []int {
	if slices.Contains(s, v) {
		return s
	}
	return append(s, v)
}
