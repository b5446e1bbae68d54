package layout

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/molview/pkg/molecule"
)

const eps = 1e-9

func bondPairs(st molecule.Structure) [][2]int {
	out := make([][2]int, len(st.Bonds))
	for i, b := range st.Bonds {
		out[i] = [2]int{b.From, b.To}
	}
	return out
}

func elements(st molecule.Structure) []molecule.Element {
	out := make([]molecule.Element, len(st.Atoms))
	for i, a := range st.Atoms {
		out[i] = a.Element
	}
	return out
}

func TestExtractElements(t *testing.T) {
	tests := []struct {
		in   string
		want []molecule.Element
	}{
		{"", nil},
		{"XYZ", nil},
		{"CCO", []molecule.Element{molecule.C, molecule.C, molecule.O}},
		{"ClBrC", []molecule.Element{molecule.Cl, molecule.Br, molecule.C}},
		{"CCl", []molecule.Element{molecule.C, molecule.Cl}},
		{"c1ccncc1", []molecule.Element{molecule.C, molecule.C, molecule.C, molecule.N, molecule.C, molecule.C}},
		{"[Na+].[O-]S(=O)(=O)o", []molecule.Element{molecule.N, molecule.O, molecule.S, molecule.O, molecule.O, molecule.O}},
		{"B", nil},
		{"cl", []molecule.Element{molecule.C}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ExtractElements(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractElements(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	inputs := []string{"", "O", "CC(=O)Oc1ccccc1C(=O)O", strings.Repeat("CN", 30)}
	for _, s := range inputs {
		a, b := Generate(s), Generate(s)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Generate(%q) not deterministic", s)
		}
	}
}

func TestGenerateBounded(t *testing.T) {
	for _, s := range []string{strings.Repeat("C", 25), strings.Repeat("ClBr", 40), "CCCCCCCCCCCCCCCCCCCC"} {
		st := Generate(s)
		if len(st.Atoms) > MaxAtoms {
			t.Errorf("Generate(%q) placed %d atoms", s, len(st.Atoms))
		}
	}
	if n := len(Generate(strings.Repeat("C", 25)).Atoms); n != MaxAtoms {
		t.Errorf("25 carbons: got %d atoms, want %d", n, MaxAtoms)
	}
}

func TestGenerateFallback(t *testing.T) {
	for _, s := range []string{"", "XYZ", "123", "[H+]"} {
		st := Generate(s)
		if got := elements(st); !reflect.DeepEqual(got, Fallback) {
			t.Errorf("Generate(%q) elements = %v, want %v", s, got, Fallback)
		}
	}
	if len(Fallback) != 4 {
		t.Fatal("Fallback was modified")
	}
}

func TestGenerateSequentialConnectivity(t *testing.T) {
	for _, s := range []string{"O", "CC", "c1ccccc1", "CC(=O)Oc1ccccc1C(=O)O", strings.Repeat("c", 20)} {
		st := Generate(s)
		have := make(map[[2]int]bool)
		for _, p := range bondPairs(st) {
			have[p] = true
		}
		for i := 0; i+1 < len(st.Atoms); i++ {
			if !have[[2]int{i, i + 1}] {
				t.Errorf("Generate(%q) missing bond %d-%d", s, i, i+1)
			}
		}
		if !molecule.Analyze(st).Connected() {
			t.Errorf("Generate(%q) is disconnected", s)
		}
	}
}

func TestGenerateBondEndpoints(t *testing.T) {
	st := Generate("CC(=O)Oc1ccccc1C(=O)O")
	for i, b := range st.Bonds {
		if b.Start != st.Atoms[b.From].Position || b.End != st.Atoms[b.To].Position {
			t.Errorf("bond %d endpoints do not match atoms %d-%d", i, b.From, b.To)
		}
	}
}

func TestGenerateBonds(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [][2]int
	}{
		{"SingleAtom", "O", [][2]int{}},
		{"Halogens", "ClBrC", [][2]int{{0, 1}, {1, 2}}},
		{"Fallback", "XYZ", [][2]int{{0, 1}, {1, 2}, {2, 3}}},
		{"Benzene", "c1ccccc1", [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}}},
		{"DigitWithoutAromatic", "CCCC1", [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}},
		{"DigitTooSmall", "CC1", [][2]int{{0, 1}}},
		{
			"Aspirin", "CC(=O)Oc1ccccc1C(=O)O",
			[][2]int{
				{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}, {5, 0}, {6, 7}, {7, 8},
				{8, 9}, {9, 10}, {10, 11}, {10, 0}, {11, 12}, {12, 0},
			},
		},
		{
			"UppercaseRingMarker", "C1CCCCCC",
			[][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}, {5, 0}, {6, 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bondPairs(Generate(tt.in))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("bonds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateBenzeneRingClosure(t *testing.T) {
	st := Generate("c1ccccc1")
	if len(st.Atoms) != 6 {
		t.Fatalf("got %d atoms, want 6", len(st.Atoms))
	}
	last := st.Bonds[len(st.Bonds)-1]
	if last.From != 5 || last.To != 0 {
		t.Errorf("last bond = %d-%d, want 5-0", last.From, last.To)
	}
	if topo := molecule.Analyze(st); topo.Rings != 1 {
		t.Errorf("rings = %d, want 1", topo.Rings)
	}
}

func TestGenerateColors(t *testing.T) {
	st := Generate("ClBrC")
	want := []molecule.Color{"#22c55e", "#f97316", "#3b82f6"}
	for i, a := range st.Atoms {
		if a.Color != want[i] {
			t.Errorf("atom %d color = %s, want %s", i, a.Color, want[i])
		}
		if a.Size != 0.3 {
			t.Errorf("atom %d size = %v, want 0.3", i, a.Size)
		}
	}
}

func TestGenerateSingleAtom(t *testing.T) {
	st := Generate("O")
	if len(st.Atoms) != 1 || len(st.Bonds) != 0 {
		t.Fatalf("got %d atoms, %d bonds", len(st.Atoms), len(st.Bonds))
	}
	a := st.Atoms[0]
	if a.Element != molecule.O || a.Color != "#ef4444" || a.Size != 0.35 {
		t.Errorf("atom = %+v", a)
	}
	if math.Abs(a.Position.X-1.5) > eps || math.Abs(a.Position.Y) > eps || a.Position.Z != 0 {
		t.Errorf("position = %v, want (1.5, 0, 0)", a.Position)
	}
	if st.Source != "O" {
		t.Errorf("source = %q", st.Source)
	}
}

func TestGenerateShellTransition(t *testing.T) {
	st := Generate("CCCCCCC")
	a0, a6 := st.Atoms[0].Position, st.Atoms[6].Position
	r0 := math.Hypot(a0.X, a0.Y)
	r6 := math.Hypot(a6.X, a6.Y)
	if math.Abs(r0-1.5) > eps || math.Abs(r6-2.0) > eps {
		t.Errorf("radii = %v, %v, want 1.5, 2.0", r0, r6)
	}
	if a0.Z != 0 || math.Abs(a6.Z-0.8) > eps {
		t.Errorf("z = %v, %v, want 0, 0.8", a0.Z, a6.Z)
	}

	step := 2 * math.Pi / 7
	if got := math.Atan2(a6.Y, a6.X); math.Abs(got-(6*step-2*math.Pi)) > eps {
		t.Errorf("angle of atom 6 = %v", got)
	}
}

func TestGenerateCentering(t *testing.T) {
	st := Generate(strings.Repeat("C", 13))
	if z := st.Atoms[0].Position.Z; math.Abs(z+0.4) > eps {
		t.Errorf("atom 0 z = %v, want -0.4", z)
	}
	if z := st.Atoms[12].Position.Z; math.Abs(z-1.2) > eps {
		t.Errorf("atom 12 z = %v, want 1.2", z)
	}
}

func TestGenerateSmallInputUsesSixfoldSpacing(t *testing.T) {
	st := Generate("CCC")
	p := st.Atoms[1].Position
	if got := math.Atan2(p.Y, p.X); math.Abs(got-math.Pi/3) > eps {
		t.Errorf("angle = %v, want pi/3", got)
	}
}
