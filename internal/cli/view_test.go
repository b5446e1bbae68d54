package cli

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/molview/pkg/layout"
	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/reference"
	"github.com/matzehuels/molview/pkg/render/scene"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m viewModel, msg tea.Msg) (viewModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	vm, ok := next.(viewModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return vm, cmd
}

func TestReferenceIndex(t *testing.T) {
	if got := referenceIndex(""); got != -1 {
		t.Errorf("referenceIndex(\"\") = %d", got)
	}
	if got := referenceIndex("unobtainium"); got != -1 {
		t.Errorf("referenceIndex(unknown) = %d", got)
	}
	first := reference.At(0)
	if got := referenceIndex(first.Slug()); got != 0 {
		t.Errorf("referenceIndex(%q) = %d, want 0", first.Slug(), got)
	}
}

func TestViewModelGenerated(t *testing.T) {
	m := newViewModel(layout.Generate("CCO"), -1)
	if m.speed != scene.SpeedGenerated {
		t.Errorf("speed = %v, want generated speed", m.speed)
	}

	m, _ = update(t, m, runes("n"))
	if m.ref != 0 {
		t.Errorf("n from SMILES: ref = %d, want 0", m.ref)
	}
	if m.speed != scene.SpeedReference {
		t.Errorf("speed = %v, want reference speed", m.speed)
	}

	m = newViewModel(layout.Generate("CCO"), -1)
	m, _ = update(t, m, runes("p"))
	if want := reference.Len() - 1; m.ref != want {
		t.Errorf("p from SMILES: ref = %d, want %d", m.ref, want)
	}
}

func TestViewModelCycleWraps(t *testing.T) {
	last := reference.Len() - 1
	m := newViewModel(molecule.Structure{}, last)
	m, _ = update(t, m, runes("n"))
	if m.ref != 0 {
		t.Errorf("next after last: ref = %d, want 0", m.ref)
	}
	m, _ = update(t, m, runes("p"))
	if m.ref != last {
		t.Errorf("prev from first: ref = %d, want %d", m.ref, last)
	}
	if m.st.Name != reference.At(last).Name {
		t.Errorf("structure = %q, want %q", m.st.Name, reference.At(last).Name)
	}
}

func TestViewModelRotation(t *testing.T) {
	m := newViewModel(layout.Generate("c1ccccc1"), -1)

	m, cmd := update(t, m, tickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if want := m.speed / viewFPS; math.Abs(m.angle-want) > 1e-9 {
		t.Errorf("angle after tick = %v, want %v", m.angle, want)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.paused {
		t.Fatal("space should pause")
	}
	before := m.angle
	m, _ = update(t, m, tickMsg{})
	if m.angle != before {
		t.Errorf("paused tick moved angle %v -> %v", before, m.angle)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if math.Abs(m.angle-(before+viewStep)) > 1e-9 {
		t.Errorf("right: angle = %v, want %v", m.angle, before+viewStep)
	}
	m, _ = update(t, m, runes("h"))
	if math.Abs(m.angle-before) > 1e-9 {
		t.Errorf("h: angle = %v, want %v", m.angle, before)
	}
	if !strings.Contains(m.View(), "paused") {
		t.Error("view should show paused state")
	}
}

func TestViewModelQuit(t *testing.T) {
	m := newViewModel(layout.Generate("C"), -1)
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := update(t, m, key)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command did not quit", key)
		}
	}
}

func TestViewModelResize(t *testing.T) {
	m := newViewModel(layout.Generate("C"), -1)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.cols != 100 || m.rows != 40-viewChrome {
		t.Errorf("size = %dx%d", m.cols, m.rows)
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 2, Height: 1})
	if m.cols != 8 || m.rows != 4 {
		t.Errorf("minimum size = %dx%d, want 8x4", m.cols, m.rows)
	}
}

func TestDrawCanvas(t *testing.T) {
	const cols, rows = 64, 24
	grid := drawCanvas(reference.At(0).Structure, 0, 0.35, cols, rows)
	if len(grid) != rows || len(grid[0]) != cols {
		t.Fatalf("grid = %dx%d, want %dx%d", len(grid[0]), len(grid), cols, rows)
	}

	counts := map[rune]int{}
	for _, row := range grid {
		for _, c := range row {
			counts[c.glyph]++
		}
	}
	if counts['●'] == 0 {
		t.Error("no atoms drawn")
	}
	if counts['C'] == 0 {
		t.Error("no carbon labels drawn")
	}

	empty := drawCanvas(molecule.Structure{}, 0, 0, cols, rows)
	for _, row := range empty {
		for _, c := range row {
			if c.glyph != 0 {
				t.Fatal("empty structure drew cells")
			}
		}
	}
}

func TestRenderCanvasShape(t *testing.T) {
	grid := drawCanvas(layout.Generate("CCO"), 0, 0, 20, 6)
	lines := strings.Split(renderCanvas(grid), "\n")
	if len(lines) != 6 {
		t.Errorf("lines = %d, want 6", len(lines))
	}
}

func TestShadeColor(t *testing.T) {
	tests := []struct {
		in   molecule.Color
		f    float64
		want molecule.Color
	}{
		{"#ffffff", 1, "#ffffff"},
		{"#ffffff", 0, "#000000"},
		{"#804020", 0.5, "#402010"},
	}
	for _, tt := range tests {
		if got := shadeColor(tt.in, tt.f); got != tt.want {
			t.Errorf("shadeColor(%s, %v) = %s, want %s", tt.in, tt.f, got, tt.want)
		}
	}
}
