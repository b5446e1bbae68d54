package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/molview/pkg/layout"
)

func TestToDOT(t *testing.T) {
	st := layout.Generate("ClCO")
	st.Bonds = append(st.Bonds, st.Connect(1, 0), st.Connect(2, 2))
	dot := ToDOT(st, Options{})

	for _, want := range []string{
		"graph G {",
		"layout=neato;",
		`a0 [label="Cl", fillcolor="#22c55e"`,
		`a2 [label="O", fillcolor="#ef4444"`,
		"a0 -- a1;",
		"a1 -- a2;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if n := strings.Count(dot, " -- "); n != 2 {
		t.Errorf("edges = %d, want 2 (duplicates and self-bonds dropped)", n)
	}
	if strings.Contains(dot, "->") {
		t.Error("bond graph should be undirected")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(layout.Generate("CC"), Options{Detailed: true})
	if !strings.Contains(dot, `label="C#1"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `tooltip="(1.50, 0.00, 0.00)"`) {
		t.Errorf("tooltip missing:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s", got)
	}
	if got := string(normalizeViewBox([]byte("<svg/>"))); got != "<svg/>" {
		t.Errorf("no viewBox should pass through, got %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	st := layout.Generate("c1ccccc1")
	svg, err := RenderSVG(context.Background(), ToDOT(st, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(svg)), "<") || !strings.Contains(string(svg), "<svg") {
		t.Errorf("not an SVG: %.80s", svg)
	}

	if _, err := RenderSVG(context.Background(), "graph {"); err == nil {
		t.Error("expected parse error")
	}
}
