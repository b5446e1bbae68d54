package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/render"
	"github.com/matzehuels/molview/pkg/render/scene"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed labels nodes with their atom index ("C#3") and adds the
	// position as a tooltip. When false, only the element symbol is shown.
	Detailed bool
}

// ToDOT converts the bond graph of st to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Each atom becomes a circle filled with its element color. Repeated bonds
// between the same pair of atoms collapse to one edge; self-bonds are dropped.
func ToDOT(st molecule.Structure, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, width=0.5, fontname=\"Helvetica\", fontsize=12, fontcolor=white, penwidth=0];\n")
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=3];\n", string(scene.BondColor))
	buf.WriteString("\n")

	for i, a := range st.Atoms {
		attrs := fmtAttrs(i, a, opts.Detailed)
		fmt.Fprintf(&buf, "  a%d [%s];\n", i, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	seen := map[[2]int]bool{}
	for _, b := range st.Bonds {
		if b.From == b.To {
			continue
		}
		key := [2]int{min(b.From, b.To), max(b.From, b.To)}
		if seen[key] {
			continue
		}
		seen[key] = true
		fmt.Fprintf(&buf, "  a%d -- a%d;\n", b.From, b.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(i int, a molecule.Atom, detailed bool) []string {
	label := a.Element.Symbol()
	if detailed {
		label = fmt.Sprintf("%s#%d", label, i)
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", string(a.Color)),
		fmt.Sprintf("width=%.2f", a.Size*1.6),
	}
	if detailed {
		p := a.Position
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", fmt.Sprintf("(%.2f, %.2f, %.2f)", p.X, p.Y, p.Z)))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz. [ToDOT] output selects
// the neato engine through its layout attribute.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header with a plain
// pixel one so the output scales like the ball-and-stick SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
