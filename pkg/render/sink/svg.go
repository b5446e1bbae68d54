package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/render/scene"
)

// RenderSVG renders st as a ball-and-stick SVG image.
func RenderSVG(st molecule.Structure, opts ...SVGOption) []byte {
	v := newView(opts...)
	sc := v.project(st)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		v.width, v.height, v.width, v.height)

	renderDefs(&buf, st)
	if !v.transparent {
		fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="url(#background)"/>`+"\n", v.width, v.height)
	}

	buf.WriteString(`  <g class="structure">` + "\n")
	for _, it := range sc.Items() {
		shade := sc.Shade(it.Depth, minShade)
		switch {
		case it.Segment != nil:
			s := it.Segment
			fmt.Fprintf(&buf, `    <line class="bond" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-linecap="round" opacity="%.2f"/>`+"\n",
				s.X1, s.Y1, s.X2, s.Y2, scene.BondColor, s.Width, shade)
		case it.Sphere != nil:
			s := it.Sphere
			fmt.Fprintf(&buf, `    <circle class="atom" data-atom="%d" data-element="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="url(#%s)" opacity="%.2f"/>`+"\n",
				s.Atom, s.Element.Symbol(), s.X, s.Y, s.R, gradientID(s.Color), shade)
		}
	}
	buf.WriteString("  </g>\n")

	if v.title != "" {
		fmt.Fprintf(&buf, `  <text x="%.0f" y="%.0f" font-family="%s" font-size="18" font-weight="bold" fill="%s">%s</text>`+"\n",
			legendInset, legendInset+12, fontFamily, textColor, escapeXML(v.title))
	}
	if v.legend {
		renderLegend(&buf, st, v.height)
	}
	if v.watermark != "" {
		fmt.Fprintf(&buf, `  <text x="%.0f" y="%.0f" font-family="%s" font-size="10" text-anchor="end" fill="%s">%s</text>`+"\n",
			float64(v.width)-legendInset/2, float64(v.height)-legendInset/2, fontFamily, watermarkColor, escapeXML(v.watermark))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer, st molecule.Structure) {
	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <linearGradient id="background" x1="0" y1="0" x2="1" y2="1">` + "\n")
	for i, c := range backgroundStops {
		fmt.Fprintf(buf, `      <stop offset="%.2f" stop-color="%s"/>`+"\n", float64(i)/float64(len(backgroundStops)-1), c)
	}
	buf.WriteString("    </linearGradient>\n")

	seen := map[molecule.Color]bool{}
	for _, a := range st.Atoms {
		if seen[a.Color] {
			continue
		}
		seen[a.Color] = true
		fmt.Fprintf(buf, `    <radialGradient id="%s" cx="35%%" cy="35%%" r="65%%">`+"\n", gradientID(a.Color))
		fmt.Fprintf(buf, `      <stop offset="0" stop-color="%s"/>`+"\n", lighten(a.Color, 0.55))
		fmt.Fprintf(buf, `      <stop offset="0.6" stop-color="%s"/>`+"\n", a.Color)
		fmt.Fprintf(buf, `      <stop offset="1" stop-color="%s"/>`+"\n", darken(a.Color, 0.45))
		buf.WriteString("    </radialGradient>\n")
	}
	buf.WriteString("  </defs>\n")
}

func renderLegend(buf *bytes.Buffer, st molecule.Structure, height int) {
	entries := Legend(st)
	y := float64(height) - legendInset - legendRow*float64(len(entries)-1)
	buf.WriteString(`  <g class="legend">` + "\n")
	for _, e := range entries {
		fmt.Fprintf(buf, `    <circle cx="%.0f" cy="%.0f" r="6" fill="%s"/>`+"\n", legendInset+6, y, e.Color)
		fmt.Fprintf(buf, `    <text x="%.0f" y="%.0f" font-family="%s" font-size="12" fill="%s">%s</text>`+"\n",
			legendInset+18, y+4, fontFamily, textColor, escapeXML(e.Label()))
		y += legendRow
	}
	buf.WriteString("  </g>\n")
}

func gradientID(c molecule.Color) string {
	return "atom-" + strings.TrimPrefix(string(c), "#")
}
