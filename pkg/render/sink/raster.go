package sink

import (
	"image"

	"github.com/fogleman/gg"

	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/render/scene"
)

// rasterize draws st at the given angle into an image of the view's size
// multiplied by scale. Text uses gg's built-in bitmap face.
func rasterize(st molecule.Structure, v view, scale float64) image.Image {
	if scale <= 0 {
		scale = 1
	}
	dv := v
	dv.width = int(float64(v.width) * scale)
	dv.height = int(float64(v.height) * scale)
	w, h := float64(dv.width), float64(dv.height)

	dc := gg.NewContext(dv.width, dv.height)
	if !v.transparent {
		bg := gg.NewLinearGradient(0, 0, w, h)
		for i, c := range backgroundStops {
			bg.AddColorStop(float64(i)/float64(len(backgroundStops)-1), rgba(c, 1))
		}
		dc.SetFillStyle(bg)
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()
	}

	sc := dv.project(st)
	dc.SetLineCapRound()
	for _, it := range sc.Items() {
		shade := sc.Shade(it.Depth, minShade)
		switch {
		case it.Segment != nil:
			s := it.Segment
			dc.SetColor(rgba(darken(scene.BondColor, 1-shade), 1))
			dc.SetLineWidth(s.Width)
			dc.DrawLine(s.X1, s.Y1, s.X2, s.Y2)
			dc.Stroke()
		case it.Sphere != nil:
			drawSphere(dc, *it.Sphere, shade)
		}
	}

	dc.SetColor(rgba(textColor, 1))
	inset := legendInset * scale
	if v.title != "" {
		dc.DrawString(v.title, inset, inset+12)
	}
	if v.legend {
		entries := Legend(st)
		row := legendRow * scale
		y := h - inset - row*float64(len(entries)-1)
		for _, e := range entries {
			dc.SetColor(rgba(e.Color, 1))
			dc.DrawCircle(inset+6*scale, y, 6*scale)
			dc.Fill()
			dc.SetColor(rgba(textColor, 1))
			dc.DrawStringAnchored(e.Label(), inset+18*scale, y, 0, 0.35)
			y += row
		}
	}
	if v.watermark != "" {
		dc.SetColor(rgba(watermarkColor, 1))
		dc.DrawStringAnchored(v.watermark, w-inset/2, h-inset/2, 1, 0)
	}
	return dc.Image()
}

func drawSphere(dc *gg.Context, s scene.Sphere, shade float64) {
	base := darken(s.Color, (1-shade)*0.8)
	g := gg.NewRadialGradient(s.X-s.R*0.35, s.Y-s.R*0.35, 0, s.X, s.Y, s.R*1.1)
	g.AddColorStop(0, rgba(lighten(base, 0.55), 1))
	g.AddColorStop(0.6, rgba(base, 1))
	g.AddColorStop(1, rgba(darken(base, 0.45), 1))
	dc.SetFillStyle(g)
	dc.DrawCircle(s.X, s.Y, s.R)
	dc.Fill()
}
