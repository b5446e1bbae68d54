// Package render provides visualization rendering for atom/bond structures.
//
// # Overview
//
// This package holds the conversion helpers shared by every renderer; the
// renderers themselves live in subpackages:
//
//   - [scene]: rotation and projection of a structure onto a viewport
//   - [sink]: ball-and-stick output (SVG, PNG, GIF, PDF) and data formats
//     (JSON, XYZ, PDB)
//   - [nodelink]: the bond graph drawn by Graphviz
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(st, sink.WithLegend())
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// The ball-and-stick PNG and GIF sinks rasterize directly and do not need
// rsvg-convert.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage treats the bonds as an undirected graph and lays
// it out with Graphviz. Atoms appear as colored circles.
//
//	dot := nodelink.ToDOT(st, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package render
