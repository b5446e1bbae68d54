// Package sink provides output format renderers for atom/bond structures.
//
// # Overview
//
// A "sink" turns a [molecule.Structure] into a final output format:
//
//   - SVG: ball-and-stick vector image with shaded spheres
//   - PNG: the same image rasterized in-process with gg
//   - GIF: one full turn about the vertical axis, looping
//   - PDF: print-ready output (requires rsvg-convert)
//   - JSON: wire format plus topology summary and legend
//   - XYZ and PDB: chemistry interchange formats
//
// # View Options
//
// The 3D sinks share [SVGOption] values; PNG, GIF and PDF take them through
// a pass-through option:
//
//	svg := sink.RenderSVG(st, sink.WithLegend(), sink.WithAngle(0.6))
//	png, err := sink.RenderPNG(st, sink.WithPNGSVGOptions(sink.WithLegend()))
//	gif, err := sink.RenderGIF(st, sink.WithFrames(48))
//
// Depth is conveyed by painter's ordering and by dimming farther atoms.
package sink
