// Package nodelink renders the bond graph of a structure as a node-link
// diagram.
//
// # Overview
//
// Where the ball-and-stick sinks show the 3D placement, this package
// ignores positions and lets Graphviz lay the atoms out as a plain graph:
// one filled circle per atom, one line per bond.
//
// # Usage
//
// Convert a structure to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(st, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Options
//
//   - Detailed: label nodes with their atom index and add position tooltips
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
