package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/molview/pkg/errors"
	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/reference"
	"github.com/matzehuels/molview/pkg/render/nodelink"
	"github.com/matzehuels/molview/pkg/render/sink"
)

// RenderFormat generates one artifact. opts must have render defaults
// applied (see [Options.ValidateForRender]).
func RenderFormat(ctx context.Context, st molecule.Structure, format string, opts Options) ([]byte, error) {
	if opts.IsNodelink() {
		return renderNodelink(ctx, st, format, opts)
	}
	return renderBall(ctx, st, format, opts)
}

// renderBall generates ball-and-stick outputs.
func renderBall(ctx context.Context, st molecule.Structure, format string, opts Options) ([]byte, error) {
	svgOpts := buildSVGOptions(opts)

	switch format {
	case FormatSVG:
		return sink.RenderSVG(st, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(st, sink.WithPNGSVGOptions(svgOpts...))
	case FormatGIF:
		return sink.RenderGIF(st, sink.WithGIFSVGOptions(svgOpts...), sink.WithFrames(opts.Frames))
	case FormatPDF:
		return sink.RenderPDF(ctx, st, sink.WithPDFSVGOptions(svgOpts...))
	case FormatJSON:
		return sink.RenderJSON(st, buildJSONOptions(st, opts)...)
	case FormatXYZ:
		return sink.RenderXYZ(st), nil
	case FormatPDB:
		return sink.RenderPDB(st), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported ball format: %s", format)
	}
}

// renderNodelink generates node-link outputs from the DOT graph of st.
func renderNodelink(ctx context.Context, st molecule.Structure, format string, opts Options) ([]byte, error) {
	dot := nodelink.ToDOT(st, nodelink.Options{Detailed: opts.Detailed})

	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot, 2.0)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	case FormatJSON:
		return sink.RenderJSON(st)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported nodelink format: %s", format)
	}
}

// buildSVGOptions builds the view options shared by the 3D sinks.
func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithSize(opts.Width, opts.Height),
		sink.WithAngle(opts.Angle),
		sink.WithTilt(opts.TiltValue()),
	}
	if opts.Legend {
		svgOpts = append(svgOpts, sink.WithLegend())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}

// buildJSONOptions adds the reference metadata when st is a reference molecule.
func buildJSONOptions(st molecule.Structure, opts Options) []sink.JSONOption {
	var jsonOpts []sink.JSONOption
	if opts.Legend {
		jsonOpts = append(jsonOpts, sink.WithJSONLegend())
	}
	if opts.Reference != "" {
		if m, ok := reference.Lookup(opts.Reference); ok {
			jsonOpts = append(jsonOpts,
				sink.WithJSONMeta("formula", m.Formula),
				sink.WithJSONMeta("description", m.Description))
		}
	}
	if opts.Source != "" && opts.Reference == "" {
		jsonOpts = append(jsonOpts, sink.WithJSONMeta("smiles", opts.Source))
	}
	return jsonOpts
}

// RenderAll renders every format in opts.Formats sequentially, without
// caching.
func RenderAll(ctx context.Context, st molecule.Structure, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, st, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
