package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/molview/pkg/errors"
	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/pipeline"
)

// renderFlags holds the command-line flags for the render command that do
// not map directly onto pipeline.Options.
type renderFlags struct {
	output     string  // output file (single format) or base path (multiple)
	formats    string  // comma-separated output formats
	layoutFile string  // previously written structure JSON
	tilt       float64 // applied only when --tilt was given
	noCache    bool
}

// renderCommand creates the render command for generating visualizations.
// It supports the ball-and-stick and node-link views and every output format the pipeline knows.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags renderFlags
		opts  pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [SMILES]",
		Short: "Render a molecule to SVG, PNG, GIF, PDF, JSON, XYZ or PDB",
		Long: `Render a molecule to one or more output formats.

The input is a SMILES string, a built-in reference molecule (-r), or a
structure file written by 'molview layout' (--layout).

Ball view (-t ball, default) formats: svg, png, gif, pdf, json, xyz, pdb.
Node-link view (-t nodelink) formats: svg, png, pdf, json, dot.

PDF output requires rsvg-convert (librsvg).`,
		Example: `  molview render 'c1ccccc1' -f svg,png --legend
  molview render -r aspirin -f gif --frames 48 -o aspirin
  molview render -r caffeine -t nodelink -f svg`,
		Args: sourceArgs(&opts.Reference, &flags.layoutFile),
		RunE: func(cmd *cobra.Command, args []string) error {
			setSource(&opts, args)
			formats, err := pipeline.ParseFormats(flags.formats)
			if err != nil {
				return err
			}
			if len(formats) == 0 {
				formats = []string{pipeline.FormatSVG}
			}
			opts.Formats = formats
			if cmd.Flags().Changed("tilt") {
				opts.Tilt = &flags.tilt
			}
			c.Config.applyRender(&opts)
			return c.runRender(cmd.Context(), opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s), comma-separated (default: svg)")
	cmd.Flags().StringVar(&flags.layoutFile, "layout", "", "render a structure JSON file instead of a SMILES string")
	cmd.Flags().StringVarP(&opts.Reference, "reference", "r", "", "use a built-in reference molecule")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute and overwrite cached results")

	cmd.Flags().StringVarP(&opts.VizType, "type", "t", pipeline.DefaultVizType, "visualization type: ball, nodelink")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "image width in pixels (default from config, 600)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "image height in pixels (default from config, 600)")
	cmd.Flags().Float64Var(&opts.Angle, "angle", 0, "rotation about the vertical axis in radians")
	cmd.Flags().Float64Var(&flags.tilt, "tilt", pipeline.DefaultTilt, "rotation about the horizontal axis in radians")
	cmd.Flags().BoolVar(&opts.Legend, "legend", false, "draw the element legend")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title drawn above the molecule")
	cmd.Flags().IntVar(&opts.Frames, "frames", 0, "GIF frames per full turn (default from config, 36)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label atoms with their index (nodelink)")
	cmd.RegisterFlagCompletionFunc("reference", completeReferences)
	cmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions(
		[]string{pipeline.VizTypeBall, pipeline.VizTypeNodelink}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runRender resolves the structure, renders every requested format and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, flags renderFlags) error {
	if flags.output != "" {
		if err := errors.ValidatePath(flags.output); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	var (
		st        molecule.Structure
		artifacts map[string][]byte
		cached    bool
	)
	if flags.layoutFile != "" {
		st, err = molecule.ReadFile(flags.layoutFile)
		if err == nil {
			artifacts, cached, err = runner.RenderWithCacheInfo(ctx, st, opts)
		}
	} else {
		var result *pipeline.Result
		result, err = runner.Execute(ctx, opts)
		if err == nil {
			st, artifacts = result.Structure, result.Artifacts
			cached = result.CacheInfo.Cached()
		}
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := basePath(flags.output, flags.layoutFile, opts)
	paths := outputPaths(flags.output, base, opts.Formats)
	if p, ok := paths[pipeline.FormatJSON]; ok && flags.layoutFile != "" && filepath.Clean(p) == filepath.Clean(flags.layoutFile) {
		paths[pipeline.FormatJSON] = base + ".render.json"
		printWarning("Writing JSON to %s to keep the layout file", paths[pipeline.FormatJSON])
	}
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
	}
	prog.done("wrote outputs", "files", len(paths))

	printSuccess("Rendered %s", plural(len(paths), "file"))
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(len(st.Atoms), len(st.Bonds), molecule.Analyze(st).Rings, cached)
	return nil
}

// basePath derives the base output path without extension.
// An explicit output loses a known format extension; otherwise the name
// comes from the layout file or the molecule.
func basePath(output, layoutFile string, opts pipeline.Options) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if layoutFile != "" {
		return strings.TrimSuffix(layoutFile, filepath.Ext(layoutFile))
	}
	return defaultBase(opts)
}

// outputPaths maps each format to its file. A single format written to an
// explicit output uses that path verbatim; everything else is base.format.
func outputPaths(output, base string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
