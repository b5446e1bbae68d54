package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/molview/pkg/cache"
	"github.com/matzehuels/molview/pkg/errors"
	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/pipeline"
	"github.com/matzehuels/molview/pkg/reference"
)

// layoutCommand creates the layout command for computing structure layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [SMILES]",
		Short: "Compute the 3D atom/bond layout for a SMILES string",
		Long: `Compute the 3D atom/bond layout for a SMILES string.

The layout is a decorative arrangement: up to 20 element symbols are read
from the input and placed on concentric rings, with bonds following the
string order plus ring closures for aromatic inputs. The output is a
structure JSON file that 'render --layout' and the HTTP API accept.

Results are cached locally for faster subsequent runs.`,
		Example: `  molview layout 'CC(=O)Oc1ccccc1C(=O)O' -o aspirin.json
  molview layout -r caffeine`,
		Args: sourceArgs(&opts.Reference, nil),
		RunE: func(cmd *cobra.Command, args []string) error {
			setSource(&opts, args)
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.json)")
	cmd.Flags().StringVarP(&opts.Reference, "reference", "r", "", "use a built-in reference molecule")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute and overwrite cached results")
	cmd.RegisterFlagCompletionFunc("reference", completeReferences)

	return cmd
}

// runLayout computes the structure and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if output == "" {
		output = defaultBase(opts) + ".json"
	}
	if err := errors.ValidatePath(output); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	st, cacheHit, err := runner.LayoutWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := molecule.WriteFile(st, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	topo := molecule.Analyze(st)
	printSuccess("Layout complete")
	printFile(output)
	printStats(len(st.Atoms), len(st.Bonds), topo.Rings, cacheHit)
	printNewline()
	printNextStep("Render", "molview render --layout "+output)

	return nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// sourceArgs accepts exactly one SMILES argument, or none when a reference
// name or layout file was given instead.
func sourceArgs(ref, layoutFile *string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if *ref != "" || (layoutFile != nil && *layoutFile != "") {
			if len(args) > 0 {
				return fmt.Errorf("a SMILES argument cannot be combined with --reference or --layout")
			}
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("requires a SMILES argument or --reference NAME")
		}
		return nil
	}
}

// setSource copies the positional SMILES argument into opts.
func setSource(opts *pipeline.Options, args []string) {
	if len(args) > 0 {
		opts.Source = args[0]
	}
}

// defaultBase derives an output file name without extension: the slug of a
// reference molecule, or "molecule-" plus a short hash of the SMILES.
func defaultBase(opts pipeline.Options) string {
	if opts.Reference != "" {
		if m, ok := reference.Lookup(opts.Reference); ok {
			return m.Slug()
		}
	}
	return "molecule-" + cache.Hash([]byte(opts.Source))[:8]
}

// completeReferences offers reference names for shell completion.
func completeReferences(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, m := range reference.All() {
		names = append(names, m.Slug())
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
