package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowline-dev/flowline/pkg/pipeline"
)

// resolveCommand creates the resolve command for computing diagram layouts.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}
	c.setResolveDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "resolve [diagram.json]",
		Short: "Compute complete positions for a diagram model",
		Long: `Compute complete positions for a diagram model.

The resolve command takes a diagram model file and fills in positions and
sizes for every shape, pool, and lane, routing connectors between them.
Shapes without coordinates are placed automatically; containers are sized
to fit their members. Use '-' as the input to read from stdin.

The output is a fully positioned copy of the model. Pass --mode preserve
to keep existing coordinates when the model already carries a complete
layout.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			return c.runResolve(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.resolved.json, '-' for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", opts.Mode, "layout mode: auto (default), preserve")
	cmd.Flags().StringVarP(&opts.Direction, "direction", "d", opts.Direction, "flow direction: right (default), down")
	cmd.Flags().BoolVar(&opts.NoEngine, "no-engine", opts.NoEngine, "skip the graphviz engine and use the built-in placer")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", opts.Refresh, "recompute even when a cached result exists")

	return cmd
}

// setResolveDefaults applies config-file defaults to the layout options.
func (c *CLI) setResolveDefaults(opts *pipeline.Options) {
	opts.Mode = pipeline.DefaultMode
	opts.Direction = pipeline.DefaultDirection
	if c.Config.Mode != "" {
		opts.Mode = c.Config.Mode
	}
	if c.Config.Direction != "" {
		opts.Direction = c.Config.Direction
	}
	opts.NoEngine = c.Config.NoEngine
}

// runResolve loads the model, resolves the layout, and writes output.
func (c *CLI) runResolve(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.Output = output
	if opts.Output == "" {
		opts.Output = pipeline.DefaultOutput(opts.Input)
	}

	spinner := newSpinnerWithContext(ctx, "Resolving layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Resolve failed")
		return fmt.Errorf("resolve layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if opts.Output != "-" {
		printSuccess("Resolve complete")
		printFile(opts.Output)
		printStats(result.Stats.ShapeCount, result.Stats.ConnectorCount, result.CacheInfo.ResolveHit)
		printNewline()
		printNextStep("Serve", appName+" serve")
	}

	return nil
}
