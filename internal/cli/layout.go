package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitxmas/pkg/graph"
	"github.com/matzehuels/gitxmas/pkg/layout"
	"github.com/matzehuels/gitxmas/pkg/pipeline"
)

// layoutSuffix is appended to derived layout file names.
const layoutSuffix = ".layout.json"

// layoutCommand creates the layout command for computing a tree layout.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		preset  string
		noCache bool
	)
	opts := defaultOptions()

	cmd := &cobra.Command{
		Use:   "layout [repo]",
		Short: "Compute the 3D tree layout of a repository",
		Long: `Compute the 3D tree layout of a repository.

The layout command reads the commit history of the repository (default: the
current directory) and writes a layout JSON holding every commit's depth, lane
and position. Pass --scene to embed the decorations (trunk, ornaments, lights,
star) in the same file.

The output can be rendered with 'render', browsed with 'inspect' or served
with 'serve'. Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Repo = repoArg(args)
			if err := c.prepareOptions(cmd, &opts, preset); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <repo>"+layoutSuffix+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&preset, "preset", "", "TOML preset with layout options (flags win)")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runLayout loads the commit graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %s...", filepath.Base(opts.Repo)))
	spinner.Start()

	g, loadHit, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return fmt.Errorf("load %s: %w", opts.Repo, err)
	}
	l, layoutHit, err := runner.GenerateLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = defaultLayoutPath(opts.Repo)
	}
	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.Len(), g.EdgeCount(), loadHit && layoutHit)
	printNewline()
	printNextStep("Render", appName+" render -f svg "+outputPath)

	return nil
}

// =============================================================================
// Shared Layout Flags
// =============================================================================

// defaultOptions returns options pre-filled with the layout defaults so that
// --help shows real values.
func defaultOptions() pipeline.Options {
	cfg := layout.DefaultConfig()
	return pipeline.Options{
		Policy:        string(cfg.Policy),
		MaxExtentX:    cfg.MaxExtentX,
		MaxExtentY:    cfg.MaxExtentY,
		MaxExtentZ:    cfg.MaxExtentZ,
		CommitSpacing: cfg.CommitSpacing,
		BranchSpacing: cfg.BranchSpacing,
		Seed:          cfg.Seed,
		ConeRadius:    cfg.ConeRadius,
		ConePower:     cfg.ConePower,
	}
}

// addLayoutFlags registers the load, layout and scene flags shared by
// layout, serve, inspect and batch. Flag names match the preset keys
// understood by pipeline.Preset.Apply.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()

	f.IntVar(&opts.MaxCommits, "max-commits", 0, "newest commits to load (default from settings)")
	f.StringSliceVar(&opts.Revs, "rev", nil, "revisions to walk (default: all refs)")
	f.BoolVar(&opts.Refresh, "refresh", false, "re-read the commit log even if cached")

	f.StringVar(&opts.Policy, "policy", opts.Policy, "projection policy: "+policyNames())
	f.Float64Var(&opts.MaxExtentX, "max-extent-x", opts.MaxExtentX, "maximum width along x")
	f.Float64Var(&opts.MaxExtentY, "max-extent-y", opts.MaxExtentY, "maximum width along y")
	f.Float64Var(&opts.MaxExtentZ, "max-extent-z", opts.MaxExtentZ, "maximum height")
	f.Float64Var(&opts.CommitSpacing, "commit-spacing", opts.CommitSpacing, "distance between generations")
	f.Float64Var(&opts.BranchSpacing, "branch-spacing", opts.BranchSpacing, "distance between sibling lanes")
	f.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed (time_cone, ornaments)")
	f.Float64Var(&opts.ConeRadius, "cone-radius", opts.ConeRadius, "base radius (time_cone)")
	f.Float64Var(&opts.ConePower, "cone-power", opts.ConePower, "radius falloff exponent (time_cone)")

	f.BoolVar(&opts.Scene, "scene", false, "embed scene decorations in the layout")
	f.BoolVar(&opts.Labels, "labels", false, "add commit message labels to the scene")
	f.BoolVar(&opts.Bare, "bare", false, "omit ornaments, lights and star from the scene")

	_ = cmd.RegisterFlagCompletionFunc("policy", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(layout.Policies))
		for i, p := range layout.Policies {
			names[i] = string(p)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// prepareOptions applies the preset and settings to opts, then validates.
// Flags set on the command line always win over the preset.
func (c *CLI) prepareOptions(cmd *cobra.Command, opts *pipeline.Options, presetPath string) error {
	if presetPath != "" {
		p, err := pipeline.LoadPreset(presetPath)
		if err != nil {
			return err
		}
		p.Apply(opts, cmd.Flags().Changed)
	}
	if opts.MaxCommits == 0 {
		opts.MaxCommits = c.Settings.MaxCommits
	}
	opts.Logger = c.Logger
	return opts.ValidateAndSetDefaults()
}

func policyNames() string {
	names := make([]string, len(layout.Policies))
	for i, p := range layout.Policies {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func repoArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

// defaultLayoutPath names the layout file after the repository directory.
func defaultLayoutPath(repo string) string {
	name := filepath.Base(filepath.Clean(repo))
	if name == "." || name == string(filepath.Separator) {
		name = "tree"
	}
	return name + layoutSuffix
}
