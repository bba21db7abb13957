package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitxmas/pkg/graph"
	"github.com/matzehuels/gitxmas/pkg/pipeline"
)

// formatExt maps output formats to file extensions.
var formatExt = map[string]string{
	pipeline.FormatJSON:  layoutSuffix,
	pipeline.FormatScene: ".scene.json",
	pipeline.FormatDOT:   ".dot",
	pipeline.FormatSVG:   ".svg",
}

// renderCommand creates the render command for producing artifacts from a layout.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render scene JSON, DOT or SVG from a computed layout",
		Long: `Render artifacts from a computed layout.

The render command takes a layout JSON file (produced by 'layout') and writes
one file per requested format:

  scene   primitive descriptors for a 3D viewer (trunk, ornaments, lights, star)
  dot     Graphviz source of the commit graph
  svg     Graphviz rendering; --elevation pins commits at their front-view position
  json    the layout itself, re-encoded

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.Logger = c.Logger
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, scene, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show timestamps and branches in node labels (dot, svg)")
	cmd.Flags().BoolVar(&opts.Elevation, "elevation", false, "pin commits at their (x, z) position (dot, svg)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "inches per layout unit with --elevation")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "add commit message labels (scene)")
	cmd.Flags().BoolVar(&opts.Bare, "bare", false, "omit ornaments, lights and star (scene)")

	return cmd
}

// runRender loads the layout and renders it.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(l.Nodes), len(l.Edges), cacheHit)
	return nil
}

// writeArtifacts writes one file per format and returns the paths in format order.
// A single format with an explicit output is written to output verbatim;
// otherwise output (or the input) is used as a base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := output
		if path == "" || len(formats) > 1 {
			path = basePath(output, input) + formatExt[format]
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
// Known format extensions are stripped, including the compound ".layout.json".
func basePath(output, input string) string {
	p := output
	if p == "" {
		p = input
	}
	for _, ext := range []string{layoutSuffix, ".scene.json"} {
		if strings.HasSuffix(p, ext) {
			return strings.TrimSuffix(p, ext)
		}
	}
	switch filepath.Ext(p) {
	case ".json", ".dot", ".svg":
		return strings.TrimSuffix(p, filepath.Ext(p))
	}
	return p
}
