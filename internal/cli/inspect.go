package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/gitxmas/pkg/graph"
	"github.com/matzehuels/gitxmas/pkg/pipeline"
)

// inspectCommand creates the inspect command for browsing a layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		preset  string
		plain   bool
		noCache bool
	)
	opts := defaultOptions()

	cmd := &cobra.Command{
		Use:   "inspect [repo | layout.json]",
		Short: "Browse commits with their depth, lane and position",
		Long: `Browse the laid-out commits of a repository, or of a saved layout JSON.

In a terminal an interactive list opens (j/k to move, q to quit). With
--plain, or when stdout is not a terminal, a static table is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := repoArg(args)
			l, err := c.inspectLayout(cmd, target, &opts, preset, noCache)
			if err != nil {
				return err
			}
			if plain || !term.IsTerminal(int(os.Stdout.Fd())) {
				fmt.Println(renderCommitTable(l.Nodes, time.Now()))
				return nil
			}
			title := fmt.Sprintf("%s · %s · %d commits", filepath.Base(l.Repo), l.Config.Policy, len(l.Nodes))
			_, err = tea.NewProgram(NewCommitListModel(title, l.Nodes), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a static table instead of the interactive list")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&preset, "preset", "", "TOML preset with layout options (flags win)")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// inspectLayout reads a saved layout when target is a file, otherwise lays
// out the repository at target.
func (c *CLI) inspectLayout(cmd *cobra.Command, target string, opts *pipeline.Options, preset string, noCache bool) (graph.Layout, error) {
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		l, err := graph.ReadLayoutFile(target)
		if err != nil {
			return graph.Layout{}, fmt.Errorf("load layout %s: %w", target, err)
		}
		if l.Repo == "" {
			l.Repo = target
		}
		return l, nil
	}

	opts.Repo = target
	if err := c.prepareOptions(cmd, opts, preset); err != nil {
		return graph.Layout{}, err
	}
	return c.computeLayout(cmd.Context(), *opts, noCache)
}

func (c *CLI) computeLayout(ctx context.Context, opts pipeline.Options, noCache bool) (graph.Layout, error) {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return graph.Layout{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %s...", filepath.Base(opts.Repo)))
	spinner.Start()
	defer spinner.Stop()

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return graph.Layout{}, fmt.Errorf("load %s: %w", opts.Repo, err)
	}
	l, err := runner.GenerateLayout(ctx, g, opts)
	if err != nil {
		return graph.Layout{}, fmt.Errorf("compute layout: %w", err)
	}
	return l, nil
}
