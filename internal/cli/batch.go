package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitxmas/pkg/graph"
	"github.com/matzehuels/gitxmas/pkg/pipeline"
)

// batchCommand creates the batch command for laying out several repositories.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		outDir  string
		preset  string
		jobs    int
		noCache bool
	)
	opts := defaultOptions()

	cmd := &cobra.Command{
		Use:   "batch <repo>...",
		Short: "Lay out several repositories concurrently",
		Long: `Lay out several repositories concurrently.

Every repository gets the same layout options; each result is written to
<out>/<repo>.layout.json. The first failure cancels the remaining work.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs := make([]pipeline.Options, len(args))
			for i, repo := range args {
				run := opts
				run.Repo = repo
				run.Revs = append([]string(nil), opts.Revs...)
				if err := c.prepareOptions(cmd, &run, preset); err != nil {
					return fmt.Errorf("%s: %w", repo, err)
				}
				runs[i] = run
			}
			return c.runBatch(cmd.Context(), runs, outDir, jobs, noCache)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "repositories laid out at once")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&preset, "preset", "", "TOML preset with layout options (flags win)")
	addLayoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, runs []pipeline.Options, outDir string, jobs int, noCache bool) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	results, err := runner.LayoutMany(ctx, runs, jobs)
	if err != nil {
		return err
	}

	paths := batchPaths(runs, outDir)
	for i, res := range results {
		if err := graph.WriteLayoutFile(res.Layout, paths[i]); err != nil {
			return fmt.Errorf("write output %s: %w", paths[i], err)
		}
		printFile(paths[i])
		printStats(res.Stats.CommitCount, res.Stats.EdgeCount, res.CacheInfo.LoadHit && res.CacheInfo.LayoutHit)
	}
	prog.done(fmt.Sprintf("Laid out %d repositories", len(results)))
	return nil
}

// batchPaths names each output after its repository directory. Repeated
// names get a numeric suffix so no result overwrites another.
func batchPaths(runs []pipeline.Options, outDir string) []string {
	seen := make(map[string]int, len(runs))
	paths := make([]string, len(runs))
	for i, run := range runs {
		name := strings.TrimSuffix(defaultLayoutPath(run.Repo), layoutSuffix)
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s-%d", name, n)
		}
		paths[i] = filepath.Join(outDir, name+layoutSuffix)
	}
	return paths
}
