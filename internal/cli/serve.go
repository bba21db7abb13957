package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitxmas/pkg/pipeline"
	"github.com/matzehuels/gitxmas/pkg/server"
)

// serveCommand creates the serve command for the live layout server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		preset   string
		watch    bool
		debounce time.Duration
		noCache  bool
	)
	opts := defaultOptions()

	cmd := &cobra.Command{
		Use:   "serve [repo]",
		Short: "Serve the layout over HTTP with live WebSocket updates",
		Long: `Serve the layout of a repository over HTTP.

Endpoints:
  GET /api/layout          layout JSON
  GET /api/scene           scene JSON
  GET /api/commits/{hash}  one placed commit (full hash or unique prefix)
  GET /api/healthz         status
  GET /api/ws              WebSocket: current layout, then one message per change

With --watch the repository's refs are watched and the layout is recomputed
and pushed to every connected client when they move.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Repo = repoArg(args)
			if err := c.prepareOptions(cmd, &opts, preset); err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = c.Settings.Server.Addr
			}
			return c.runServe(cmd.Context(), opts, addr, watch, debounce, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address (default from settings)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "recompute the layout when refs change")
	cmd.Flags().DurationVar(&debounce, "debounce", server.DefaultDebounce, "quiet period before recomputing")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&preset, "preset", "", "TOML preset with layout options (flags win)")
	addLayoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts pipeline.Options, addr string, watch bool, debounce time.Duration, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(runner, opts, c.Logger)

	var w *server.Watcher
	if watch {
		w, err = server.NewWatcher(opts.Repo, debounce, func() {
			if err := srv.Refresh(ctx); err != nil {
				c.Logger.Warn("refresh failed", "err", err)
			}
		}, c.Logger)
		if err != nil {
			return fmt.Errorf("watch %s: %w", opts.Repo, err)
		}
	}

	err = srv.Run(ctx, addr, w)
	if err == context.Canceled {
		c.Logger.Info("server stopped")
	}
	return err
}
