// Package server serves the current commit-tree layout of one repository over
// HTTP and pushes every relayout to WebSocket clients.
//
// Routes:
//
//	GET /api/healthz        liveness and layout summary
//	GET /api/layout         layout JSON
//	GET /api/scene          scene JSON
//	GET /api/commits/{hash} one placed commit (full or unique abbreviated hash)
//	GET /api/ws             WebSocket; sends the layout on connect and on change
//
// With a [Watcher] attached, ref updates in the repository trigger a new
// layout automatically.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitxmas/pkg/errors"
	"github.com/matzehuels/gitxmas/pkg/graph"
	"github.com/matzehuels/gitxmas/pkg/observability"
	"github.com/matzehuels/gitxmas/pkg/pipeline"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8080"

// shutdownTimeout bounds graceful shutdown in Run.
const shutdownTimeout = 5 * time.Second

// Server holds the latest layout of a repository.
type Server struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger
	hub    *hub

	// refreshMu serializes Refresh so a slow run never publishes over a newer one.
	refreshMu sync.Mutex

	mu      sync.RWMutex
	current *snapshot
}

// snapshot is one published layout with its pre-encoded responses.
type snapshot struct {
	layout     graph.Layout
	layoutJSON []byte
	sceneJSON  []byte
	updated    time.Time
}

// New creates a server for the repository in opts.Repo. The scene is always
// embedded so that /api/scene and the layout push agree.
func New(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	opts.Scene = true
	return &Server{
		runner: runner,
		opts:   opts,
		logger: logger,
		hub:    newHub(logger),
	}
}

// Refresh recomputes the layout, publishes it, and broadcasts it to every
// WebSocket client. The previous layout stays in place when it fails.
func (s *Server) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	opts := s.opts
	g, err := s.runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	l, err := s.runner.GenerateLayout(ctx, g, opts)
	if err != nil {
		return err
	}

	snap, err := newSnapshot(l)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.logger.Info("layout updated", "commits", len(l.Nodes), "run_id", l.RunID)
	n, err := s.hub.broadcast(message{Type: messageLayout, Data: snap.layoutJSON})
	observability.Server().OnBroadcast(ctx, n, err)
	return nil
}

func newSnapshot(l graph.Layout) (*snapshot, error) {
	layoutJSON, err := json.Marshal(l)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	sceneJSON := []byte("null")
	if l.Scene != nil {
		if sceneJSON, err = json.Marshal(l.Scene); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
		}
	}
	return &snapshot{
		layout:     l,
		layoutJSON: layoutJSON,
		sceneJSON:  sceneJSON,
		updated:    time.Now(),
	}, nil
}

func (s *Server) snapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Clients returns the number of connected WebSocket clients.
func (s *Server) Clients() int {
	return s.hub.len()
}

// Run computes the first layout, then serves on addr until ctx is done.
// The watcher, when non-nil, is started alongside and stopped on return.
func (s *Server) Run(ctx context.Context, addr string, w *Watcher) error {
	if addr == "" {
		addr = DefaultAddr
	}
	if err := s.Refresh(ctx); err != nil {
		return err
	}

	if w != nil {
		go w.Run(ctx)
		defer w.Close()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving layout", "addr", "http://"+addr, "repo", s.opts.Repo)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(errors.ErrCodeInternal, err, "listen %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.hub.closeAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
