package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gitxmas/pkg/buildinfo"
	"github.com/matzehuels/gitxmas/pkg/errors"
	"github.com/matzehuels/gitxmas/pkg/graph"
	"github.com/matzehuels/gitxmas/pkg/observability"
)

// minPrefix is the shortest abbreviated hash /api/commits accepts.
const minPrefix = 4

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthz", s.handleHealth)
		r.Get("/layout", s.handleLayout)
		r.Get("/scene", s.handleScene)
		r.Get("/commits/{hash}", s.handleCommit)
		r.Get("/ws", s.handleWebSocket)
	})
	return r
}

// observe logs each request and reports it to the server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", elapsed)
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path, status, elapsed)
	})
}

type healthResponse struct {
	Status  string    `json:"status"`
	Version string    `json:"version"`
	Repo    string    `json:"repo"`
	RunID   string    `json:"run_id,omitempty"`
	Commits int       `json:"commits"`
	Clients int       `json:"clients"`
	Updated time.Time `json:"updated,omitzero"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Repo:    s.opts.Repo,
		Clients: s.Clients(),
	}
	if snap := s.snapshot(); snap != nil {
		resp.RunID = snap.layout.RunID
		resp.Commits = len(snap.layout.Nodes)
		resp.Updated = snap.updated
	} else {
		resp.Status = "starting"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.requireSnapshot(w)
	if !ok {
		return
	}
	writeRaw(w, http.StatusOK, snap.layoutJSON)
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.requireSnapshot(w)
	if !ok {
		return
	}
	writeRaw(w, http.StatusOK, snap.sceneJSON)
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.requireSnapshot(w)
	if !ok {
		return
	}
	hash := chi.URLParam(r, "hash")
	if err := errors.ValidateCommitHash(hash); err != nil {
		writeError(w, err)
		return
	}
	n, err := findCommit(snap.layout, hash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// findCommit resolves a full hash, or an abbreviated one that matches
// exactly one commit.
func findCommit(l graph.Layout, hash string) (graph.PlacedNode, error) {
	if n, ok := l.Node(hash); ok {
		return n, nil
	}
	if len(hash) < minPrefix {
		return graph.PlacedNode{}, errors.New(errors.ErrCodeCommitNotFound, "commit %s not found", hash)
	}

	var match *graph.PlacedNode
	for i := range l.Nodes {
		if !strings.HasPrefix(l.Nodes[i].ID, hash) {
			continue
		}
		if match != nil {
			return graph.PlacedNode{}, errors.New(errors.ErrCodeInvalidInput, "abbreviated hash %s is ambiguous", hash)
		}
		match = &l.Nodes[i]
	}
	if match == nil {
		return graph.PlacedNode{}, errors.New(errors.ErrCodeCommitNotFound, "commit %s not found", hash)
	}
	return *match, nil
}

func (s *Server) requireSnapshot(w http.ResponseWriter) (*snapshot, bool) {
	snap := s.snapshot()
	if snap == nil {
		writeError(w, errors.New(errors.ErrCodeLayoutNotLoaded, "layout is still being computed"))
		return nil, false
	}
	return snap, true
}

// =============================================================================
// Response helpers
// =============================================================================

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), errorResponse{
		Error:   string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, data)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
