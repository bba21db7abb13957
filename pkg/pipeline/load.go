package pipeline

import (
	"context"

	"github.com/matzehuels/gitxmas/pkg/commit"
	"github.com/matzehuels/gitxmas/pkg/errors"
	"github.com/matzehuels/gitxmas/pkg/gitlog"
)

// Load reads the commit log of opts.Repo and builds the commit graph.
// A nil reader uses the git CLI.
func Load(ctx context.Context, r *gitlog.Reader, opts Options) (*commit.Graph, error) {
	if r == nil {
		r = gitlog.NewReader()
	}
	commits, err := r.Load(ctx, opts.Repo, opts.GitOptions())
	if err != nil {
		return nil, err
	}

	// git emits each commit once, so duplicates mean the log was corrupted.
	g, err := commit.New(commits)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "commit log of %s", opts.Repo)
	}
	return g, nil
}

// LoadCommits builds a graph from commits supplied by the caller, for
// example a commit list read from a JSON file instead of a repository.
func LoadCommits(commits []commit.Commit) (*commit.Graph, error) {
	g, err := commit.New(commits)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build graph")
	}
	return g, nil
}
