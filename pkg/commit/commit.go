package commit

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidHash is returned by [New] when a commit has an empty hash.
	ErrInvalidHash = errors.New("commit hash must not be empty")

	// ErrDuplicateHash is returned by [New] when two commits share a hash.
	// Hashes identify commits, so they must be unique within one graph.
	ErrDuplicateHash = errors.New("duplicate commit hash")
)

// Commit is one node of the history. It is an immutable value; identity is Hash.
type Commit struct {
	Hash      string   `json:"hash" bson:"hash"`
	Parents   []string `json:"parents,omitempty" bson:"parents,omitempty"`
	Timestamp int64    `json:"timestamp" bson:"timestamp"` // unix seconds
	Message   string   `json:"message,omitempty" bson:"message,omitempty"`
	Branch    string   `json:"branch,omitempty" bson:"branch,omitempty"` // may be empty
}

// ShortHash returns the first seven characters of the hash, the same
// abbreviation git uses by default.
func (c Commit) ShortHash() string {
	if len(c.Hash) <= 7 {
		return c.Hash
	}
	return c.Hash[:7]
}

// Graph indexes commits by hash and records parent→children adjacency.
//
// The zero value is not usable - use [New].
type Graph struct {
	commits  []Commit
	index    map[string]int      // hash -> position in commits
	parents  map[string][]string // hash -> resolvable parents, deduplicated
	children map[string][]string // hash -> children in input order
	edges    int
}

// New builds a graph from commits in O(n+e). The slice order is preserved.
//
// Returns an error wrapping [ErrInvalidHash] or [ErrDuplicateHash] when the
// input cannot identify its commits. Parents that are not part of the input are
// tolerated and ignored.
func New(commits []Commit) (*Graph, error) {
	g := &Graph{
		commits:  make([]Commit, len(commits)),
		index:    make(map[string]int, len(commits)),
		parents:  make(map[string][]string, len(commits)),
		children: make(map[string][]string),
	}
	for i, c := range commits {
		if c.Hash == "" {
			return nil, fmt.Errorf("commit %d: %w", i, ErrInvalidHash)
		}
		if _, exists := g.index[c.Hash]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateHash, c.Hash)
		}
		c.Parents = slices.Clone(c.Parents)
		g.commits[i] = c
		g.index[c.Hash] = i
	}

	for _, c := range g.commits {
		var resolved []string
		for _, p := range c.Parents {
			if _, ok := g.index[p]; !ok || slices.Contains(resolved, p) {
				continue
			}
			resolved = append(resolved, p)
			g.children[p] = append(g.children[p], c.Hash)
		}
		g.parents[c.Hash] = resolved
		g.edges += len(resolved)
	}
	return g, nil
}

// MustNew is like [New] but panics on error. Intended for tests and examples.
func MustNew(commits []Commit) *Graph {
	g, err := New(commits)
	if err != nil {
		panic(err)
	}
	return g
}

// Commits returns all commits in input order. The slice must not be modified.
func (g *Graph) Commits() []Commit { return g.commits }

// Len returns the number of commits.
func (g *Graph) Len() int { return len(g.commits) }

// EdgeCount returns the number of child→parent edges between commits in the graph.
func (g *Graph) EdgeCount() int { return g.edges }

// Commit returns the commit with the given hash.
func (g *Graph) Commit(hash string) (Commit, bool) {
	i, ok := g.index[hash]
	if !ok {
		return Commit{}, false
	}
	return g.commits[i], true
}

// Has reports whether hash is part of the graph.
func (g *Graph) Has(hash string) bool {
	_, ok := g.index[hash]
	return ok
}

// Index returns the input position of hash, or -1.
func (g *Graph) Index(hash string) int {
	if i, ok := g.index[hash]; ok {
		return i
	}
	return -1
}

// Children returns the commits that list hash as a parent, in input order.
func (g *Graph) Children(hash string) []string { return g.children[hash] }

// ResolvableParents returns the parents of hash that exist in the graph, in the
// order the commit lists them. Dangling parent hashes are omitted.
func (g *Graph) ResolvableParents(hash string) []string { return g.parents[hash] }

// FirstParent returns the first resolvable parent of hash.
func (g *Graph) FirstParent(hash string) (string, bool) {
	ps := g.parents[hash]
	if len(ps) == 0 {
		return "", false
	}
	return ps[0], true
}

// IsRoot reports whether hash has no resolvable parents.
// Unknown hashes are not roots.
func (g *Graph) IsRoot(hash string) bool {
	if !g.Has(hash) {
		return false
	}
	return len(g.parents[hash]) == 0
}

// Roots returns all root commits in input order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, c := range g.commits {
		if len(g.parents[c.Hash]) == 0 {
			roots = append(roots, c.Hash)
		}
	}
	return roots
}

// TimeRange returns the smallest and largest commit timestamp.
// Both are zero for an empty graph.
func (g *Graph) TimeRange() (lo, hi int64) {
	for i, c := range g.commits {
		if i == 0 || c.Timestamp < lo {
			lo = c.Timestamp
		}
		if i == 0 || c.Timestamp > hi {
			hi = c.Timestamp
		}
	}
	return lo, hi
}

// Branches returns the distinct non-empty branch labels in order of first appearance.
func (g *Graph) Branches() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range g.commits {
		if c.Branch == "" || seen[c.Branch] {
			continue
		}
		seen[c.Branch] = true
		out = append(out, c.Branch)
	}
	return out
}
