package graph

import (
	"slices"

	"github.com/matzehuels/gitxmas/pkg/commit"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Output formats.
const (
	FormatJSON  = "json"
	FormatScene = "scene"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
)

// Formats lists every output format in the order they are documented.
var Formats = []string{FormatJSON, FormatScene, FormatDOT, FormatSVG}

// LayoutVersion is the version of the layout wire format.
const LayoutVersion = 1

// =============================================================================
// Graph - Commit Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for commit graphs.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// =============================================================================
// Node - Commit
// =============================================================================

// Node is one serialized commit.
type Node struct {
	ID        string   `json:"id" bson:"id"`
	Parents   []string `json:"parents,omitempty" bson:"parents,omitempty"`
	Timestamp int64    `json:"timestamp" bson:"timestamp"`
	Label     string   `json:"label,omitempty" bson:"label,omitempty"` // commit subject
	Branch    string   `json:"branch,omitempty" bson:"branch,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the abbreviated hash.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.Commit().ShortHash()
}

// Commit converts the node back to a commit value.
func (n *Node) Commit() commit.Commit {
	return commit.Commit{
		Hash:      n.ID,
		Parents:   slices.Clone(n.Parents),
		Timestamp: n.Timestamp,
		Message:   n.Label,
		Branch:    n.Branch,
	}
}

func nodeFromCommit(c commit.Commit) Node {
	return Node{
		ID:        c.Hash,
		Parents:   slices.Clone(c.Parents),
		Timestamp: c.Timestamp,
		Label:     c.Message,
		Branch:    c.Branch,
	}
}

// =============================================================================
// Edge - Parent to Child
// =============================================================================

// Edge is a directed parent→child edge.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// =============================================================================
// commit.Graph ↔ Graph Conversion
// =============================================================================

// FromCommitGraph converts a commit graph to its serialization format.
// Nodes keep input order.
func FromCommitGraph(g *commit.Graph) Graph {
	commits := g.Commits()
	out := Graph{
		Nodes: make([]Node, len(commits)),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for i, c := range commits {
		out.Nodes[i] = nodeFromCommit(c)
		for _, p := range g.ResolvableParents(c.Hash) {
			out.Edges = append(out.Edges, Edge{From: p, To: c.Hash})
		}
	}
	return out
}

// ToCommitGraph converts a Graph back into a commit graph.
// Parents are taken from the nodes; the edge list is informational.
func ToCommitGraph(gj Graph) (*commit.Graph, error) {
	return commit.New(gj.Commits())
}

// Commits returns the nodes as commit values in order.
func (gj Graph) Commits() []commit.Commit {
	commits := make([]commit.Commit, len(gj.Nodes))
	for i := range gj.Nodes {
		commits[i] = gj.Nodes[i].Commit()
	}
	return commits
}
