package layout

import (
	"fmt"
	"maps"

	"github.com/matzehuels/gitxmas/pkg/commit"
)

// Node is one placed commit.
type Node struct {
	Commit   commit.Commit
	Depth    int
	Lane     float64
	Position Position
}

// Edge is a segment from a parent to one of its children. Label is the
// child's branch label and may be empty.
type Edge struct {
	From    string
	To      string
	FromPos Position
	ToPos   Position
	Label   string
}

// Engine holds the result of one layout run. It is immutable: a different
// configuration needs a new Engine.
type Engine struct {
	g         *commit.Graph
	cfg       Config
	depths    DepthMap
	lanes     LaneMap
	fit       Fit
	nodes     []Node
	positions map[string]Position
	edges     []Edge
}

// New validates cfg and lays out g. Only configuration problems are errors;
// an empty graph, dangling parents and cycles all produce a valid layout.
func New(g *commit.Graph, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	depths := ResolveDepths(g)
	lanes := AllocateLanes(g, depths, cfg.BranchSpacing)
	proj, err := NewProjector(cfg.Policy, ProjectionInput{
		Graph:  g,
		Depths: depths,
		Lanes:  lanes,
		Config: cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("projector: %w", err)
	}

	commits := g.Commits()
	raw := make([]Position, len(commits))
	for i, c := range commits {
		raw[i] = proj.Project(c, depths[c.Hash], lanes[c.Hash])
	}
	fit := FitBounds(raw, cfg)

	e := &Engine{
		g:         g,
		cfg:       cfg,
		depths:    depths,
		lanes:     lanes,
		fit:       fit,
		nodes:     make([]Node, len(commits)),
		positions: make(map[string]Position, len(commits)),
	}
	for i, c := range commits {
		pos := fit.Apply(raw[i])
		e.positions[c.Hash] = pos
		e.nodes[i] = Node{Commit: c, Depth: depths[c.Hash], Lane: lanes[c.Hash], Position: pos}
	}
	for _, c := range commits {
		for _, p := range g.ResolvableParents(c.Hash) {
			e.edges = append(e.edges, Edge{
				From:    p,
				To:      c.Hash,
				FromPos: e.positions[p],
				ToPos:   e.positions[c.Hash],
				Label:   c.Branch,
			})
		}
	}
	return e, nil
}

// Position returns the final position of hash.
func (e *Engine) Position(hash string) (Position, bool) {
	p, ok := e.positions[hash]
	return p, ok
}

// Positions returns a copy of all final positions keyed by hash.
func (e *Engine) Positions() map[string]Position { return maps.Clone(e.positions) }

// Nodes returns placed commits in input order. The slice must not be modified.
func (e *Engine) Nodes() []Node { return e.nodes }

// Edges returns one edge per child and resolvable parent, children in input
// order. The slice must not be modified.
func (e *Engine) Edges() []Edge { return e.edges }

// Depths returns a copy of the depth map.
func (e *Engine) Depths() DepthMap { return maps.Clone(e.depths) }

// Lanes returns a copy of the lane map.
func (e *Engine) Lanes() LaneMap { return maps.Clone(e.lanes) }

func (e *Engine) Fit() Fit             { return e.fit }
func (e *Engine) Config() Config       { return e.cfg }
func (e *Engine) Graph() *commit.Graph { return e.g }

// Bounds returns the per-axis extent of the final positions.
func (e *Engine) Bounds() (lo, hi Position) {
	ps := make([]Position, len(e.nodes))
	for i, n := range e.nodes {
		ps[i] = n.Position
	}
	return Extent(ps)
}
