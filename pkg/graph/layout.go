package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/matzehuels/gitxmas/pkg/commit"
	"github.com/matzehuels/gitxmas/pkg/errors"
	"github.com/matzehuels/gitxmas/pkg/layout"
	"github.com/matzehuels/gitxmas/pkg/scene"
)

// =============================================================================
// Layout - Placed Commit Graph
// =============================================================================

// Layout is the serialization format of one layout run.
//
// Nodes are in input order and keep their parent lists, so a Layout also
// carries the commit graph it was computed from. Scene is only present when
// decorations were requested.
type Layout struct {
	Version int           `json:"version" bson:"version"`
	RunID   string        `json:"run_id" bson:"run_id"`
	Repo    string        `json:"repo,omitempty" bson:"repo,omitempty"`
	Config  layout.Config `json:"config" bson:"config"`
	Fit     layout.Fit    `json:"fit" bson:"fit"`
	Bounds  Bounds        `json:"bounds" bson:"bounds"`

	Nodes []PlacedNode `json:"nodes" bson:"nodes"`
	Edges []Segment    `json:"edges" bson:"edges"`

	Scene *scene.Scene `json:"scene,omitempty" bson:"scene,omitempty"`
}

// PlacedNode is a commit with its layout results.
type PlacedNode struct {
	Node     `bson:",inline"`
	Depth    int             `json:"depth" bson:"depth"`
	Lane     float64         `json:"lane" bson:"lane"`
	Position layout.Position `json:"position" bson:"position"`
}

// Segment is an edge between two placed commits.
type Segment struct {
	From    string          `json:"from" bson:"from"`
	To      string          `json:"to" bson:"to"`
	FromPos layout.Position `json:"from_pos" bson:"from_pos"`
	ToPos   layout.Position `json:"to_pos" bson:"to_pos"`
	Label   string          `json:"label,omitempty" bson:"label,omitempty"`
}

// Bounds is the axis-aligned box around all placed commits.
type Bounds struct {
	Min layout.Position `json:"min" bson:"min"`
	Max layout.Position `json:"max" bson:"max"`
}

// NewRunID returns a fresh layout run identifier.
func NewRunID() string { return uuid.NewString() }

// FromEngine converts a computed layout to its serialization format.
// An empty runID is replaced by a new one.
func FromEngine(e *layout.Engine, runID string) Layout {
	if runID == "" {
		runID = NewRunID()
	}
	nodes := e.Nodes()
	lo, hi := e.Bounds()
	l := Layout{
		Version: LayoutVersion,
		RunID:   runID,
		Config:  e.Config(),
		Fit:     e.Fit(),
		Bounds:  Bounds{Min: lo, Max: hi},
		Nodes:   make([]PlacedNode, len(nodes)),
		Edges:   make([]Segment, len(e.Edges())),
	}
	for i, n := range nodes {
		l.Nodes[i] = PlacedNode{
			Node:     nodeFromCommit(n.Commit),
			Depth:    n.Depth,
			Lane:     n.Lane,
			Position: n.Position,
		}
	}
	for i, edge := range e.Edges() {
		l.Edges[i] = Segment{
			From:    edge.From,
			To:      edge.To,
			FromPos: edge.FromPos,
			ToPos:   edge.ToPos,
			Label:   edge.Label,
		}
	}
	return l
}

// Commits returns the commits the layout was computed from.
func (l *Layout) Commits() []commit.Commit {
	commits := make([]commit.Commit, len(l.Nodes))
	for i := range l.Nodes {
		commits[i] = l.Nodes[i].Commit()
	}
	return commits
}

// ToEngine recomputes the layout from its commits and configuration.
// Layouts are deterministic, so the result matches the serialized positions.
func (l *Layout) ToEngine() (*layout.Engine, error) {
	g, err := commit.New(l.Commits())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "layout commits")
	}
	return layout.New(g, l.Config)
}

// Node returns the placed node for hash.
func (l *Layout) Node(hash string) (PlacedNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == hash {
			return n, true
		}
	}
	return PlacedNode{}, false
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and checks that every
// edge connects two nodes of the layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks the structural consistency of a decoded layout.
func (l *Layout) Validate() error {
	if l.Version == 0 {
		l.Version = LayoutVersion
	}
	if l.Version > LayoutVersion {
		return errors.New(errors.ErrCodeUnsupported, "layout version %d is newer than supported version %d", l.Version, LayoutVersion)
	}
	ids := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "layout node without id")
		}
		ids[n.ID] = true
	}
	for _, e := range l.Edges {
		if !ids[e.From] || !ids[e.To] {
			return errors.New(errors.ErrCodeInvalidFormat, "edge %s→%s references unknown node", e.From, e.To)
		}
	}
	return nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
