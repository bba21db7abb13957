package layout

import (
	"math"

	"github.com/matzehuels/gitxmas/pkg/commit"
	"github.com/matzehuels/gitxmas/pkg/errors"
)

// Position is a point in layout space. Z is the height axis.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// Add returns p translated by q.
func (p Position) Add(q Position) Position {
	return Position{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// PlanarRadius returns the distance of p from the vertical axis.
func (p Position) PlanarRadius() float64 { return math.Hypot(p.X, p.Y) }

// Projector maps a commit's depth and lane into a raw, unscaled position.
// Implementations are deterministic: equal inputs give equal outputs.
type Projector interface {
	Project(c commit.Commit, depth int, lane float64) Position
}

// ProjectionInput carries the precomputed results a projector may read.
type ProjectionInput struct {
	Graph  *commit.Graph
	Depths DepthMap
	Lanes  LaneMap
	Config Config
}

// NewProjector returns the projector for policy. State a policy needs, such as
// the angular slots of [PolicyRadialRing], is built here and owned by the
// returned value, so every layout run starts from scratch.
func NewProjector(policy Policy, in ProjectionInput) (Projector, error) {
	switch policy {
	case PolicyLinearLane:
		return newLinearProjector(in), nil
	case PolicyRadialRing:
		return newRadialProjector(in), nil
	case PolicyTimeCone:
		return newConeProjector(in), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidPolicy, "unknown projection policy %q", policy)
	}
}

// polar converts an angle and radius to planar coordinates.
// A zero radius maps exactly to the axis.
func polar(angle, radius float64) (x, y float64) {
	if radius == 0 {
		return 0, 0
	}
	return radius * math.Cos(angle), radius * math.Sin(angle)
}
