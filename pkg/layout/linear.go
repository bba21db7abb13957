package layout

import (
	"math"

	"github.com/matzehuels/gitxmas/pkg/commit"
)

// laneSectors is the number of unit lanes that make one full turn.
const laneSectors = 8

// trunkEpsilon snaps lanes that are zero up to float noise onto the trunk.
const trunkEpsilon = 1e-12

// linearProjector places roots on top and lets lanes flare out with depth.
type linearProjector struct {
	maxDepth      int
	branchSpacing float64
	commitSpacing float64
}

func newLinearProjector(in ProjectionInput) *linearProjector {
	return &linearProjector{
		maxDepth:      in.Depths.Max(),
		branchSpacing: in.Config.BranchSpacing,
		commitSpacing: in.Config.CommitSpacing,
	}
}

func (p *linearProjector) Project(_ commit.Commit, depth int, lane float64) Position {
	z := float64(p.maxDepth-depth) * p.commitSpacing
	if math.Abs(lane) < trunkEpsilon {
		return Position{Z: z}
	}

	var depthRatio float64
	if p.maxDepth > 0 {
		depthRatio = float64(depth) / float64(p.maxDepth)
	}
	angle := lane * 2 * math.Pi / laneSectors
	radius := math.Abs(lane) * p.branchSpacing * (1 + depthRatio*2)
	x, y := polar(angle, radius)
	return Position{X: x, Y: y, Z: z}
}
