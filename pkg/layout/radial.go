package layout

import (
	"math"

	"github.com/matzehuels/gitxmas/pkg/commit"
)

const (
	ringStep     = math.Pi / 4     // 45° per angular slot and per depth level
	pentagonStep = 2 * math.Pi / 5 // 72° between pentagon vertices
)

// radialProjector places commits on pentagon rings, one ring per depth.
type radialProjector struct {
	slots         map[string]int
	branchSpacing float64
	commitSpacing float64
}

func newRadialProjector(in ProjectionInput) *radialProjector {
	return &radialProjector{
		slots:         assignSlots(in.Graph),
		branchSpacing: in.Config.BranchSpacing,
		commitSpacing: in.Config.CommitSpacing,
	}
}

func (p *radialProjector) Project(c commit.Commit, depth int, lane float64) Position {
	z := float64(depth) * p.commitSpacing
	radius := math.Abs(lane) * p.branchSpacing
	if radius == 0 {
		return Position{Z: z}
	}

	x, y := pentagonPoint(radius, float64(p.slots[c.Hash])*ringStep)
	rot := float64(depth) * ringStep
	cos, sin := math.Cos(rot), math.Sin(rot)
	return Position{
		X: x*cos - y*sin,
		Y: x*sin + y*cos,
		Z: z,
	}
}

// assignSlots numbers every commit once, visiting its first resolvable parent
// before the commit itself. The counter is local to this call.
func assignSlots(g *commit.Graph) map[string]int {
	slots := make(map[string]int, g.Len())
	visiting := make(map[string]bool)
	next := 0

	var visit func(hash string)
	visit = func(hash string) {
		if _, done := slots[hash]; done || visiting[hash] {
			return
		}
		visiting[hash] = true
		if p, ok := g.FirstParent(hash); ok {
			visit(p)
		}
		delete(visiting, hash)
		slots[hash] = next
		next++
	}
	for _, c := range g.Commits() {
		visit(c.Hash)
	}
	return slots
}

// pentagonPoint intersects the ray from the origin at angle with the edge of a
// regular pentagon of the given circumradius whose first vertex lies on the
// positive X axis.
func pentagonPoint(radius, angle float64) (x, y float64) {
	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	edge := min(int(angle/pentagonStep), 4)

	a1, a2 := float64(edge)*pentagonStep, float64(edge+1)*pentagonStep
	x1, y1 := radius*math.Cos(a1), radius*math.Sin(a1)
	x2, y2 := radius*math.Cos(a2), radius*math.Sin(a2)
	dx, dy := x2-x1, y2-y1
	cos, sin := math.Cos(angle), math.Sin(angle)

	denom := dx*sin - dy*cos
	if math.Abs(denom) < 1e-10 {
		return radius * cos, radius * sin
	}
	t := (y1*cos - x1*sin) / denom
	return x1 + t*dx, y1 + t*dy
}
