package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/gitxmas/pkg/commit"
)

// LaneMap maps a commit hash to its signed lane offset. Lane 0 is the trunk.
type LaneMap map[string]float64

// AllocateLanes assigns a lane to every commit in g.
//
// Roots start on lane 0. Commits are visited by non-decreasing depth, ties in
// input order, so a parent is settled before its children. A commit that has
// not been given a lane by a parent inherits the lane of its first resolvable
// parent. Children of a commit with k ≥ 2 children are spread symmetrically:
//
//	parentLane + (i - (k-1)/2) * spacing
//
// A later fan-out overwrites an earlier one, so a merge commit ends on the
// lane chosen by whichever of its parents is processed last.
func AllocateLanes(g *commit.Graph, depths DepthMap, spacing float64) LaneMap {
	commits := g.Commits()
	lanes := make(LaneMap, len(commits))
	for _, h := range g.Roots() {
		lanes[h] = 0
	}

	order := make([]int, len(commits))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(depths[commits[a].Hash], depths[commits[b].Hash])
	})

	for _, i := range order {
		hash := commits[i].Hash
		lane, ok := lanes[hash]
		if !ok {
			if p, found := g.FirstParent(hash); found {
				lane = lanes[p]
			}
			lanes[hash] = lane
		}
		fanOut(lanes, g.Children(hash), lane, spacing)
	}
	return lanes
}

func fanOut(lanes LaneMap, children []string, parentLane, spacing float64) {
	k := len(children)
	if k == 1 {
		lanes[children[0]] = parentLane
		return
	}
	center := float64(k-1) / 2
	for i, child := range children {
		lanes[child] = parentLane + (float64(i)-center)*spacing
	}
}
