package layout

import "github.com/matzehuels/gitxmas/pkg/commit"

// DepthMap maps a commit hash to its generation. Roots have depth 0.
type DepthMap map[string]int

// Max returns the largest depth, or 0 for an empty map.
func (d DepthMap) Max() int {
	m := 0
	for _, v := range d {
		m = max(m, v)
	}
	return m
}

// ResolveDepths computes the depth of every commit in g.
//
// A commit without resolvable parents has depth 0; any other commit has depth
// 1 + max(depth(parent)). A commit met again while it is still being resolved
// (a cycle) contributes 0 to that branch. Results are memoized, so the whole
// pass is O(n+e). It never fails.
func ResolveDepths(g *commit.Graph) DepthMap {
	r := &depthResolver{
		g:      g,
		memo:   make(DepthMap, g.Len()),
		onPath: make(map[string]bool),
	}
	for _, c := range g.Commits() {
		r.resolve(c.Hash)
	}
	return r.memo
}

// depthResolver holds the memo and the current resolution path for one call.
type depthResolver struct {
	g      *commit.Graph
	memo   DepthMap
	onPath map[string]bool
}

func (r *depthResolver) resolve(hash string) int {
	if d, ok := r.memo[hash]; ok {
		return d
	}
	if r.onPath[hash] {
		return 0
	}

	r.onPath[hash] = true
	depth := 0
	for _, p := range r.g.ResolvableParents(hash) {
		depth = max(depth, r.resolve(p)+1)
	}
	delete(r.onPath, hash)

	r.memo[hash] = depth
	return depth
}
