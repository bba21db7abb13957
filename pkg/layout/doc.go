// Package layout assigns 3D positions to the commits of a git history.
//
// # Overview
//
// The engine turns a [commit.Graph] into a "Christmas tree": every commit
// becomes a point in space, every parent/child relationship a segment between
// two points. The computation runs as a one-way pipeline of pure stages:
//
//	commit.Graph → ResolveDepths → AllocateLanes → Projector → FitBounds
//
// No stage mutates the output of an earlier one, and no stage keeps state
// between runs. [New] runs every stage exactly once and caches the result in
// an immutable [Engine].
//
// # Depth
//
// [ResolveDepths] computes the generation of every commit: zero for commits
// without resolvable parents, otherwise one more than the deepest parent.
// Cycles in malformed input are cut at the point where a commit reappears on
// its own resolution path.
//
// # Lanes
//
// [AllocateLanes] assigns each commit a signed, real-valued lane. Roots sit on
// lane 0 (the trunk). When a commit has k ≥ 2 children they fan out
// symmetrically around the parent's lane:
//
//	lane(child_i) = lane(parent) + (i - (k-1)/2) * spacing
//
// so that their mean is exactly the parent's lane. A single child keeps the
// parent's lane. Collisions between unrelated branches are accepted.
//
// # Projection Policies
//
// A [Projector] maps (depth, lane, commit) to a raw position. Three policies
// are available, selected by [Config.Policy]:
//
//   - [PolicyLinearLane]: lanes wrap into eight angular sectors and flare
//     outward with depth. Roots are on top. Lane 0 is always on the axis.
//   - [PolicyRadialRing]: every commit gets a 45° angular slot from a
//     traversal counter and is placed on the edge of a regular pentagon whose
//     size follows the lane. Each depth rotates the pentagon by another 45°.
//   - [PolicyTimeCone]: height follows the commit timestamp and the radius
//     shrinks towards the top, with a small jitter drawn from a generator
//     seeded by [Config.Seed] and the commit hash.
//
// # Bounds
//
// [FitBounds] computes one uniform scale so that the projected tree fits the
// configured extents, and a height offset that puts the lowest commit at z=0.
// Horizontal axes are never re-centered: the trunk stays at the origin.
//
// # Usage
//
//	g, _ := commit.New(commits)
//	e, err := layout.New(g, layout.DefaultConfig())
//	if err != nil {
//	    return err // configuration error
//	}
//	for _, n := range e.Nodes() {
//	    fmt.Println(n.Commit.ShortHash(), n.Position)
//	}
//
// # Concurrency
//
// Engines share nothing. Independent graphs can be laid out concurrently, each
// with its own Engine.
package layout
