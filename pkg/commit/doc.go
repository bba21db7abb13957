// Package commit provides the commit graph consumed by the gitxmas layout engine.
//
// # Overview
//
// A git history is a directed acyclic graph: every commit names zero or more
// parents by hash. This package indexes a list of [Commit] values into a
// [Graph] that answers the structural queries the layout stages need (parents,
// children, roots) in constant time per query.
//
// # Basic Usage
//
// Build a graph from commits in the order the log reader produced them. The
// order is preserved and is significant: it breaks ties when lanes are
// allocated and orders sibling fan-out.
//
//	g, err := commit.New([]commit.Commit{
//	    {Hash: "a", Message: "init", Branch: "main"},
//	    {Hash: "b", Parents: []string{"a"}, Branch: "main"},
//	    {Hash: "c", Parents: []string{"a"}, Branch: "feature"},
//	})
//	if err != nil {
//	    return err
//	}
//	g.Children("a") // [b c]
//
// # Dangling Parents
//
// A truncated log (for example `git log -n 100`) routinely references parents
// outside the window. Such parent hashes are kept on the [Commit] value but are
// not resolvable: they create no edge, do not count as a parent for root
// detection, and never cause an error.
//
// # Cycles
//
// Real git histories cannot contain cycles, but hand-written or corrupted input
// can. The graph does not reject them; the depth resolver in the layout package
// terminates on them instead.
//
// # Concurrency
//
// A Graph is immutable after [New] returns and is safe for concurrent reads.
package commit
