// Package graph provides serialization types for commit graphs and layouts.
//
// This package defines the canonical wire format for gitxmas data, used for
// JSON files, API responses, caching, and interoperability with 3D viewers.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - pkg/commit.Graph: Internal commit graph
//   - pkg/layout.Engine: Internal layout (depths, lanes, positions)
//
// Use [FromCommitGraph]/[ToCommitGraph] and [FromEngine]/[Layout.ToEngine] to
// convert between them.
//
// # Graph Serialization
//
// Commit graphs use a node-link JSON format. Nodes keep their full parent
// list, including parents outside the graph, so a graph survives a round trip
// unchanged. Edges list only resolvable parent→child pairs:
//
//	{
//	  "nodes": [{"id": "a1b2c3", "timestamp": 1700000000}, ...],
//	  "edges": [{"from": "a1b2c3", "to": "d4e5f6"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("commits.json")  // File → commit.Graph
//	graph.WriteGraphFile(g, "commits.json")      // commit.Graph → File
//	data, _ := graph.MarshalGraph(g)             // commit.Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)      // []byte → Graph
//
// # Layout Serialization
//
// A [Layout] carries everything a renderer needs: one [PlacedNode] per commit
// with its final position, one [Segment] per edge, the configuration and fit
// that produced them, and optionally the scene decorations. Each layout run
// is identified by a random run ID.
//
//	e, _ := layout.New(g, cfg)
//	l := graph.FromEngine(e, "")
//	graph.WriteLayoutFile(l, "tree.json")
//
// Because layouts are deterministic, [Layout.ToEngine] rebuilds an identical
// engine from a decoded layout.
package graph
