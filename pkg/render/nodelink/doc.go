// Package nodelink renders commit layouts as Graphviz node-link diagrams.
//
// # Overview
//
// A 3D tree is hard to review in a terminal or a pull request. This package
// produces flat previews using Graphviz: commits appear as circles filled with
// their branch color, parent/child edges as plain lines.
//
// # Usage
//
// Convert a layout to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include the subject, depth and lane
//   - Elevation: nodes are pinned at their layout (x, z) coordinates and laid
//     out with neato, which gives a front view of the tree
//   - Scale: inches per layout unit in elevation mode
//
// Without Elevation, the dot engine ranks commits bottom-up by depth so the
// root sits at the bottom, like the trunk of the tree.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
package nodelink
