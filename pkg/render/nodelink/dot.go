package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gitxmas/pkg/graph"
	"github.com/matzehuels/gitxmas/pkg/scene"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes subject, depth and lane in node labels.
	// When false, only the abbreviated hash is shown.
	Detailed bool
	// Elevation pins every commit at its layout (x, z) coordinates, giving a
	// front view of the tree. When false, Graphviz ranks commits by depth.
	Elevation bool
	// Scale converts layout units to inches in elevation mode. Zero means 1.
	Scale float64
}

// ToDOT converts a layout to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Nodes are filled with the color of their branch label, the same color the
// scene uses for the commit ornament.
func ToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Elevation {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  splines=line;\n")
	} else {
		buf.WriteString("  rankdir=BT;\n")
		buf.WriteString("  ranksep=0.4;\n")
		buf.WriteString("  nodesep=0.3;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=10, fixedsize=false, margin=\"0.05,0.05\"];\n")
	buf.WriteString("  edge [arrowhead=none, color=\"#5b3a1e\", penwidth=2];\n")
	buf.WriteString("\n")

	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	for _, n := range l.Nodes {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		if opts.Elevation {
			attrs = append(attrs, fmt.Sprintf("pos=\"%.3f,%.3f!\"", n.Position.X*scale, n.Position.Z*scale))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	if !opts.Elevation {
		writeRanks(&buf, l.Nodes)
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [tooltip=%q];\n", e.From, e.To, e.Label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeRanks keeps commits of equal depth on one rank.
func writeRanks(buf *bytes.Buffer, nodes []graph.PlacedNode) {
	byDepth := make(map[int][]string)
	for _, n := range nodes {
		byDepth[n.Depth] = append(byDepth[n.Depth], n.ID)
	}
	depths := slices.Sorted(maps.Keys(byDepth))
	if len(depths) < 2 {
		return
	}
	buf.WriteString("\n")
	for _, d := range depths {
		ids := byDepth[d]
		quoted := make([]string, len(ids))
		for i, id := range ids {
			quoted[i] = strconv.Quote(id)
		}
		fmt.Fprintf(buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
	}
}

func fmtLabel(n graph.PlacedNode, detailed bool) string {
	short := n.Commit().ShortHash()
	if !detailed {
		return short
	}
	parts := []string{short}
	if n.Label != "" {
		parts = append(parts, n.Label)
	}
	parts = append(parts, fmt.Sprintf("depth: %d", n.Depth), fmt.Sprintf("lane: %g", n.Lane))
	return strings.Join(parts, "\n")
}

func fmtAttrs(n graph.PlacedNode, label string) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", scene.BranchColor(n.Branch)),
	}
	if n.Branch != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Branch))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return RenderSVGContext(context.Background(), dot)
}

// RenderSVGContext is like [RenderSVG] with a caller-supplied context.
func RenderSVGContext(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if strings.Contains(dot, "layout=neato") {
		gv.SetLayout(graphviz.NEATO)
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
