package pipeline

import (
	"github.com/matzehuels/gitxmas/pkg/commit"
	"github.com/matzehuels/gitxmas/pkg/graph"
	"github.com/matzehuels/gitxmas/pkg/layout"
	"github.com/matzehuels/gitxmas/pkg/scene"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout computes the layout of g and converts it to its
// serialization format.
//
// The returned layout always carries positions, edges and bounds. The scene
// is embedded only when opts.Scene is set; renderers build it on demand
// otherwise.
func GenerateLayout(g *commit.Graph, opts Options) (graph.Layout, error) {
	e, err := layout.New(g, opts.LayoutConfig())
	if err != nil {
		return graph.Layout{}, err
	}

	l := graph.FromEngine(e, opts.RunID)
	l.Repo = opts.Repo
	if opts.Scene {
		s := scene.Build(e, opts.SceneOptions())
		l.Scene = &s
	}
	return l, nil
}

// SceneFor returns the scene of l, building it from the recomputed engine
// when l does not embed one.
func SceneFor(l graph.Layout, opts Options) (scene.Scene, error) {
	if l.Scene != nil {
		return *l.Scene, nil
	}
	e, err := l.ToEngine()
	if err != nil {
		return scene.Scene{}, err
	}
	return scene.Build(e, opts.SceneOptions()), nil
}
