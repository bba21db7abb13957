package layout_test

import (
	"fmt"

	"github.com/matzehuels/gitxmas/pkg/commit"
	"github.com/matzehuels/gitxmas/pkg/layout"
)

func ExampleNew() {
	g, _ := commit.New([]commit.Commit{
		{Hash: "A", Timestamp: 0},
		{Hash: "B", Parents: []string{"A"}, Timestamp: 10},
		{Hash: "C", Parents: []string{"A"}, Timestamp: 20},
	})

	e, err := layout.New(g, layout.DefaultConfig())
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, n := range e.Nodes() {
		fmt.Printf("%s depth=%d lane=%+.1f z=%.1f\n", n.Commit.Hash, n.Depth, n.Lane, n.Position.Z)
	}
	fmt.Println("edges:", len(e.Edges()))
	// Output:
	// A depth=0 lane=+0.0 z=7.2
	// B depth=1 lane=-0.5 z=0.0
	// C depth=1 lane=+0.5 z=0.0
	// edges: 2
}

func ExampleFitBounds() {
	raw := []layout.Position{{X: 0, Y: 0, Z: 2}, {X: 4, Y: 1, Z: 22}}
	fit := layout.FitBounds(raw, layout.DefaultConfig())
	fmt.Printf("scale=%.2f offset_z=%.1f\n", fit.Scale, fit.OffsetZ)
	fmt.Printf("%+v\n", fit.Apply(raw[1]))
	// Output:
	// scale=0.50 offset_z=2.0
	// {X:2 Y:0.5 Z:10}
}

func Example_invalidConfig() {
	cfg := layout.DefaultConfig()
	cfg.BranchSpacing = 0
	_, err := layout.New(commit.MustNew(nil), cfg)
	fmt.Println(err)
	// Output:
	// INVALID_CONFIG: branch_spacing must be positive, got 0
}
