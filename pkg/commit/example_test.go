package commit_test

import (
	"fmt"

	"github.com/matzehuels/gitxmas/pkg/commit"
)

func ExampleNew() {
	// A feature branch forks from main and is merged back.
	g, err := commit.New([]commit.Commit{
		{Hash: "a", Branch: "main"},
		{Hash: "b", Parents: []string{"a"}, Branch: "main"},
		{Hash: "c", Parents: []string{"a"}, Branch: "feature"},
		{Hash: "d", Parents: []string{"b", "c"}, Branch: "main"},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("Commits:", g.Len())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Roots:", g.Roots())
	fmt.Println("Children of a:", g.Children("a"))
	// Output:
	// Commits: 4
	// Edges: 4
	// Roots: [a]
	// Children of a: [b c]
}
