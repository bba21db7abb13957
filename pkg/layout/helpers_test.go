package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/gitxmas/pkg/commit"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) <= eps }

func hashN(i int) string { return fmt.Sprintf("%040x", i+1) }

// abc is the fork used across tests: A with two children B and C.
func abc() []commit.Commit {
	return []commit.Commit{
		{Hash: "A", Timestamp: 0, Branch: "main"},
		{Hash: "B", Parents: []string{"A"}, Timestamp: 10, Branch: "main"},
		{Hash: "C", Parents: []string{"A"}, Timestamp: 20, Branch: "feature"},
	}
}

// wideHistory builds a history with several forks, merges, a dangling parent
// and a second root.
func wideHistory() []commit.Commit {
	return []commit.Commit{
		{Hash: "r1", Timestamp: 100},
		{Hash: "a1", Parents: []string{"r1"}, Timestamp: 110, Branch: "main"},
		{Hash: "b1", Parents: []string{"r1"}, Timestamp: 120, Branch: "dev"},
		{Hash: "c1", Parents: []string{"r1"}, Timestamp: 130, Branch: "fix"},
		{Hash: "a2", Parents: []string{"a1"}, Timestamp: 140, Branch: "main"},
		{Hash: "b2", Parents: []string{"b1"}, Timestamp: 150, Branch: "dev"},
		{Hash: "m1", Parents: []string{"a2", "b2"}, Timestamp: 160, Branch: "main"},
		{Hash: "c2", Parents: []string{"c1", "gone"}, Timestamp: 170, Branch: "fix"},
		{Hash: "m2", Parents: []string{"m1", "c2"}, Timestamp: 180, Branch: "main"},
		{Hash: "r2", Timestamp: 190, Branch: "orphan"},
		{Hash: "o1", Parents: []string{"r2"}, Timestamp: 200, Branch: "orphan"},
		{Hash: "t1", Parents: []string{"m2"}, Timestamp: 210, Branch: "main"},
		{Hash: "t2", Parents: []string{"m2"}, Timestamp: 220, Branch: "release"},
		{Hash: "t3", Parents: []string{"m2"}, Timestamp: 230, Branch: "hotfix"},
		{Hash: "t4", Parents: []string{"m2"}, Timestamp: 240, Branch: "exp"},
	}
}
