package layout

import (
	"maps"
	"testing"

	"github.com/matzehuels/gitxmas/pkg/commit"
)

func allocate(commits []commit.Commit, spacing float64) LaneMap {
	g := commit.MustNew(commits)
	return AllocateLanes(g, ResolveDepths(g), spacing)
}

func TestAllocateLanes(t *testing.T) {
	tests := []struct {
		name    string
		commits []commit.Commit
		spacing float64
		want    LaneMap
	}{
		{
			name: "empty",
			want: LaneMap{},
		},
		{
			name:    "two children",
			commits: abc(),
			spacing: 1,
			want:    LaneMap{"A": 0, "B": -0.5, "C": 0.5},
		},
		{
			name: "single child inherits",
			commits: []commit.Commit{
				{Hash: "a"},
				{Hash: "b", Parents: []string{"a"}},
				{Hash: "c", Parents: []string{"b"}},
			},
			spacing: 1,
			want:    LaneMap{"a": 0, "b": 0, "c": 0},
		},
		{
			name: "three children with spacing",
			commits: []commit.Commit{
				{Hash: "a"},
				{Hash: "x", Parents: []string{"a"}},
				{Hash: "y", Parents: []string{"a"}},
				{Hash: "z", Parents: []string{"a"}},
			},
			spacing: 2,
			want:    LaneMap{"a": 0, "x": -2, "y": 0, "z": 2},
		},
		{
			name: "fan-out is relative to parent lane",
			commits: []commit.Commit{
				{Hash: "a"},
				{Hash: "b", Parents: []string{"a"}},
				{Hash: "c", Parents: []string{"a"}},
				{Hash: "c1", Parents: []string{"c"}},
				{Hash: "c2", Parents: []string{"c"}},
			},
			spacing: 1,
			want:    LaneMap{"a": 0, "b": -0.5, "c": 0.5, "c1": 0, "c2": 1},
		},
		{
			name: "merge takes last processed parent",
			commits: []commit.Commit{
				{Hash: "A"},
				{Hash: "B", Parents: []string{"A"}},
				{Hash: "C", Parents: []string{"A"}},
				{Hash: "D", Parents: []string{"B", "C"}},
			},
			spacing: 1,
			want:    LaneMap{"A": 0, "B": -0.5, "C": 0.5, "D": 0.5},
		},
		{
			name: "roots collide at zero",
			commits: []commit.Commit{
				{Hash: "r1"},
				{Hash: "r2", Parents: []string{"dangling"}},
			},
			spacing: 1,
			want:    LaneMap{"r1": 0, "r2": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := allocate(tt.commits, tt.spacing)
			if !maps.Equal(got, tt.want) {
				t.Errorf("AllocateLanes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllocateLanesSymmetricCentering(t *testing.T) {
	for _, spacing := range []float64{0.5, 1, 1.5, 3} {
		commits := []commit.Commit{{Hash: "root"}}
		for k := 2; k <= 7; k++ {
			parent := hashN(k * 100)
			commits = append(commits, commit.Commit{Hash: parent, Parents: []string{"root"}})
			for i := range k {
				commits = append(commits, commit.Commit{Hash: hashN(k*100 + i + 1), Parents: []string{parent}})
			}
		}
		g := commit.MustNew(commits)
		lanes := AllocateLanes(g, ResolveDepths(g), spacing)

		for _, c := range commits {
			children := g.Children(c.Hash)
			if len(children) < 2 {
				continue
			}
			var sum float64
			for _, ch := range children {
				sum += lanes[ch]
			}
			if mean := sum / float64(len(children)); !approx(mean, lanes[c.Hash]) {
				t.Errorf("spacing %g: mean child lane of %s = %g, want %g", spacing, c.Hash, mean, lanes[c.Hash])
			}
		}
	}
}

func TestAllocateLanesCoversEveryCommit(t *testing.T) {
	commits := wideHistory()
	lanes := allocate(commits, 1)
	if len(lanes) != len(commits) {
		t.Errorf("len(lanes) = %d, want %d", len(lanes), len(commits))
	}
}

func TestAllocateLanesCycle(t *testing.T) {
	lanes := allocate([]commit.Commit{
		{Hash: "a", Parents: []string{"b"}},
		{Hash: "b", Parents: []string{"a"}},
	}, 1)
	if lanes["a"] != 0 || lanes["b"] != 0 {
		t.Errorf("lanes = %v, want both 0", lanes)
	}
}
