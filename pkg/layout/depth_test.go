package layout

import (
	"maps"
	"testing"

	"github.com/matzehuels/gitxmas/pkg/commit"
)

func TestResolveDepths(t *testing.T) {
	tests := []struct {
		name    string
		commits []commit.Commit
		want    DepthMap
	}{
		{
			name: "empty",
			want: DepthMap{},
		},
		{
			name:    "single",
			commits: []commit.Commit{{Hash: "a"}},
			want:    DepthMap{"a": 0},
		},
		{
			name: "chain",
			commits: []commit.Commit{
				{Hash: "a"},
				{Hash: "b", Parents: []string{"a"}},
				{Hash: "c", Parents: []string{"b"}},
			},
			want: DepthMap{"a": 0, "b": 1, "c": 2},
		},
		{
			name: "merge takes deepest parent",
			commits: []commit.Commit{
				{Hash: "a"},
				{Hash: "b", Parents: []string{"a"}},
				{Hash: "c", Parents: []string{"b"}},
				{Hash: "d", Parents: []string{"a", "c"}},
			},
			want: DepthMap{"a": 0, "b": 1, "c": 2, "d": 3},
		},
		{
			name: "children before parents",
			commits: []commit.Commit{
				{Hash: "c", Parents: []string{"b"}},
				{Hash: "b", Parents: []string{"a"}},
				{Hash: "a"},
			},
			want: DepthMap{"a": 0, "b": 1, "c": 2},
		},
		{
			name:    "dangling parent",
			commits: []commit.Commit{{Hash: "e", Parents: []string{"deadbeef"}}},
			want:    DepthMap{"e": 0},
		},
		{
			name: "two-cycle",
			commits: []commit.Commit{
				{Hash: "a", Parents: []string{"b"}},
				{Hash: "b", Parents: []string{"a"}},
			},
			want: DepthMap{"a": 2, "b": 1},
		},
		{
			name:    "self loop",
			commits: []commit.Commit{{Hash: "a", Parents: []string{"a"}}},
			want:    DepthMap{"a": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDepths(commit.MustNew(tt.commits))
			if !maps.Equal(got, tt.want) {
				t.Errorf("ResolveDepths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveDepthsIdempotent(t *testing.T) {
	g := commit.MustNew(wideHistory())
	first := ResolveDepths(g)
	second := ResolveDepths(g)
	if !maps.Equal(first, second) {
		t.Errorf("second run differs: %v vs %v", first, second)
	}
	for h, d := range first {
		if d < 0 {
			t.Errorf("depth(%s) = %d, want >= 0", h, d)
		}
		if g.IsRoot(h) && d != 0 {
			t.Errorf("root %s has depth %d", h, d)
		}
	}
}

func TestResolveDepthsLongChain(t *testing.T) {
	const n = 5000
	commits := make([]commit.Commit, n)
	for i := range commits {
		commits[i] = commit.Commit{Hash: hashN(i)}
		if i > 0 {
			commits[i].Parents = []string{hashN(i - 1)}
		}
	}
	got := ResolveDepths(commit.MustNew(commits))
	if got[hashN(n-1)] != n-1 {
		t.Errorf("depth of tip = %d, want %d", got[hashN(n-1)], n-1)
	}
	if got.Max() != n-1 {
		t.Errorf("Max() = %d, want %d", got.Max(), n-1)
	}
}
