package commit

import (
	"errors"
	"slices"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		commits []Commit
		wantErr error
	}{
		{"empty", nil, nil},
		{"single", []Commit{{Hash: "a"}}, nil},
		{"empty hash", []Commit{{Hash: "a"}, {Hash: ""}}, ErrInvalidHash},
		{"duplicate", []Commit{{Hash: "a"}, {Hash: "a"}}, ErrDuplicateHash},
		{"dangling parent", []Commit{{Hash: "a", Parents: []string{"zzz"}}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.commits)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGraphAdjacency(t *testing.T) {
	g := MustNew([]Commit{
		{Hash: "a"},
		{Hash: "b", Parents: []string{"a"}},
		{Hash: "c", Parents: []string{"a"}},
		{Hash: "d", Parents: []string{"b", "c", "gone"}},
	})

	if got := g.Children("a"); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Children(a) = %v, want [b c]", got)
	}
	if got := g.ResolvableParents("d"); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("ResolvableParents(d) = %v, want [b c]", got)
	}
	if got := g.EdgeCount(); got != 4 {
		t.Errorf("EdgeCount() = %d, want 4", got)
	}
	if got := g.Roots(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Roots() = %v, want [a]", got)
	}
	if !g.IsRoot("a") || g.IsRoot("d") || g.IsRoot("gone") {
		t.Error("IsRoot mismatch")
	}
	if p, ok := g.FirstParent("d"); !ok || p != "b" {
		t.Errorf("FirstParent(d) = %q, %v", p, ok)
	}
}

func TestGraphDanglingParentIsRoot(t *testing.T) {
	g := MustNew([]Commit{{Hash: "x", Parents: []string{"missing"}}})
	if !g.IsRoot("x") {
		t.Error("commit with only dangling parents should be a root")
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
	c, _ := g.Commit("x")
	if !slices.Equal(c.Parents, []string{"missing"}) {
		t.Errorf("Parents = %v, dangling parent should be kept on the value", c.Parents)
	}
}

func TestGraphRepeatedParent(t *testing.T) {
	g := MustNew([]Commit{
		{Hash: "a"},
		{Hash: "b", Parents: []string{"a", "a"}},
	})
	if got := g.Children("a"); len(got) != 1 {
		t.Errorf("Children(a) = %v, want one entry", got)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestGraphPreservesOrder(t *testing.T) {
	in := []Commit{{Hash: "z"}, {Hash: "m"}, {Hash: "a"}}
	g := MustNew(in)
	for i, c := range g.Commits() {
		if c.Hash != in[i].Hash {
			t.Fatalf("Commits()[%d] = %s, want %s", i, c.Hash, in[i].Hash)
		}
		if g.Index(c.Hash) != i {
			t.Errorf("Index(%s) = %d, want %d", c.Hash, g.Index(c.Hash), i)
		}
	}
	if g.Index("nope") != -1 {
		t.Error("Index of unknown hash should be -1")
	}
}

func TestGraphCopiesParents(t *testing.T) {
	parents := []string{"a"}
	g := MustNew([]Commit{{Hash: "a"}, {Hash: "b", Parents: parents}})
	parents[0] = "mutated"
	c, _ := g.Commit("b")
	if c.Parents[0] != "a" {
		t.Error("graph should not alias caller's parent slice")
	}
}

func TestTimeRangeAndBranches(t *testing.T) {
	g := MustNew([]Commit{
		{Hash: "a", Timestamp: 50, Branch: "main"},
		{Hash: "b", Timestamp: 10, Branch: ""},
		{Hash: "c", Timestamp: 90, Branch: "dev"},
		{Hash: "d", Timestamp: 60, Branch: "main"},
	})
	lo, hi := g.TimeRange()
	if lo != 10 || hi != 90 {
		t.Errorf("TimeRange() = %d, %d, want 10, 90", lo, hi)
	}
	if got := g.Branches(); !slices.Equal(got, []string{"main", "dev"}) {
		t.Errorf("Branches() = %v", got)
	}
}

func TestShortHash(t *testing.T) {
	if got := (Commit{Hash: "abcdef0123"}).ShortHash(); got != "abcdef0" {
		t.Errorf("ShortHash() = %q", got)
	}
	if got := (Commit{Hash: "abc"}).ShortHash(); got != "abc" {
		t.Errorf("ShortHash() = %q", got)
	}
}
