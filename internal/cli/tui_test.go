package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/gitxmas/pkg/graph"
	"github.com/matzehuels/gitxmas/pkg/layout"
)

func placed(id string, depth int, lane float64, parents ...string) graph.PlacedNode {
	return graph.PlacedNode{
		Node:     graph.Node{ID: id, Parents: parents, Timestamp: 1_700_000_000, Label: "commit " + id, Branch: "main"},
		Depth:    depth,
		Lane:     lane,
		Position: layout.Position{X: lane, Z: float64(depth)},
	}
}

func sampleNodes() []graph.PlacedNode {
	return []graph.PlacedNode{
		placed("dddddddd1", 2, 0, "bbbbbbbb1", "cccccccc1"),
		placed("cccccccc1", 1, 0.5, "aaaaaaaa1"),
		placed("bbbbbbbb1", 1, -0.5, "aaaaaaaa1"),
		placed("aaaaaaaa1", 0, 0),
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCommitListOrder(t *testing.T) {
	m := NewCommitListModel("repo", sampleNodes())
	var got []string
	for _, n := range m.Nodes {
		got = append(got, n.ID[:1])
	}
	if strings.Join(got, "") != "abcd" {
		t.Errorf("order = %v, want a b c d (depth, then lane)", got)
	}
}

func TestCommitListNavigation(t *testing.T) {
	var model tea.Model = NewCommitListModel("repo", sampleNodes())
	cursor := func() int { return model.(CommitListModel).Cursor }

	model, _ = model.Update(key("k"))
	if cursor() != 0 {
		t.Errorf("k at top moved cursor to %d", cursor())
	}
	for range 5 {
		model, _ = model.Update(key("j"))
	}
	if cursor() != 3 {
		t.Errorf("cursor = %d after j past the end, want 3", cursor())
	}
	model, _ = model.Update(key("g"))
	if cursor() != 0 {
		t.Errorf("g: cursor = %d", cursor())
	}
	model, _ = model.Update(key("G"))
	if cursor() != 3 {
		t.Errorf("G: cursor = %d", cursor())
	}

	_, cmd := model.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestCommitListScrolling(t *testing.T) {
	m := NewCommitListModel("repo", sampleNodes())
	m.Height = 2

	var model tea.Model = m
	for range 3 {
		model, _ = model.Update(key("j"))
	}
	got := model.(CommitListModel)
	if got.Cursor != 3 || got.Offset != 2 {
		t.Errorf("cursor=%d offset=%d, want 3/2", got.Cursor, got.Offset)
	}

	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	if h := model.(CommitListModel).Height; h != 5 {
		t.Errorf("Height = %d, want minimum of 5", h)
	}
}

func TestCommitListView(t *testing.T) {
	view := NewCommitListModel("repo · linear_lane", sampleNodes()).View()
	for _, want := range []string{"repo · linear_lane", "aaaaaaa", "[1/4]", "parents", "root"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	empty := NewCommitListModel("empty", nil).View()
	if !strings.Contains(empty, "no commits") {
		t.Errorf("empty View() = %q", empty)
	}
}

func TestRenderCommitTable(t *testing.T) {
	out := renderCommitTable(sampleNodes(), time.Unix(1_700_000_000, 0).Add(3*time.Hour))
	for _, want := range []string{"Commit", "Position", "ddddddd", "(0.50, 0.00, 1.00)", "+0.5", "3h ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2025, 12, 24, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		ts   int64
		want string
	}{
		{"unknown", 0, "—"},
		{"minutes", now.Add(-5 * time.Minute).Unix(), "5m ago"},
		{"hours", now.Add(-5 * time.Hour).Unix(), "5h ago"},
		{"days", now.Add(-49 * time.Hour).Unix(), "2d ago"},
		{"weeks", now.Add(-30 * 24 * time.Hour).Unix(), time.Unix(now.Add(-30*24*time.Hour).Unix(), 0).Format("Jan 2, 2006")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRelativeTime(tt.ts, now); got != tt.want {
				t.Errorf("formatRelativeTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("ünïcode message", 5); got != "ünïc…" {
		t.Errorf("truncate = %q", got)
	}
}
