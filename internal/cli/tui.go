package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gitxmas/pkg/graph"
	"github.com/matzehuels/gitxmas/pkg/layout"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const maxMessageWidth = 40

// =============================================================================
// CommitListModel - Interactive commit browser
// =============================================================================

// CommitListModel is the bubbletea model behind `gitxmas inspect`.
type CommitListModel struct {
	Title  string
	Nodes  []graph.PlacedNode
	Cursor int
	Height int
	Offset int
	now    time.Time
}

// NewCommitListModel creates a commit list ordered bottom-up: by depth, then
// by lane.
func NewCommitListModel(title string, nodes []graph.PlacedNode) CommitListModel {
	return CommitListModel{
		Title:  title,
		Nodes:  sortNodes(nodes),
		Height: 15,
		now:    time.Now(),
	}
}

func (m CommitListModel) Init() tea.Cmd {
	return nil
}

func (m CommitListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g", "home":
			m.Cursor, m.Offset = 0, 0
		case "G", "end":
			if n := len(m.Nodes); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m CommitListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("j/k navigate  g/G top/bottom  q quit"))
	b.WriteString("\n\n")

	if len(m.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  no commits"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Nodes))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, nodeRow(m.Nodes[i], m.now)...))
	}

	t := commitTable(rows, true).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 2 && col <= 4 {
				return StyleNumber
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.detail(m.Nodes[m.Cursor]))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))

	return b.String()
}

// detail describes the selected commit below the table.
func (m CommitListModel) detail(n graph.PlacedNode) string {
	parents := "root"
	if len(n.Parents) > 0 {
		short := make([]string, len(n.Parents))
		for i, p := range n.Parents {
			short[i] = shortHash(p)
		}
		parents = strings.Join(short, ", ")
	}
	return fmt.Sprintf("  %s %s\n  %s %s",
		StyleDim.Render("commit "), StyleValue.Render(n.ID),
		StyleDim.Render("parents"), StyleValue.Render(parents))
}

// =============================================================================
// Plain Table Output
// =============================================================================

// renderCommitTable renders every node as a static table for non-interactive output.
func renderCommitTable(nodes []graph.PlacedNode, now time.Time) string {
	sorted := sortNodes(nodes)
	rows := make([][]string, len(sorted))
	for i, n := range sorted {
		rows[i] = nodeRow(n, now)
	}
	return commitTable(rows, false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func commitTable(rows [][]string, withCursor bool) *table.Table {
	headers := []string{"Commit", "Depth", "Lane", "Position", "Branch", "Message", "Age"}
	if withCursor {
		headers = append([]string{""}, headers...)
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...)
}

func nodeRow(n graph.PlacedNode, now time.Time) []string {
	branch := n.Branch
	if branch == "" {
		branch = "—"
	}
	return []string{
		shortHash(n.ID),
		fmt.Sprintf("%d", n.Depth),
		fmt.Sprintf("%+.1f", n.Lane),
		formatPosition(n.Position),
		branch,
		truncate(n.Label, maxMessageWidth),
		formatRelativeTime(n.Timestamp, now),
	}
}

// =============================================================================
// Helpers
// =============================================================================

func sortNodes(nodes []graph.PlacedNode) []graph.PlacedNode {
	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, func(a, b graph.PlacedNode) int {
		if c := cmp.Compare(a.Depth, b.Depth); c != 0 {
			return c
		}
		return cmp.Compare(a.Lane, b.Lane)
	})
	return sorted
}

func formatPosition(p layout.Position) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", p.X, p.Y, p.Z)
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// formatRelativeTime renders a unix timestamp relative to now. Zero
// timestamps are unknown.
func formatRelativeTime(ts int64, now time.Time) string {
	if ts == 0 {
		return "—"
	}
	t := time.Unix(ts, 0)
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
