// Package report renders the per-run console summary and the ranking of
// hosts by core number.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dd0wney/cluso-flowcore/pkg/algorithms"
	"github.com/dd0wney/cluso-flowcore/pkg/graph"
)

// Summary holds the run totals printed above the ranking.
type Summary struct {
	Input      string
	RunID      string
	Lines      int // accepted rows plus a skipped header line
	Skipped    int
	Vertices   int
	Edges      int
	Degeneracy int
	Priority   int // priority-labelled hosts in the innermost core
}

// Options controls rendering.
type Options struct {
	TopN  int // Hosts listed; zero lists every host in top
	Plain bool
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	priorityStyle = cellStyle.
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

// Write renders summary and the first opts.TopN entries of top to w.
func Write(w io.Writer, summary Summary, top []algorithms.RankedVertex, opts Options) error {
	if n := opts.TopN; n > 0 && len(top) > n {
		top = top[:n]
	}

	var out string
	if opts.Plain {
		out = renderPlain(summary, top)
	} else {
		out = renderStyled(summary, top)
	}

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// PlainLine formats one ranked host in the fixed-width line format.
func PlainLine(rv algorithms.RankedVertex) string {
	return fmt.Sprintf("Core: %3d | IP: %-15s | Label: %s", rv.Score, rv.Key, rv.Label)
}

func renderPlain(summary Summary, top []algorithms.RankedVertex) string {
	var s strings.Builder

	fmt.Fprintf(&s, "Total lines processed: %d\n", summary.Lines)
	fmt.Fprintf(&s, "Graph built: %d nodes\n", summary.Vertices)
	fmt.Fprintf(&s, "Max Core Number: %d\n", summary.Degeneracy)
	s.WriteString("\n--- Top Core Nodes Analysis ---\n")
	for _, rv := range top {
		s.WriteString(PlainLine(rv))
		s.WriteByte('\n')
	}

	return s.String()
}

func renderStyled(summary Summary, top []algorithms.RankedVertex) string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Flow Coreness: " + summary.Input))
	s.WriteString("\n")

	stats := fmt.Sprintf(`Run:        %s
Lines:      %d
Skipped:    %d
Hosts:      %d
Flows:      %d
Max core:   %d
Botnet in innermost core: %d`,
		summary.RunID,
		summary.Lines,
		summary.Skipped,
		summary.Vertices,
		summary.Edges,
		summary.Degeneracy,
		summary.Priority,
	)
	s.WriteString(statsBoxStyle.Render(stats))
	s.WriteString("\n\n")

	s.WriteString(headerStyle.Render("Top Core Nodes"))
	s.WriteString("\n")
	s.WriteString(Table(top).Render())
	s.WriteString("\n")

	return s.String()
}

// Table builds the ranking table; rows with a priority label are highlighted.
func Table(top []algorithms.RankedVertex) *table.Table {
	rows := make([][]string, len(top))
	for i, rv := range top {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(rv.Score),
			rv.Key,
			rv.Label,
			strconv.Itoa(rv.Degree),
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF"))).
		Headers("#", "Core", "Host", "Label", "Degree").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(top) && graph.IsPriorityLabel(top[row].Label):
				return priorityStyle
			default:
				return cellStyle
			}
		})
}
