package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pbaille/taskboard/internal/aggregate"
	"github.com/pbaille/taskboard/internal/domain"
)

// RenderStats writes the task counters.
func RenderStats(w io.Writer, s domain.Statistics) {
	fmt.Fprintln(w, Bold("Tasks"))
	fmt.Fprintf(w, "  %-10s %d\n", "total", s.Total)
	fmt.Fprintf(w, "  %-10s %s\n", "completed", Green(s.Completed))
	fmt.Fprintf(w, "  %-10s %s\n", "active", Yellow(s.Active))
	fmt.Fprintf(w, "  %-10s %s\n", "advanced", Magenta(s.Advanced))
	fmt.Fprintf(w, "  %-10s %s\n", "archived", Dim(s.Archived))
}

// TagLabel renders a tag name in its own #RRGGBB color.
func TagLabel(tag domain.Tag) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render("#" + tag.Name)
}

// RenderTasks writes one line per task of the page. tags resolves tag ids;
// unknown ids are shown as-is.
func RenderTasks(w io.Writer, page aggregate.Page, tags map[string]domain.Tag) {
	if len(page.Tasks) == 0 {
		fmt.Fprintln(w, Dim("no tasks"))
		return
	}

	for _, t := range page.Tasks {
		line := fmt.Sprintf("%s %s", StatusIcon(t.Completed, t.Archived), t.Title)
		if t.Kind == domain.KindAdvanced {
			done := 0
			for _, st := range t.SubTasks {
				if st.Completed {
					done++
				}
			}
			line += Dim(fmt.Sprintf(" [%d/%d %d%%]", done, len(t.SubTasks), aggregate.Progress(t)))
		}
		if len(t.Tags) > 0 {
			labels := make([]string, len(t.Tags))
			for i, id := range t.Tags {
				if tag, ok := tags[id]; ok {
					labels[i] = TagLabel(tag)
				} else {
					labels[i] = Dim("#" + id)
				}
			}
			line += " " + strings.Join(labels, " ")
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w, Dim(fmt.Sprintf("page %d/%d, %d tasks", page.Page, page.TotalPages, page.Total)))
}
