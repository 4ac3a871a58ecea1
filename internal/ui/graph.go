package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pbaille/taskboard/internal/contrib"
	"github.com/pbaille/taskboard/internal/domain"
)

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Grid lays a most-recent-first series out as weekday rows and week columns,
// oldest week on the left. Cells outside the series are nil.
func Grid(series []domain.ContributionDay) [7][]*domain.ContributionDay {
	var grid [7][]*domain.ContributionDay
	if len(series) == 0 {
		return grid
	}

	oldest := series[len(series)-1].Date
	offset := int(oldest.Weekday())
	weeks := (offset + len(series) + 6) / 7
	for row := range grid {
		grid[row] = make([]*domain.ContributionDay, weeks)
	}

	for i := range series {
		day := &series[i]
		pos := offset + int(day.Date.Sub(oldest)/(24*time.Hour))
		grid[pos%7][pos/7] = day
	}
	return grid
}

// RenderGraph writes the contribution graph followed by its summary.
func RenderGraph(w io.Writer, res *contrib.Result) {
	if len(res.Series) == 0 {
		fmt.Fprintln(w, Dim("no days in range"))
		return
	}

	first := res.Series[len(res.Series)-1].Date
	last := res.Series[0].Date
	fmt.Fprintf(w, "%s %s → %s\n\n", Bold("Contributions"),
		first.Format(domain.DateLayout), last.Format(domain.DateLayout))

	grid := Grid(res.Series)
	for row, cells := range grid {
		var b strings.Builder
		b.WriteString(Dim(weekdayLabels[row]))
		b.WriteString(" ")
		for _, day := range cells {
			b.WriteString(" ")
			if day == nil {
				b.WriteString(" ")
				continue
			}
			b.WriteString(Cell(day.Level))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s less %s %s %s %s %s more\n", strings.Repeat(" ", 4),
		Cell(0), Cell(1), Cell(2), Cell(3), Cell(4))
	fmt.Fprintln(w)
	RenderSummary(w, res.Summary)
}

// RenderSummary writes the streak statistics.
func RenderSummary(w io.Writer, s contrib.Summary) {
	fmt.Fprintf(w, "%-22s %s\n", "Total contributions:", BoldGreen(s.TotalContributions))
	fmt.Fprintf(w, "%-22s %s\n", "Longest streak:", Bold(days(s.LongestStreak)))
	fmt.Fprintf(w, "%-22s %s\n", "Current streak:", Bold(days(s.CurrentStreak)))
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
