package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"

	"github.com/pbaille/taskboard/internal/aggregate"
	"github.com/pbaille/taskboard/internal/contrib"
	"github.com/pbaille/taskboard/internal/domain"
)

func init() {
	color.NoColor = true
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestGrid(t *testing.T) {
	// 2025-06-15 is a Sunday
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	res := contrib.Build([]time.Time{end, end.AddDate(0, 0, -3)}, end.AddDate(0, 0, -9), end)

	grid := Grid(res.Series)
	for row, cells := range grid {
		if len(cells) != 3 {
			t.Fatalf("row %d: expected 3 weeks, got %d", row, len(cells))
		}
	}

	// oldest day 2025-06-06 is a Friday: first column starts at row 5
	if grid[4][0] != nil {
		t.Error("expected empty cell before the first day")
	}
	if d := grid[5][0]; d == nil || !d.Date.Equal(end.AddDate(0, 0, -9)) {
		t.Errorf("unexpected first cell: %+v", d)
	}
	if d := grid[0][2]; d == nil || !d.Date.Equal(end) || d.Count != 1 {
		t.Errorf("unexpected last cell: %+v", d)
	}
	if d := grid[4][1]; d == nil || d.Count != 1 {
		t.Errorf("expected a completion on Thursday of week 2: %+v", d)
	}
	if grid[1][2] != nil {
		t.Error("expected no cells after the last day")
	}
}

func TestGrid_Empty(t *testing.T) {
	grid := Grid(nil)
	for _, cells := range grid {
		if len(cells) != 0 {
			t.Fatal("expected empty grid")
		}
	}
}

func TestCell(t *testing.T) {
	if Cell(0) != "·" || Cell(-1) != "·" {
		t.Error("expected dot for empty days")
	}
	for _, level := range []int{1, 4, 9} {
		if Cell(level) != "■" {
			t.Errorf("level %d: expected block", level)
		}
	}
}

func TestRenderGraph(t *testing.T) {
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	res := contrib.Build([]time.Time{end, end.AddDate(0, 0, -1)}, end.AddDate(0, 0, -13), end)

	var buf bytes.Buffer
	RenderGraph(&buf, &res)
	out := buf.String()

	for _, want := range []string{
		"Contributions 2025-06-02 → 2025-06-15",
		"Sun",
		"Sat",
		"Total contributions:   2",
		"Longest streak:        2 days",
		"Current streak:        2 days",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "■"); n != 2+4 {
		t.Errorf("expected 2 filled cells plus legend, got %d", n)
	}
}

func TestRenderGraph_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderGraph(&buf, &contrib.Result{})
	if !strings.Contains(buf.String(), "no days in range") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestRenderStats(t *testing.T) {
	var buf bytes.Buffer
	RenderStats(&buf, domain.Statistics{Total: 4, Completed: 3, Active: 1, Advanced: 2, Archived: 5})
	out := buf.String()
	for _, want := range []string{"total      4", "completed  3", "active     1", "advanced   2", "archived   5"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderTasks(t *testing.T) {
	page := aggregate.Page{
		Tasks: []domain.Task{
			{Title: "Ship release", Kind: domain.KindAdvanced, Tags: []string{"t1", "gone"},
				SubTasks: []domain.SubTask{{Completed: true}, {}, {}}},
			{Title: "Buy milk", Kind: domain.KindSimple, Completed: true},
		},
		Page: 1, Limit: 50, Total: 2, TotalPages: 1,
	}

	var buf bytes.Buffer
	RenderTasks(&buf, page, map[string]domain.Tag{"t1": {ID: "t1", Name: "Work", Color: "#4285F4"}})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	want := []string{
		"◌ Ship release [1/3 33%] #Work #gone",
		"✓ Buy milk",
		"page 1/1, 2 tasks",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestRenderTasks_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderTasks(&buf, aggregate.Page{Page: 1, TotalPages: 1}, nil)
	if strings.TrimSpace(buf.String()) != "no tasks" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
