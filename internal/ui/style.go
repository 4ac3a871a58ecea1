package ui

import (
	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold      = color.New(color.Bold).SprintFunc()
	Dim       = color.New(color.Faint).SprintFunc()
	Green     = color.New(color.FgGreen).SprintFunc()
	Yellow    = color.New(color.FgYellow).SprintFunc()
	Magenta   = color.New(color.FgMagenta).SprintFunc()
	BoldGreen = color.New(color.Bold, color.FgGreen).SprintFunc()
)

// levelColors maps a contribution level to its cell style.
var levelColors = []func(a ...interface{}) string{
	Dim,
	color.New(color.FgGreen, color.Faint).SprintFunc(),
	Green,
	color.New(color.FgHiGreen).SprintFunc(),
	color.New(color.Bold, color.FgHiGreen).SprintFunc(),
}

// Cell returns the graph cell for a contribution level.
func Cell(level int) string {
	if level <= 0 {
		return levelColors[0]("·")
	}
	if level >= len(levelColors) {
		level = len(levelColors) - 1
	}
	return levelColors[level]("■")
}

// StatusIcon returns a colored completion icon for task rows.
func StatusIcon(completed, archived bool) string {
	switch {
	case archived:
		return Dim("⊘")
	case completed:
		return Green("✓")
	default:
		return Dim("◌")
	}
}
