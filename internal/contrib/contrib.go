// Package contrib builds the day-by-day completion series behind the
// contribution graph, together with total and streak summaries.
//
// All dates are UTC calendar days. A task contributes once, on the day
// of its completedAt; subtask completions are not counted separately.
package contrib

import (
	"fmt"
	"time"

	"github.com/pbaille/taskboard/internal/domain"
)

// DefaultDays is the window length used when neither Days nor Start is given
const DefaultDays = 365

const day = 24 * time.Hour

// TaskSource is the full-scan view of the task store the engine reads
type TaskSource interface {
	ListTasks() ([]domain.Task, error)
}

// Query selects the window. End defaults to today; Start defaults to
// End - (Days - 1) so the default window holds exactly Days days.
type Query struct {
	Start *time.Time
	End   *time.Time
	Days  int
	// MaxLen rejects windows longer than this many days when positive
	MaxLen int
}

// Summary aggregates a series
type Summary struct {
	TotalContributions int `json:"totalContributions"`
	LongestStreak      int `json:"longestStreak"`
	CurrentStreak      int `json:"currentStreak"`
}

// Result is a contribution series, most recent day first, and its summary
type Result struct {
	Series  []domain.ContributionDay
	Summary Summary
}

// Engine computes contributions from the current task state
type Engine struct {
	source TaskSource
	now    func() time.Time
}

// New creates an Engine. now supplies the current time; nil means time.Now.
func New(source TaskSource, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{source: source, now: now}
}

// Compute resolves the query window and builds the series for it
func (e *Engine) Compute(q Query) (*Result, error) {
	start, end, err := q.Window(e.now())
	if err != nil {
		return nil, err
	}

	tasks, err := e.source.ListTasks()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	completions := make([]time.Time, 0, len(tasks))
	for _, t := range tasks {
		if t.CompletedAt != nil {
			completions = append(completions, *t.CompletedAt)
		}
	}

	res := Build(completions, start, end)
	return &res, nil
}

// Window returns the inclusive [start, end] day range of the query
func (q Query) Window(now time.Time) (start, end time.Time, err error) {
	days := q.Days
	if days == 0 {
		days = DefaultDays
	}
	if days < 1 {
		return start, end, fmt.Errorf("%w: days must be >= 1", domain.ErrValidation)
	}

	end = Day(now)
	if q.End != nil {
		end = Day(*q.End)
	}
	start = end.AddDate(0, 0, -(days - 1))
	if q.Start != nil {
		start = Day(*q.Start)
	}

	if start.After(end) {
		return start, end, fmt.Errorf("%w: startDate %s is after endDate %s",
			domain.ErrValidation, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	}
	if q.MaxLen > 0 && Len(start, end) > q.MaxLen {
		return start, end, fmt.Errorf("%w: date range exceeds %d days", domain.ErrValidation, q.MaxLen)
	}
	return start, end, nil
}

// Build counts completions per day over [start, end] and summarizes them.
// start and end are truncated to UTC days; start must not be after end.
func Build(completions []time.Time, start, end time.Time) Result {
	start, end = Day(start), Day(end)

	counts := make(map[time.Time]int)
	for _, c := range completions {
		d := Day(c)
		if d.Before(start) || d.After(end) {
			continue
		}
		counts[d]++
	}

	var series []domain.ContributionDay
	for d := end; !d.Before(start); d = d.AddDate(0, 0, -1) {
		n := counts[d]
		series = append(series, domain.ContributionDay{Date: d, Count: n, Level: Level(n)})
	}

	return Result{Series: series, Summary: Summarize(series)}
}

// Summarize computes the total and streaks of a most-recent-first series
func Summarize(series []domain.ContributionDay) Summary {
	var s Summary
	run := 0
	leading := true
	for _, d := range series {
		s.TotalContributions += d.Count
		if d.Count == 0 {
			run = 0
			leading = false
			continue
		}
		run++
		if run > s.LongestStreak {
			s.LongestStreak = run
		}
		if leading {
			s.CurrentStreak = run
		}
	}
	return s
}

// Level buckets a day's count into the five graph intensities
func Level(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count <= 3:
		return 2
	case count <= 5:
		return 3
	default:
		return 4
	}
}

// Day truncates t to midnight UTC of its UTC calendar day
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Len is the number of days in the inclusive range [start, end]
func Len(start, end time.Time) int {
	return int(Day(end).Sub(Day(start))/day) + 1
}
