// Package aggregate computes derived views over a task collection:
// filtered pages, per-task progress, summary statistics and the
// completion state implied by a task's subtasks.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/pbaille/taskboard/internal/domain"
)

// Status selects tasks by completion
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// ParseStatus validates a status query value. Empty means all.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: status must be one of all, active, completed", domain.ErrValidation)
}

// Filter describes a task listing request
type Filter struct {
	Status   Status
	Archived bool     // true lists only archived tasks, false only non-archived
	Tags     []string // match any
	Page     int
	Limit    int
}

// Page is one slice of a filtered listing
type Page struct {
	Tasks      []domain.Task
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// Validate checks page bounds
func (f Filter) Validate() error {
	if f.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1", domain.ErrValidation)
	}
	if f.Limit < 1 {
		return fmt.Errorf("%w: limit must be >= 1", domain.ErrValidation)
	}
	return nil
}

func (f Filter) matches(t domain.Task) bool {
	if t.Archived != f.Archived {
		return false
	}
	switch f.Status {
	case StatusActive:
		if t.Completed {
			return false
		}
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	}
	if len(f.Tags) > 0 && !t.HasAnyTag(f.Tags) {
		return false
	}
	return true
}

// List filters tasks, orders them newest first and returns the requested page.
// The input slice is not modified.
func List(tasks []domain.Task, f Filter) (Page, error) {
	if err := f.Validate(); err != nil {
		return Page{}, err
	}

	matched := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.matches(t) {
			matched = append(matched, t)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (f.Page - 1) * f.Limit
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}

	return Page{
		Tasks:      matched[start:end],
		Page:       f.Page,
		Limit:      f.Limit,
		Total:      total,
		TotalPages: TotalPages(total, f.Limit),
	}, nil
}

// TotalPages is ceil(total/limit), and 1 for an empty result
func TotalPages(total, limit int) int {
	if total == 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

// Progress returns the completion percentage of a task in [0, 100]
func Progress(t domain.Task) int {
	if t.Kind != domain.KindAdvanced {
		if t.Completed {
			return 100
		}
		return 0
	}

	n := len(t.SubTasks)
	if n == 0 {
		return 0
	}
	done := 0
	for _, st := range t.SubTasks {
		if st.Completed {
			done++
		}
	}
	// round half up in integer arithmetic
	return (200*done + n) / (2 * n)
}

// Stats counts tasks. Archived tasks only contribute to Archived.
func Stats(tasks []domain.Task) domain.Statistics {
	var s domain.Statistics
	for _, t := range tasks {
		if t.Archived {
			s.Archived++
			continue
		}
		s.Total++
		if t.Completed {
			s.Completed++
		}
		if t.Kind == domain.KindAdvanced {
			s.Advanced++
		}
	}
	s.Active = s.Total - s.Completed
	return s
}

// RecomputeCompletion derives a task's completion from its subtasks.
// A task is complete when it has at least one subtask and all are done.
// completedAt is stamped with now on the transition to complete, cleared
// when incomplete, and kept when the task stays complete.
func RecomputeCompletion(t *domain.Task, now time.Time) {
	completed := len(t.SubTasks) > 0
	for _, st := range t.SubTasks {
		if !st.Completed {
			completed = false
			break
		}
	}

	switch {
	case !completed:
		t.CompletedAt = nil
	case !t.Completed || t.CompletedAt == nil:
		at := now
		t.CompletedAt = &at
	}
	t.Completed = completed
}
