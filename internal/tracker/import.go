package tracker

import (
	"fmt"

	"github.com/pbaille/taskboard/internal/aggregate"
	"github.com/pbaille/taskboard/internal/domain"
)

// ImportTask stores a fully formed task, such as one loaded from a fixture.
// Missing ids and timestamps are generated; the task invariants are
// enforced the same way as for tasks created through the API.
func (t *Tracker) ImportTask(task domain.Task) (*domain.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	title, err := requireText("title", task.Title)
	if err != nil {
		return nil, err
	}
	if !task.Kind.Valid() {
		return nil, validation("type must be 'simple' or 'advanced'")
	}
	if task.Kind == domain.KindSimple && len(task.SubTasks) > 0 {
		return nil, validation("cannot add subtasks to a simple task")
	}
	if err := t.checkTags(task.Tags); err != nil {
		return nil, err
	}

	task = task.Clone()
	task.Title = title
	task.Tags = dedupe(task.Tags)
	if task.ID == "" {
		task.ID = t.newID()
	}
	for i := range task.SubTasks {
		if task.SubTasks[i].ID == "" {
			task.SubTasks[i].ID = t.newID()
		}
	}

	now := t.clock.next()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}

	// keep completed and completedAt consistent
	if task.CompletedAt != nil {
		task.Completed = true
	} else if task.Completed {
		at := now
		task.CompletedAt = &at
	}
	if len(task.SubTasks) > 0 {
		aggregate.RecomputeCompletion(&task, now)
	}

	if err := t.store.PutTask(task); err != nil {
		return nil, fmt.Errorf("put task: %w", err)
	}
	return &task, nil
}
