package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/pbaille/taskboard/internal/aggregate"
	"github.com/pbaille/taskboard/internal/domain"
)

// NewTask is the input for CreateTask
type NewTask struct {
	Title    string
	Kind     domain.Kind
	Tags     []string
	SubTasks []string // titles
}

// TaskPatch carries the fields of a partial task update. Nil means unchanged.
type TaskPatch struct {
	Title     *string
	Completed *bool
	Archived  *bool
	Tags      *[]string
}

// SubTaskPatch carries the fields of a partial subtask update
type SubTaskPatch struct {
	Title     *string
	Completed *bool
}

// CreateTask validates and stores a new task
func (t *Tracker) CreateTask(in NewTask) (*domain.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	title, err := requireText("title", in.Title)
	if err != nil {
		return nil, err
	}
	if !in.Kind.Valid() {
		return nil, validation("type must be 'simple' or 'advanced'")
	}
	if in.Kind == domain.KindSimple && len(in.SubTasks) > 0 {
		return nil, validation("cannot add subtasks to a simple task")
	}
	if err := t.checkTags(in.Tags); err != nil {
		return nil, err
	}

	subTasks := make([]domain.SubTask, 0, len(in.SubTasks))
	for _, st := range in.SubTasks {
		stTitle, err := requireText("subtask title", st)
		if err != nil {
			return nil, err
		}
		subTasks = append(subTasks, domain.SubTask{ID: t.newID(), Title: stTitle})
	}

	now := t.clock.next()
	task := domain.Task{
		ID:        t.newID(),
		Title:     title,
		Kind:      in.Kind,
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      dedupe(in.Tags),
		SubTasks:  subTasks,
	}

	if err := t.store.PutTask(task); err != nil {
		return nil, fmt.Errorf("put task: %w", err)
	}
	return &task, nil
}

// GetTask returns a task by id
func (t *Tracker) GetTask(id string) (*domain.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.store.GetTask(id)
}

// ListTasks returns a filtered, paginated listing
func (t *Tracker) ListTasks(f aggregate.Filter) (aggregate.Page, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tasks, err := t.store.ListTasks()
	if err != nil {
		return aggregate.Page{}, fmt.Errorf("list tasks: %w", err)
	}
	return aggregate.List(tasks, f)
}

// UpdateTask applies a partial update
func (t *Tracker) UpdateTask(id string, p TaskPatch) (*domain.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, err := t.store.GetTask(id)
	if err != nil {
		return nil, err
	}

	var title string
	if p.Title != nil {
		if title, err = requireText("title", *p.Title); err != nil {
			return nil, err
		}
	}
	if p.Tags != nil {
		if err := t.checkTags(*p.Tags); err != nil {
			return nil, err
		}
	}

	now := t.clock.next()
	if p.Title != nil {
		task.Title = title
	}
	if p.Tags != nil {
		task.Tags = dedupe(*p.Tags)
	}
	if p.Archived != nil {
		task.Archived = *p.Archived
	}
	if p.Completed != nil {
		setCompleted(task, *p.Completed, now)
	}
	task.UpdatedAt = now

	return task, t.put(task)
}

// DeleteTask removes a task
func (t *Tracker) DeleteTask(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.store.DeleteTask(id)
}

// ToggleTask flips a task's completion
func (t *Tracker) ToggleTask(id string) (*domain.Task, error) {
	return t.mutate(id, func(task *domain.Task, now time.Time) error {
		setCompleted(task, !task.Completed, now)
		return nil
	})
}

// ArchiveTask hides a task from the default listing
func (t *Tracker) ArchiveTask(id string) (*domain.Task, error) {
	return t.mutate(id, func(task *domain.Task, _ time.Time) error {
		task.Archived = true
		return nil
	})
}

// RestoreTask brings an archived task back
func (t *Tracker) RestoreTask(id string) (*domain.Task, error) {
	return t.mutate(id, func(task *domain.Task, _ time.Time) error {
		task.Archived = false
		return nil
	})
}

// mutate loads a task, applies fn and stores the result. fn must not
// change the task when it returns an error.
func (t *Tracker) mutate(id string, fn func(*domain.Task, time.Time) error) (*domain.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, err := t.store.GetTask(id)
	if err != nil {
		return nil, err
	}

	now := t.clock.next()
	if err := fn(task, now); err != nil {
		return nil, err
	}
	task.UpdatedAt = now

	return task, t.put(task)
}

func (t *Tracker) put(task *domain.Task) error {
	if err := t.store.PutTask(*task); err != nil {
		return fmt.Errorf("put task: %w", err)
	}
	return nil
}

// setCompleted stamps completedAt on the transition to complete and clears
// it when the task is reopened
func setCompleted(task *domain.Task, completed bool, now time.Time) {
	switch {
	case !completed:
		task.CompletedAt = nil
	case !task.Completed || task.CompletedAt == nil:
		at := now
		task.CompletedAt = &at
	}
	task.Completed = completed
}

func (t *Tracker) checkTags(ids []string) error {
	for _, id := range ids {
		_, err := t.store.GetTag(id)
		if errors.Is(err, domain.ErrNotFound) {
			return validation("tag with id '%s' not found", id)
		}
		if err != nil {
			return fmt.Errorf("get tag: %w", err)
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
