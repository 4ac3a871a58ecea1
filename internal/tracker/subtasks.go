package tracker

import (
	"fmt"
	"time"

	"github.com/pbaille/taskboard/internal/aggregate"
	"github.com/pbaille/taskboard/internal/domain"
)

// AddSubTask appends a step to an advanced task
func (t *Tracker) AddSubTask(taskID, title string) (*domain.Task, error) {
	title, err := requireText("title", title)
	if err != nil {
		return nil, err
	}

	return t.mutateSubTasks(taskID, func(task *domain.Task) error {
		if task.Kind != domain.KindAdvanced {
			return validation("cannot add subtasks to a simple task")
		}
		task.SubTasks = append(task.SubTasks, domain.SubTask{ID: t.newID(), Title: title})
		return nil
	})
}

// UpdateSubTask renames and/or sets the completion of one subtask
func (t *Tracker) UpdateSubTask(taskID, subID string, p SubTaskPatch) (*domain.Task, error) {
	var title string
	if p.Title != nil {
		var err error
		if title, err = requireText("title", *p.Title); err != nil {
			return nil, err
		}
	}

	return t.mutateSubTasks(taskID, func(task *domain.Task) error {
		i, err := subTaskIndex(task, subID)
		if err != nil {
			return err
		}
		if p.Title != nil {
			task.SubTasks[i].Title = title
		}
		if p.Completed != nil {
			task.SubTasks[i].Completed = *p.Completed
		}
		return nil
	})
}

// ToggleSubTask flips one subtask's completion
func (t *Tracker) ToggleSubTask(taskID, subID string) (*domain.Task, error) {
	return t.mutateSubTasks(taskID, func(task *domain.Task) error {
		i, err := subTaskIndex(task, subID)
		if err != nil {
			return err
		}
		task.SubTasks[i].Completed = !task.SubTasks[i].Completed
		return nil
	})
}

// DeleteSubTask removes one subtask
func (t *Tracker) DeleteSubTask(taskID, subID string) (*domain.Task, error) {
	return t.mutateSubTasks(taskID, func(task *domain.Task) error {
		i, err := subTaskIndex(task, subID)
		if err != nil {
			return err
		}
		task.SubTasks = append(task.SubTasks[:i], task.SubTasks[i+1:]...)
		return nil
	})
}

// mutateSubTasks applies fn and then re-derives the parent's completion
func (t *Tracker) mutateSubTasks(taskID string, fn func(*domain.Task) error) (*domain.Task, error) {
	return t.mutate(taskID, func(task *domain.Task, now time.Time) error {
		if err := fn(task); err != nil {
			return err
		}
		aggregate.RecomputeCompletion(task, now)
		return nil
	})
}

func subTaskIndex(task *domain.Task, subID string) (int, error) {
	i := task.SubTaskIndex(subID)
	if i < 0 {
		return -1, fmt.Errorf("subtask with id '%s': %w", subID, domain.ErrNotFound)
	}
	return i, nil
}
