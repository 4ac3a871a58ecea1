package store

import (
	"fmt"
	"sync"

	"github.com/pbaille/taskboard/internal/domain"
)

// Memory keeps tasks and tags in process memory. Contents are lost on exit.
type Memory struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
	tags  map[string]domain.Tag
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		tasks: make(map[string]domain.Task),
		tags:  make(map[string]domain.Tag),
	}
}

func (m *Memory) GetTask(id string) (*domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task with id '%s': %w", id, domain.ErrNotFound)
	}
	c := t.Clone()
	return &c, nil
}

func (m *Memory) ListTasks() ([]domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := make([]domain.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, t.Clone())
	}
	return tasks, nil
}

func (m *Memory) PutTask(task domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tasks[task.ID] = task.Clone()
	return nil
}

func (m *Memory) DeleteTask(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return fmt.Errorf("task with id '%s': %w", id, domain.ErrNotFound)
	}
	delete(m.tasks, id)
	return nil
}

func (m *Memory) GetTag(id string) (*domain.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tags[id]
	if !ok {
		return nil, fmt.Errorf("tag with id '%s': %w", id, domain.ErrNotFound)
	}
	return &t, nil
}

func (m *Memory) ListTags() ([]domain.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tags := make([]domain.Tag, 0, len(m.tags))
	for _, t := range m.tags {
		tags = append(tags, t)
	}
	return tags, nil
}

func (m *Memory) PutTag(tag domain.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tags[tag.ID] = tag
	return nil
}

func (m *Memory) DeleteTag(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tags[id]; !ok {
		return fmt.Errorf("tag with id '%s': %w", id, domain.ErrNotFound)
	}
	delete(m.tags, id)
	return nil
}

// Close is a no-op for the memory store
func (m *Memory) Close() error {
	return nil
}
