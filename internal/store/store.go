package store

import (
	"fmt"

	"github.com/pbaille/taskboard/internal/domain"
)

// Store is the entity store behind the tracker.
// Lookups of unknown ids return an error wrapping domain.ErrNotFound.
// Values returned are copies owned by the caller.
type Store interface {
	GetTask(id string) (*domain.Task, error)
	ListTasks() ([]domain.Task, error)
	PutTask(task domain.Task) error
	DeleteTask(id string) error

	GetTag(id string) (*domain.Tag, error)
	ListTags() ([]domain.Tag, error)
	PutTag(tag domain.Tag) error
	DeleteTag(id string) error

	Close() error
}

// Open returns the store for the given driver ("memory" or "sqlite")
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
