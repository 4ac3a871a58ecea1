// Package tracker applies validated mutations to the entity store and
// serves the aggregated read views used by the API and the CLI.
package tracker

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pbaille/taskboard/internal/aggregate"
	"github.com/pbaille/taskboard/internal/contrib"
	"github.com/pbaille/taskboard/internal/domain"
	"github.com/pbaille/taskboard/internal/store"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Option configures a Tracker
type Option func(*Tracker)

// WithClock replaces the wall clock used for timestamps and "today"
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.clock = newClock(now) }
}

// WithIDs replaces the identifier generator
func WithIDs(next func() string) Option {
	return func(t *Tracker) { t.newID = next }
}

// Tracker is the task service. Every operation holds a single lock, so
// concurrent HTTP handlers observe serialized access to the store.
type Tracker struct {
	mu      sync.Mutex
	store   store.Store
	clock   *clock
	newID   func() string
	contrib *contrib.Engine
}

// New creates a Tracker over the given store
func New(s store.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store: s,
		clock: newClock(time.Now),
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(t)
	}
	t.contrib = contrib.New(s, t.clock.peek)
	return t
}

// Store exposes the underlying entity store
func (t *Tracker) Store() store.Store {
	return t.store
}

// Statistics returns task counts
func (t *Tracker) Statistics() (domain.Statistics, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tasks, err := t.store.ListTasks()
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("list tasks: %w", err)
	}
	return aggregate.Stats(tasks), nil
}

// Contributions returns the completion series for the query window
func (t *Tracker) Contributions(q contrib.Query) (*contrib.Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.contrib.Compute(q)
}

func validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}

func requireText(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", validation("%s is required", field)
	}
	return v, nil
}

// clock hands out strictly increasing UTC timestamps
type clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func newClock(now func() time.Time) *clock {
	return &clock{now: now}
}

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Round(0)
	if !t.After(c.last) {
		t = c.last.Add(time.Nanosecond)
	}
	c.last = t
	return t
}

// peek reads the current time without advancing the sequence
func (c *clock) peek() time.Time {
	return c.now().UTC()
}

func sortTags(tags []domain.Tag) {
	sort.Slice(tags, func(i, j int) bool {
		return strings.ToLower(tags[i].Name) < strings.ToLower(tags[j].Name)
	})
}
