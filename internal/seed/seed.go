// Package seed loads startup data: the default tag set and YAML fixtures.
package seed

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pbaille/taskboard/internal/domain"
	"github.com/pbaille/taskboard/internal/tracker"
)

// DefaultTags are created on an empty store
var DefaultTags = []TagFixture{
	{Name: "Work", Color: "#4285F4"},
	{Name: "Personal", Color: "#EA4335"},
	{Name: "Urgent", Color: "#FBBC04"},
	{Name: "Health", Color: "#34A853"},
}

// Fixture is the YAML document format
type Fixture struct {
	Tags  []TagFixture  `yaml:"tags"`
	Tasks []TaskFixture `yaml:"tasks"`
}

// TagFixture declares a tag
type TagFixture struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// TaskFixture declares a task. Tags are referenced by name.
// CompletedDaysAgo places the completion relative to the load time.
type TaskFixture struct {
	Title            string           `yaml:"title"`
	Type             string           `yaml:"type"`
	Tags             []string         `yaml:"tags,omitempty"`
	Archived         bool             `yaml:"archived,omitempty"`
	CreatedAt        *time.Time       `yaml:"created_at,omitempty"`
	CompletedAt      *time.Time       `yaml:"completed_at,omitempty"`
	CompletedDaysAgo *int             `yaml:"completed_days_ago,omitempty"`
	SubTasks         []SubTaskFixture `yaml:"subtasks,omitempty"`
}

// SubTaskFixture declares a subtask
type SubTaskFixture struct {
	Title string `yaml:"title"`
	Done  bool   `yaml:"done,omitempty"`
}

// EnsureDefaultTags creates the default tags when no tag exists yet
func EnsureDefaultTags(tr *tracker.Tracker) (int, error) {
	existing, err := tr.ListTags()
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, tf := range DefaultTags {
		if _, err := tr.CreateTag(tf.Name, tf.Color); err != nil {
			return 0, fmt.Errorf("create tag %s: %w", tf.Name, err)
		}
	}
	return len(DefaultTags), nil
}

// LoadFile reads and applies a fixture file
func LoadFile(tr *tracker.Tracker, path string, now time.Time) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Load(tr, data, now)
}

// Load parses a YAML fixture and applies it. Tags that already exist
// (matched by name, ignoring case) are reused.
func Load(tr *tracker.Tracker, data []byte, now time.Time) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	byName, err := tagIndex(tr)
	if err != nil {
		return nil, err
	}

	for _, tf := range f.Tags {
		if _, ok := byName[strings.ToLower(tf.Name)]; ok {
			continue
		}
		tag, err := tr.CreateTag(tf.Name, tf.Color)
		if err != nil {
			return nil, fmt.Errorf("create tag %s: %w", tf.Name, err)
		}
		byName[strings.ToLower(tag.Name)] = tag.ID
	}

	for i, tf := range f.Tasks {
		task, err := tf.toTask(byName, now)
		if err != nil {
			return nil, fmt.Errorf("task %d (%s): %w", i, tf.Title, err)
		}
		if _, err := tr.ImportTask(task); err != nil {
			return nil, fmt.Errorf("task %d (%s): %w", i, tf.Title, err)
		}
	}

	return &f, nil
}

func tagIndex(tr *tracker.Tracker) (map[string]string, error) {
	tags, err := tr.ListTags()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(tags))
	for _, t := range tags {
		byName[strings.ToLower(t.Name)] = t.ID
	}
	return byName, nil
}

func (tf TaskFixture) toTask(byName map[string]string, now time.Time) (domain.Task, error) {
	kind := domain.Kind(tf.Type)
	if tf.Type == "" {
		kind = domain.KindSimple
		if len(tf.SubTasks) > 0 {
			kind = domain.KindAdvanced
		}
	}

	task := domain.Task{
		Title:    tf.Title,
		Kind:     kind,
		Archived: tf.Archived,
	}

	for _, name := range tf.Tags {
		id, ok := byName[strings.ToLower(name)]
		if !ok {
			return task, fmt.Errorf("%w: unknown tag %q", domain.ErrValidation, name)
		}
		task.Tags = append(task.Tags, id)
	}

	allDone := len(tf.SubTasks) > 0
	for _, st := range tf.SubTasks {
		task.SubTasks = append(task.SubTasks, domain.SubTask{Title: st.Title, Completed: st.Done})
		allDone = allDone && st.Done
	}

	switch {
	case tf.CompletedAt != nil:
		at := tf.CompletedAt.UTC()
		task.CompletedAt = &at
	case tf.CompletedDaysAgo != nil:
		at := now.UTC().AddDate(0, 0, -*tf.CompletedDaysAgo)
		task.CompletedAt = &at
	case allDone:
		task.Completed = true
	}

	if tf.CreatedAt != nil {
		task.CreatedAt = tf.CreatedAt.UTC()
	} else if task.CompletedAt != nil {
		task.CreatedAt = *task.CompletedAt
	}
	if task.CompletedAt != nil {
		task.UpdatedAt = *task.CompletedAt
	}
	return task, nil
}
