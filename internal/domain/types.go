package domain

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// Kind distinguishes simple tasks from advanced (multi-step) tasks
type Kind string

const (
	KindSimple   Kind = "simple"
	KindAdvanced Kind = "advanced"
)

// Valid reports whether k is a known task kind
func (k Kind) Valid() bool {
	return k == KindSimple || k == KindAdvanced
}

// Task is a tracked unit of work
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Kind        Kind       `json:"type"`
	Completed   bool       `json:"completed"`
	Archived    bool       `json:"archived"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Tags        []string   `json:"tags"`
	SubTasks    []SubTask  `json:"subTasks"`
}

// SubTask is a step of an advanced task
type SubTask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Tag is a colored label referenced by tasks
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Statistics summarizes the task collection
type Statistics struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Active    int `json:"active"`
	Advanced  int `json:"advanced"`
	Archived  int `json:"archived"`
}

// ContributionDay is the number of tasks completed on one calendar day
type ContributionDay struct {
	Date  time.Time `json:"-"`
	Count int       `json:"count"`
	Level int       `json:"level"`
}

// Clone returns a deep copy of the task
func (t Task) Clone() Task {
	c := t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	c.Tags = make([]string, len(t.Tags))
	copy(c.Tags, t.Tags)
	c.SubTasks = make([]SubTask, len(t.SubTasks))
	copy(c.SubTasks, t.SubTasks)
	return c
}

// HasAnyTag reports whether the task carries at least one of the given tag ids
func (t Task) HasAnyTag(ids []string) bool {
	for _, id := range ids {
		for _, tag := range t.Tags {
			if tag == id {
				return true
			}
		}
	}
	return false
}

// SubTaskIndex returns the position of the subtask with the given id, or -1
func (t Task) SubTaskIndex(id string) int {
	for i, st := range t.SubTasks {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// MarshalJSON renders the day as {"date":"YYYY-MM-DD","count":n,"level":l}
func (d ContributionDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
		Level int    `json:"level"`
	}{d.Date.Format(DateLayout), d.Count, d.Level})
}
