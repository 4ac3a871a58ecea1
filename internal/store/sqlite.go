package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/taskboard/internal/domain"
)

//go:embed schema.sql
var schema string

// SQLite persists tasks and tags in a SQLite database file
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at dbPath
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetTask retrieves a task by ID with its subtasks and tags
func (s *SQLite) GetTask(id string) (*domain.Task, error) {
	row := s.db.QueryRow(
		"SELECT id, title, type, completed, archived, created_at, completed_at, updated_at FROM tasks WHERE id = ?",
		id,
	)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task with id '%s': %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	if err := s.loadChildren(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasks returns every task
func (s *SQLite) ListTasks() ([]domain.Task, error) {
	rows, err := s.db.Query(
		"SELECT id, title, type, completed, archived, created_at, completed_at, updated_at FROM tasks",
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	rows.Close()

	// Load children once the task cursor is released
	for i := range tasks {
		if err := s.loadChildren(&tasks[i]); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// PutTask inserts or replaces a task together with its subtasks and tag links
func (s *SQLite) PutTask(task domain.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO tasks (id, title, type, completed, archived, created_at, completed_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			type = excluded.type,
			completed = excluded.completed,
			archived = excluded.archived,
			created_at = excluded.created_at,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at
	`, task.ID, task.Title, string(task.Kind), task.Completed, task.Archived,
		task.CreatedAt.UTC(), nullTime(task.CompletedAt), task.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert task: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM subtasks WHERE task_id = ?", task.ID); err != nil {
		return fmt.Errorf("clear subtasks: %w", err)
	}
	for i, st := range task.SubTasks {
		_, err := tx.Exec(
			"INSERT INTO subtasks (task_id, id, position, title, completed) VALUES (?, ?, ?, ?, ?)",
			task.ID, st.ID, i, st.Title, st.Completed,
		)
		if err != nil {
			return fmt.Errorf("insert subtask: %w", err)
		}
	}

	if _, err := tx.Exec("DELETE FROM task_tags WHERE task_id = ?", task.ID); err != nil {
		return fmt.Errorf("clear task tags: %w", err)
	}
	for i, tagID := range task.Tags {
		_, err := tx.Exec(
			"INSERT OR IGNORE INTO task_tags (task_id, tag_id, position) VALUES (?, ?, ?)",
			task.ID, tagID, i,
		)
		if err != nil {
			return fmt.Errorf("link task tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DeleteTask removes a task; subtasks and tag links cascade
func (s *SQLite) DeleteTask(id string) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectRow(res, "task", id)
}

// GetTag retrieves a tag by ID
func (s *SQLite) GetTag(id string) (*domain.Tag, error) {
	var t domain.Tag
	err := s.db.QueryRow(
		"SELECT id, name, color, created_at, updated_at FROM tags WHERE id = ?",
		id,
	).Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tag with id '%s': %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

// ListTags returns all tags
func (s *SQLite) ListTags() ([]domain.Tag, error) {
	rows, err := s.db.Query("SELECT id, name, color, created_at, updated_at FROM tags")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		t.CreatedAt = t.CreatedAt.UTC()
		t.UpdatedAt = t.UpdatedAt.UTC()
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// PutTag inserts or replaces a tag
func (s *SQLite) PutTag(tag domain.Tag) error {
	_, err := s.db.Exec(`
		INSERT INTO tags (id, name, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			updated_at = excluded.updated_at
	`, tag.ID, tag.Name, tag.Color, tag.CreatedAt.UTC(), tag.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert tag: %w", err)
	}
	return nil
}

// DeleteTag removes a tag. Tasks keep referencing its id.
func (s *SQLite) DeleteTag(id string) error {
	res, err := s.db.Exec("DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return expectRow(res, "tag", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t           domain.Task
		kind        string
		completedAt sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Title, &kind, &t.Completed, &t.Archived,
		&t.CreatedAt, &completedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Kind = domain.Kind(kind)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	if completedAt.Valid {
		at := completedAt.Time.UTC()
		t.CompletedAt = &at
	}
	return &t, nil
}

func (s *SQLite) loadChildren(t *domain.Task) error {
	rows, err := s.db.Query(
		"SELECT id, title, completed FROM subtasks WHERE task_id = ? ORDER BY position",
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("get subtasks: %w", err)
	}
	t.SubTasks = []domain.SubTask{}
	for rows.Next() {
		var st domain.SubTask
		if err := rows.Scan(&st.ID, &st.Title, &st.Completed); err != nil {
			rows.Close()
			return fmt.Errorf("scan subtask: %w", err)
		}
		t.SubTasks = append(t.SubTasks, st)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("get subtasks: %w", err)
	}

	rows, err = s.db.Query(
		"SELECT tag_id FROM task_tags WHERE task_id = ? ORDER BY position",
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("get task tags: %w", err)
	}
	defer rows.Close()

	t.Tags = []string{}
	for rows.Next() {
		var tagID string
		if err := rows.Scan(&tagID); err != nil {
			return fmt.Errorf("scan task tag: %w", err)
		}
		t.Tags = append(t.Tags, tagID)
	}
	return rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func expectRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s with id '%s': %w", kind, id, domain.ErrNotFound)
	}
	return nil
}
