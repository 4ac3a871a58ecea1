package tracker

import (
	"fmt"
	"strings"

	"github.com/pbaille/taskboard/internal/domain"
)

// TagPatch carries the fields of a partial tag update
type TagPatch struct {
	Name  *string
	Color *string
}

// CreateTag stores a new tag. Names are unique ignoring case.
func (t *Tracker) CreateTag(name, color string) (*domain.Tag, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	name, err := requireText("name", name)
	if err != nil {
		return nil, err
	}
	if !colorPattern.MatchString(color) {
		return nil, validation("color must be in hex format (#RRGGBB)")
	}
	if err := t.checkTagName(name, ""); err != nil {
		return nil, err
	}

	now := t.clock.next()
	tag := domain.Tag{
		ID:        t.newID(),
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.store.PutTag(tag); err != nil {
		return nil, fmt.Errorf("put tag: %w", err)
	}
	return &tag, nil
}

// GetTag returns a tag by id
func (t *Tracker) GetTag(id string) (*domain.Tag, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.store.GetTag(id)
}

// ListTags returns all tags ordered by name
func (t *Tracker) ListTags() ([]domain.Tag, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tags, err := t.store.ListTags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	sortTags(tags)
	return tags, nil
}

// UpdateTag changes only the provided fields
func (t *Tracker) UpdateTag(id string, p TagPatch) (*domain.Tag, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tag, err := t.store.GetTag(id)
	if err != nil {
		return nil, err
	}

	var name string
	if p.Name != nil {
		if name, err = requireText("name", *p.Name); err != nil {
			return nil, err
		}
		if err := t.checkTagName(name, id); err != nil {
			return nil, err
		}
	}
	if p.Color != nil && !colorPattern.MatchString(*p.Color) {
		return nil, validation("color must be in hex format (#RRGGBB)")
	}

	if p.Name != nil {
		tag.Name = name
	}
	if p.Color != nil {
		tag.Color = *p.Color
	}
	tag.UpdatedAt = t.clock.next()

	if err := t.store.PutTag(*tag); err != nil {
		return nil, fmt.Errorf("put tag: %w", err)
	}
	return tag, nil
}

// DeleteTag removes a tag. Tasks keep their reference to it.
func (t *Tracker) DeleteTag(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.store.DeleteTag(id)
}

// checkTagName rejects a name already used by another tag
func (t *Tracker) checkTagName(name, selfID string) error {
	tags, err := t.store.ListTags()
	if err != nil {
		return fmt.Errorf("list tags: %w", err)
	}
	for _, existing := range tags {
		if existing.ID != selfID && strings.EqualFold(existing.Name, name) {
			return fmt.Errorf("%w: tag with name '%s' already exists", domain.ErrConflict, name)
		}
	}
	return nil
}
