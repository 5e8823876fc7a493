package aquacms

import (
	"time"

	"github.com/google/uuid"
)

// ContentType discriminates the two managed content kinds.
type ContentType string

// Content type constants (typed).
const (
	ContentTypeNews        ContentType = "news"
	ContentTypeAchievement ContentType = "achievement"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	return t == ContentTypeNews || t == ContentTypeAchievement
}

// Status is the domain type for content publication states.
type Status string

// Publication status constants (typed).
const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// StatusFilter selects which statuses an editor-facing list returns.
type StatusFilter string

// Status filter constants for ListContent.
const (
	StatusFilterAll       StatusFilter = "all"
	StatusFilterDraft     StatusFilter = "draft"
	StatusFilterPublished StatusFilter = "published"
)

// ContentItem represents a news item or an achievement.
//
// PublishedAt is set exactly once, the first time the item transitions to
// PUBLISHED. Moving back to DRAFT hides the item from public reads but keeps
// the original publication time.
type ContentItem struct {
	ID          uuid.UUID   `json:"id"`
	Type        ContentType `json:"type"`
	Title       string      `json:"title"`
	Body        string      `json:"body"`
	Status      Status      `json:"status"`
	PublishedAt *time.Time  `json:"published_at,omitempty"`
	Author      string      `json:"author"`
	ImageURL    string      `json:"image_url,omitempty"`
	ImageKey    string      `json:"image_key,omitempty"`
	Category    string      `json:"category,omitempty"`
	Client      string      `json:"client,omitempty"`
	URL         string      `json:"url,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Published reports whether the item is visible to public readers.
func (c *ContentItem) Published() bool {
	return c.Status == StatusPublished
}

// HasImage reports whether the item carries an uploaded image.
func (c *ContentItem) HasImage() bool {
	return c.ImageKey != ""
}

// ImageRef is the public URL of an uploaded image together with the object
// store key it was written under. Either both fields are set or both are
// empty; the key keeps the blob deletable.
type ImageRef struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// RebuildResult describes the outcome of a successful rebuild trigger.
type RebuildResult struct {
	RevalidatedTags []string  `json:"revalidated_tags"`
	Now             time.Time `json:"now"`
}
