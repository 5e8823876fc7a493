package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms"
)

// Repository implements aquacms.Repository using in-memory storage
type Repository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*aquacms.ContentItem
}

// New creates a new in-memory repository
func New() aquacms.Repository {
	return &Repository{
		items: make(map[uuid.UUID]*aquacms.ContentItem),
	}
}

func (r *Repository) CreateContent(ctx context.Context, item *aquacms.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	itemCopy := *item
	r.items[item.ID] = &itemCopy

	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*aquacms.ContentItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, aquacms.ErrContentNotFound
	}

	itemCopy := *item
	return &itemCopy, nil
}

func (r *Repository) UpdateContent(ctx context.Context, item *aquacms.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		return aquacms.ErrContentNotFound
	}

	itemCopy := *item
	r.items[item.ID] = &itemCopy

	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return aquacms.ErrContentNotFound
	}

	// Hard delete, no tombstone
	delete(r.items, id)
	return nil
}

func (r *Repository) ListByStatus(ctx context.Context, contentType aquacms.ContentType, status aquacms.Status, limit int) ([]*aquacms.ContentItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*aquacms.ContentItem
	for _, item := range r.items {
		if item.Type == contentType && item.Status == status {
			itemCopy := *item
			result = append(result, &itemCopy)
		}
	}

	// Sort by published_at descending; unpublished rows sort last. Map
	// iteration order is random, so ties need a full ordering of their own.
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].PublishedAt, result[j].PublishedAt
		switch {
		case a == nil && b == nil:
			return tieLess(result[i], result[j])
		case a == nil:
			return false
		case b == nil:
			return true
		case a.Equal(*b):
			return tieLess(result[i], result[j])
		default:
			return a.After(*b)
		}
	})

	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}

	return result, nil
}

func (r *Repository) ListContent(ctx context.Context, contentType aquacms.ContentType, filter aquacms.StatusFilter, limit int) ([]*aquacms.ContentItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*aquacms.ContentItem
	for _, item := range r.items {
		if item.Type != contentType {
			continue
		}
		if !matchesFilter(item.Status, filter) {
			continue
		}
		itemCopy := *item
		result = append(result, &itemCopy)
	}

	// Sort by updated_at descending, same tie ordering as ListByStatus
	sort.Slice(result, func(i, j int) bool {
		if result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return tieLess(result[i], result[j])
		}
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})

	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}

	return result, nil
}

// tieLess orders timestamp ties by created_at descending, then id
func tieLess(a, b *aquacms.ContentItem) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

func matchesFilter(status aquacms.Status, filter aquacms.StatusFilter) bool {
	switch filter {
	case aquacms.StatusFilterDraft:
		return status == aquacms.StatusDraft
	case aquacms.StatusFilterPublished:
		return status == aquacms.StatusPublished
	default:
		return true
	}
}
