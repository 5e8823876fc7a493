package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms"
	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms/repo/memory"
)

func newItem(contentType aquacms.ContentType, status aquacms.Status, publishedAt *time.Time, updatedAt time.Time) *aquacms.ContentItem {
	return &aquacms.ContentItem{
		ID:          uuid.New(),
		Type:        contentType,
		Title:       "title",
		Body:        "body",
		Status:      status,
		PublishedAt: publishedAt,
		Author:      "editor@example.com",
		CreatedAt:   updatedAt,
		UpdatedAt:   updatedAt,
	}
}

func ts(minute int) time.Time {
	return time.Date(2025, 6, 1, 9, minute, 0, 0, time.UTC)
}

func tsp(minute int) *time.Time {
	t := ts(minute)
	return &t
}

func TestContentCRUD(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	item := newItem(aquacms.ContentTypeNews, aquacms.StatusDraft, nil, ts(0))
	require.NoError(t, repo.CreateContent(ctx, item))

	t.Run("get returns a copy", func(t *testing.T) {
		got, err := repo.GetContent(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.ID, got.ID)

		got.Title = "mutated"
		again, err := repo.GetContent(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "title", again.Title, "caller mutations do not reach the store")
	})

	t.Run("update", func(t *testing.T) {
		updated := *item
		updated.Title = "renamed"
		require.NoError(t, repo.UpdateContent(ctx, &updated))

		got, err := repo.GetContent(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Title)
	})

	t.Run("update unknown id", func(t *testing.T) {
		missing := newItem(aquacms.ContentTypeNews, aquacms.StatusDraft, nil, ts(0))
		err := repo.UpdateContent(ctx, missing)
		assert.ErrorIs(t, err, aquacms.ErrContentNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteContent(ctx, item.ID))

		_, err := repo.GetContent(ctx, item.ID)
		assert.ErrorIs(t, err, aquacms.ErrContentNotFound)

		err = repo.DeleteContent(ctx, item.ID)
		assert.ErrorIs(t, err, aquacms.ErrContentNotFound)
	})
}

func TestListByStatus(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	older := newItem(aquacms.ContentTypeNews, aquacms.StatusPublished, tsp(1), ts(1))
	newer := newItem(aquacms.ContentTypeNews, aquacms.StatusPublished, tsp(5), ts(5))
	unstamped := newItem(aquacms.ContentTypeNews, aquacms.StatusPublished, nil, ts(9))
	draft := newItem(aquacms.ContentTypeNews, aquacms.StatusDraft, nil, ts(3))
	achievement := newItem(aquacms.ContentTypeAchievement, aquacms.StatusPublished, tsp(2), ts(2))

	for _, item := range []*aquacms.ContentItem{older, newer, unstamped, draft, achievement} {
		require.NoError(t, repo.CreateContent(ctx, item))
	}

	t.Run("published news newest first, nils last", func(t *testing.T) {
		items, err := repo.ListByStatus(ctx, aquacms.ContentTypeNews, aquacms.StatusPublished, 0)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, newer.ID, items[0].ID)
		assert.Equal(t, older.ID, items[1].ID)
		assert.Equal(t, unstamped.ID, items[2].ID)
	})

	t.Run("limit truncates", func(t *testing.T) {
		items, err := repo.ListByStatus(ctx, aquacms.ContentTypeNews, aquacms.StatusPublished, 1)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, newer.ID, items[0].ID)
	})

	t.Run("type scoped", func(t *testing.T) {
		items, err := repo.ListByStatus(ctx, aquacms.ContentTypeAchievement, aquacms.StatusPublished, 0)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, achievement.ID, items[0].ID)
	})
}

func TestListOrderDeterministicOnTies(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	// Same PublishedAt, CreatedAt, and UpdatedAt everywhere: map iteration
	// randomness must not leak into the returned order.
	var created []*aquacms.ContentItem
	for i := 0; i < 8; i++ {
		item := newItem(aquacms.ContentTypeNews, aquacms.StatusPublished, tsp(5), ts(5))
		require.NoError(t, repo.CreateContent(ctx, item))
		created = append(created, item)
	}

	t.Run("published list", func(t *testing.T) {
		first, err := repo.ListByStatus(ctx, aquacms.ContentTypeNews, aquacms.StatusPublished, 0)
		require.NoError(t, err)
		require.Len(t, first, len(created))

		for call := 0; call < 10; call++ {
			items, err := repo.ListByStatus(ctx, aquacms.ContentTypeNews, aquacms.StatusPublished, 0)
			require.NoError(t, err)
			require.Len(t, items, len(first))
			for i := range items {
				assert.Equal(t, first[i].ID, items[i].ID, "call %d position %d", call, i)
			}
		}

		limited, err := repo.ListByStatus(ctx, aquacms.ContentTypeNews, aquacms.StatusPublished, 3)
		require.NoError(t, err)
		require.Len(t, limited, 3)
		for i := range limited {
			assert.Equal(t, first[i].ID, limited[i].ID, "limit keeps the same heads")
		}
	})

	t.Run("editor list", func(t *testing.T) {
		first, err := repo.ListContent(ctx, aquacms.ContentTypeNews, aquacms.StatusFilterAll, 0)
		require.NoError(t, err)
		require.Len(t, first, len(created))

		for call := 0; call < 10; call++ {
			items, err := repo.ListContent(ctx, aquacms.ContentTypeNews, aquacms.StatusFilterAll, 0)
			require.NoError(t, err)
			require.Len(t, items, len(first))
			for i := range items {
				assert.Equal(t, first[i].ID, items[i].ID, "call %d position %d", call, i)
			}
		}
	})
}

func TestListContentFilters(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	draft := newItem(aquacms.ContentTypeNews, aquacms.StatusDraft, nil, ts(4))
	published := newItem(aquacms.ContentTypeNews, aquacms.StatusPublished, tsp(1), ts(1))

	require.NoError(t, repo.CreateContent(ctx, draft))
	require.NoError(t, repo.CreateContent(ctx, published))

	tests := []struct {
		name    string
		filter  aquacms.StatusFilter
		wantIDs []uuid.UUID
	}{
		{"all, recently updated first", aquacms.StatusFilterAll, []uuid.UUID{draft.ID, published.ID}},
		{"drafts only", aquacms.StatusFilterDraft, []uuid.UUID{draft.ID}},
		{"published only", aquacms.StatusFilterPublished, []uuid.UUID{published.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := repo.ListContent(ctx, aquacms.ContentTypeNews, tt.filter, 0)
			require.NoError(t, err)
			require.Len(t, items, len(tt.wantIDs))
			for i, id := range tt.wantIDs {
				assert.Equal(t, id, items[i].ID)
			}
		})
	}
}
