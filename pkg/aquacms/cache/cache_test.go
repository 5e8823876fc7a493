package cache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms/cache"
)

func countingCompute(value interface{}, calls *int) cache.ComputeFunc {
	return func(ctx context.Context) (interface{}, error) {
		*calls++
		return value, nil
	}
}

func TestGetOrCompute(t *testing.T) {
	ctx := context.Background()

	t.Run("computes once while fresh", func(t *testing.T) {
		c := cache.NewTagCache()
		calls := 0

		for i := 0; i < 3; i++ {
			value, err := c.GetOrCompute(ctx, cache.TagNewsList, "list:0", countingCompute("payload", &calls))
			require.NoError(t, err)
			assert.Equal(t, "payload", value)
		}

		assert.Equal(t, 1, calls)
		assert.True(t, c.Fresh(cache.TagNewsList, "list:0"))
	})

	t.Run("keys under the same tag are independent", func(t *testing.T) {
		c := cache.NewTagCache()
		calls := 0

		_, err := c.GetOrCompute(ctx, cache.TagNewsDetail, "a", countingCompute("a", &calls))
		require.NoError(t, err)
		_, err = c.GetOrCompute(ctx, cache.TagNewsDetail, "b", countingCompute("b", &calls))
		require.NoError(t, err)

		assert.Equal(t, 2, calls)
	})

	t.Run("compute failure leaves no fresh slot", func(t *testing.T) {
		c := cache.NewTagCache()

		_, err := c.GetOrCompute(ctx, cache.TagNewsList, "k", func(ctx context.Context) (interface{}, error) {
			return nil, errors.New("store down")
		})
		assert.Error(t, err)
		assert.False(t, c.Fresh(cache.TagNewsList, "k"))

		// A later successful compute fills the slot
		value, err := c.GetOrCompute(ctx, cache.TagNewsList, "k", func(ctx context.Context) (interface{}, error) {
			return "recovered", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "recovered", value)
	})
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("stale slot recomputes on next read", func(t *testing.T) {
		c := cache.NewTagCache()
		calls := 0

		_, err := c.GetOrCompute(ctx, cache.TagNewsList, "k", countingCompute("v1", &calls))
		require.NoError(t, err)

		require.NoError(t, c.Invalidate(ctx, cache.TagNewsList))
		assert.False(t, c.Fresh(cache.TagNewsList, "k"))

		value, err := c.GetOrCompute(ctx, cache.TagNewsList, "k", func(ctx context.Context) (interface{}, error) {
			calls++
			return "v2", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "v2", value)
		assert.Equal(t, 2, calls)
		assert.True(t, c.Fresh(cache.TagNewsList, "k"))
	})

	t.Run("only the named tags go stale", func(t *testing.T) {
		c := cache.NewTagCache()
		calls := 0

		_, err := c.GetOrCompute(ctx, cache.TagNewsList, "k", countingCompute("news", &calls))
		require.NoError(t, err)
		_, err = c.GetOrCompute(ctx, cache.TagAchievementsList, "k", countingCompute("achievements", &calls))
		require.NoError(t, err)

		require.NoError(t, c.Invalidate(ctx, cache.TagNewsList))

		assert.False(t, c.Fresh(cache.TagNewsList, "k"))
		assert.True(t, c.Fresh(cache.TagAchievementsList, "k"))
	})

	t.Run("idempotent", func(t *testing.T) {
		c := cache.NewTagCache()
		calls := 0

		_, err := c.GetOrCompute(ctx, cache.TagNewsDetail, "k", countingCompute("v", &calls))
		require.NoError(t, err)

		require.NoError(t, c.Invalidate(ctx, cache.TagNewsDetail))
		require.NoError(t, c.Invalidate(ctx, cache.TagNewsDetail))
		require.NoError(t, c.Invalidate(ctx, cache.AllTags()...))

		_, err = c.GetOrCompute(ctx, cache.TagNewsDetail, "k", countingCompute("v", &calls))
		require.NoError(t, err)
		assert.Equal(t, 2, calls, "one recompute regardless of repeated invalidations")
	})

	t.Run("invalidating an empty tag is a no-op", func(t *testing.T) {
		c := cache.NewTagCache()
		assert.NoError(t, c.Invalidate(ctx, cache.TagAchievementsDetail))
	})
}

// An edit alone does not refresh public reads; the stale value keeps being
// served until a rebuild marks the tag.
func TestStaleUntilRebuild(t *testing.T) {
	ctx := context.Background()
	c := cache.NewTagCache()

	store := "v1"
	compute := func(ctx context.Context) (interface{}, error) {
		return store, nil
	}

	value, err := c.GetOrCompute(ctx, cache.TagNewsList, "k", compute)
	require.NoError(t, err)
	assert.Equal(t, "v1", value)

	// The underlying data changes without a rebuild
	store = "v2"
	value, err = c.GetOrCompute(ctx, cache.TagNewsList, "k", compute)
	require.NoError(t, err)
	assert.Equal(t, "v1", value, "cached value survives the edit")

	require.NoError(t, c.Invalidate(ctx, cache.TagNewsList))
	value, err = c.GetOrCompute(ctx, cache.TagNewsList, "k", compute)
	require.NoError(t, err)
	assert.Equal(t, "v2", value)
}

func TestAllTags(t *testing.T) {
	assert.Equal(t, []cache.Tag{
		cache.TagNewsList,
		cache.TagNewsDetail,
		cache.TagAchievementsList,
		cache.TagAchievementsDetail,
	}, cache.AllTags())
}
