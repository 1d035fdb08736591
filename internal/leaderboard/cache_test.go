package leaderboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The cache is optional; a nil cache must be safe to call everywhere.
func TestCache_NilReceiverIsSafe(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	c.SetRating(ctx, TabSingles, "p1", 1200)
	c.RemoveMember(ctx, TabSingles, "p1")
	c.Clear(ctx)

	entries, err := c.TopRatings(ctx, TabSingles, 10)
	assert.NoError(t, err)
	assert.Empty(t, entries)

	assert.NoError(t, c.Close())
}

func TestRatingKey(t *testing.T) {
	assert.Equal(t, "ratings:singles", ratingKey(TabSingles))
	assert.Equal(t, "ratings:doubles", ratingKey(TabDoubles))
}
