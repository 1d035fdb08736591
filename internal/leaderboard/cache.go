package leaderboard

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

// Cache mirrors current ratings into Redis sorted sets so that rating-ordered
// lookups do not need a full projection pass. It is strictly best-effort: a
// nil Cache or an unreachable Redis never fails the statistics path.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis and verifies the connection. An empty addr
// disables the cache and returns nil.
func NewCache(addr, password string, db int) *Cache {
	if addr == "" {
		log.Info("Redis address not configured, leaderboard cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unreachable, leaderboard cache disabled", "addr", addr, "error", err)
		return nil
	}
	log.Info("Connected to Redis leaderboard cache", "addr", addr)
	return &Cache{client: client}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func ratingKey(tab Tab) string {
	return fmt.Sprintf("ratings:%s", tab)
}

// SetRating records a player's (or team's) current rating for the tab.
func (c *Cache) SetRating(ctx context.Context, tab Tab, member string, rating int) {
	if c == nil {
		return
	}
	err := c.client.ZAdd(ctx, ratingKey(tab), redis.Z{
		Score:  float64(rating),
		Member: member,
	}).Err()
	if err != nil {
		log.Warn("Failed to cache rating", "tab", tab, "member", member, "error", err)
	}
}

// RemoveMember drops a player or team from the tab's rating set.
func (c *Cache) RemoveMember(ctx context.Context, tab Tab, member string) {
	if c == nil {
		return
	}
	if err := c.client.ZRem(ctx, ratingKey(tab), member).Err(); err != nil {
		log.Warn("Failed to remove cached rating", "tab", tab, "member", member, "error", err)
	}
}

// RatingEntry is one member of a cached rating set.
type RatingEntry struct {
	Member string `json:"member"`
	Rating int    `json:"rating"`
}

// TopRatings returns the n highest-rated members of the tab, best first.
func (c *Cache) TopRatings(ctx context.Context, tab Tab, n int64) ([]RatingEntry, error) {
	if c == nil {
		return nil, nil
	}
	zs, err := c.client.ZRevRangeWithScores(ctx, ratingKey(tab), 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cached ratings: %w", err)
	}
	entries := make([]RatingEntry, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		entries = append(entries, RatingEntry{Member: member, Rating: int(z.Score)})
	}
	return entries, nil
}

// Clear drops all cached rating sets.
func (c *Cache) Clear(ctx context.Context) {
	if c == nil {
		return
	}
	for _, tab := range []Tab{TabSingles, TabDoubles, TabTeams} {
		if err := c.client.Del(ctx, ratingKey(tab)).Err(); err != nil {
			log.Warn("Failed to clear cached ratings", "tab", tab, "error", err)
		}
	}
}
