package bankdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"underwriter/domain/entities"
	"underwriter/domain/interfaces"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const feedKeyPrefix = "bankfeed:"

// RedisFeedCache caches raw bank feeds in Redis, keyed by account
// reference. Only provider inputs are cached; qualification and scoring
// results are never stored.
type RedisFeedCache struct {
	client *redis.Client
}

// NewRedisFeedCache creates a feed cache against the given Redis address
func NewRedisFeedCache(addr string) *RedisFeedCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisFeedCache{client: client}
}

// Get returns the cached feed for an account reference. Cache errors are
// treated as misses; the provider remains the source of truth.
func (c *RedisFeedCache) Get(ctx context.Context, accountRef string) (*entities.BankFeed, bool) {
	payload, err := c.client.Get(ctx, feedKeyPrefix+accountRef).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).WithField("accountRef", accountRef).Warn("Feed cache read failed")
		}
		return nil, false
	}

	var feed entities.BankFeed
	if err := json.Unmarshal(payload, &feed); err != nil {
		log.WithError(err).WithField("accountRef", accountRef).Warn("Discarding undecodable cached feed")
		return nil, false
	}
	return &feed, true
}

// Set stores a feed with the given TTL
func (c *RedisFeedCache) Set(ctx context.Context, accountRef string, feed *entities.BankFeed, ttl time.Duration) error {
	payload, err := json.Marshal(feed)
	if err != nil {
		return fmt.Errorf("failed to encode bank feed: %w", err)
	}
	if err := c.client.Set(ctx, feedKeyPrefix+accountRef, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache bank feed: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection
func (c *RedisFeedCache) Close() error {
	return c.client.Close()
}

// compile-time interface check
var _ interfaces.FeedCache = (*RedisFeedCache)(nil)
