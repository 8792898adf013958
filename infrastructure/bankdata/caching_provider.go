package bankdata

import (
	"context"
	"time"

	"underwriter/domain/entities"
	"underwriter/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// CachingProvider decorates a BankDataProvider with a feed cache. Cache
// failures never surface; the wrapped provider is always the fallback.
type CachingProvider struct {
	provider interfaces.BankDataProvider
	cache    interfaces.FeedCache
	ttl      time.Duration
}

// NewCachingProvider wraps a provider with a feed cache and TTL
func NewCachingProvider(provider interfaces.BankDataProvider, cache interfaces.FeedCache, ttl time.Duration) *CachingProvider {
	return &CachingProvider{
		provider: provider,
		cache:    cache,
		ttl:      ttl,
	}
}

// FetchFeed returns the cached feed when present, otherwise fetches from
// the wrapped provider and stores the result
func (p *CachingProvider) FetchFeed(ctx context.Context, accountRef string) (*entities.BankFeed, error) {
	if feed, ok := p.cache.Get(ctx, accountRef); ok {
		log.WithField("accountRef", accountRef).Debug("Bank feed cache hit")
		return feed, nil
	}

	feed, err := p.provider.FetchFeed(ctx, accountRef)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, accountRef, feed, p.ttl); err != nil {
		log.WithError(err).WithField("accountRef", accountRef).Warn("Failed to cache bank feed")
	}
	return feed, nil
}

var _ interfaces.BankDataProvider = (*CachingProvider)(nil)
