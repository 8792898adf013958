package bankdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"underwriter/domain/entities"
	"underwriter/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFeed(accountRef string) *entities.BankFeed {
	return &entities.BankFeed{
		AccountRef:  accountRef,
		RetrievedAt: time.Date(2025, time.June, 30, 12, 0, 0, 0, time.UTC),
		Accounts: []entities.Account{
			{AccountID: "acc-1", Type: entities.AccountTypeDepository, Subtype: "checking"},
		},
	}
}

func TestFetchFeed_CacheHitSkipsProvider(t *testing.T) {
	provider := new(testhelpers.MockBankDataProvider)
	cache := new(testhelpers.MockFeedCache)
	feed := testFeed("ref-1")

	cache.On("Get", context.Background(), "ref-1").Return(feed, true)

	caching := NewCachingProvider(provider, cache, time.Minute)
	got, err := caching.FetchFeed(context.Background(), "ref-1")

	require.NoError(t, err)
	assert.Equal(t, feed, got)
	provider.AssertNotCalled(t, "FetchFeed")
	cache.AssertExpectations(t)
}

func TestFetchFeed_CacheMissFetchesAndStores(t *testing.T) {
	provider := new(testhelpers.MockBankDataProvider)
	cache := new(testhelpers.MockFeedCache)
	feed := testFeed("ref-2")
	ttl := 15 * time.Minute

	cache.On("Get", context.Background(), "ref-2").Return(nil, false)
	provider.On("FetchFeed", context.Background(), "ref-2").Return(feed, nil)
	cache.On("Set", context.Background(), "ref-2", feed, ttl).Return(nil)

	caching := NewCachingProvider(provider, cache, ttl)
	got, err := caching.FetchFeed(context.Background(), "ref-2")

	require.NoError(t, err)
	assert.Equal(t, feed, got)
	provider.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestFetchFeed_CacheWriteFailureIsNotFatal(t *testing.T) {
	provider := new(testhelpers.MockBankDataProvider)
	cache := new(testhelpers.MockFeedCache)
	feed := testFeed("ref-3")

	cache.On("Get", context.Background(), "ref-3").Return(nil, false)
	provider.On("FetchFeed", context.Background(), "ref-3").Return(feed, nil)
	cache.On("Set", context.Background(), "ref-3", feed, time.Minute).Return(errors.New("redis down"))

	caching := NewCachingProvider(provider, cache, time.Minute)
	got, err := caching.FetchFeed(context.Background(), "ref-3")

	require.NoError(t, err)
	assert.Equal(t, feed, got)
}

func TestFetchFeed_ProviderErrorPropagates(t *testing.T) {
	provider := new(testhelpers.MockBankDataProvider)
	cache := new(testhelpers.MockFeedCache)
	fetchErr := errors.New("provider unavailable")

	cache.On("Get", context.Background(), "ref-4").Return(nil, false)
	provider.On("FetchFeed", context.Background(), "ref-4").Return(nil, fetchErr)

	caching := NewCachingProvider(provider, cache, time.Minute)
	got, err := caching.FetchFeed(context.Background(), "ref-4")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, fetchErr)
	cache.AssertNotCalled(t, "Set")
}
