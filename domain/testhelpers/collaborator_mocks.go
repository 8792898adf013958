package testhelpers

import (
	"context"
	"time"

	"underwriter/domain/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockBankDataProvider is a mock implementation of BankDataProvider
type MockBankDataProvider struct {
	mock.Mock
}

func (m *MockBankDataProvider) FetchFeed(ctx context.Context, accountRef string) (*entities.BankFeed, error) {
	args := m.Called(ctx, accountRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BankFeed), args.Error(1)
}

// MockProspectContextProvider is a mock implementation of ProspectContextProvider
type MockProspectContextProvider struct {
	mock.Mock
}

func (m *MockProspectContextProvider) GetProspectSignals(ctx context.Context, prospectID uuid.UUID) (*entities.ProspectSignals, error) {
	args := m.Called(ctx, prospectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ProspectSignals), args.Error(1)
}

// MockFeedCache is a mock implementation of FeedCache
type MockFeedCache struct {
	mock.Mock
}

func (m *MockFeedCache) Get(ctx context.Context, accountRef string) (*entities.BankFeed, bool) {
	args := m.Called(ctx, accountRef)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*entities.BankFeed), args.Bool(1)
}

func (m *MockFeedCache) Set(ctx context.Context, accountRef string, feed *entities.BankFeed, ttl time.Duration) error {
	args := m.Called(ctx, accountRef, feed, ttl)
	return args.Error(0)
}
