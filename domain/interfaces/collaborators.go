package interfaces

import (
	"context"
	"time"

	"underwriter/domain/entities"

	"github.com/google/uuid"
)

// TransactionClassifier decides how individual transactions are treated
// during feature extraction. Tenants may supply their own strategy; the
// core ships a keyword-based default.
type TransactionClassifier interface {
	// IsDeposit reports whether the transaction counts as business revenue
	IsDeposit(tx *entities.Transaction) bool

	// IsWithdrawal reports whether the transaction is an ordinary debit
	IsWithdrawal(tx *entities.Transaction) bool

	// IsNSFFee reports whether the transaction is an NSF/overdraft fee
	IsNSFFee(tx *entities.Transaction) bool

	// IsLenderPayment reports whether the transaction looks like a debit
	// to a known lender
	IsLenderPayment(tx *entities.Transaction) bool

	// IsTransfer reports whether the transaction is an internal transfer,
	// excluded from both revenue and spending
	IsTransfer(tx *entities.Transaction) bool
}

// LenderRegistry matches merchant names against known MCA lenders
type LenderRegistry interface {
	// Match returns the canonical lender name for a normalized merchant
	// name, or false when the name matches no known lender
	Match(normalizedName string) (string, bool)
}

// BankDataProvider fetches raw bank feeds from an external integration.
// This is the pipeline's only I/O boundary; retry policy belongs to the
// implementation, never to this core.
type BankDataProvider interface {
	// FetchFeed retrieves the transaction and account feed for a linked
	// account reference
	FetchFeed(ctx context.Context, accountRef string) (*entities.BankFeed, error)
}

// FeedCache caches raw bank feeds keyed by account reference. Caches
// inputs only; qualification and scoring results are never stored.
type FeedCache interface {
	// Get returns the cached feed for an account reference, or false on miss
	Get(ctx context.Context, accountRef string) (*entities.BankFeed, bool)

	// Set stores a feed with the given TTL
	Set(ctx context.Context, accountRef string, feed *entities.BankFeed, ttl time.Duration) error
}

// ProspectContextProvider looks up optional prospect metadata used to
// enrich scoring. Lookups are best-effort: callers default on failure
// rather than propagate.
type ProspectContextProvider interface {
	// GetProspectSignals returns the latest known signals for a prospect
	GetProspectSignals(ctx context.Context, prospectID uuid.UUID) (*entities.ProspectSignals, error)
}
