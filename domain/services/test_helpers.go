package services

import (
	"time"

	"underwriter/domain/entities"
)

// Shared fixture builders for service tests.

// testDay returns a UTC timestamp at midday on the given date, keeping
// daily bucketing away from midnight boundaries
func testDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

// deposit builds a settled inflow transaction on the given account
func deposit(accountID, name string, date time.Time, amount float64) entities.Transaction {
	return entities.Transaction{
		ID:        name + date.Format("20060102"),
		AccountID: accountID,
		Date:      date,
		Amount:    -amount,
		Name:      name,
	}
}

// debit builds a settled outflow transaction on the given account
func debit(accountID, name string, date time.Time, amount float64) entities.Transaction {
	return entities.Transaction{
		ID:        name + date.Format("20060102"),
		AccountID: accountID,
		Date:      date,
		Amount:    amount,
		Name:      name,
	}
}

// checkingAccount builds a depository checking account fixture
func checkingAccount(accountID string, currentBalance float64) entities.Account {
	return entities.Account{
		AccountID: accountID,
		Name:      "Business Checking",
		Type:      entities.AccountTypeDepository,
		Subtype:   "checking",
		Balances: entities.AccountBalances{
			Current:   currentBalance,
			Available: currentBalance,
		},
	}
}

// strongFeatures returns a feature snapshot that clears every factor at
// the pass bar under the default rules
func strongFeatures() *entities.UnderwritingFeatures {
	return &entities.UnderwritingFeatures{
		AverageDailyBalance:    30000,
		CurrentBalance:         32000,
		NSFCount:               0,
		NegativeDaysPercentage: 0,
		EstimatedPositionCount: 0,
		AverageMonthlyDeposits: 60000,
		DepositConsistency:     85,
		Trend: entities.RevenueTrend{
			Direction: entities.TrendIncreasing,
		},
	}
}

// weakFeatures returns a feature snapshot that fails the critical factors
// under the default rules
func weakFeatures() *entities.UnderwritingFeatures {
	return &entities.UnderwritingFeatures{
		AverageDailyBalance:    1000,
		NSFCount:               15,
		NegativeDaysPercentage: 25,
		EstimatedPositionCount: 5,
		AverageMonthlyDeposits: 5000,
		DepositConsistency:     20,
	}
}

// newTestAnalyzer builds a trend analyzer over the default classifier
func newTestAnalyzer() *RevenueTrendAnalyzer {
	return NewRevenueTrendAnalyzer(NewKeywordClassifier(NewDefaultLenderRegistry()))
}

// newTestExtractor builds a feature extractor over the default
// classifier, registry, and analyzers
func newTestExtractor() *featureExtractor {
	registry := NewDefaultLenderRegistry()
	classifier := NewKeywordClassifier(registry)
	return NewFeatureExtractor(
		classifier,
		NewLenderPaymentDetector(registry),
		NewRevenueTrendAnalyzer(classifier),
	).(*featureExtractor)
}
