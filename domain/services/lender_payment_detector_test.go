package services

import (
	"testing"
	"time"

	"underwriter/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector() *LenderPaymentDetector {
	return NewLenderPaymentDetector(NewDefaultLenderRegistry())
}

func TestDetect_DailyCadenceWithStableAmounts(t *testing.T) {
	detector := newTestDetector()

	transactions := []entities.Transaction{
		debit("acc-1", "ONDECK CAPITAL ACH", testDay(2025, time.January, 1), 250),
		debit("acc-1", "ONDECK CAPITAL ACH", testDay(2025, time.January, 2), 250),
		debit("acc-1", "ONDECK CAPITAL ACH", testDay(2025, time.January, 3), 250),
		debit("acc-1", "ONDECK CAPITAL ACH", testDay(2025, time.January, 6), 250),
		debit("acc-1", "ONDECK CAPITAL ACH", testDay(2025, time.January, 7), 250),
	}

	payments := detector.Detect(transactions)
	require.Len(t, payments, 1)

	payment := payments[0]
	assert.Equal(t, "OnDeck", payment.LenderName)
	assert.Equal(t, entities.FrequencyDaily, payment.Frequency)
	// Five occurrences cap the count score at 0.75 and identical amounts
	// contribute the full stability score
	assert.Equal(t, 1.0, payment.Confidence)
	assert.Len(t, payment.Amounts, 5)
}

func TestDetect_WeeklyCadence(t *testing.T) {
	detector := newTestDetector()

	transactions := []entities.Transaction{
		debit("acc-1", "FORWARD FINANCING LLC", testDay(2025, time.January, 1), 800),
		debit("acc-1", "FORWARD FINANCING LLC", testDay(2025, time.January, 8), 800),
		debit("acc-1", "FORWARD FINANCING LLC", testDay(2025, time.January, 15), 800),
	}

	payments := detector.Detect(transactions)
	require.Len(t, payments, 1)

	assert.Equal(t, "Forward Financing", payments[0].LenderName)
	assert.Equal(t, entities.FrequencyWeekly, payments[0].Frequency)
	assert.InDelta(t, 0.70, payments[0].Confidence, 0.0001)
}

func TestDetect_MonthlyCadence(t *testing.T) {
	detector := newTestDetector()

	transactions := []entities.Transaction{
		debit("acc-1", "FORA FINANCIAL PMT", testDay(2025, time.January, 1), 1500),
		debit("acc-1", "FORA FINANCIAL PMT", testDay(2025, time.February, 1), 1500),
		debit("acc-1", "FORA FINANCIAL PMT", testDay(2025, time.March, 1), 1500),
	}

	payments := detector.Detect(transactions)
	require.Len(t, payments, 1)

	assert.Equal(t, "Fora Financial", payments[0].LenderName)
	assert.Equal(t, entities.FrequencyMonthly, payments[0].Frequency)
}

func TestDetect_IgnoresBelowMinimumOccurrences(t *testing.T) {
	detector := newTestDetector()

	transactions := []entities.Transaction{
		debit("acc-1", "KABBAGE FUNDING", testDay(2025, time.January, 1), 400),
		debit("acc-1", "KABBAGE FUNDING", testDay(2025, time.January, 8), 400),
	}

	assert.Empty(t, detector.Detect(transactions))
}

func TestDetect_IgnoresUnknownMerchantsAndInflows(t *testing.T) {
	detector := newTestDetector()

	transactions := []entities.Transaction{
		debit("acc-1", "ACME OFFICE SUPPLY", testDay(2025, time.January, 1), 120),
		debit("acc-1", "ACME OFFICE SUPPLY", testDay(2025, time.January, 8), 120),
		debit("acc-1", "ACME OFFICE SUPPLY", testDay(2025, time.January, 15), 120),
		deposit("acc-1", "ONDECK CAPITAL ACH", testDay(2025, time.January, 2), 5000),
		deposit("acc-1", "ONDECK CAPITAL ACH", testDay(2025, time.January, 9), 5000),
		deposit("acc-1", "ONDECK CAPITAL ACH", testDay(2025, time.January, 16), 5000),
	}

	assert.Empty(t, detector.Detect(transactions))
}

func TestDetect_VariableAmountsLowerConfidence(t *testing.T) {
	detector := newTestDetector()

	stable := detector.Detect([]entities.Transaction{
		debit("acc-1", "CREDIBLY PAYMENT", testDay(2025, time.January, 1), 500),
		debit("acc-1", "CREDIBLY PAYMENT", testDay(2025, time.January, 8), 500),
		debit("acc-1", "CREDIBLY PAYMENT", testDay(2025, time.January, 15), 500),
	})
	variable := detector.Detect([]entities.Transaction{
		debit("acc-1", "CREDIBLY PAYMENT", testDay(2025, time.January, 1), 100),
		debit("acc-1", "CREDIBLY PAYMENT", testDay(2025, time.January, 8), 900),
		debit("acc-1", "CREDIBLY PAYMENT", testDay(2025, time.January, 15), 2500),
	})

	require.Len(t, stable, 1)
	require.Len(t, variable, 1)
	assert.Greater(t, stable[0].Confidence, variable[0].Confidence)
}

func TestDetect_SortsOutputByLenderName(t *testing.T) {
	detector := newTestDetector()

	var transactions []entities.Transaction
	for day := 1; day <= 3; day++ {
		transactions = append(transactions,
			debit("acc-1", "RAPID FINANCE ACH", testDay(2025, time.January, day), 300),
			debit("acc-1", "BLUEVINE PMT", testDay(2025, time.January, day), 200),
		)
	}

	payments := detector.Detect(transactions)
	require.Len(t, payments, 2)
	assert.Equal(t, "BlueVine", payments[0].LenderName)
	assert.Equal(t, "Rapid Finance", payments[1].LenderName)
}

func TestEstimatedMonthlyAmount_ScalesByFrequency(t *testing.T) {
	daily := entities.LenderPayment{
		Amounts:   []float64{100, 100},
		Frequency: entities.FrequencyDaily,
	}
	weekly := entities.LenderPayment{
		Amounts:   []float64{100, 100},
		Frequency: entities.FrequencyWeekly,
	}
	monthly := entities.LenderPayment{
		Amounts:   []float64{100, 100},
		Frequency: entities.FrequencyMonthly,
	}

	assert.InDelta(t, 2100.0, daily.EstimatedMonthlyAmount(), 0.0001)
	assert.InDelta(t, 433.0, weekly.EstimatedMonthlyAmount(), 0.0001)
	assert.InDelta(t, 100.0, monthly.EstimatedMonthlyAmount(), 0.0001)
}
