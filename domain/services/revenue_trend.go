package services

import (
	"sort"

	"underwriter/domain/entities"
	"underwriter/domain/interfaces"
	"underwriter/domain/utils"
)

const (
	// Percentage change band separating stable from a real trend
	trendChangeThresholdPct = 8.0

	// Monthly coefficient of variation above which revenue is volatile
	volatileCVThreshold = 0.5

	// Weights for the blended amount/interval dispersion behind deposit
	// consistency
	consistencyAmountWeight   = 0.6
	consistencyIntervalWeight = 0.4
)

// RevenueTrendAnalyzer buckets deposits by calendar month and classifies
// the revenue trajectory
type RevenueTrendAnalyzer struct {
	classifier interfaces.TransactionClassifier
}

// NewRevenueTrendAnalyzer creates an analyzer using the given classifier
// to identify deposits
func NewRevenueTrendAnalyzer(classifier interfaces.TransactionClassifier) *RevenueTrendAnalyzer {
	return &RevenueTrendAnalyzer{classifier: classifier}
}

// Analyze buckets deposit transactions by month, compares the earlier and
// later sub-periods, and classifies the trend direction and seasonality
func (a *RevenueTrendAnalyzer) Analyze(transactions []entities.Transaction) entities.RevenueTrend {
	buckets := make(map[string]*entities.MonthlyRevenue)
	for i := range transactions {
		tx := &transactions[i]
		if !a.classifier.IsDeposit(tx) {
			continue
		}
		month := tx.Date.Format("2006-01")
		bucket, ok := buckets[month]
		if !ok {
			bucket = &entities.MonthlyRevenue{Month: month}
			buckets[month] = bucket
		}
		bucket.TotalDeposit += tx.InflowAmount()
		bucket.DepositCount++
	}

	months := make([]entities.MonthlyRevenue, 0, len(buckets))
	for _, bucket := range buckets {
		months = append(months, *bucket)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month < months[j].Month
	})

	trend := entities.RevenueTrend{
		Direction: entities.TrendStable,
		Months:    months,
	}
	if len(months) < 2 {
		return trend
	}

	totals := make([]float64, len(months))
	for i, m := range months {
		totals[i] = m.TotalDeposit
	}

	cv := utils.CoefficientOfVariation(totals)
	trend.SeasonalityScore = utils.ClampScore(cv * 100)

	// Compare the earlier half against the later half
	mid := len(totals) / 2
	earlier := utils.Mean(totals[:mid])
	later := utils.Mean(totals[mid:])
	trend.PercentChange = utils.PercentChange(earlier, later)

	switch {
	case cv > volatileCVThreshold:
		trend.Direction = entities.TrendVolatile
	case trend.PercentChange >= trendChangeThresholdPct:
		trend.Direction = entities.TrendIncreasing
	case trend.PercentChange <= -trendChangeThresholdPct:
		trend.Direction = entities.TrendDecreasing
	default:
		trend.Direction = entities.TrendStable
	}
	return trend
}

// DepositConsistency scores how regular deposit amounts and timing are,
// 0-100. Returns exactly 0 for fewer than 2 deposits.
func (a *RevenueTrendAnalyzer) DepositConsistency(transactions []entities.Transaction) float64 {
	var deposits []entities.Transaction
	for i := range transactions {
		if a.classifier.IsDeposit(&transactions[i]) {
			deposits = append(deposits, transactions[i])
		}
	}
	if len(deposits) < 2 {
		return 0
	}

	sort.Slice(deposits, func(i, j int) bool {
		return deposits[i].Date.Before(deposits[j].Date)
	})

	amounts := make([]float64, len(deposits))
	for i, tx := range deposits {
		amounts[i] = tx.InflowAmount()
	}

	intervals := make([]float64, 0, len(deposits)-1)
	for i := 1; i < len(deposits); i++ {
		intervals = append(intervals, deposits[i].Date.Sub(deposits[i-1].Date).Hours()/24)
	}

	amountCV := utils.CoefficientOfVariation(amounts)
	if amountCV > 1 {
		amountCV = 1
	}
	intervalCV := utils.CoefficientOfVariation(intervals)
	if intervalCV > 1 {
		intervalCV = 1
	}

	normalizedCV := consistencyAmountWeight*amountCV + consistencyIntervalWeight*intervalCV
	return utils.ClampScore(100 - normalizedCV*100)
}
