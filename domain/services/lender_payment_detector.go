package services

import (
	"sort"

	"underwriter/domain/entities"
	"underwriter/domain/interfaces"
	"underwriter/domain/utils"

	log "github.com/sirupsen/logrus"
)

const (
	// Minimum occurrences of a recurring debit before it is treated as a
	// lender payment. Two gaps are needed to infer a cadence.
	minLenderOccurrences = 3

	// Modal gap bands, in days
	dailyGapMax  = 2
	weeklyGapMax = 9
)

// LenderPaymentDetector finds recurring debits that match known lenders
// and infers their payment cadence
type LenderPaymentDetector struct {
	registry interfaces.LenderRegistry
}

// NewLenderPaymentDetector creates a detector backed by a lender registry
func NewLenderPaymentDetector(registry interfaces.LenderRegistry) *LenderPaymentDetector {
	return &LenderPaymentDetector{registry: registry}
}

// Detect groups withdrawal transactions by normalized merchant name,
// keeps groups matching the known-lender registry, and infers frequency
// and confidence for each
func (d *LenderPaymentDetector) Detect(transactions []entities.Transaction) []entities.LenderPayment {
	groups := make(map[string][]entities.Transaction)
	canonical := make(map[string]string)

	for _, tx := range transactions {
		if !tx.IsOutflow() || tx.Pending {
			continue
		}
		normalized := NormalizeMerchantName(tx.Name)
		lender, ok := d.registry.Match(normalized)
		if !ok {
			continue
		}
		groups[lender] = append(groups[lender], tx)
		canonical[lender] = lender
	}

	payments := make([]entities.LenderPayment, 0, len(groups))
	for lender, txs := range groups {
		if len(txs) < minLenderOccurrences {
			continue
		}

		sort.Slice(txs, func(i, j int) bool {
			return txs[i].Date.Before(txs[j].Date)
		})

		amounts := make([]float64, len(txs))
		for i, tx := range txs {
			amounts[i] = tx.Amount
		}

		payment := entities.LenderPayment{
			LenderName: lender,
			Amounts:    amounts,
			Frequency:  inferFrequency(txs),
			Confidence: paymentConfidence(len(txs), amounts),
		}
		payments = append(payments, payment)

		log.WithFields(log.Fields{
			"lender":      lender,
			"occurrences": len(txs),
			"frequency":   payment.Frequency,
			"confidence":  payment.Confidence,
		}).Debug("Detected recurring lender payment")
	}

	// Deterministic output ordering
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].LenderName < payments[j].LenderName
	})
	return payments
}

// inferFrequency buckets the modal gap between consecutive occurrences
// into daily, weekly, or monthly bands
func inferFrequency(txs []entities.Transaction) entities.PaymentFrequency {
	gapCounts := make(map[int]int)
	for i := 1; i < len(txs); i++ {
		gap := int(txs[i].Date.Sub(txs[i-1].Date).Hours() / 24)
		if gap < 1 {
			gap = 1
		}
		gapCounts[gap]++
	}

	modalGap := 0
	modalCount := 0
	for gap, count := range gapCounts {
		if count > modalCount || (count == modalCount && gap < modalGap) {
			modalGap = gap
			modalCount = count
		}
	}

	switch {
	case modalGap <= dailyGapMax:
		return entities.FrequencyDaily
	case modalGap <= weeklyGapMax:
		return entities.FrequencyWeekly
	default:
		return entities.FrequencyMonthly
	}
}

// paymentConfidence grows with occurrence count and shrinks with amount
// variance, clamped to [0, 1]
func paymentConfidence(occurrences int, amounts []float64) float64 {
	countScore := float64(occurrences) * 0.15
	if countScore > 0.75 {
		countScore = 0.75
	}

	cv := utils.CoefficientOfVariation(amounts)
	if cv > 1 {
		cv = 1
	}
	stabilityScore := 0.25 * (1 - cv)

	return utils.Clamp01(countScore + stabilityScore)
}
