package services

import (
	"fmt"
	"sort"
	"time"

	"underwriter/domain/entities"
	"underwriter/domain/interfaces"
	"underwriter/domain/utils"

	log "github.com/sirupsen/logrus"
)

// Average days per month, used to convert window totals to monthly figures
const daysPerMonth = 30.44

// featureExtractor converts raw bank feeds into UnderwritingFeatures
// snapshots
type featureExtractor struct {
	classifier interfaces.TransactionClassifier
	detector   *LenderPaymentDetector
	trend      *RevenueTrendAnalyzer
}

// NewFeatureExtractor creates a new feature extraction service
func NewFeatureExtractor(
	classifier interfaces.TransactionClassifier,
	detector *LenderPaymentDetector,
	trend *RevenueTrendAnalyzer,
) interfaces.FeatureExtractionService {
	return &featureExtractor{
		classifier: classifier,
		detector:   detector,
		trend:      trend,
	}
}

// ExtractFeatures computes the fixed-shape feature snapshot for the
// primary account over the analysis window
func (e *featureExtractor) ExtractFeatures(
	transactions []entities.Transaction,
	accounts []entities.Account,
	window entities.AnalysisWindow,
) (*entities.UnderwritingFeatures, error) {
	primary, err := selectPrimaryAccount(accounts)
	if err != nil {
		return nil, err
	}

	// Restrict analysis to settled transactions on the primary account
	// inside the window
	analyzed := make([]entities.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.AccountID != primary.AccountID || tx.Pending {
			continue
		}
		if !window.Contains(tx.Date) {
			continue
		}
		analyzed = append(analyzed, tx)
	}
	sort.Slice(analyzed, func(i, j int) bool {
		return analyzed[i].Date.Before(analyzed[j].Date)
	})

	features := &entities.UnderwritingFeatures{
		CurrentBalance:       primary.Balances.Current,
		Window:               window,
		TransactionsAnalyzed: len(analyzed),
		PrimaryAccountID:     primary.AccountID,
		PrimaryAccountType:   primary.Type,
	}

	e.analyzeTransactions(features, analyzed, primary.Balances.Current)

	features.LenderPayments = e.detector.Detect(analyzed)
	features.EstimatedPositionCount = len(features.LenderPayments)
	features.Trend = e.trend.Analyze(analyzed)
	features.DepositConsistency = e.trend.DepositConsistency(analyzed)

	log.WithFields(log.Fields{
		"accountID":    features.PrimaryAccountID,
		"transactions": features.TransactionsAnalyzed,
		"adb":          features.AverageDailyBalance,
		"nsfCount":     features.NSFCount,
		"positions":    features.EstimatedPositionCount,
		"trend":        features.Trend.Direction,
	}).Debug("Extracted underwriting features")

	return features, nil
}

// selectPrimaryAccount prefers the first depository checking account,
// then falls back to the first account in feed order
func selectPrimaryAccount(accounts []entities.Account) (*entities.Account, error) {
	if len(accounts) == 0 {
		return nil, fmt.Errorf("selecting primary account: %w", entities.ErrNoSuitableAccount)
	}
	for i := range accounts {
		if accounts[i].IsChecking() {
			return &accounts[i], nil
		}
	}
	return &accounts[0], nil
}

// analyzeTransactions replays the transaction history against the known
// current balance to reconstruct a daily balance series, then derives
// balance, NSF, and deposit features from it
func (e *featureExtractor) analyzeTransactions(
	features *entities.UnderwritingFeatures,
	transactions []entities.Transaction,
	currentBalance float64,
) {
	window := features.Window
	totalDays := window.TotalDays()

	// Net balance change per day. Provider amounts are signed with
	// negative = inflow, so the balance delta is the negated amount.
	dailyChange := make(map[string]float64)
	var totalDeposits float64
	var lastDeposit time.Time

	for i := range transactions {
		tx := &transactions[i]
		day := tx.Date.Format("2006-01-02")
		dailyChange[day] += -tx.Amount

		if e.classifier.IsDeposit(tx) {
			totalDeposits += tx.InflowAmount()
			if tx.Date.After(lastDeposit) {
				lastDeposit = tx.Date
			}
		}
		if e.classifier.IsNSFFee(tx) {
			features.NSFCount++
			features.NSFFeeTotal += tx.Amount
		}
	}

	// Walk backward from the window end, where the balance is known, to
	// reconstruct the series oldest-first
	series := make([]float64, totalDays)
	balance := currentBalance
	for i := totalDays - 1; i >= 0; i-- {
		series[i] = balance
		day := window.Start.AddDate(0, 0, i).Format("2006-01-02")
		balance -= dailyChange[day]
	}

	features.MinDailyBalance = series[0]
	features.MaxDailyBalance = series[0]
	var sum float64
	for _, b := range series {
		sum += b
		if b < features.MinDailyBalance {
			features.MinDailyBalance = b
		}
		if b > features.MaxDailyBalance {
			features.MaxDailyBalance = b
		}
		if b < 0 {
			features.NegativeDays++
		}
	}
	features.AverageDailyBalance = sum / float64(totalDays)
	features.NegativeDaysPercentage = utils.ClampScore(float64(features.NegativeDays) / float64(totalDays) * 100)

	features.TotalDeposits = totalDeposits
	features.AverageMonthlyDeposits = totalDeposits / (float64(totalDays) / daysPerMonth)

	if lastDeposit.IsZero() {
		features.DaysSinceLastDeposit = totalDays
	} else {
		features.DaysSinceLastDeposit = int(window.End.Sub(lastDeposit).Hours() / 24)
	}
}
