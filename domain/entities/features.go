package entities

import "time"

// PaymentFrequency represents how often a recurring lender debit occurs
type PaymentFrequency string

const (
	FrequencyDaily   PaymentFrequency = "daily"
	FrequencyWeekly  PaymentFrequency = "weekly"
	FrequencyMonthly PaymentFrequency = "monthly"
)

// TrendDirection classifies the revenue trajectory over the analysis window
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendStable     TrendDirection = "stable"
	TrendDecreasing TrendDirection = "decreasing"
	TrendVolatile   TrendDirection = "volatile"
)

// LenderPayment represents a detected recurring debit to a known lender.
// Derived during extraction; never persisted by this core.
type LenderPayment struct {
	LenderName string
	Amounts    []float64
	Frequency  PaymentFrequency
	Confidence float64 // 0-1
}

// EstimatedMonthlyAmount converts the observed payment cadence into an
// approximate monthly debit total
func (lp *LenderPayment) EstimatedMonthlyAmount() float64 {
	if len(lp.Amounts) == 0 {
		return 0
	}
	var sum float64
	for _, a := range lp.Amounts {
		sum += a
	}
	avg := sum / float64(len(lp.Amounts))

	switch lp.Frequency {
	case FrequencyDaily:
		return avg * 21 // business days
	case FrequencyWeekly:
		return avg * 4.33
	default:
		return avg
	}
}

// MonthlyRevenue is one month's deposit bucket in the revenue trend breakdown
type MonthlyRevenue struct {
	Month        string // YYYY-MM
	TotalDeposit float64
	DepositCount int
}

// RevenueTrend summarizes the deposit trajectory over the analysis window
type RevenueTrend struct {
	Direction        TrendDirection
	PercentChange    float64
	SeasonalityScore float64 // 0-100, normalized coefficient of variation
	Months           []MonthlyRevenue
}

// UnderwritingFeatures is the fixed-shape snapshot computed from a bank
// feed. It is a value object: computed once per extraction and never
// mutated afterward.
type UnderwritingFeatures struct {
	// Balance features
	AverageDailyBalance float64
	MinDailyBalance     float64
	MaxDailyBalance     float64
	CurrentBalance      float64

	// NSF features
	NSFCount    int
	NSFFeeTotal float64

	// Negative balance features
	NegativeDays           int
	NegativeDaysPercentage float64

	// Position features
	LenderPayments         []LenderPayment
	EstimatedPositionCount int

	// Revenue features
	Trend                  RevenueTrend
	TotalDeposits          float64
	AverageMonthlyDeposits float64
	DepositConsistency     float64 // 0-100
	DaysSinceLastDeposit   int

	// Analysis metadata
	Window               AnalysisWindow
	TransactionsAnalyzed int
	PrimaryAccountID     string
	PrimaryAccountType   AccountType
}

// EstimatedMonthlyDebtService sums the estimated monthly amounts across
// all detected lender payments
func (f *UnderwritingFeatures) EstimatedMonthlyDebtService() float64 {
	var total float64
	for i := range f.LenderPayments {
		total += f.LenderPayments[i].EstimatedMonthlyAmount()
	}
	return total
}

// HasRecentDeposits returns true if a deposit landed within the trailing
// two weeks of the window
func (f *UnderwritingFeatures) HasRecentDeposits() bool {
	return f.DaysSinceLastDeposit >= 0 && f.DaysSinceLastDeposit <= 14
}

// ComputedAtWindowEnd returns the window end as the snapshot's effective
// as-of time
func (f *UnderwritingFeatures) ComputedAtWindowEnd() time.Time {
	return f.Window.End
}
