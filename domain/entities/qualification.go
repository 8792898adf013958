package entities

import "time"

// Tier is the qualification bucket, from best terms (A) down to Decline
type Tier string

const (
	TierA       Tier = "A"
	TierB       Tier = "B"
	TierC       Tier = "C"
	TierD       Tier = "D"
	TierDecline Tier = "Decline"
)

// IsFundable returns true if the tier carries a funding envelope
func (t Tier) IsFundable() bool {
	return t != TierDecline && t != ""
}

// FactorResult is the outcome of a single qualification factor check
type FactorResult string

const (
	FactorPass    FactorResult = "pass"
	FactorWarning FactorResult = "warning"
	FactorFail    FactorResult = "fail"
)

// Qualification factor names, in the fixed order they are evaluated
const (
	FactorAverageDailyBalance = "average_daily_balance"
	FactorNSFCount            = "nsf_count"
	FactorNegativeDays        = "negative_days"
	FactorExistingPositions   = "existing_positions"
	FactorTimeInBusiness      = "time_in_business"
	FactorMonthlyRevenue      = "monthly_revenue"
	FactorDepositConsistency  = "deposit_consistency"
	FactorRevenueTrend        = "revenue_trend"
)

// QualificationReason records how one factor evaluated against the rules
type QualificationReason struct {
	Factor    string
	Result    FactorResult
	Message   string
	Value     float64
	Threshold float64
}

// QualificationContext carries business metadata that accompanies the
// bank-derived features into qualification
type QualificationContext struct {
	TimeInBusinessMonths int
	RequestedAmount      float64
	Industry             string
	State                string
}

// QualificationResult is the full outcome of a qualification evaluation.
// A decline is ordinary result data, never an error.
type QualificationResult struct {
	Qualified             bool
	Tier                  Tier
	Reasons               []QualificationReason
	MaxAmount             float64
	MinAmount             float64
	SuggestedRate         float64
	SuggestedTermMonths   int
	EstimatedDailyPayment float64
	RiskScore             float64 // 0-100, higher is riskier
	Confidence            float64 // 0-100
	Warnings              []string
	QualifiedAt           time.Time
}

// FailedFactors returns the names of all factors that evaluated to fail
func (r *QualificationResult) FailedFactors() []string {
	var failed []string
	for _, reason := range r.Reasons {
		if reason.Result == FactorFail {
			failed = append(failed, reason.Factor)
		}
	}
	return failed
}

// ReasonFor returns the evaluated reason for a named factor, or nil
func (r *QualificationResult) ReasonFor(factor string) *QualificationReason {
	for i := range r.Reasons {
		if r.Reasons[i].Factor == factor {
			return &r.Reasons[i]
		}
	}
	return nil
}
