package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"underwriter/domain/entities"
	"underwriter/domain/interfaces"
	"underwriter/domain/utils"

	log "github.com/sirupsen/logrus"
)

const (
	// Default trailing window used by the bank-access convenience path
	defaultAnalysisDays = 180

	// Business days per month, used for daily payment estimation
	businessDaysPerMonth = 21

	// Floor and fraction for the minimum funding amount
	minFundingFloor    = 5000.0
	minFundingFraction = 0.1
)

// Base term months per tier, before amount-driven escalation
var tierBaseTermMonths = map[entities.Tier]int{
	entities.TierA: 12,
	entities.TierB: 9,
	entities.TierC: 6,
	entities.TierD: 4,
}

// qualificationEngine evaluates feature snapshots against the tiered
// rule tables. Rules are swapped whole via UpdateRules; evaluations
// always read a consistent snapshot.
type qualificationEngine struct {
	rules     atomic.Pointer[entities.QualificationRules]
	extractor interfaces.FeatureExtractionService
	provider  interfaces.BankDataProvider
}

// NewQualificationEngine creates a qualification service with the given
// rule table. The provider may be nil when the bank-access convenience
// path is not needed.
func NewQualificationEngine(
	rules entities.QualificationRules,
	extractor interfaces.FeatureExtractionService,
	provider interfaces.BankDataProvider,
) (interfaces.QualificationService, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid qualification rules: %w", err)
	}
	engine := &qualificationEngine{
		extractor: extractor,
		provider:  provider,
	}
	engine.rules.Store(&rules)
	return engine, nil
}

// UpdateRules validates and atomically replaces the entire rule table
func (e *qualificationEngine) UpdateRules(rules entities.QualificationRules) error {
	if err := rules.Validate(); err != nil {
		return fmt.Errorf("invalid qualification rules: %w", err)
	}
	e.rules.Store(&rules)
	log.Info("Qualification rules replaced")
	return nil
}

// Qualify evaluates the 8 qualification factors in fixed order and
// derives the tier, funding envelope, and scores. A decline is ordinary
// output, never an error.
func (e *qualificationEngine) Qualify(
	features *entities.UnderwritingFeatures,
	qctx entities.QualificationContext,
) (*entities.QualificationResult, error) {
	if features == nil {
		return nil, fmt.Errorf("features snapshot is required")
	}
	rules := *e.rules.Load()

	reasons := []entities.QualificationReason{
		evaluateMinimumFactor(rules, entities.FactorAverageDailyBalance,
			features.AverageDailyBalance,
			func(t entities.TierThresholds) float64 { return t.MinADB },
			"average daily balance"),
		evaluateMaximumFactor(rules, entities.FactorNSFCount,
			float64(features.NSFCount),
			func(t entities.TierThresholds) float64 { return float64(t.MaxNSF) },
			"NSF events"),
		evaluateMaximumFactor(rules, entities.FactorNegativeDays,
			features.NegativeDaysPercentage,
			func(t entities.TierThresholds) float64 { return t.MaxNegativeDaysPct },
			"negative balance days"),
		evaluateMaximumFactor(rules, entities.FactorExistingPositions,
			float64(features.EstimatedPositionCount),
			func(t entities.TierThresholds) float64 { return float64(t.MaxPositions) },
			"existing funding positions"),
		evaluateMinimumFactor(rules, entities.FactorTimeInBusiness,
			float64(qctx.TimeInBusinessMonths),
			func(t entities.TierThresholds) float64 { return float64(t.MinTimeInBusinessMonths) },
			"months in business"),
		evaluateMinimumFactor(rules, entities.FactorMonthlyRevenue,
			features.AverageMonthlyDeposits,
			func(t entities.TierThresholds) float64 { return t.MinMonthlyRevenue },
			"average monthly revenue"),
		evaluateMinimumFactor(rules, entities.FactorDepositConsistency,
			features.DepositConsistency,
			func(t entities.TierThresholds) float64 { return t.MinDepositConsistency },
			"deposit consistency"),
		evaluateTrendFactor(features.Trend.Direction),
	}

	tier := determineTier(reasons)
	rate := rules.FactorRate(tier)
	maxAmount := calculateMaxFunding(rules, tier, features.AverageMonthlyDeposits)
	term := suggestTerm(tier, maxAmount)

	result := &entities.QualificationResult{
		Qualified:           tier.IsFundable(),
		Tier:                tier,
		Reasons:             reasons,
		MaxAmount:           maxAmount,
		SuggestedRate:       rate,
		SuggestedTermMonths: term,
		RiskScore:           calculateRiskScore(reasons, features),
		Confidence:          calculateConfidence(features),
		QualifiedAt:         time.Now().UTC(),
	}

	if tier.IsFundable() && maxAmount > 0 {
		minAmount := maxAmount * minFundingFraction
		if minAmount < minFundingFloor {
			minAmount = minFundingFloor
		}
		if minAmount > maxAmount {
			minAmount = maxAmount
		}
		result.MinAmount = minAmount
		result.EstimatedDailyPayment = maxAmount * rate / float64(term*businessDaysPerMonth)
	}

	for _, reason := range reasons {
		if reason.Result == entities.FactorWarning {
			result.Warnings = append(result.Warnings, reason.Message)
		}
	}

	log.WithFields(log.Fields{
		"tier":       result.Tier,
		"qualified":  result.Qualified,
		"maxAmount":  result.MaxAmount,
		"riskScore":  result.RiskScore,
		"confidence": result.Confidence,
	}).Debug("Qualification evaluated")

	return result, nil
}

// QualifyWithBankAccess fetches the feed for an account reference and
// runs the pure extraction and qualification path on it
func (e *qualificationEngine) QualifyWithBankAccess(
	ctx context.Context,
	accountRef string,
	qctx entities.QualificationContext,
) (*entities.QualificationResult, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("no bank data provider configured")
	}
	feed, err := e.provider.FetchFeed(ctx, accountRef)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bank feed for %s: %w", accountRef, err)
	}

	end := feed.RetrievedAt
	if end.IsZero() {
		end = time.Now().UTC()
	}
	window := entities.WindowForLastDays(end, defaultAnalysisDays)

	features, err := e.extractor.ExtractFeatures(feed.Transactions, feed.Accounts, window)
	if err != nil {
		return nil, fmt.Errorf("failed to extract features for %s: %w", accountRef, err)
	}
	return e.Qualify(features, qctx)
}

// evaluateMinimumFactor checks a value that must meet or exceed the tier
// threshold: pass at the B bar, warning at the D bar, fail below all
func evaluateMinimumFactor(
	rules entities.QualificationRules,
	factor string,
	value float64,
	threshold func(entities.TierThresholds) float64,
	label string,
) entities.QualificationReason {
	passBar := threshold(rules.Thresholds(entities.TierB))
	warnBar := threshold(rules.Thresholds(entities.TierD))

	reason := entities.QualificationReason{
		Factor:    factor,
		Value:     value,
		Threshold: passBar,
	}
	switch {
	case value >= passBar:
		reason.Result = entities.FactorPass
		reason.Message = fmt.Sprintf("%s %.2f meets threshold %.2f", label, value, passBar)
	case value >= warnBar:
		reason.Result = entities.FactorWarning
		reason.Message = fmt.Sprintf("%s %.2f below preferred threshold %.2f", label, value, passBar)
	default:
		reason.Result = entities.FactorFail
		reason.Message = fmt.Sprintf("%s %.2f below minimum threshold %.2f", label, value, warnBar)
	}
	return reason
}

// evaluateMaximumFactor checks a value that must stay at or under the
// tier threshold: pass at the B bar, warning at the D bar, fail above all
func evaluateMaximumFactor(
	rules entities.QualificationRules,
	factor string,
	value float64,
	threshold func(entities.TierThresholds) float64,
	label string,
) entities.QualificationReason {
	passBar := threshold(rules.Thresholds(entities.TierB))
	warnBar := threshold(rules.Thresholds(entities.TierD))

	reason := entities.QualificationReason{
		Factor:    factor,
		Value:     value,
		Threshold: passBar,
	}
	switch {
	case value <= passBar:
		reason.Result = entities.FactorPass
		reason.Message = fmt.Sprintf("%s %.2f within threshold %.2f", label, value, passBar)
	case value <= warnBar:
		reason.Result = entities.FactorWarning
		reason.Message = fmt.Sprintf("%s %.2f above preferred threshold %.2f", label, value, passBar)
	default:
		reason.Result = entities.FactorFail
		reason.Message = fmt.Sprintf("%s %.2f above maximum threshold %.2f", label, value, warnBar)
	}
	return reason
}

// evaluateTrendFactor maps the revenue trend direction onto the factor
// result scale. An unknown direction reads as a warning, not a fail.
func evaluateTrendFactor(direction entities.TrendDirection) entities.QualificationReason {
	reason := entities.QualificationReason{Factor: entities.FactorRevenueTrend}
	switch direction {
	case entities.TrendIncreasing, entities.TrendStable:
		reason.Result = entities.FactorPass
		reason.Message = fmt.Sprintf("revenue trend is %s", direction)
	case entities.TrendVolatile:
		reason.Result = entities.FactorFail
		reason.Message = "revenue trend is volatile"
	case entities.TrendDecreasing:
		reason.Result = entities.FactorWarning
		reason.Message = "revenue trend is decreasing"
	default:
		reason.Result = entities.FactorWarning
		reason.Message = "revenue trend could not be determined"
	}
	return reason
}

// Critical factors: a fail on any of these is an immediate decline
var criticalFactors = map[string]bool{
	entities.FactorAverageDailyBalance: true,
	entities.FactorMonthlyRevenue:      true,
	entities.FactorNSFCount:            true,
}

// determineTier maps the 8 evaluated reasons onto a tier. Deterministic
// over the reason list; the decision order is binding.
func determineTier(reasons []entities.QualificationReason) entities.Tier {
	var fails, warnings, passes int
	for _, reason := range reasons {
		switch reason.Result {
		case entities.FactorFail:
			if criticalFactors[reason.Factor] {
				return entities.TierDecline
			}
			fails++
		case entities.FactorWarning:
			warnings++
		case entities.FactorPass:
			passes++
		}
	}

	if fails >= 2 {
		return entities.TierDecline
	}
	if fails == 1 {
		return entities.TierD
	}

	switch {
	case warnings == 0 && passes >= 7:
		return entities.TierA
	case warnings <= 1 && passes >= 6:
		return entities.TierB
	case warnings <= 3:
		return entities.TierC
	default:
		return entities.TierD
	}
}

// calculateMaxFunding applies the tier's revenue multiple, capped by the
// fixed per-tier funding ceiling
func calculateMaxFunding(rules entities.QualificationRules, tier entities.Tier, monthlyRevenue float64) float64 {
	if !tier.IsFundable() || monthlyRevenue <= 0 {
		return 0
	}
	amount := rules.Thresholds(tier).MaxFundingMultiple * monthlyRevenue
	if ceiling := entities.FundingCap(tier); amount > ceiling {
		amount = ceiling
	}
	return amount
}

// suggestTerm starts from the tier's base term and escalates it for
// larger amounts. The term is never reduced below the base.
func suggestTerm(tier entities.Tier, amount float64) int {
	term := tierBaseTermMonths[tier]
	switch {
	case amount > 200000 && term < 12:
		term = 12
	case amount > 100000 && term < 9:
		term = 9
	case amount > 50000 && term < 6:
		term = 6
	}
	return term
}

// calculateRiskScore adds fixed penalties per fail and warning plus
// feature-driven additives, clamped to 0-100
func calculateRiskScore(reasons []entities.QualificationReason, features *entities.UnderwritingFeatures) float64 {
	var score float64
	for _, reason := range reasons {
		switch reason.Result {
		case entities.FactorFail:
			score += 25
		case entities.FactorWarning:
			score += 10
		}
	}

	score += float64(features.NSFCount) * 3
	score += features.NegativeDaysPercentage * 0.5
	score += float64(features.EstimatedPositionCount) * 5

	switch features.Trend.Direction {
	case entities.TrendDecreasing:
		score += 10
	case entities.TrendVolatile:
		score += 15
	}

	return utils.ClampScore(score)
}

// calculateConfidence starts at 50 and adds fixed bonuses for data
// volume, window length, and deposit consistency, capped at 100
func calculateConfidence(features *entities.UnderwritingFeatures) float64 {
	confidence := 50.0

	switch {
	case features.TransactionsAnalyzed >= 500:
		confidence += 20
	case features.TransactionsAnalyzed >= 200:
		confidence += 15
	case features.TransactionsAnalyzed >= 100:
		confidence += 10
	}

	switch days := features.Window.TotalDays(); {
	case days >= 180:
		confidence += 15
	case days >= 90:
		confidence += 10
	case days >= 30:
		confidence += 5
	}

	switch {
	case features.DepositConsistency >= 75:
		confidence += 10
	case features.DepositConsistency >= 50:
		confidence += 5
	}

	return utils.ClampScore(confidence)
}
