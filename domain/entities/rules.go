package entities

import "fmt"

// TierThresholds is one row of the qualification rule table: the minimum
// bar a feature snapshot must clear to earn the tier
type TierThresholds struct {
	MinADB                  float64
	MaxNSF                  int
	MaxNegativeDaysPct      float64
	MaxPositions            int
	MinTimeInBusinessMonths int
	MinMonthlyRevenue       float64
	MinDepositConsistency   float64
	FactorRate              float64
	MaxFundingMultiple      float64
}

// QualificationRules is the injectable per-tenant rule configuration.
// Treat as immutable once constructed; the engine swaps whole rule sets,
// never individual fields.
type QualificationRules struct {
	Tiers map[Tier]TierThresholds
}

// Fixed per-tier funding caps, applied after the revenue multiple
var tierFundingCaps = map[Tier]float64{
	TierA:       500000,
	TierB:       250000,
	TierC:       150000,
	TierD:       75000,
	TierDecline: 0,
}

// FundingCap returns the hard funding ceiling for a tier
func FundingCap(tier Tier) float64 {
	return tierFundingCaps[tier]
}

// DefaultQualificationRules returns the standard MCA rule table. Tenants
// override by constructing their own QualificationRules value.
func DefaultQualificationRules() QualificationRules {
	return QualificationRules{
		Tiers: map[Tier]TierThresholds{
			TierA: {
				MinADB:                  15000,
				MaxNSF:                  0,
				MaxNegativeDaysPct:      2,
				MaxPositions:            0,
				MinTimeInBusinessMonths: 24,
				MinMonthlyRevenue:       50000,
				MinDepositConsistency:   75,
				FactorRate:              1.15,
				MaxFundingMultiple:      1.5,
			},
			TierB: {
				MinADB:                  7500,
				MaxNSF:                  3,
				MaxNegativeDaysPct:      5,
				MaxPositions:            1,
				MinTimeInBusinessMonths: 12,
				MinMonthlyRevenue:       30000,
				MinDepositConsistency:   60,
				FactorRate:              1.25,
				MaxFundingMultiple:      1.2,
			},
			TierC: {
				MinADB:                  3000,
				MaxNSF:                  6,
				MaxNegativeDaysPct:      12,
				MaxPositions:            2,
				MinTimeInBusinessMonths: 6,
				MinMonthlyRevenue:       15000,
				MinDepositConsistency:   40,
				FactorRate:              1.35,
				MaxFundingMultiple:      1.0,
			},
			TierD: {
				MinADB:                  1500,
				MaxNSF:                  10,
				MaxNegativeDaysPct:      20,
				MaxPositions:            3,
				MinTimeInBusinessMonths: 3,
				MinMonthlyRevenue:       8000,
				MinDepositConsistency:   25,
				FactorRate:              1.45,
				MaxFundingMultiple:      0.8,
			},
		},
	}
}

// Thresholds returns the rule row for a tier
func (r QualificationRules) Thresholds(tier Tier) TierThresholds {
	return r.Tiers[tier]
}

// FactorRate returns the suggested buy rate for a tier. Rate is a pure
// function of tier; Decline carries no rate.
func (r QualificationRules) FactorRate(tier Tier) float64 {
	if !tier.IsFundable() {
		return 0
	}
	return r.Tiers[tier].FactorRate
}

// Validate checks the rule table for malformed configuration
func (r QualificationRules) Validate() error {
	fundable := []Tier{TierA, TierB, TierC, TierD}
	for _, tier := range fundable {
		t, ok := r.Tiers[tier]
		if !ok {
			return fmt.Errorf("qualification rules missing tier %s", tier)
		}
		if t.MinADB < 0 || t.MinMonthlyRevenue < 0 || t.MaxNegativeDaysPct < 0 {
			return fmt.Errorf("tier %s has negative threshold values", tier)
		}
		if t.MaxNSF < 0 || t.MaxPositions < 0 || t.MinTimeInBusinessMonths < 0 {
			return fmt.Errorf("tier %s has negative threshold values", tier)
		}
		if t.FactorRate < 1.0 {
			return fmt.Errorf("tier %s factor rate %.2f must be at least 1.0", tier, t.FactorRate)
		}
		if t.MaxFundingMultiple <= 0 {
			return fmt.Errorf("tier %s funding multiple must be positive", tier)
		}
	}

	// Tier ordering: each tier's bar must be no stricter than the one above it
	a, b, c, d := r.Tiers[TierA], r.Tiers[TierB], r.Tiers[TierC], r.Tiers[TierD]
	if b.MinADB > a.MinADB || c.MinADB > b.MinADB || d.MinADB > c.MinADB {
		return fmt.Errorf("tier MinADB thresholds must be non-increasing from A to D")
	}
	if a.MaxNSF > b.MaxNSF || b.MaxNSF > c.MaxNSF || c.MaxNSF > d.MaxNSF {
		return fmt.Errorf("tier MaxNSF thresholds must be non-decreasing from A to D")
	}
	return nil
}
