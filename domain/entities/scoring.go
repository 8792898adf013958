package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Grade is the composite priority grade used for outreach ranking.
// Distinct in purpose from the qualification tier: the grade ranks
// prospects for outbound contact, the tier governs funding terms.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// SentimentTrend classifies the direction of recent review sentiment
type SentimentTrend string

const (
	SentimentImproving SentimentTrend = "improving"
	SentimentStable    SentimentTrend = "stable"
	SentimentDeclining SentimentTrend = "declining"
)

// FilingsTrend classifies the direction of recent UCC filing activity
type FilingsTrend string

const (
	FilingsIncreasing FilingsTrend = "increasing"
	FilingsStable     FilingsTrend = "stable"
	FilingsDecreasing FilingsTrend = "decreasing"
)

// UCCActivity holds the UCC filing history signals that drive intent scoring
type UCCActivity struct {
	DaysSinceLastFiling int
	TotalFilings        int
	ActiveFilings       int
	LapsedFilings       int
	TerminatedFilings   int
	RecentFilingsTrend  FilingsTrend
}

// BusinessHealthSignals holds the public-footprint signals that drive
// health scoring
type BusinessHealthSignals struct {
	AverageRating   float64 // 0-5, 0 when unknown
	ReviewCount     int
	Sentiment       SentimentTrend
	ViolationCount  int
	YearsInBusiness float64
	HasWebsite      bool
	HasSocialMedia  bool
}

// PositionSignals holds the debt-stacking signals that drive position scoring
type PositionSignals struct {
	ActiveUCCCount           int
	KnownMCAPositions        int
	EstimatedMonthlyPayments float64
	EstimatedRevenue         float64
}

// ProspectSignals aggregates the three signal groups for one prospect
type ProspectSignals struct {
	Intent   UCCActivity
	Health   BusinessHealthSignals
	Position PositionSignals
	Industry string
	State    string
}

// Prospect identifies a scoring target in the platform
type Prospect struct {
	ID           uuid.UUID
	BusinessName string
	Signals      ProspectSignals
}

// ScoringFactor records one named contribution to a composite score
type ScoringFactor struct {
	Name   string
	Score  float64 // 0-100
	Weight float64
	Detail string
}

// ScoringResult is the composite priority score for a prospect
type ScoringResult struct {
	IntentScore    float64 // 0-100
	HealthScore    float64 // 0-100
	PositionScore  float64 // 0-100
	CompositeScore float64 // 0-100
	Grade          Grade
	Confidence     float64 // 0-100
	Factors        []ScoringFactor
	Recommendation string
	ScoredAt       time.Time
}

// ProspectScore pairs a batch scoring outcome with its prospect. Err is
// set when an individual prospect could not be scored; one prospect's
// failure never aborts the batch.
type ProspectScore struct {
	ProspectID uuid.UUID
	Result     *ScoringResult
	Err        error
}

// ScoringConfig is the injectable scoring configuration: sub-score
// weights plus industry and state risk modifiers. Treat as immutable
// once constructed.
type ScoringConfig struct {
	IntentWeight   float64
	HealthWeight   float64
	PositionWeight float64

	// Multiplicative modifiers applied to the weighted composite.
	// Missing keys default to 1.0.
	IndustryModifiers map[string]float64
	StateModifiers    map[string]float64
}

// DefaultScoringConfig returns the standard scoring configuration
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		IntentWeight:   0.40,
		HealthWeight:   0.25,
		PositionWeight: 0.35,
		IndustryModifiers: map[string]float64{
			"restaurant":   0.90,
			"trucking":     0.85,
			"construction": 0.95,
			"medical":      1.05,
			"retail":       1.00,
		},
		StateModifiers: map[string]float64{
			"CA": 0.95,
			"NY": 0.95,
			"UT": 1.00,
			"VA": 1.00,
		},
	}
}

// IndustryModifier returns the risk modifier for an industry, defaulting
// to 1.0 for unknown industries
func (c ScoringConfig) IndustryModifier(industry string) float64 {
	if m, ok := c.IndustryModifiers[industry]; ok {
		return m
	}
	return 1.0
}

// StateModifier returns the risk modifier for a state, defaulting to 1.0
func (c ScoringConfig) StateModifier(state string) float64 {
	if m, ok := c.StateModifiers[state]; ok {
		return m
	}
	return 1.0
}

// Validate checks the scoring configuration for malformed input
func (c ScoringConfig) Validate() error {
	if c.IntentWeight < 0 || c.HealthWeight < 0 || c.PositionWeight < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	total := c.IntentWeight + c.HealthWeight + c.PositionWeight
	if total < 0.99 || total > 1.01 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.2f", total)
	}
	for industry, m := range c.IndustryModifiers {
		if m <= 0 {
			return fmt.Errorf("industry modifier for %q must be positive", industry)
		}
	}
	for state, m := range c.StateModifiers {
		if m <= 0 {
			return fmt.Errorf("state modifier for %q must be positive", state)
		}
	}
	return nil
}
