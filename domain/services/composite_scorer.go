package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"underwriter/domain/entities"
	"underwriter/domain/interfaces"
	"underwriter/domain/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// compositeScorer combines intent, health, and position signals into a
// priority grade for outreach ranking. Configuration is swapped whole
// via UpdateConfig; in-flight scoring always reads a consistent snapshot.
type compositeScorer struct {
	config          atomic.Pointer[entities.ScoringConfig]
	contextProvider interfaces.ProspectContextProvider
}

// NewCompositeScorer creates a scoring service. The context provider is
// optional; when present it enriches prospects with the latest signals,
// and its failures are defaulted, never propagated.
func NewCompositeScorer(
	config entities.ScoringConfig,
	contextProvider interfaces.ProspectContextProvider,
) (interfaces.ScoringService, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	scorer := &compositeScorer{contextProvider: contextProvider}
	scorer.config.Store(&config)
	return scorer, nil
}

// UpdateConfig validates and atomically replaces the scoring configuration
func (s *compositeScorer) UpdateConfig(config entities.ScoringConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid scoring config: %w", err)
	}
	s.config.Store(&config)
	log.Info("Scoring config replaced")
	return nil
}

// ScoreProspect computes the composite priority score for one prospect
func (s *compositeScorer) ScoreProspect(ctx context.Context, prospect entities.Prospect) (*entities.ScoringResult, error) {
	if prospect.ID == uuid.Nil {
		return nil, fmt.Errorf("prospect ID is required")
	}
	config := *s.config.Load()
	signals := s.resolveSignals(ctx, prospect)

	intent := calculateIntentScore(signals.Intent)
	health := calculateHealthScore(signals.Health)
	position := calculatePositionScore(signals.Position)

	industryMod := config.IndustryModifier(signals.Industry)
	stateMod := config.StateModifier(signals.State)
	composite := calculateCompositeScore(config, intent, health, position, industryMod, stateMod)
	grade := getGrade(composite)

	result := &entities.ScoringResult{
		IntentScore:    intent,
		HealthScore:    health,
		PositionScore:  position,
		CompositeScore: composite,
		Grade:          grade,
		Confidence:     scoringConfidence(signals),
		Recommendation: recommendationFor(grade),
		ScoredAt:       time.Now().UTC(),
		Factors: []entities.ScoringFactor{
			{Name: "intent", Score: intent, Weight: config.IntentWeight,
				Detail: fmt.Sprintf("%d filings, last %d days ago", signals.Intent.TotalFilings, signals.Intent.DaysSinceLastFiling)},
			{Name: "health", Score: health, Weight: config.HealthWeight,
				Detail: fmt.Sprintf("rating %.1f over %d reviews", signals.Health.AverageRating, signals.Health.ReviewCount)},
			{Name: "position", Score: position, Weight: config.PositionWeight,
				Detail: fmt.Sprintf("%d active UCCs, %d known MCA positions", signals.Position.ActiveUCCCount, signals.Position.KnownMCAPositions)},
		},
	}
	return result, nil
}

// ScoreProspects scores each prospect independently. A failure on one
// item is recorded on that item and never aborts the rest of the batch.
func (s *compositeScorer) ScoreProspects(ctx context.Context, prospects []entities.Prospect) []entities.ProspectScore {
	scores := make([]entities.ProspectScore, 0, len(prospects))
	for _, prospect := range prospects {
		result, err := s.ScoreProspect(ctx, prospect)
		if err != nil {
			log.WithError(err).WithField("prospectID", prospect.ID).Warn("Failed to score prospect")
		}
		scores = append(scores, entities.ProspectScore{
			ProspectID: prospect.ID,
			Result:     result,
			Err:        err,
		})
	}
	return scores
}

// resolveSignals returns the freshest signals available for a prospect.
// Context lookups are best-effort: any failure falls back to the signals
// carried on the prospect itself.
func (s *compositeScorer) resolveSignals(ctx context.Context, prospect entities.Prospect) entities.ProspectSignals {
	if s.contextProvider == nil {
		return prospect.Signals
	}
	fetched, err := s.contextProvider.GetProspectSignals(ctx, prospect.ID)
	if err != nil || fetched == nil {
		log.WithField("prospectID", prospect.ID).Debug("Prospect signal lookup unavailable, using embedded signals")
		return prospect.Signals
	}
	return *fetched
}

// Intent sub-score weights
const (
	intentRecencyWeight = 0.5
	intentVolumeWeight  = 0.3
	intentPatternWeight = 0.2
)

// calculateIntentScore scores UCC filing activity as a proxy for funding
// intent: recent filings, a moderate filing count, and a pattern of
// retired positions all read as active borrowing appetite
func calculateIntentScore(activity entities.UCCActivity) float64 {
	recency := filingRecencyScore(activity.DaysSinceLastFiling)
	volume := filingVolumeScore(activity.TotalFilings)
	pattern := filingPatternScore(activity)

	score := intentRecencyWeight*recency + intentVolumeWeight*volume + intentPatternWeight*pattern

	switch activity.RecentFilingsTrend {
	case entities.FilingsIncreasing:
		score += 10
	case entities.FilingsDecreasing:
		score -= 5
	}
	return utils.ClampScore(score)
}

// filingRecencyScore decays through linear segments from 100 at 30 days
// toward a floor of 10 beyond one year
func filingRecencyScore(days int) float64 {
	d := float64(days)
	switch {
	case days <= 30:
		return 100
	case days <= 90:
		return 100 - (d-30)*0.5 // 100 -> 70
	case days <= 180:
		return 70 - (d-90)/3 // 70 -> 40
	case days <= 365:
		return 40 - (d-180)*25/185 // 40 -> 15
	default:
		return 10
	}
}

// filingVolumeScore peaks for 1-3 filings and decays beyond
func filingVolumeScore(total int) float64 {
	switch {
	case total <= 0:
		return 20
	case total <= 3:
		return 100
	case total <= 6:
		return 70
	case total <= 10:
		return 40
	default:
		return 20
	}
}

// filingPatternScore rewards a high terminated ratio (positions paid off)
// and penalizes a high active ratio (positions still outstanding)
func filingPatternScore(activity entities.UCCActivity) float64 {
	if activity.TotalFilings <= 0 {
		return 50
	}
	total := float64(activity.TotalFilings)
	terminatedRatio := float64(activity.TerminatedFilings) / total
	activeRatio := float64(activity.ActiveFilings) / total
	return utils.ClampScore(50 + terminatedRatio*50 - activeRatio*30)
}

// calculateHealthScore scores the public business footprint from a base
// of 70
func calculateHealthScore(health entities.BusinessHealthSignals) float64 {
	score := 70.0

	if health.ReviewCount > 0 && health.AverageRating > 0 {
		reviewConfidence := float64(health.ReviewCount) / 20
		if reviewConfidence > 1 {
			reviewConfidence = 1
		}
		score += (health.AverageRating - 3.0) * 10 * reviewConfidence
	}

	switch health.Sentiment {
	case entities.SentimentImproving:
		score += 5
	case entities.SentimentDeclining:
		score -= 10
	}

	score -= float64(health.ViolationCount) * 5

	switch {
	case health.YearsInBusiness >= 5:
		score += 10
	case health.YearsInBusiness >= 2:
		score += 5
	case health.YearsInBusiness < 1:
		score -= 10
	}

	if health.HasWebsite {
		score += 3
	}
	if health.HasSocialMedia {
		score += 2
	}
	return utils.ClampScore(score)
}

// calculatePositionScore starts from 100 and subtracts for debt stacking:
// active UCCs, known MCA positions, and the payment burden ratio
func calculatePositionScore(position entities.PositionSignals) float64 {
	score := 100.0

	uccPenalty := float64(position.ActiveUCCCount) * 15
	if uccPenalty > 60 {
		uccPenalty = 60
	}
	score -= uccPenalty
	score -= float64(position.KnownMCAPositions) * 10
	score -= paymentBurdenPenalty(position)

	return utils.ClampScore(score)
}

// paymentBurdenPenalty brackets estimated monthly payments against
// estimated revenue. Unknown revenue with nonzero payments reads as the
// worst bracket.
func paymentBurdenPenalty(position entities.PositionSignals) float64 {
	if position.EstimatedMonthlyPayments <= 0 {
		return 0
	}
	if position.EstimatedRevenue <= 0 {
		return 30
	}
	ratio := position.EstimatedMonthlyPayments / position.EstimatedRevenue
	switch {
	case ratio > 0.25:
		return 30
	case ratio > 0.15:
		return 15
	case ratio > 0.10:
		return 5
	default:
		return 0
	}
}

// calculateCompositeScore combines the weighted sub-scores and applies
// the industry and state modifiers, clamped to 0-100. Monotonic in each
// sub-score when both modifiers are 1.0.
func calculateCompositeScore(config entities.ScoringConfig, intent, health, position, industryMod, stateMod float64) float64 {
	weighted := config.IntentWeight*intent + config.HealthWeight*health + config.PositionWeight*position
	return utils.ClampScore(weighted * industryMod * stateMod)
}

// getGrade maps a composite score onto the fixed grade bands
func getGrade(score float64) entities.Grade {
	switch {
	case score >= 80:
		return entities.GradeA
	case score >= 65:
		return entities.GradeB
	case score >= 50:
		return entities.GradeC
	case score >= 35:
		return entities.GradeD
	default:
		return entities.GradeF
	}
}

// scoringConfidence reflects how many signal groups carried real data
func scoringConfidence(signals entities.ProspectSignals) float64 {
	confidence := 40.0
	if signals.Intent.TotalFilings > 0 {
		confidence += 20
	}
	if signals.Health.ReviewCount > 0 {
		confidence += 20
	}
	if signals.Health.YearsInBusiness > 0 {
		confidence += 10
	}
	if signals.Position.EstimatedRevenue > 0 {
		confidence += 10
	}
	return utils.ClampScore(confidence)
}

// recommendationFor maps a grade onto the outreach recommendation label
func recommendationFor(grade entities.Grade) string {
	switch grade {
	case entities.GradeA:
		return "priority_outreach"
	case entities.GradeB:
		return "standard_outreach"
	case entities.GradeC:
		return "nurture"
	case entities.GradeD:
		return "low_priority"
	default:
		return "suppress"
	}
}
