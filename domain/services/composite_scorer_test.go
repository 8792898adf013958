package services

import (
	"context"
	"errors"
	"testing"

	"underwriter/domain/entities"
	"underwriter/domain/interfaces"
	"underwriter/domain/testhelpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScorer(t *testing.T, provider interfaces.ProspectContextProvider) *compositeScorer {
	t.Helper()
	service, err := NewCompositeScorer(entities.DefaultScoringConfig(), provider)
	require.NoError(t, err)
	return service.(*compositeScorer)
}

func TestGetGrade_BandBoundaries(t *testing.T) {
	assert.Equal(t, entities.GradeA, getGrade(80))
	assert.Equal(t, entities.GradeB, getGrade(79))
	assert.Equal(t, entities.GradeB, getGrade(65))
	assert.Equal(t, entities.GradeC, getGrade(64))
	assert.Equal(t, entities.GradeC, getGrade(50))
	assert.Equal(t, entities.GradeD, getGrade(49))
	assert.Equal(t, entities.GradeD, getGrade(35))
	assert.Equal(t, entities.GradeF, getGrade(34))
}

func TestCalculateIntentScore_RecentModerateFilingActivity(t *testing.T) {
	score := calculateIntentScore(entities.UCCActivity{
		DaysSinceLastFiling: 15,
		TotalFilings:        2,
		ActiveFilings:       1,
		LapsedFilings:       0,
		TerminatedFilings:   1,
		RecentFilingsTrend:  entities.FilingsStable,
	})
	assert.Greater(t, score, 80.0)
}

func TestCalculateIntentScore_TrendAdjustments(t *testing.T) {
	activity := entities.UCCActivity{
		DaysSinceLastFiling: 120,
		TotalFilings:        5,
		ActiveFilings:       2,
		TerminatedFilings:   3,
		RecentFilingsTrend:  entities.FilingsStable,
	}

	stable := calculateIntentScore(activity)

	activity.RecentFilingsTrend = entities.FilingsIncreasing
	assert.Equal(t, stable+10, calculateIntentScore(activity))

	activity.RecentFilingsTrend = entities.FilingsDecreasing
	assert.Equal(t, stable-5, calculateIntentScore(activity))
}

func TestCalculateIntentScore_StaleFilingsScoreLow(t *testing.T) {
	score := calculateIntentScore(entities.UCCActivity{
		DaysSinceLastFiling: 900,
		TotalFilings:        12,
		ActiveFilings:       10,
		RecentFilingsTrend:  entities.FilingsStable,
	})
	assert.Less(t, score, 40.0)
}

func TestCalculateHealthScore_UnknownBusinessDefaults(t *testing.T) {
	// No reviews, no history: base 70 minus the young-business penalty
	assert.Equal(t, 60.0, calculateHealthScore(entities.BusinessHealthSignals{}))
}

func TestCalculateHealthScore_EstablishedBusinessClampsAt100(t *testing.T) {
	score := calculateHealthScore(entities.BusinessHealthSignals{
		AverageRating:   4.5,
		ReviewCount:     40,
		Sentiment:       entities.SentimentImproving,
		YearsInBusiness: 6,
		HasWebsite:      true,
		HasSocialMedia:  true,
	})
	// 70 + 15 (rating at full review confidence) + 5 + 10 + 3 + 2 = 105, clamped
	assert.Equal(t, 100.0, score)
}

func TestCalculateHealthScore_ViolationsAndDecliningSentiment(t *testing.T) {
	score := calculateHealthScore(entities.BusinessHealthSignals{
		AverageRating:   2.0,
		ReviewCount:     20,
		Sentiment:       entities.SentimentDeclining,
		ViolationCount:  3,
		YearsInBusiness: 3,
	})
	// 70 - 10 (rating) - 10 (sentiment) - 15 (violations) + 5 (years)
	assert.Equal(t, 40.0, score)
}

func TestCalculatePositionScore_CleanProspectScores100(t *testing.T) {
	score := calculatePositionScore(entities.PositionSignals{
		ActiveUCCCount:           0,
		KnownMCAPositions:        0,
		EstimatedMonthlyPayments: 0,
		EstimatedRevenue:         50000,
	})
	assert.Equal(t, 100.0, score)
}

func TestCalculatePositionScore_StackedPositionsPenalized(t *testing.T) {
	score := calculatePositionScore(entities.PositionSignals{
		ActiveUCCCount:           2,
		KnownMCAPositions:        1,
		EstimatedMonthlyPayments: 20000,
		EstimatedRevenue:         50000,
	})
	// 100 - 30 (UCCs) - 10 (MCA) - 30 (burden ratio 0.40)
	assert.Equal(t, 30.0, score)

	// UCC penalty caps at 60
	capped := calculatePositionScore(entities.PositionSignals{ActiveUCCCount: 10})
	assert.Equal(t, 40.0, capped)
}

func TestPaymentBurdenPenalty_Brackets(t *testing.T) {
	penalty := func(payments, revenue float64) float64 {
		return paymentBurdenPenalty(entities.PositionSignals{
			EstimatedMonthlyPayments: payments,
			EstimatedRevenue:         revenue,
		})
	}

	assert.Equal(t, 0.0, penalty(0, 50000))
	assert.Equal(t, 0.0, penalty(4000, 50000))  // 8%
	assert.Equal(t, 5.0, penalty(6000, 50000))  // 12%
	assert.Equal(t, 15.0, penalty(10000, 50000)) // 20%
	assert.Equal(t, 30.0, penalty(20000, 50000)) // 40%
	assert.Equal(t, 30.0, penalty(5000, 0))      // unknown revenue, nonzero payments
}

func TestCalculateCompositeScore_MonotonicInSubScores(t *testing.T) {
	config := entities.DefaultScoringConfig()

	base := calculateCompositeScore(config, 50, 50, 50, 1.0, 1.0)
	assert.Greater(t, calculateCompositeScore(config, 60, 50, 50, 1.0, 1.0), base)
	assert.Greater(t, calculateCompositeScore(config, 50, 60, 50, 1.0, 1.0), base)
	assert.Greater(t, calculateCompositeScore(config, 50, 50, 60, 1.0, 1.0), base)
}

func TestCalculateCompositeScore_AppliesModifiers(t *testing.T) {
	config := entities.DefaultScoringConfig()

	unmodified := calculateCompositeScore(config, 80, 80, 80, 1.0, 1.0)
	assert.InDelta(t, 80.0, unmodified, 0.0001)

	discounted := calculateCompositeScore(config, 80, 80, 80, 0.9, 0.95)
	assert.InDelta(t, 80*0.9*0.95, discounted, 0.0001)
}

func TestScoreProspect_ProducesGradedResult(t *testing.T) {
	scorer := newTestScorer(t, nil)

	prospect := entities.Prospect{
		ID:           uuid.New(),
		BusinessName: "Desert Bloom Catering",
		Signals: entities.ProspectSignals{
			Intent: entities.UCCActivity{
				DaysSinceLastFiling: 20,
				TotalFilings:        2,
				TerminatedFilings:   2,
				RecentFilingsTrend:  entities.FilingsStable,
			},
			Health: entities.BusinessHealthSignals{
				AverageRating:   4.2,
				ReviewCount:     35,
				YearsInBusiness: 4,
				HasWebsite:      true,
			},
			Position: entities.PositionSignals{
				EstimatedRevenue: 60000,
			},
		},
	}

	result, err := scorer.ScoreProspect(context.Background(), prospect)
	require.NoError(t, err)

	assert.Equal(t, entities.GradeA, result.Grade)
	assert.Equal(t, "priority_outreach", result.Recommendation)
	assert.Len(t, result.Factors, 3)
	assert.GreaterOrEqual(t, result.CompositeScore, 0.0)
	assert.LessOrEqual(t, result.CompositeScore, 100.0)
	assert.Equal(t, 100.0, result.PositionScore)
	assert.False(t, result.ScoredAt.IsZero())
}

func TestScoreProspect_RequiresID(t *testing.T) {
	scorer := newTestScorer(t, nil)

	result, err := scorer.ScoreProspect(context.Background(), entities.Prospect{})
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestScoreProspect_ContextLookupFailureDefaultsToEmbeddedSignals(t *testing.T) {
	ctx := context.Background()
	prospectID := uuid.New()

	mockProvider := new(testhelpers.MockProspectContextProvider)
	mockProvider.On("GetProspectSignals", ctx, prospectID).Return(nil, errors.New("context service down"))

	withProvider := newTestScorer(t, mockProvider)
	without := newTestScorer(t, nil)

	prospect := entities.Prospect{
		ID: prospectID,
		Signals: entities.ProspectSignals{
			Intent: entities.UCCActivity{DaysSinceLastFiling: 15, TotalFilings: 2, TerminatedFilings: 1, ActiveFilings: 1},
			Position: entities.PositionSignals{EstimatedRevenue: 50000},
		},
	}

	got, err := withProvider.ScoreProspect(ctx, prospect)
	require.NoError(t, err)
	want, err := without.ScoreProspect(ctx, prospect)
	require.NoError(t, err)

	assert.Equal(t, want.CompositeScore, got.CompositeScore)
	assert.Equal(t, want.Grade, got.Grade)
	mockProvider.AssertExpectations(t)
}

func TestScoreProspect_ContextLookupEnrichesSignals(t *testing.T) {
	ctx := context.Background()
	prospectID := uuid.New()

	fresh := &entities.ProspectSignals{
		Intent:   entities.UCCActivity{DaysSinceLastFiling: 10, TotalFilings: 3, TerminatedFilings: 3},
		Health:   entities.BusinessHealthSignals{YearsInBusiness: 8},
		Position: entities.PositionSignals{EstimatedRevenue: 90000},
	}
	mockProvider := new(testhelpers.MockProspectContextProvider)
	mockProvider.On("GetProspectSignals", ctx, prospectID).Return(fresh, nil)

	scorer := newTestScorer(t, mockProvider)
	result, err := scorer.ScoreProspect(ctx, entities.Prospect{ID: prospectID})
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.PositionScore)
	mockProvider.AssertExpectations(t)
}

func TestScoreProspects_ContinuesPastIndividualFailures(t *testing.T) {
	scorer := newTestScorer(t, nil)

	good := entities.Prospect{
		ID: uuid.New(),
		Signals: entities.ProspectSignals{
			Intent:   entities.UCCActivity{DaysSinceLastFiling: 25, TotalFilings: 1, TerminatedFilings: 1},
			Position: entities.PositionSignals{EstimatedRevenue: 40000},
		},
	}
	bad := entities.Prospect{} // missing ID
	alsoGood := entities.Prospect{
		ID: uuid.New(),
		Signals: entities.ProspectSignals{
			Intent:   entities.UCCActivity{DaysSinceLastFiling: 400, TotalFilings: 15, ActiveFilings: 12},
			Position: entities.PositionSignals{ActiveUCCCount: 5, KnownMCAPositions: 2},
		},
	}

	scores := scorer.ScoreProspects(context.Background(), []entities.Prospect{good, bad, alsoGood})
	require.Len(t, scores, 3)

	assert.NoError(t, scores[0].Err)
	assert.NotNil(t, scores[0].Result)
	assert.Error(t, scores[1].Err)
	assert.Nil(t, scores[1].Result)
	assert.NoError(t, scores[2].Err)
	assert.NotNil(t, scores[2].Result)
}

func TestUpdateConfig_ValidatesAndSwaps(t *testing.T) {
	scorer := newTestScorer(t, nil)

	broken := entities.DefaultScoringConfig()
	broken.IntentWeight = 0.9
	assert.Error(t, scorer.UpdateConfig(broken))

	rebalanced := entities.ScoringConfig{
		IntentWeight:   0.5,
		HealthWeight:   0.2,
		PositionWeight: 0.3,
	}
	assert.NoError(t, scorer.UpdateConfig(rebalanced))
}
