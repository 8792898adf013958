package observability

import (
	"context"
	"time"

	"underwriter/domain/entities"
	"underwriter/domain/interfaces"
)

// InstrumentedQualificationService wraps a QualificationService with
// metrics recording. The domain service stays metrics-free.
type InstrumentedQualificationService struct {
	inner   interfaces.QualificationService
	metrics *MetricsProvider
}

// NewInstrumentedQualificationService wraps a qualification service
func NewInstrumentedQualificationService(inner interfaces.QualificationService, metrics *MetricsProvider) *InstrumentedQualificationService {
	return &InstrumentedQualificationService{inner: inner, metrics: metrics}
}

func (s *InstrumentedQualificationService) Qualify(features *entities.UnderwritingFeatures, qctx entities.QualificationContext) (*entities.QualificationResult, error) {
	start := time.Now()
	result, err := s.inner.Qualify(features, qctx)
	if err == nil {
		s.metrics.RecordQualification(string(result.Tier), time.Since(start))
	}
	return result, err
}

func (s *InstrumentedQualificationService) QualifyWithBankAccess(ctx context.Context, accountRef string, qctx entities.QualificationContext) (*entities.QualificationResult, error) {
	start := time.Now()
	result, err := s.inner.QualifyWithBankAccess(ctx, accountRef, qctx)
	if err != nil {
		s.metrics.RecordBankFeedFetch("error")
		return nil, err
	}
	s.metrics.RecordBankFeedFetch("ok")
	s.metrics.RecordQualification(string(result.Tier), time.Since(start))
	return result, nil
}

func (s *InstrumentedQualificationService) UpdateRules(rules entities.QualificationRules) error {
	return s.inner.UpdateRules(rules)
}

var _ interfaces.QualificationService = (*InstrumentedQualificationService)(nil)

// InstrumentedScoringService wraps a ScoringService with metrics recording
type InstrumentedScoringService struct {
	inner   interfaces.ScoringService
	metrics *MetricsProvider
}

// NewInstrumentedScoringService wraps a scoring service
func NewInstrumentedScoringService(inner interfaces.ScoringService, metrics *MetricsProvider) *InstrumentedScoringService {
	return &InstrumentedScoringService{inner: inner, metrics: metrics}
}

func (s *InstrumentedScoringService) ScoreProspect(ctx context.Context, prospect entities.Prospect) (*entities.ScoringResult, error) {
	start := time.Now()
	result, err := s.inner.ScoreProspect(ctx, prospect)
	if err == nil {
		s.metrics.RecordProspectScored(string(result.Grade), time.Since(start))
	}
	return result, err
}

func (s *InstrumentedScoringService) ScoreProspects(ctx context.Context, prospects []entities.Prospect) []entities.ProspectScore {
	start := time.Now()
	scores := s.inner.ScoreProspects(ctx, prospects)
	elapsed := time.Since(start)
	for _, score := range scores {
		if score.Err == nil && score.Result != nil {
			s.metrics.RecordProspectScored(string(score.Result.Grade), elapsed/time.Duration(len(scores)))
		}
	}
	return scores
}

func (s *InstrumentedScoringService) UpdateConfig(config entities.ScoringConfig) error {
	return s.inner.UpdateConfig(config)
}

var _ interfaces.ScoringService = (*InstrumentedScoringService)(nil)
