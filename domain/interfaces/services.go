package interfaces

import (
	"context"

	"underwriter/domain/entities"
)

// FeatureExtractionService converts a raw bank feed into the fixed-shape
// underwriting feature snapshot
type FeatureExtractionService interface {
	// ExtractFeatures computes an UnderwritingFeatures snapshot from raw
	// transactions and accounts over the given analysis window.
	// Returns entities.ErrNoSuitableAccount when no account is usable.
	ExtractFeatures(transactions []entities.Transaction, accounts []entities.Account, window entities.AnalysisWindow) (*entities.UnderwritingFeatures, error)
}

// QualificationService evaluates feature snapshots against the tiered
// rule tables
type QualificationService interface {
	// Qualify evaluates a feature snapshot and returns the funding
	// qualification. A decline is returned as data, never as an error.
	Qualify(features *entities.UnderwritingFeatures, qctx entities.QualificationContext) (*entities.QualificationResult, error)

	// QualifyWithBankAccess fetches the bank feed for an account reference,
	// extracts features, and delegates into Qualify. This is the only
	// suspension point in the pipeline.
	QualifyWithBankAccess(ctx context.Context, accountRef string, qctx entities.QualificationContext) (*entities.QualificationResult, error)

	// UpdateRules replaces the entire rule table. The swap is atomic with
	// respect to in-flight evaluations; individual thresholds are never
	// mutated in place.
	UpdateRules(rules entities.QualificationRules) error
}

// ScoringService computes composite priority scores for outreach ranking
type ScoringService interface {
	// ScoreProspect computes the composite score for a single prospect
	ScoreProspect(ctx context.Context, prospect entities.Prospect) (*entities.ScoringResult, error)

	// ScoreProspects scores a batch of prospects independently. One
	// prospect's failure is recorded on its item and never aborts the batch.
	ScoreProspects(ctx context.Context, prospects []entities.Prospect) []entities.ProspectScore

	// UpdateConfig replaces the entire scoring configuration atomically
	UpdateConfig(config entities.ScoringConfig) error
}
