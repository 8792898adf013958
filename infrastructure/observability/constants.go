package observability

// Metric name prefixes
const (
	MetricPrefix = "underwriter"
)

// Metric names
const (
	// Qualification metrics
	QualificationsTotal    = MetricPrefix + ".qualifications.total"
	QualificationDuration  = MetricPrefix + ".qualifications.duration"
	BankFeedFetchesTotal   = MetricPrefix + ".bankfeed.fetches_total"

	// Scoring metrics
	ProspectsScoredTotal = MetricPrefix + ".scoring.prospects_total"
	ScoringDuration      = MetricPrefix + ".scoring.duration"
)

// Label keys
const (
	LabelTier    = "tier"
	LabelGrade   = "grade"
	LabelOutcome = "outcome"
)
