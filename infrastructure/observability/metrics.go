package observability

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"underwriter/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for the underwriting pipeline
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	qualificationsCounter    metric.Int64Counter
	qualificationDuration    metric.Float64Histogram
	bankFeedFetchesCounter   metric.Int64Counter
	prospectsScoredCounter   metric.Int64Counter
	scoringDuration          metric.Float64Histogram
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Println("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Println("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	// Create resource with service information
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	// Create appropriate exporter based on config
	var exporter sdkmetric.Exporter
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Println("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.Printf("Using OTLP metric exporter: %s", mp.config.OTelOTLPEndpoint)

	case "none":
		log.Println("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	// Create meter provider with periodic reader
	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
			),
		),
	)

	// Set as global meter provider
	otel.SetMeterProvider(mp.meterProvider)

	// Get meter for creating instruments
	mp.meter = mp.meterProvider.Meter("underwriter")

	// Create metric instruments
	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Println("Metrics provider initialized successfully")
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.qualificationsCounter, err = mp.meter.Int64Counter(
		QualificationsTotal,
		metric.WithDescription("Total number of qualification evaluations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create qualifications counter: %w", err)
	}

	mp.qualificationDuration, err = mp.meter.Float64Histogram(
		QualificationDuration,
		metric.WithDescription("Duration of qualification evaluations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create qualification duration histogram: %w", err)
	}

	mp.bankFeedFetchesCounter, err = mp.meter.Int64Counter(
		BankFeedFetchesTotal,
		metric.WithDescription("Total number of bank feed fetches through the bank-access path"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create bank feed fetches counter: %w", err)
	}

	mp.prospectsScoredCounter, err = mp.meter.Int64Counter(
		ProspectsScoredTotal,
		metric.WithDescription("Total number of prospects scored"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create prospects scored counter: %w", err)
	}

	mp.scoringDuration, err = mp.meter.Float64Histogram(
		ScoringDuration,
		metric.WithDescription("Duration of prospect scoring in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create scoring duration histogram: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// isEnabled checks if metrics recording is active
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.meterProvider != nil
}

// RecordQualification records a completed qualification evaluation
func (mp *MetricsProvider) RecordQualification(tier string, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(attribute.String(LabelTier, tier))
	mp.qualificationsCounter.Add(context.Background(), 1, attrs)
	mp.qualificationDuration.Record(context.Background(), duration.Seconds(), attrs)
}

// RecordBankFeedFetch records a fetch through the bank-access path
func (mp *MetricsProvider) RecordBankFeedFetch(outcome string) {
	if !mp.isEnabled() {
		return
	}

	mp.bankFeedFetchesCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelOutcome, outcome),
		),
	)
}

// RecordProspectScored records a completed prospect scoring
func (mp *MetricsProvider) RecordProspectScored(grade string, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(attribute.String(LabelGrade, grade))
	mp.prospectsScoredCounter.Add(context.Background(), 1, attrs)
	mp.scoringDuration.Record(context.Background(), duration.Seconds(), attrs)
}
