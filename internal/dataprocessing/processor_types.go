package dataprocessing

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"mortalitydash/internal/config"
	"mortalitydash/internal/infrastructure"
)

// Processor builds the immutable dataset from the configured inputs
type Processor interface {
	// Run loads every input and returns the joined dataset
	Run(ctx context.Context, paths *config.Paths) (*Dataset, error)
}

// Pipeline stage names, used as span names and metric labels
const (
	StageLoadMortality      = "load_mortality"
	StageLoadCauses         = "load_causes"
	StageLoadAdministrative = "load_administrative"
	StageLoadPopulation     = "load_population"
	StageLoadBoundaries     = "load_boundaries"
	StageNormalize          = "normalize_keys"
	StageMerge              = "merge"
	StageDerive             = "derive_columns"
	StageRates              = "rates"
)

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithLogger sets the pipeline logger
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTelemetry traces every stage and records stage metrics
func WithTelemetry(tracer trace.Tracer, metrics *infrastructure.BusinessMetrics) PipelineOption {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
		p.metrics = metrics
	}
}
