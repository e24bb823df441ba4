package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"mortalitydash/internal/config"
	"mortalitydash/internal/geo"
	"mortalitydash/internal/infrastructure"
	"mortalitydash/pkg/contracts/domain"
)

// Pipeline runs Loader, Normalizer, Merge, Derived Columns and Rates once
type Pipeline struct {
	analysis   config.AnalysisConfig
	featureKey string
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    *infrastructure.BusinessMetrics
}

var _ Processor = (*Pipeline)(nil)

// NewPipeline creates a pipeline for the given analysis parameters.
// featureKey is the boundary property regions are matched on.
func NewPipeline(analysis config.AnalysisConfig, featureKey string, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		analysis:   analysis,
		featureKey: featureKey,
		logger:     slog.Default(),
		tracer:     otel.Tracer(infrastructure.MeterName),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(slog.String("component", "pipeline"))
	return p
}

// Run loads the four required workbooks concurrently and builds the dataset.
// A missing required workbook is fatal; a missing boundary document is not.
func (p *Pipeline) Run(ctx context.Context, paths *config.Paths) (*Dataset, error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "pipeline.run")
	defer span.End()

	var (
		mortality *MortalityLoad
		causes    []domain.CauseReference
		units     []domain.AdministrativeUnit
		pop       []domain.PopulationRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.stage(gctx, StageLoadMortality, func() (int, error) {
			m, err := LoadMortality(paths.MortalityFile)
			if err != nil {
				return 0, err
			}
			mortality = m
			return len(m.Records), nil
		})
	})
	g.Go(func() error {
		return p.stage(gctx, StageLoadCauses, func() (n int, err error) {
			causes, err = LoadCauses(paths.CausesFile)
			return len(causes), err
		})
	})
	g.Go(func() error {
		return p.stage(gctx, StageLoadAdministrative, func() (n int, err error) {
			units, err = LoadAdministrativeUnits(paths.DivipolaFile)
			return len(units), err
		})
	})
	g.Go(func() error {
		return p.stage(gctx, StageLoadPopulation, func() (n int, err error) {
			pop, err = LoadPopulation(paths.PopulationFile, p.analysis.PopulationYear, p.analysis.PopulationArea)
			return len(pop), err
		})
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, fmt.Errorf("load inputs: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	boundaries := p.loadBoundaries(ctx, paths.BoundariesFile)

	var (
		joined   []domain.JoinedRecord
		merge    MergeStats
		allRates []domain.MortalityRateEntry
		ranked   []domain.MortalityRateEntry
	)
	_ = p.stage(ctx, StageNormalize, func() (int, error) {
		NormalizeKeys(mortality.Records)
		return len(mortality.Records), nil
	})
	_ = p.stage(ctx, StageMerge, func() (int, error) {
		joined, merge = Merge(mortality.Records, units, causes)
		return len(joined), nil
	})
	_ = p.stage(ctx, StageDerive, func() (int, error) {
		DeriveColumns(joined)
		return len(joined), nil
	})
	_ = p.stage(ctx, StageRates, func() (int, error) {
		allRates = CalculateRates(joined, pop, units)
		ranked = RankLowest(allRates, p.analysis.MinPopulation, p.analysis.RankedSubRegions)
		return len(allRates), nil
	})

	stats := domain.LoadStats{
		MortalityRows:           mortality.RowsRead,
		DroppedInvalidDates:     mortality.DroppedInvalidDates,
		JoinedRows:              len(joined),
		UnmatchedAdministrative: merge.UnmatchedAdministrative,
		UnmatchedCauses:         merge.UnmatchedCauses,
		AdministrativeUnits:     len(units),
		CauseReferences:         len(causes),
		PopulationRecords:       len(pop),
		RatedSubRegions:         len(allRates),
		RankedSubRegions:        len(ranked),
		BoundariesAvailable:     boundaries != nil,
		LoadedAt:                time.Now().UTC(),
		Duration:                time.Since(start).Round(time.Millisecond).String(),
	}
	if boundaries != nil {
		stats.BoundaryFeatures = boundaries.Len()
	}

	span.SetAttributes(
		attribute.Int("pipeline.joined_rows", stats.JoinedRows),
		attribute.Int("pipeline.dropped_invalid_dates", stats.DroppedInvalidDates),
		attribute.Bool("pipeline.boundaries_available", stats.BoundariesAvailable),
	)
	p.logger.InfoContext(ctx, "Dataset built",
		slog.Int("mortality_rows", stats.MortalityRows),
		slog.Int("dropped_invalid_dates", stats.DroppedInvalidDates),
		slog.Int("joined_rows", stats.JoinedRows),
		slog.Int("unmatched_administrative", stats.UnmatchedAdministrative),
		slog.Int("unmatched_causes", stats.UnmatchedCauses),
		slog.Int("rated_sub_regions", stats.RatedSubRegions),
		slog.Bool("boundaries_available", stats.BoundariesAvailable),
		slog.String("duration", stats.Duration))

	return NewDataset(joined, allRates, ranked, boundaries, stats, p.analysis), nil
}

// loadBoundaries degrades to nil when the document is missing or unusable
func (p *Pipeline) loadBoundaries(ctx context.Context, path string) *geo.Boundaries {
	if path == "" {
		p.logger.WarnContext(ctx, "No boundary document configured, map disabled")
		return nil
	}
	var boundaries *geo.Boundaries
	err := p.stage(ctx, StageLoadBoundaries, func() (int, error) {
		b, err := geo.Load(path, p.featureKey)
		if err != nil {
			return 0, err
		}
		boundaries = b
		return b.Len(), nil
	})
	if err != nil {
		p.logger.WarnContext(ctx, "Boundary document unavailable, map disabled",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil
	}
	return boundaries
}

// stage runs fn inside a span and records its row count and duration
func (p *Pipeline) stage(ctx context.Context, name string, fn func() (int, error)) error {
	ctx, span := p.tracer.Start(ctx, "pipeline."+name, trace.WithAttributes(attribute.String("stage", name)))
	defer span.End()

	start := time.Now()
	rows, err := fn()
	duration := time.Since(start)

	infrastructure.RecordPipelineStage(ctx, p.metrics, name, rows, duration, err)
	span.SetAttributes(attribute.Int("rows", rows))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	p.logger.DebugContext(ctx, "Stage completed",
		slog.String("stage", name),
		slog.Int("rows", rows),
		slog.Duration("duration", duration))
	return nil
}

// DeriveColumns fills Month, AgeGroup and the sex label on every joined row in place
func DeriveColumns(rows []domain.JoinedRecord) {
	for i := range rows {
		rows[i].Month = int(rows[i].DeathDate.Month())
		rows[i].AgeGroup = CategorizeAgeGroup(rows[i].AgeGroupCode)
		rows[i].Sex = SexLabel(rows[i].Sex)
	}
}
