package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"mortalitydash/internal/charts"
	"mortalitydash/internal/dataprocessing"
	apperrors "mortalitydash/internal/errors"
	"mortalitydash/internal/exporter"
	"mortalitydash/internal/geo"
	"mortalitydash/internal/infrastructure"
	"mortalitydash/pkg/contracts/domain"
)

// Export table names besides the panel ids
const (
	ExportJoined = "joined"
	ExportRates  = "rates"
)

// DashboardService serves panels, images and exports of one immutable dataset.
// Panels are computed on first request and reused afterwards.
type DashboardService struct {
	dataset *dataprocessing.Dataset
	options charts.Options
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics

	mu     sync.RWMutex
	panels map[string]domain.Panel
	group  singleflight.Group
}

// DashboardOption configures a DashboardService
type DashboardOption func(*DashboardService)

// WithDashboardLogger sets the service logger
func WithDashboardLogger(logger *slog.Logger) DashboardOption {
	return func(s *DashboardService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDashboardTelemetry traces and counts every panel build
func WithDashboardTelemetry(tracer trace.Tracer, metrics *infrastructure.BusinessMetrics) DashboardOption {
	return func(s *DashboardService) {
		if tracer != nil {
			s.tracer = tracer
		}
		s.metrics = metrics
	}
}

// NewDashboardService creates a dashboard service over a loaded dataset
func NewDashboardService(ds *dataprocessing.Dataset, options charts.Options, opts ...DashboardOption) *DashboardService {
	s := &DashboardService{
		dataset: ds,
		options: options,
		logger:  slog.Default(),
		tracer:  otel.Tracer(infrastructure.MeterName),
		panels:  make(map[string]domain.Panel),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "dashboard_service"))

	if ds != nil {
		s.logger.Info("DashboardService initialized",
			slog.Int("records", ds.Len()),
			slog.Int("ranked_sub_regions", len(ds.RankedRates())),
			slog.Bool("boundaries", ds.Boundaries() != nil))
	}
	return s
}

// Ready reports whether a dataset is loaded
func (s *DashboardService) Ready() bool {
	return s.dataset != nil
}

// RecordCount returns the number of joined records, zero when nothing is loaded
func (s *DashboardService) RecordCount() int {
	if s.dataset == nil {
		return 0
	}
	return s.dataset.Len()
}

// BoundariesAvailable reports whether the map can be drawn
func (s *DashboardService) BoundariesAvailable() bool {
	return s.dataset != nil && s.dataset.Boundaries() != nil
}

// Panels lists the panel descriptors in page order
func (s *DashboardService) Panels(ctx context.Context) []domain.PanelInfo {
	return charts.Infos()
}

// Panel returns one computed panel
func (s *DashboardService) Panel(ctx context.Context, id string) (domain.Panel, error) {
	if s.dataset == nil {
		return domain.Panel{}, ErrDataNotLoaded
	}
	if _, ok := charts.Lookup(id); !ok {
		return domain.Panel{}, fmt.Errorf("%w: %s", ErrPanelNotFound, id)
	}

	s.mu.RLock()
	p, ok := s.panels[id]
	s.mu.RUnlock()
	if ok {
		return p, nil
	}

	v, err, _ := s.group.Do(id, func() (any, error) {
		s.mu.RLock()
		cached, ok := s.panels[id]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}

		p, err := s.build(ctx, id)
		if err != nil {
			return domain.Panel{}, err
		}
		s.mu.Lock()
		s.panels[id] = p
		s.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return domain.Panel{}, err
	}
	return v.(domain.Panel), nil
}

// AllPanels returns every panel in page order
func (s *DashboardService) AllPanels(ctx context.Context) ([]domain.Panel, error) {
	defs := charts.Definitions()
	out := make([]domain.Panel, 0, len(defs))
	for _, def := range defs {
		p, err := s.Panel(ctx, def.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *DashboardService) build(ctx context.Context, id string) (domain.Panel, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.panel",
		trace.WithAttributes(attribute.String("panel", id)))
	defer span.End()

	start := time.Now()
	p, err := charts.Build(s.dataset, id, s.options)
	duration := time.Since(start)

	infrastructure.RecordPanelBuild(ctx, s.metrics, id, duration, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Panel{}, err
	}

	span.SetAttributes(attribute.Int("rows", p.Table.Len()), attribute.Bool("degraded", p.Degraded))
	s.logger.DebugContext(ctx, "Panel built",
		slog.String("panel", id),
		slog.Int("rows", p.Table.Len()),
		slog.Duration("duration", duration))
	if p.Degraded {
		s.logger.WarnContext(ctx, "Panel degraded", slog.String("panel", id))
	}
	return p, nil
}

// PanelPNG renders a panel image
func (s *DashboardService) PanelPNG(ctx context.Context, id string, size charts.Size) ([]byte, error) {
	if _, ok := charts.Lookup(id); ok && !charts.HasImage(id) {
		return nil, fmt.Errorf("%w: %s", ErrNoImage, id)
	}
	p, err := s.Panel(ctx, id)
	if err != nil {
		return nil, err
	}

	_, span := s.tracer.Start(ctx, "dashboard.render",
		trace.WithAttributes(attribute.String("panel", id),
			attribute.Int("width", size.Width), attribute.Int("height", size.Height)))
	defer span.End()

	var buf bytes.Buffer
	if err := charts.RenderPNG(&buf, p, size); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, charts.ErrNoImage) || errors.Is(err, charts.ErrEmptyChart) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNoImage, id, err)
		}
		return nil, apperrors.NewRenderError("render panel "+id, err).WithContext("panel", id)
	}
	return buf.Bytes(), nil
}

// Summary describes the loaded dataset
func (s *DashboardService) Summary(ctx context.Context) (domain.DatasetSummary, error) {
	if s.dataset == nil {
		return domain.DatasetSummary{}, ErrDataNotLoaded
	}
	return s.dataset.Summary(), nil
}

// DataNote returns the year-mismatch note shown on the page
func (s *DashboardService) DataNote() string {
	if s.dataset == nil {
		return ""
	}
	return s.dataset.Analysis().DataNote()
}

// AnalysisYear returns the label year of the dashboard
func (s *DashboardService) AnalysisYear() int {
	return s.options.AnalysisYear
}

// Boundaries returns the loaded boundary document
func (s *DashboardService) Boundaries(ctx context.Context) (*geo.Boundaries, error) {
	if !s.BoundariesAvailable() {
		return nil, ErrBoundariesUnavailable
	}
	return s.dataset.Boundaries(), nil
}

// ExportTables lists every table ExportCSV accepts
func (s *DashboardService) ExportTables() []string {
	tables := []string{ExportJoined, ExportRates}
	for _, def := range charts.Definitions() {
		tables = append(tables, def.ID)
	}
	return tables
}

// ExportCSV writes the joined dataset, the rate table or a panel table as CSV
func (s *DashboardService) ExportCSV(ctx context.Context, table string, w io.Writer, bom bool) error {
	if s.dataset == nil {
		return ErrDataNotLoaded
	}

	var err error
	switch table {
	case ExportJoined:
		var n int
		n, err = exporter.WriteJoined(w, s.dataset, bom)
		s.logger.DebugContext(ctx, "Joined dataset exported", slog.Int("rows", n))
	case ExportRates:
		err = exporter.WriteRates(w, s.dataset.AllRates(), bom)
	default:
		if _, ok := charts.Lookup(table); !ok {
			return fmt.Errorf("%w: %s", ErrExportNotFound, table)
		}
		var p domain.Panel
		if p, err = s.Panel(ctx, table); err != nil {
			return err
		}
		err = exporter.WriteTable(w, p.Table, bom)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", table, err)
	}

	infrastructure.RecordExport(ctx, s.metrics, table)
	return nil
}
