package http

import (
	"context"
	"io"

	"mortalitydash/internal/charts"
	"mortalitydash/internal/geo"
	"mortalitydash/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations the handlers need
type DashboardServiceInterface interface {
	Panels(ctx context.Context) []domain.PanelInfo
	Panel(ctx context.Context, id string) (domain.Panel, error)
	PanelPNG(ctx context.Context, id string, size charts.Size) ([]byte, error)
	Summary(ctx context.Context) (domain.DatasetSummary, error)
	Boundaries(ctx context.Context) (*geo.Boundaries, error)
	ExportCSV(ctx context.Context, table string, w io.Writer, bom bool) error
	ExportTables() []string
	DataNote() string
	AnalysisYear() int
}
