package http

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"

	"mortalitydash/internal/charts"
	apierrors "mortalitydash/internal/errors"
	"mortalitydash/internal/geo"
	"mortalitydash/internal/shared/testutil"
	"mortalitydash/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Panels(ctx context.Context) []domain.PanelInfo {
	return m.Called().Get(0).([]domain.PanelInfo)
}

func (m *MockDashboardService) Panel(ctx context.Context, id string) (domain.Panel, error) {
	args := m.Called(id)
	return args.Get(0).(domain.Panel), args.Error(1)
}

func (m *MockDashboardService) PanelPNG(ctx context.Context, id string, size charts.Size) ([]byte, error) {
	args := m.Called(id, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDashboardService) Summary(ctx context.Context) (domain.DatasetSummary, error) {
	args := m.Called()
	return args.Get(0).(domain.DatasetSummary), args.Error(1)
}

func (m *MockDashboardService) Boundaries(ctx context.Context) (*geo.Boundaries, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geo.Boundaries), args.Error(1)
}

func (m *MockDashboardService) ExportCSV(ctx context.Context, table string, w io.Writer, bom bool) error {
	args := m.Called(table, bom)
	if s, ok := args.Get(0).(string); ok {
		io.WriteString(w, s)
	}
	return args.Error(1)
}

func (m *MockDashboardService) ExportTables() []string {
	return m.Called().Get(0).([]string)
}

func (m *MockDashboardService) DataNote() string {
	return m.Called().String(0)
}

func (m *MockDashboardService) AnalysisYear() int {
	return m.Called().Int(0)
}

func newTestErrorHandler(t *testing.T) *apierrors.ErrorHandler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return apierrors.NewErrorHandler(logger, false)
}
