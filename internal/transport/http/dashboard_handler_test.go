package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mortalitydash/internal/charts"
	"mortalitydash/internal/services"
	"mortalitydash/internal/shared/testutil"
	"mortalitydash/pkg/contracts/domain"
)

func newDashboardRouter(t *testing.T, svc *MockDashboardService) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	r := chi.NewRouter()
	r.Mount("/api/dashboard", NewDashboardHandler(svc, logger, newTestErrorHandler(t)).Routes())
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestDashboardHandler_ListPanels(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Panels").Return(charts.Infos())

	rec := httptest.NewRecorder()
	newDashboardRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/panels", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var infos []domain.PanelInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	assert.Len(t, infos, 8)
	svc.AssertExpectations(t)
}

func TestDashboardHandler_GetPanel(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		panel      domain.Panel
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "found",
			id:         charts.PanelMonthly,
			panel:      domain.Panel{ID: charts.PanelMonthly, Title: "Total de Muertes por Mes en Colombia (2019)"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown panel",
			id:         "nope",
			err:        fmt.Errorf("%w: nope", services.ErrPanelNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "PANEL_NOT_FOUND",
		},
		{
			name:       "dataset not loaded",
			id:         charts.PanelMonthly,
			err:        services.ErrDataNotLoaded,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "DATA_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			svc.On("Panel", tt.id).Return(tt.panel, tt.err)

			rec := httptest.NewRecorder()
			newDashboardRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/panels/"+tt.id, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
				assert.Equal(t, float64(tt.wantStatus), body["status"])
			} else {
				assert.Equal(t, tt.panel.Title, body["title"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_GetPanelImage(t *testing.T) {
	png := []byte("\x89PNG fake")

	t.Run("default size", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("PanelPNG", charts.PanelMonthly, charts.DefaultSize).Return(png, nil)

		rec := httptest.NewRecorder()
		newDashboardRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/panels/monthly/image.png", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, png, rec.Body.Bytes())
	})

	t.Run("custom size", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("PanelPNG", charts.PanelViolence, charts.Size{Width: 800, Height: 300}).Return(png, nil)

		rec := httptest.NewRecorder()
		newDashboardRouter(t, svc).ServeHTTP(rec,
			httptest.NewRequest(http.MethodGet, "/api/dashboard/panels/violence/image.png?width=800&height=300", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("size out of range", func(t *testing.T) {
		svc := new(MockDashboardService)

		rec := httptest.NewRecorder()
		newDashboardRouter(t, svc).ServeHTTP(rec,
			httptest.NewRequest(http.MethodGet, "/api/dashboard/panels/monthly/image.png?width=10", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error_code":"INVALID_PARAMETER"`)
		svc.AssertNotCalled(t, "PanelPNG", mock.Anything, mock.Anything)
	})

	t.Run("panel without image", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("PanelPNG", charts.PanelMap, charts.DefaultSize).Return(nil, fmt.Errorf("%w: map", services.ErrNoImage))

		rec := httptest.NewRecorder()
		newDashboardRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/panels/map/image.png", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "IMAGE_UNAVAILABLE", decodeBody(t, rec)["error_code"])
	})
}

func TestDashboardHandler_GetSummary(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Summary").Return(domain.DatasetSummary{AnalysisYear: 2019, PopulationYear: 2020, DataNote: "nota"}, nil)

	rec := httptest.NewRecorder()
	newDashboardRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2019), body["analysis_year"])
	assert.Equal(t, "nota", body["data_note"])
}

func TestDashboardHandler_PanelIDTooLong(t *testing.T) {
	svc := new(MockDashboardService)
	long := fmt.Sprintf("%0100d", 0)

	rec := httptest.NewRecorder()
	newDashboardRouter(t, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/panels/"+long, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Panel", mock.Anything)
}
