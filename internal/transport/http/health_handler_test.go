package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"mortalitydash/internal/services"
	"mortalitydash/internal/shared/testutil"
)

type stubDatasetState struct {
	ready bool
}

func (s stubDatasetState) Ready() bool               { return s.ready }
func (s stubDatasetState) RecordCount() int          { return 6 }
func (s stubDatasetState) BoundariesAvailable() bool { return s.ready }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		handler    func(*HealthHandler) http.HandlerFunc
		wantStatus int
		wantField  string
		wantValue  any
	}{
		{"health", true, func(h *HealthHandler) http.HandlerFunc { return h.HealthCheck }, http.StatusOK, "status", "ok"},
		{"ready", true, func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck }, http.StatusOK, "status", "ready"},
		{"not ready", false, func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck }, http.StatusServiceUnavailable, "status", "not_ready"},
		{"live", false, func(h *HealthHandler) http.HandlerFunc { return h.LivenessCheck }, http.StatusOK, "status", "alive"},
		{"version", true, func(h *HealthHandler) http.HandlerFunc { return h.Version }, http.StatusOK, "version", "1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			hs := services.NewHealthService("1.0.0", stubDatasetState{ready: tt.ready}, logger)
			h := NewHealthHandler(hs, logger)

			rec := httptest.NewRecorder()
			tt.handler(h)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantValue, decodeBody(t, rec)[tt.wantField])
		})
	}
}

func TestPageHandler_ServeDashboard(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("AnalysisYear").Return(2019)
	svc.On("DataNote").Return("Las tasas usan la población de 2020.")
	svc.On("Panels").Return(testPanelInfos())

	logger, _ := testutil.NewTestLogger(t)
	h, err := NewPageHandler(testFrontend(), svc, logger)
	if !assert.NoError(t, err) {
		return
	}

	rec := httptest.NewRecorder()
	h.ServeDashboard(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Análisis de Mortalidad en Colombia (2019)</h1>")
	assert.Contains(t, body, "Las tasas usan la población de 2020.")
	assert.Contains(t, body, `data-panel="monthly"`)
	svc.AssertExpectations(t)
}

func TestPageHandler_MissingTemplate(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	_, err := NewPageHandler(emptyFrontend(), new(MockDashboardService), logger)
	assert.Error(t, err)
}

func TestStaticHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticHandler(testFrontend(), "/static").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/dashboard.js", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "loadPanels")
}

func TestClientLogHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantLog    bool
	}{
		{"error report", `{"level":"error","message":"Plotly failed to load","panel":"map"}`, http.StatusAccepted, true},
		{"level is optional", `{"message":"hola"}`, http.StatusAccepted, true},
		{"unknown level", `{"level":"loud","message":"hola"}`, http.StatusBadRequest, false},
		{"missing message", `{"level":"error"}`, http.StatusBadRequest, false},
		{"malformed", `{`, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, handler := testutil.NewTestLogger(t)
			h := NewClientLogHandler(logger, newTestErrorHandler(t))

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/logs", stringReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLog, handler.ContainsAttr("source", "browser"))
		})
	}
}
