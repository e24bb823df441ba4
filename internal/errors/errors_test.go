package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusNotFound, "NOT_FOUND", "thing missing")
	assert.Equal(t, "thing missing", err.Error())
}

func TestNewWithDetails(t *testing.T) {
	details := map[string]string{"panel_id": "x"}
	err := NewWithDetails(http.StatusNotFound, "PANEL_NOT_FOUND", "panel missing", details)

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "PANEL_NOT_FOUND", err.ErrorCode)
	assert.Equal(t, details, err.Details)
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{"invalid request", ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{"invalid parameter", ErrInvalidParameter, http.StatusBadRequest, "INVALID_PARAMETER"},
		{"not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"panel not found", ErrPanelNotFound, http.StatusNotFound, "PANEL_NOT_FOUND"},
		{"export not found", ErrExportNotFound, http.StatusNotFound, "EXPORT_NOT_FOUND"},
		{"image unavailable", ErrImageUnavailable, http.StatusNotFound, "IMAGE_UNAVAILABLE"},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"internal", ErrInternalServer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"render failed", ErrRenderFailed, http.StatusInternalServerError, "RENDER_FAILED"},
		{"service unavailable", ErrServiceUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"data unavailable", ErrDataUnavailable, http.StatusServiceUnavailable, "DATA_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("width", "width must be between 200 and 2000")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)

	details, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "width", details.Field)
}

func TestInvalidParameterError(t *testing.T) {
	err := InvalidParameterError("width", "width must be between 200 and 4096")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_PARAMETER", err.ErrorCode)
	assert.Equal(t, "width must be between 200 and 4096", err.Message)

	details, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "width", details.Field)
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("rates table")
	assert.Equal(t, "rates table not found", err.Message)
	assert.Equal(t, "rates table", err.Details)
}

func TestPanelNotFoundError(t *testing.T) {
	err := PanelNotFoundError("radar")

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "PANEL_NOT_FOUND", err.ErrorCode)
	assert.Contains(t, err.Message, `"radar"`)
	assert.Equal(t, map[string]string{"panel_id": "radar"}, err.Details)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrDataUnavailable)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "DATA_UNAVAILABLE", body.Error.ErrorCode)
}

func TestAPIError_JSONSerialization(t *testing.T) {
	data, err := json.Marshal(New(http.StatusBadRequest, "INVALID_REQUEST", "bad"))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(400), decoded["status_code"])
	assert.NotContains(t, decoded, "details")
}
