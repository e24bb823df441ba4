package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "mortalitydash/internal/errors"
	"mortalitydash/internal/shared/testutil"
)

func newValidator(t *testing.T) *QueryParamValidator {
	logger, _ := testutil.NewTestLogger(t)
	return NewQueryParamValidator(logger, apierrors.NewErrorHandler(logger, false))
}

func TestQueryParamValidator_ValidateInt(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		want       int
		wantOK     bool
		wantStatus int
	}{
		{name: "default when absent", query: "", want: 900, wantOK: true},
		{name: "in range", query: "?width=1200", want: 1200, wantOK: true},
		{name: "below range", query: "?width=10", wantStatus: http.StatusBadRequest},
		{name: "above range", query: "?width=99999", wantStatus: http.StatusBadRequest},
		{name: "not a number", query: "?width=wide", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newValidator(t)
			rec := httptest.NewRecorder()
			got, ok := v.ValidateInt(rec, httptest.NewRequest(http.MethodGet, "/img"+tt.query, nil), "width", 200, 4000, 900)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
				assert.Equal(t, 0, rec.Body.Len())
				return
			}
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), "width")

			var problem map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, "INVALID_PARAMETER", problem["error_code"])
		})
	}
}

func TestQueryParamValidator_ValidateEnum(t *testing.T) {
	v := newValidator(t)

	got, ok := v.ValidateEnum(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?view=table", nil), "view", []string{"table", "figure"}, "figure")
	assert.True(t, ok)
	assert.Equal(t, "table", got)

	got, ok = v.ValidateEnum(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "view", []string{"table", "figure"}, "figure")
	assert.True(t, ok)
	assert.Equal(t, "figure", got)

	rec := httptest.NewRecorder()
	_, ok = v.ValidateEnum(rec, httptest.NewRequest(http.MethodGet, "/?view=pie", nil), "view", []string{"table", "figure"}, "figure")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryParamValidator_ValidateBool(t *testing.T) {
	v := newValidator(t)

	got, ok := v.ValidateBool(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?bom=true", nil), "bom", false)
	assert.True(t, ok)
	assert.True(t, got)

	rec := httptest.NewRecorder()
	_, ok = v.ValidateBool(rec, httptest.NewRequest(http.MethodGet, "/?bom=maybe", nil), "bom", false)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"INVALID_PARAMETER"`)
}
