package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "mortalitydash/internal/errors"
)

// GeoHandler serves the region boundary document the map panel draws
type GeoHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewGeoHandler creates a new boundary handler
func NewGeoHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *GeoHandler {
	return &GeoHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "geo_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the geo routes
func (h *GeoHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/boundaries", h.GetBoundaries)
	return r
}

// GetBoundaries handles GET /api/geo/boundaries
func (h *GeoHandler) GetBoundaries(w http.ResponseWriter, r *http.Request) {
	boundaries, err := h.service.Boundaries(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err, "boundaries"))
		return
	}

	data, err := boundaries.MarshalJSON()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode boundaries", slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.NewRenderError("encode boundaries", err))
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
