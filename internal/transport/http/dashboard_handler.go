package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"mortalitydash/internal/charts"
	apierrors "mortalitydash/internal/errors"
	custommw "mortalitydash/internal/middleware"
)

// Image size limits for panel PNGs
const (
	MinImageWidth  = 200
	MaxImageWidth  = 4096
	MinImageHeight = 150
	MaxImageHeight = 4096
)

const maxPanelIDLength = 64

// DashboardHandler serves panel descriptors, panel data and panel images
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	query        *custommw.QueryParamValidator
}

// NewDashboardHandler creates a new dashboard handler with RFC 7807 error handling
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	logger = logger.With(slog.String("component", "dashboard_handler"))
	return &DashboardHandler{
		service:      service,
		logger:       logger,
		errorHandler: errorHandler,
		query:        custommw.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/panels", h.ListPanels)
	r.Get("/summary", h.GetSummary)

	r.Route("/panels/{id}", func(r chi.Router) {
		r.Use(h.PanelCtx)
		r.Get("/", h.GetPanel)
		r.Get("/image.png", h.GetPanelImage)
	})

	return r
}

// PanelCtx validates the panel id parameter
func (h *DashboardHandler) PanelCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" || len(id) > maxPanelIDLength {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "Invalid panel id"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListPanels handles GET /api/dashboard/panels
func (h *DashboardHandler) ListPanels(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Panels(r.Context()))
}

// GetPanel handles GET /api/dashboard/panels/{id}
func (h *DashboardHandler) GetPanel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	panel, err := h.service.Panel(r.Context(), id)
	if err != nil {
		h.fail(w, r, "failed to build panel", id, err)
		return
	}
	render.JSON(w, r, panel)
}

// GetPanelImage handles GET /api/dashboard/panels/{id}/image.png
func (h *DashboardHandler) GetPanelImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	width, ok := h.query.ValidateInt(w, r, "width", MinImageWidth, MaxImageWidth, charts.DefaultSize.Width)
	if !ok {
		return
	}
	height, ok := h.query.ValidateInt(w, r, "height", MinImageHeight, MaxImageHeight, charts.DefaultSize.Height)
	if !ok {
		return
	}

	data, err := h.service.PanelPNG(r.Context(), id, charts.Size{Width: width, Height: height})
	if err != nil {
		h.fail(w, r, "failed to render panel image", id, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write panel image",
			slog.String("panel", id),
			slog.String("error", err.Error()))
	}
}

// GetSummary handles GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.fail(w, r, "failed to get summary", "summary", err)
		return
	}
	render.JSON(w, r, summary)
}

func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, msg, resource string, err error) {
	h.logger.WarnContext(r.Context(), msg,
		slog.String("resource", resource),
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())))
	h.errorHandler.HandleError(w, r, serviceError(err, resource))
}
