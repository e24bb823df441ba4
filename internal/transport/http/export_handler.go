package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "mortalitydash/internal/errors"
	custommw "mortalitydash/internal/middleware"
	apiv1 "mortalitydash/pkg/contracts/api/v1"
)

// ExportHandler serves CSV downloads of the dataset, the rates and every panel table
type ExportHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	query        *custommw.QueryParamValidator
}

// NewExportHandler creates a new export handler
func NewExportHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	logger = logger.With(slog.String("component", "export_handler"))
	return &ExportHandler{
		service:      service,
		logger:       logger,
		errorHandler: errorHandler,
		query:        custommw.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTables)
	r.Get("/{table}.csv", h.ExportCSV)
	return r
}

// ListTables handles GET /api/export
func (h *ExportHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, apiv1.ExportTablesResponse{Tables: h.service.ExportTables()})
}

// ExportCSV handles GET /api/export/{table}.csv.
// The CSV is buffered so a failure still produces a problem response.
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	bom, ok := h.query.ValidateBool(w, r, "bom", false)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportCSV(r.Context(), table, &buf, bom); err != nil {
		h.logger.WarnContext(r.Context(), "export failed",
			slog.String("table", table),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, serviceError(err, table))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, table))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("table", table),
			slog.String("error", err.Error()))
	}
}
