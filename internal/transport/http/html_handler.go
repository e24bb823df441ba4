package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"mortalitydash/pkg/contracts"
	"mortalitydash/pkg/contracts/domain"
)

// PageTemplate is the dashboard template name inside the frontend filesystem
const PageTemplate = "index.html"

// PageData is what the dashboard template renders
type PageData struct {
	Title        string
	AnalysisYear int
	DataNote     string
	Panels       []domain.PanelInfo
	Version      string
}

// PageHandler serves the single dashboard page
type PageHandler struct {
	tmpl    *template.Template
	service DashboardServiceInterface
	logger  *slog.Logger
}

// NewPageHandler parses the page template from the frontend filesystem
func NewPageHandler(frontend fs.FS, service DashboardServiceInterface, logger *slog.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFS(frontend, PageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &PageHandler{
		tmpl:    tmpl,
		service: service,
		logger:  logger.With(slog.String("handler", "page")),
	}, nil
}

// ServeDashboard handles GET /
func (h *PageHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	year := h.service.AnalysisYear()
	data := PageData{
		Title:        fmt.Sprintf("Análisis de Mortalidad en Colombia (%d)", year),
		AnalysisYear: year,
		DataNote:     h.service.DataNote(),
		Panels:       h.service.Panels(r.Context()),
		Version:      contracts.Version,
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		h.logger.ErrorContext(r.Context(), "Error rendering page", slog.String("error", err.Error()))
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// StaticHandler serves the frontend assets under prefix
func StaticHandler(frontend fs.FS, prefix string) http.Handler {
	return http.StripPrefix(prefix, http.FileServer(http.FS(frontend)))
}
