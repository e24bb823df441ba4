package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "mortalitydash/internal/errors"
	apiv1 "mortalitydash/pkg/contracts/api/v1"
)

const maxClientLogBytes = 16 << 10

// ClientLogHandler records errors reported by the dashboard page, such as a chart library that failed to load
type ClientLogHandler struct {
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewClientLogHandler creates a new client log handler
func NewClientLogHandler(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ClientLogHandler {
	return &ClientLogHandler{
		logger:       logger.With(slog.String("handler", "client_log")),
		errorHandler: errorHandler,
	}
}

// Handle processes POST /api/logs
func (h *ClientLogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxClientLogBytes)

	var req apiv1.ClientLogRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("body", "Invalid request format"))
		return
	}
	if err := apiv1.Validate(req); err != nil {
		field := "body"
		var fe *apiv1.FieldError
		if errors.As(err, &fe) {
			field = fe.Field
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(field, err.Error()))
		return
	}

	level := slog.LevelInfo
	switch req.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	attrs := []slog.Attr{slog.String("source", "browser")}
	if req.Panel != "" {
		attrs = append(attrs, slog.String("panel", req.Panel))
	}
	if req.Data != nil {
		attrs = append(attrs, slog.Any("data", req.Data))
	}
	h.logger.LogAttrs(r.Context(), level, req.Message, attrs...)

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]any{"success": true})
}
