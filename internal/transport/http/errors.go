package http

import (
	"errors"
	"net/http"

	apierrors "mortalitydash/internal/errors"
	"mortalitydash/internal/services"
)

// serviceError maps service sentinels to API errors; unknown errors pass through
func serviceError(err error, resource string) error {
	switch {
	case errors.Is(err, services.ErrPanelNotFound):
		return apierrors.PanelNotFoundError(resource)
	case errors.Is(err, services.ErrNoImage):
		return apierrors.NewWithDetails(http.StatusNotFound, apierrors.ErrImageUnavailable.ErrorCode,
			apierrors.ErrImageUnavailable.Message, map[string]string{"panel_id": resource})
	case errors.Is(err, services.ErrBoundariesUnavailable):
		return apierrors.ErrGeoUnavailable
	case errors.Is(err, services.ErrExportNotFound):
		return apierrors.NewWithDetails(http.StatusNotFound, apierrors.ErrExportNotFound.ErrorCode,
			apierrors.ErrExportNotFound.Message, map[string]string{"table": resource})
	case errors.Is(err, services.ErrDataNotLoaded):
		return apierrors.ErrDataUnavailable
	default:
		return err
	}
}
