package services

import "errors"

// Dashboard service errors
var (
	ErrDataNotLoaded         = errors.New("dataset not loaded")
	ErrPanelNotFound         = errors.New("panel not found")
	ErrNoImage               = errors.New("panel has no image rendering")
	ErrBoundariesUnavailable = errors.New("boundary document unavailable")
	ErrExportNotFound        = errors.New("export table not found")
)
