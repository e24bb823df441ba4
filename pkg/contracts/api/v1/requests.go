// Package api contains the JSON contracts of the dashboard HTTP API.
// Version v1 represents the current stable API version.
package api

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ClientLogRequest is the body of POST /api/logs
type ClientLogRequest struct {
	Level   string         `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Message string         `json:"message" validate:"required,max=2000"`
	Panel   string         `json:"panel,omitempty" validate:"omitempty,max=64"`
	Data    map[string]any `json:"data,omitempty"`
}

// ExportTablesResponse lists the tables GET /api/export/{table}.csv accepts
type ExportTablesResponse struct {
	Tables []string `json:"tables"`
}

// FieldError names the first field that failed validation
type FieldError struct {
	Field string
	Rule  string
}

func (e *FieldError) Error() string {
	return e.Field + " failed " + e.Rule
}

// Validate checks the struct tags of a request. The returned error is a
// *FieldError for the first failing field, using its JSON name.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &FieldError{Field: strings.ToLower(verrs[0].Field()), Rule: verrs[0].Tag()}
	}
	return err
}
