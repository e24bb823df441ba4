package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewAppValidationError("bad year"),
			want: "[VALIDATION] bad year",
		},
		{
			name: "with cause",
			err:  NewParsingError("invalid sheet", errors.New("no rows")),
			want: "[PARSING] invalid sheet: no rows",
		},
		{
			name: "not found",
			err:  NewNotFoundError("panel"),
			want: "[NOT_FOUND] panel not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestNewInputMissingError(t *testing.T) {
	cause := errors.New("stat divipola.xlsx: no such file or directory")
	err := NewInputMissingError("divipola", "/data/divipola.xlsx", cause)

	assert.Equal(t, ErrTypeInputMissing, err.Type)
	assert.Equal(t, "divipola", err.Context["table"])
	assert.Equal(t, "/data/divipola.xlsx", err.Context["path"])
	assert.ErrorIs(t, err, cause)
}

func TestAppError_WithContext_NilContext(t *testing.T) {
	err := &AppError{Type: ErrTypeStorage, Message: "write failed"}
	err.WithContext("path", "exports/rates.csv")
	assert.Equal(t, "exports/rates.csv", err.Context["path"])
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("load dataset: %w", NewInputMissingError("causes", "c.xlsx", nil))

	assert.True(t, IsType(wrapped, ErrTypeInputMissing))
	assert.False(t, IsType(wrapped, ErrTypeParsing))
	assert.False(t, IsType(errors.New("plain"), ErrTypeInputMissing))
	assert.False(t, IsType(nil, ErrTypeInputMissing))

	joined := errors.Join(errors.New("other"), NewRenderError("png", nil))
	assert.True(t, IsType(joined, ErrTypeRender))
}

func TestConstructorTypes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want ErrorType
	}{
		{NewStorageError("s", nil), ErrTypeStorage},
		{NewConfigError("c", nil), ErrTypeConfig},
		{NewRenderError("r", nil), ErrTypeRender},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
		})
	}
}
