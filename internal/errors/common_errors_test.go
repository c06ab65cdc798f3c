package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{"without cause", NewSchemaError("sheet has no header row", nil), "[SCHEMA] sheet has no header row"},
		{"with cause", NewStorageError("failed to open workbook", io.ErrUnexpectedEOF), "[STORAGE] failed to open workbook: unexpected EOF"},
		{"config", NewConfigError("configuration is required", nil), "[CONFIG] configuration is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := fmt.Errorf("load: %w", NewStorageError("failed to open workbook", cause))

	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewSchemaError("missing required columns", nil).
		WithContext("missing_columns", []string{"Order Total"}).
		WithContext("path", "data/sales.xlsx")

	assert.Equal(t, []string{"Order Total"}, err.Context["missing_columns"])
	assert.Equal(t, "data/sales.xlsx", err.Context["path"])

	bare := &AppError{Type: ErrTypeSchema}
	bare.WithContext("k", 1)
	assert.Equal(t, 1, bare.Context["k"])
}

func TestIsType(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{"direct match", NewSchemaError("x", nil), ErrTypeSchema, true},
		{"wrapped match", fmt.Errorf("outer: %w", NewStorageError("x", nil)), ErrTypeStorage, true},
		{"other type", NewSchemaError("x", nil), ErrTypeStorage, false},
		{"plain error", errors.New("x"), ErrTypeSchema, false},
		{"nil", nil, ErrTypeSchema, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsType(tt.err, tt.errType))
		})
	}
}
