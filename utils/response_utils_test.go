package utils

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValidationErrors(t *testing.T) {
	type payload struct {
		Name  string `validate:"required"`
		Count int    `validate:"min=2"`
	}

	err := validator.New().Struct(payload{Count: 1})
	require.Error(t, err)

	formatted := FormatValidationErrors(err)
	require.Len(t, formatted, 2)
	assert.Contains(t, formatted[0], "Name")
	assert.Contains(t, formatted[0], "required")
	assert.Contains(t, formatted[1], "min")
	assert.Contains(t, formatted[1], "value: 2")
}

func TestFormatValidationErrorsPlainError(t *testing.T) {
	formatted := FormatValidationErrors(errors.New("boom"))
	require.Len(t, formatted, 1)
	assert.Equal(t, "boom", formatted[0])

	assert.Empty(t, FormatValidationErrors(nil))
}
