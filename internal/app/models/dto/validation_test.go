package dto

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationErrorsFor(t *testing.T, s interface{}) error {
	t.Helper()
	err := validator.New().Struct(s)
	require.Error(t, err)
	return err
}

func TestBindingErrorMessageFallback(t *testing.T) {
	msg := BindingErrorMessage(errors.New("unexpected EOF"), "Something is required!")
	assert.Equal(t, "Something is required!", msg)
}

func TestBindingErrorMessageSingleField(t *testing.T) {
	err := validationErrorsFor(t, struct {
		Course string `validate:"required"`
	}{})

	assert.Equal(t, "Course is required!", BindingErrorMessage(err, "fallback"))
}

func TestBindingErrorMessageMultipleFields(t *testing.T) {
	err := validationErrorsFor(t, struct {
		Name     string `validate:"required"`
		Password string `validate:"required"`
	}{})

	assert.Equal(t, "Name and password are required!", BindingErrorMessage(err, "fallback"))
}

func TestBindingErrorMessageEmailFormat(t *testing.T) {
	err := validationErrorsFor(t, struct {
		Email string `validate:"required,email"`
	}{Email: "not-an-email"})

	assert.Equal(t, "A valid email address is required!", BindingErrorMessage(err, "fallback"))
}
