package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := ValidationError("invalid input")

	assert.Equal(t, TypeValidation, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Nil(t, err.Cause)
	assert.NotNil(t, err.Context)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.Contains(t, err.Error(), "validation")
	assert.Contains(t, err.Error(), "invalid input")
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("bill not found")

	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus())
	assert.Contains(t, err.Error(), "not_found")
}

func TestForbiddenError(t *testing.T) {
	err := ForbiddenError("kitchen capability required")

	assert.Equal(t, TypeForbidden, err.Type)
	assert.Equal(t, http.StatusForbidden, err.HTTPStatus())
	assert.Contains(t, err.Error(), "forbidden")
}

func TestConflictError(t *testing.T) {
	err := ConflictError("resource already exists")

	assert.Equal(t, TypeConflict, err.Type)
	assert.Equal(t, http.StatusConflict, err.HTTPStatus())
}

func TestInternalError(t *testing.T) {
	cause := fmt.Errorf("database connection failed")
	err := InternalError("failed to save bill", cause)

	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, cause, err.Cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.Contains(t, err.Error(), "failed to save bill")
	assert.Contains(t, err.Error(), "database connection failed")
}

func TestInternalErrorWithoutCause(t *testing.T) {
	err := InternalError("something went wrong", nil)

	assert.Nil(t, err.Cause)
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestWithFieldChaining(t *testing.T) {
	err := NotFoundError("order item not found").
		WithField("item_id", "abc-123").
		WithField("bill_id", "456")

	assert.Len(t, err.Context, 2)
	assert.Equal(t, "abc-123", err.Context["item_id"])
	assert.Equal(t, "456", err.Context["bill_id"])
}

func TestWithFieldNilMap(t *testing.T) {
	err := &Error{Type: TypeValidation, Message: "test"}

	err = err.WithField("key", "value")

	assert.NotNil(t, err.Context)
	assert.Equal(t, "value", err.Context["key"])
}

func TestToResponse(t *testing.T) {
	err := ValidationError("invalid status provided").
		WithField("status", "BURNT")

	resp := err.ToResponse()

	assert.Equal(t, "invalid status provided", resp.Error)
	assert.Equal(t, TypeValidation, resp.Type)
	assert.Equal(t, "BURNT", resp.Context["status"])
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := InternalError("wrapped", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestErrorsAs(t *testing.T) {
	err := ValidationError("test")

	var target *Error
	require.True(t, errors.As(err, &target))
	assert.Equal(t, TypeValidation, target.Type)
}

func TestAsStructuredErrorWithStructuredError(t *testing.T) {
	original := ValidationError("original")
	result := AsStructuredError(original)

	assert.Equal(t, original, result)
}

func TestAsStructuredErrorWithStandardError(t *testing.T) {
	original := fmt.Errorf("standard error")
	result := AsStructuredError(original)

	assert.Equal(t, TypeInternal, result.Type)
	assert.Equal(t, "internal server error", result.Message)
	assert.Equal(t, original, result.Cause)
}

func TestAsStructuredErrorNil(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))
}
