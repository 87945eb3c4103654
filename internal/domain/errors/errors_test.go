package errors

import (
	"io"
	"net/http"
	"testing"

	"alerts/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestBaseError_IsMatchesByCode(t *testing.T) {
	detailed := ErrValidationFailed.WithDetails("keywords required")

	assert.True(t, errors.Is(detailed, ErrValidationFailed))
	assert.False(t, errors.Is(detailed, ErrMissingEndpoint))
	assert.Equal(t, "Input validation failed: keywords required", detailed.Error())
	assert.Equal(t, http.StatusBadRequest, detailed.HTTPCode())
}

func TestBaseError_WrapMessageKeepsAppError(t *testing.T) {
	wrapped := ErrSubscriptionNotFound.WrapMessage("lookup")

	appErr, ok := errors.AsTarget[AppError](wrapped)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode())
	assert.Equal(t, "SUBSCRIPTION_NOT_FOUND", appErr.ErrorCode())
}

func TestDeliveryError(t *testing.T) {
	tests := []struct {
		name    string
		err     *DeliveryError
		gone    bool
		message string
	}{
		{name: "gone", err: &DeliveryError{StatusCode: http.StatusGone, Body: "expired"}, gone: true, message: "push failed: 410 expired"},
		{name: "not found", err: &DeliveryError{StatusCode: http.StatusNotFound}, gone: true, message: "push failed: 404 "},
		{name: "server error", err: &DeliveryError{StatusCode: http.StatusInternalServerError, Body: "boom"}, gone: false, message: "push failed: 500 boom"},
		{name: "transport", err: &DeliveryError{Err: io.ErrUnexpectedEOF}, gone: false, message: "push delivery failed: unexpected EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.gone, tt.err.Gone())
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestTypedErrorsUnwrap(t *testing.T) {
	cause := io.ErrUnexpectedEOF

	assert.ErrorIs(t, &UpstreamError{StoreID: "294", Err: cause}, cause)
	assert.ErrorIs(t, &SigningError{Reason: "bad key", Err: cause}, cause)
	assert.ErrorIs(t, &EncryptionError{Reason: "bad point", Err: cause}, cause)
	assert.ErrorIs(t, NewStorageError("put", "sub:1", cause), cause)

	storageErr, ok := errors.AsTarget[AppError](errors.Wrap(NewStorageError("put", "sub:1", cause), "persist"))
	assert.True(t, ok)
	assert.Equal(t, "STORAGE_FAILED", storageErr.ErrorCode())
}
