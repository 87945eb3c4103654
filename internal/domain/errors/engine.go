package errors

import (
	"fmt"
	"net/http"
)

// UpstreamError reports a failed or malformed catalog response.
type UpstreamError struct {
	StoreID    string
	Page       int
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog store %s page %d: status %d", e.StoreID, e.Page, e.StatusCode)
	}

	return fmt.Sprintf("catalog store %s page %d: %v", e.StoreID, e.Page, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// SigningError reports malformed VAPID key material or a failed signature.
type SigningError struct {
	Reason string
	Err    error
}

func (e *SigningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vapid signing: %s: %v", e.Reason, e.Err)
	}

	return "vapid signing: " + e.Reason
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// EncryptionError reports unusable subscriber keys or a failed cipher operation.
type EncryptionError struct {
	Reason string
	Err    error
}

func (e *EncryptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("push encryption: %s: %v", e.Reason, e.Err)
	}

	return "push encryption: " + e.Reason
}

func (e *EncryptionError) Unwrap() error {
	return e.Err
}

// DeliveryError is a non-2xx response (or transport failure when StatusCode is 0) from a push endpoint.
type DeliveryError struct {
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("push delivery failed: %v", e.Err)
	}

	return fmt.Sprintf("push failed: %d %s", e.StatusCode, e.Body)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Gone reports whether the push service has dropped the subscription.
func (e *DeliveryError) Gone() bool {
	return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone
}

// StorageError reports a failed read or write against the record store, implementing AppError
type StorageError struct {
	Op  string
	Key string
	Err error
}

// NewStorageError creates a storage-related error
func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) HTTPCode() int {
	return http.StatusInternalServerError
}

func (e *StorageError) ErrorCode() string {
	return "STORAGE_FAILED"
}

func (e *StorageError) Message() string {
	return "Storage operation failed"
}

func (e *StorageError) Details() string {
	return e.Op + " " + e.Key
}
