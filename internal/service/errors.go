package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/court-service/internal/store"
)

// Sentinel errors returned by the services. The API layer maps them to
// HTTP status codes.
var (
	// ErrUpstreamUnavailable is returned when every nearby search strategy
	// failed. Maps to 503.
	ErrUpstreamUnavailable = errors.New("nearby search unavailable")

	// ErrCancelled is returned when the caller's context ended before the
	// search completed. Maps to 504.
	ErrCancelled = errors.New("nearby search cancelled")

	// ErrFacilityNotFound indicates that the facility does not exist. Maps to 404.
	ErrFacilityNotFound = errors.New("facility not found")
)

// UpstreamError records the failure of a single search strategy. It is
// logged and swallowed while later strategies remain.
type UpstreamError struct {
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

// Unwrap returns the stage's cause.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ServiceError wraps unexpected failures with the service and operation
// that produced them.
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Operation)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// wrapError translates store sentinels into service sentinels and wraps
// everything else in a ServiceError. Validation errors pass through so the
// API layer can report the offending field.
func wrapError(service, operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrFacilityNotFound) {
		return ErrFacilityNotFound
	}
	if errors.Is(err, ErrFacilityNotFound) || isValidation(err) {
		return err
	}
	return &ServiceError{Service: service, Operation: operation, Err: err}
}
