package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrCurrencyExcluded = errors.New("currency is excluded from conversion")
	ErrProviderNotFound = errors.New("provider not found")
	ErrUpstream         = errors.New("upstream returned an unusable payload")
	ErrTransport        = errors.New("upstream transport failure")
)

// ValidationError reports a malformed or out-of-range request value.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ExclusionError is returned when currency rules forbid a currency.
type ExclusionError struct {
	Currency string
}

func (e *ExclusionError) Error() string {
	return fmt.Sprintf("currency %s is excluded from conversion", e.Currency)
}

func (e *ExclusionError) Unwrap() error { return ErrCurrencyExcluded }

// NotFoundError is returned when no rate provider is registered under a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("provider %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrProviderNotFound }

// UpstreamError means the upstream answered but the payload cannot be used.
type UpstreamError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Reason)
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUpstream}
	}
	return []error{ErrUpstream, e.Err}
}

// TransportError covers network failures, non-transient HTTP statuses and an open circuit.
// StatusCode is zero when no response was received.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status code %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}
