package core

import (
	"errors"
	"fmt"
)

// Error codes for startup/configuration failures.
const (
	ErrCodeConfigLoadFailed = "CONFIG_LOAD_FAILED"
	ErrCodeInvalidConfig    = "INVALID_CONFIG"
)

// AppError is the unified error type for programming/configuration errors
// detected at startup. Translate-time failures never surface as AppError;
// they are absorbed by rotation and the local fallback tier.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppErrorf creates a new application error with a formatted message.
func NewAppErrorf(code string, cause error, format string, args ...any) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// ErrConfigLoadFailed wraps a configuration loading failure.
func ErrConfigLoadFailed(what string, cause error) *AppError {
	return NewAppErrorf(ErrCodeConfigLoadFailed, cause, "Failed to load %s configuration", what)
}

// ErrInvalidConfig reports an invalid configuration field.
func ErrInvalidConfig(field, reason string) *AppError {
	return NewAppErrorf(ErrCodeInvalidConfig, nil, "Invalid configuration for %s: %s", field, reason)
}

// ProviderErrorKind buckets remote provider failures. The rotation loop
// only distinguishes quota-like failures from everything else.
type ProviderErrorKind int

// Provider failure kinds.
const (
	ProviderFailureRequest ProviderErrorKind = iota
	ProviderFailureQuota
)

// ProviderError is a typed remote failure classified at the adapter
// boundary, replacing substring sniffing on error messages.
type ProviderError struct {
	Provider string
	Model    string
	Kind     ProviderErrorKind
	Status   int
	Cause    error
}

func (e *ProviderError) Error() string {
	kind := "request failed"
	if e.Kind == ProviderFailureQuota {
		kind = "quota exceeded"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Provider, e.Model, kind, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s (status %d)", e.Provider, e.Model, kind, e.Status)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewQuotaError creates a quota-class provider error.
func NewQuotaError(provider, model string, status int, cause error) *ProviderError {
	return &ProviderError{Provider: provider, Model: model, Kind: ProviderFailureQuota, Status: status, Cause: cause}
}

// NewRequestError creates a request-class provider error.
func NewRequestError(provider, model string, status int, cause error) *ProviderError {
	return &ProviderError{Provider: provider, Model: model, Kind: ProviderFailureRequest, Status: status, Cause: cause}
}

// IsQuotaError reports whether err is a quota-class provider failure.
func IsQuotaError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == ProviderFailureQuota
}

// Sentinel errors for the fallback chain.
var (
	// ErrAllProvidersExhausted signals total remote failure; the
	// orchestrator converts it into a local-tier attempt.
	ErrAllProvidersExhausted = errors.New("all remote providers exhausted")

	// ErrUnsupportedPair is returned by the local tier for any directed
	// language pair other than en->ur and ur->en.
	ErrUnsupportedPair = errors.New("unsupported local language pair")

	// ErrLocalModelLoad signals the local model failed to load.
	ErrLocalModelLoad = errors.New("local model load failed")

	// ErrLocalInference signals the local model failed at inference time.
	ErrLocalInference = errors.New("local inference failed")
)
