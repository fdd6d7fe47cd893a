// Package errors provides centralized error definitions for the application.
//
// Naming conventions:
//   - Exported errors (Err*): use for errors that callers need to check with errors.Is
//   - All sentinel errors are defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Circuit breaker errors.
var (
	// ErrCircuitBreakerOpen indicates the circuit breaker has tripped and requests are blocked.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
)

// Response and parsing errors.
var (
	// ErrEmptyResponse indicates an empty response was received from the LLM.
	ErrEmptyResponse = errors.New("empty response")

	// ErrNoResults indicates no results could be extracted from an LLM response.
	ErrNoResults = errors.New("no results extracted from response")

	// ErrResultCountMismatch indicates the LLM returned a results array whose
	// length does not match the submitted batch.
	ErrResultCountMismatch = errors.New("result count does not match batch size")
)

// Provider errors.
var (
	// ErrNoProvidersAvailable indicates no LLM provider is configured or healthy.
	ErrNoProvidersAvailable = errors.New("no LLM providers available")

	// ErrAllProvidersFailed indicates every registered provider failed the call.
	ErrAllProvidersFailed = errors.New("all LLM providers failed")
)

// Validation errors.
var (
	// ErrInvalidConfig indicates invalid configuration values at construction time.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingColumn indicates the designated text column is absent from the input.
	ErrMissingColumn = errors.New("text column not found in input")
)

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
