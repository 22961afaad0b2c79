// Package apperr defines the error kinds shared across the ingestion and
// retrieval paths. Callers classify failures by wrapping one of the
// sentinels with %w and transports map them with errors.Is.
package apperr

import "errors"

var (
	// ErrConfiguration marks a missing or invalid configuration value.
	// Fatal at startup, never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrValidation marks malformed input such as an empty chunk or an
	// embedding dimension mismatch.
	ErrValidation = errors.New("validation error")

	// ErrUpstream marks a failure talking to the embedding or chat
	// backend: unreachable, non-2xx, timeout, or malformed payload.
	ErrUpstream = errors.New("upstream error")
)

// IsConfiguration reports whether err is classified as a configuration error.
func IsConfiguration(err error) bool { return errors.Is(err, ErrConfiguration) }

// IsValidation reports whether err is classified as a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsUpstream reports whether err is classified as an upstream error.
func IsUpstream(err error) bool { return errors.Is(err, ErrUpstream) }
