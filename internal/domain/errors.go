package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource. Empty search results are not
	// an error; this is reserved for point lookups.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable signals that the structured store could not be
	// reached or timed out. It triggers the fallback tier and is never
	// surfaced to the caller as a failure.
	ErrStoreUnavailable = errors.New("structured store unavailable")
	// ErrIndexUnavailable signals that the semantic index or its embedding
	// provider failed. It triggers the structured-only path.
	ErrIndexUnavailable = errors.New("semantic index unavailable")
	// ErrInvalidFilter signals a filter value outside the controlled
	// vocabulary. Surfaced to the caller for correction.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrSnapshotInvalid signals a malformed catalog snapshot at load time.
	ErrSnapshotInvalid = errors.New("invalid catalog snapshot")
)

// InvalidFilterError wraps ErrInvalidFilter with the offending field and value.
type InvalidFilterError struct {
	Field string
	Value string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("%s: unknown %s %q", ErrInvalidFilter.Error(), e.Field, e.Value)
}

func (e *InvalidFilterError) Unwrap() error { return ErrInvalidFilter }

// NewInvalidFilter creates an invalid filter error for a field/value pair.
func NewInvalidFilter(field, value string) error {
	return &InvalidFilterError{Field: field, Value: value}
}
