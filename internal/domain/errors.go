package domain

import "errors"

var (
	// ErrGarmentNotFound signals a missing garment.
	ErrGarmentNotFound = errors.New("garment not found")
	// ErrInvalidAction signals an unrecognized feedback action.
	ErrInvalidAction = errors.New("invalid feedback action")
	// ErrEmptyQuery signals a blank search query.
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrExtractionProviderError signals a preference extraction provider failure.
	ErrExtractionProviderError = errors.New("extraction provider error")
)
