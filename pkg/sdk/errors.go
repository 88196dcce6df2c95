package prethrift

import "github.com/prethrift/prethrift/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrGarmentNotFound         = domain.ErrGarmentNotFound
	ErrInvalidAction           = domain.ErrInvalidAction
	ErrEmptyQuery              = domain.ErrEmptyQuery
	ErrEmbeddingProviderError  = domain.ErrEmbeddingProviderError
	ErrExtractionProviderError = domain.ErrExtractionProviderError
)
