package ingest

import (
	"context"

	"github.com/prethrift/prethrift/internal/domain"
)

// Classifier extracts canonical attributes from a garment description.
type Classifier interface {
	Classify(description string) map[string][]string
	AttributeConfidences(description string, attrs map[string][]string) map[domain.AttributeKey]float64
}

// Embedder vectorizes description text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// CatalogWriter persists garments.
type CatalogWriter interface {
	Put(ctx context.Context, garment domain.Garment) error
}
