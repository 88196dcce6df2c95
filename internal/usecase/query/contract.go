package query

import (
	"context"

	"github.com/prethrift/prethrift/internal/domain"
)

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Extractor derives coarse family→values preferences from free text.
type Extractor interface {
	Extract(ctx context.Context, conversation string) (map[string][]string, error)
}

// Normalizer resolves surface forms against the ontology.
type Normalizer interface {
	Normalize(family, raw string) (string, bool)
}
