package preference

import (
	"context"

	"github.com/prethrift/prethrift/internal/domain"
)

// WeightReader reads the persisted per-attribute weight aggregates.
type WeightReader interface {
	Weights(ctx context.Context, userID string) (map[domain.AttributeKey]domain.AttributeWeight, error)
}

// InteractionReader lists a user's feedback events, oldest first.
type InteractionReader interface {
	Events(ctx context.Context, userID string) ([]domain.FeedbackEvent, error)
}

// EmbeddingReader resolves a garment's description embedding.
type EmbeddingReader interface {
	DescriptionEmbedding(ctx context.Context, garmentID string) ([]float32, error)
}
