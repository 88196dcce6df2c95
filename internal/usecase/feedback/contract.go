package feedback

import (
	"context"

	"github.com/prethrift/prethrift/internal/domain"
)

// GarmentReader resolves the garment a feedback event refers to.
type GarmentReader interface {
	Get(ctx context.Context, garmentID string) (domain.Garment, error)
}

// Ledger is the append-only feedback event log plus the derived
// per-attribute weight aggregate.
type Ledger interface {
	Append(ctx context.Context, event domain.FeedbackEvent) error
	AdjustWeight(ctx context.Context, userID string, key domain.AttributeKey, delta float64) error
}

// CentroidInvalidator drops a user's cached preference centroids.
type CentroidInvalidator interface {
	Invalidate(userID string)
}
