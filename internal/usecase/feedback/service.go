// Package feedback records user interactions with garments and folds them
// into the learned per-attribute preference weights.
package feedback

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/prethrift/prethrift/internal/domain"
)

// Per-action multipliers applied to the caller-supplied base weight.
// Explicit signals move the needle fully, implicit ones fractionally.
const (
	likeMultiplier    = 1.0
	dislikeMultiplier = -1.0
	viewMultiplier    = 0.1
	clickMultiplier   = 0.3
)

const defaultBaseWeight = 1.0

// Service records feedback events.
type Service struct {
	garments    GarmentReader
	ledger      Ledger
	invalidator CentroidInvalidator
	logger      *zap.Logger
	now         func() time.Time
}

// New creates a feedback service.
func New(garments GarmentReader, ledger Ledger, invalidator CentroidInvalidator, logger *zap.Logger) *Service {
	return &Service{
		garments:    garments,
		ledger:      ledger,
		invalidator: invalidator,
		logger:      logger,
		now:         time.Now,
	}
}

// Record appends one feedback event, shifts the user's weight for every
// attribute on the garment by the action's delta, and invalidates the
// user's cached centroids. weight <= 0 falls back to the default base
// weight. Returns the recorded event.
func (s *Service) Record(ctx context.Context, userID, garmentID, action string, weight float64) (domain.FeedbackEvent, error) {
	if !domain.ValidAction(action) {
		return domain.FeedbackEvent{}, fmt.Errorf("%w: %q", domain.ErrInvalidAction, action)
	}
	if weight <= 0 {
		weight = defaultBaseWeight
	}

	garment, err := s.garments.Get(ctx, garmentID)
	if err != nil {
		return domain.FeedbackEvent{}, fmt.Errorf("get garment: %w", err)
	}

	delta := weight * actionMultiplier(action)
	event := domain.FeedbackEvent{
		UserID:      userID,
		GarmentID:   garmentID,
		Action:      action,
		WeightDelta: delta,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.ledger.Append(ctx, event); err != nil {
		return domain.FeedbackEvent{}, fmt.Errorf("append feedback event: %w", err)
	}

	for _, attr := range garment.Attributes {
		key := domain.AttributeKey{Family: attr.Family, Value: attr.Value}
		if err := s.ledger.AdjustWeight(ctx, userID, key, delta); err != nil {
			return domain.FeedbackEvent{}, fmt.Errorf("adjust weight %s=%s: %w", key.Family, key.Value, err)
		}
	}

	// Must happen after the ledger write so the next profile read sees
	// the new event.
	s.invalidator.Invalidate(userID)

	s.logger.Info("Feedback recorded",
		zap.String("user_id", userID),
		zap.String("garment_id", garmentID),
		zap.String("action", action),
		zap.Float64("weight_delta", delta),
	)
	return event, nil
}

func actionMultiplier(action string) float64 {
	switch action {
	case domain.ActionLike:
		return likeMultiplier
	case domain.ActionDislike:
		return dislikeMultiplier
	case domain.ActionView:
		return viewMultiplier
	case domain.ActionClick:
		return clickMultiplier
	}
	return 0
}
