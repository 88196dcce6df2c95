// Package preference derives and caches per-user taste signals: learned
// attribute weights and liked/disliked description-embedding centroids.
//
// Centroid caching is a correctness concern, not just performance: a stale
// centroid silently biases ranking. Invalidation and the next read for the
// same user are serialized through a per-user lock.
package preference

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/prethrift/prethrift/internal/domain"
	"github.com/prethrift/prethrift/internal/domain/vector"
)

// Service loads per-user preference snapshots.
type Service struct {
	weights  WeightReader
	events   InteractionReader
	garments EmbeddingReader
	logger   *zap.Logger

	mu    sync.Mutex
	users map[string]*userEntry
}

// userEntry caches both polarity centroids for one user. The entry lock
// orders invalidation before the next recomputation.
type userEntry struct {
	mu       sync.Mutex
	computed bool
	positive []float32
	negative []float32
}

// New creates a preference service.
func New(weights WeightReader, events InteractionReader, garments EmbeddingReader, logger *zap.Logger) *Service {
	return &Service{
		weights:  weights,
		events:   events,
		garments: garments,
		logger:   logger,
		users:    make(map[string]*userEntry),
	}
}

// Load returns the user's preference snapshot. Weight-store failures
// degrade to an empty weight map; centroids are computed lazily on first
// use and cached until Invalidate.
func (s *Service) Load(ctx context.Context, userID string) domain.Profile {
	profile := domain.Profile{}

	weights, err := s.weights.Weights(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to read preference weights",
			zap.String("user_id", userID), zap.Error(err))
	} else {
		profile.AttributeWeights = weights
	}

	entry := s.entry(userID)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if !entry.computed {
		entry.positive, entry.negative = s.computeCentroids(ctx, userID)
		entry.computed = true
	}
	profile.PositiveCentroid = entry.positive
	profile.NegativeCentroid = entry.negative
	return profile
}

// Invalidate drops both centroid cache entries for the user. Must be
// called after every new feedback event; the next Load recomputes.
func (s *Service) Invalidate(userID string) {
	entry := s.entry(userID)
	entry.mu.Lock()
	entry.computed = false
	entry.positive = nil
	entry.negative = nil
	entry.mu.Unlock()
}

// Reset drops all cached centroids. Intended for tests.
func (s *Service) Reset() {
	s.mu.Lock()
	s.users = make(map[string]*userEntry)
	s.mu.Unlock()
}

func (s *Service) entry(userID string) *userEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.users[userID]
	if !ok {
		e = &userEntry{}
		s.users[userID] = e
	}
	return e
}

// computeCentroids averages description embeddings of positively and
// negatively interacted garments. A polarity with no qualifying
// interaction stays nil — undefined, not zero.
func (s *Service) computeCentroids(ctx context.Context, userID string) (positive, negative []float32) {
	events, err := s.events.Events(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to read feedback events",
			zap.String("user_id", userID), zap.Error(err))
		return nil, nil
	}

	var posVectors, negVectors [][]float32
	for _, ev := range events {
		if !ev.PositiveAction() && !ev.NegativeAction() {
			continue
		}
		emb, err := s.garments.DescriptionEmbedding(ctx, ev.GarmentID)
		if err != nil || len(emb) == 0 {
			continue
		}
		if ev.PositiveAction() {
			posVectors = append(posVectors, emb)
		} else {
			negVectors = append(negVectors, emb)
		}
	}

	return vector.Mean(posVectors), vector.Mean(negVectors)
}
