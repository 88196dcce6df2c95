package search

import (
	"context"

	"github.com/prethrift/prethrift/internal/domain"
	"github.com/prethrift/prethrift/internal/usecase/ranking"
)

// QueryParser turns raw query text into a ParsedQuery.
type QueryParser interface {
	Parse(ctx context.Context, text string) domain.ParsedQuery
}

// ProfileLoader loads a user's preference snapshot.
type ProfileLoader interface {
	Load(ctx context.Context, userID string) domain.Profile
}

// CandidateSource enumerates the garments eligible for ranking.
type CandidateSource interface {
	List(ctx context.Context) ([]domain.Garment, error)
}

// Ranker scores candidates against a parsed query and a profile.
type Ranker interface {
	Rank(parsed domain.ParsedQuery, candidates []domain.Garment, profile domain.Profile, limit int) []domain.RankedResult
	Weights() ranking.Weights
}
