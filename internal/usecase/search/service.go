// Package search orchestrates one ranked search: parse the query, load the
// caller's preference profile, enumerate candidates, rank.
package search

import (
	"context"
	"fmt"

	"github.com/prethrift/prethrift/internal/domain"
)

const defaultLimit = 20

// Service runs ranked garment searches.
type Service struct {
	parser     QueryParser
	prefs      ProfileLoader
	candidates CandidateSource
	ranker     Ranker
}

// New creates a search service.
func New(parser QueryParser, prefs ProfileLoader, candidates CandidateSource, ranker Ranker) *Service {
	return &Service{parser: parser, prefs: prefs, candidates: candidates, ranker: ranker}
}

// Search ranks the catalog against the query text. Parsing and profile
// loading degrade internally; only a candidate-source failure is a hard
// error. An empty userID skips personalization entirely.
func (s *Service) Search(ctx context.Context, text, userID string, limit int) (domain.SearchResponse, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	parsed := s.parser.Parse(ctx, text)

	var profile domain.Profile
	if userID != "" {
		profile = s.prefs.Load(ctx, userID)
	}

	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("list candidates: %w", err)
	}

	results := s.ranker.Rank(parsed, candidates, profile, limit)
	return domain.SearchResponse{
		Query:      parsed.Raw,
		Attributes: parsed.Attributes,
		Weights:    s.ranker.Weights().Map(),
		Results:    results,
	}, nil
}
