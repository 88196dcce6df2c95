package prethrift

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prethrift/prethrift/internal/domain"
)

// SearchOption adjusts a single search call.
type SearchOption func(*searchParams)

type searchParams struct {
	userID string
	limit  int
}

// ForUser personalizes the search with the user's learned profile.
func ForUser(userID string) SearchOption {
	return func(p *searchParams) { p.userID = userID }
}

// Limit caps the number of returned results. Default: 20.
func Limit(n int) SearchOption {
	return func(p *searchParams) { p.limit = n }
}

// Search runs a ranked search over the catalog.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (resp SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	if strings.TrimSpace(query) == "" {
		return SearchResponse{}, ErrEmptyQuery
	}

	var p searchParams
	for _, o := range opts {
		o(&p)
	}

	internal, err := c.searchSvc.Search(ctx, query, p.userID, p.limit)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}
	return fromInternalResponse(internal), nil
}

func fromInternalResponse(r domain.SearchResponse) SearchResponse {
	out := SearchResponse{
		Query:      r.Query,
		Attributes: r.Attributes,
		Weights:    r.Weights,
		Results:    make([]SearchResult, len(r.Results)),
	}
	for i, res := range r.Results {
		out.Results[i] = fromInternalResult(res)
	}
	return out
}

func fromInternalResult(r domain.RankedResult) SearchResult {
	out := SearchResult{
		GarmentID:     r.GarmentID,
		Title:         r.Title,
		Description:   r.Description,
		Score:         r.Score,
		Components:    r.Components,
		Contributions: r.Contributions,
	}
	if len(r.AttributeDetails) > 0 {
		out.AttributeDetails = make([]FamilyOverlap, len(r.AttributeDetails))
		for i, d := range r.AttributeDetails {
			out.AttributeDetails[i] = FamilyOverlap{
				Family:          d.Family,
				QueryValues:     d.QueryValues,
				CandidateValues: d.CandidateValues,
				Overlap:         d.Overlap,
				Jaccard:         d.Jaccard,
			}
		}
	}
	return out
}
