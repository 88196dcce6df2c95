package prethrift

import (
	"context"
	"fmt"
	"time"

	"github.com/prethrift/prethrift/internal/domain"
	ingestuc "github.com/prethrift/prethrift/internal/usecase/ingest"
)

// GarmentService manages the garment catalog.
type GarmentService struct {
	ingest  ingestUseCase
	catalog catalogRepository
	obs     *observer
}

// Upsert classifies, embeds, and stores a garment. Returns the stored
// garment including its classified attributes.
func (s *GarmentService) Upsert(ctx context.Context, in GarmentInput) (g Garment, err error) {
	start := time.Now()
	defer func() { s.obs.observe("garment_upsert", start, err) }()

	stored, err := s.ingest.Upsert(ctx, ingestuc.Input{
		ID:          in.ID,
		Title:       in.Title,
		Brand:       in.Brand,
		Price:       in.Price,
		Currency:    in.Currency,
		Description: in.Description,
	})
	if err != nil {
		return Garment{}, fmt.Errorf("upsert garment: %w", err)
	}
	return fromInternalGarment(stored), nil
}

// UpsertBatch upserts garments with per-item error reporting. One bad
// garment does not block the rest.
func (s *GarmentService) UpsertBatch(ctx context.Context, items []GarmentInput) []BatchResult {
	start := time.Now()
	defer func() { s.obs.observe("garment_batch_upsert", start, nil) }()

	inputs := make([]ingestuc.Input, len(items))
	for i, in := range items {
		inputs[i] = ingestuc.Input{
			ID:          in.ID,
			Title:       in.Title,
			Brand:       in.Brand,
			Price:       in.Price,
			Currency:    in.Currency,
			Description: in.Description,
		}
	}

	results := s.ingest.UpsertBatch(ctx, inputs)
	out := make([]BatchResult, len(results))
	for i, r := range results {
		out[i] = BatchResult{ID: r.ID, OK: r.OK, Err: r.Err}
	}
	return out
}

// Get retrieves a garment by ID.
func (s *GarmentService) Get(ctx context.Context, id string) (g Garment, err error) {
	start := time.Now()
	defer func() { s.obs.observe("garment_get", start, err) }()

	stored, err := s.catalog.Get(ctx, id)
	if err != nil {
		return Garment{}, fmt.Errorf("get garment: %w", err)
	}
	return fromInternalGarment(stored), nil
}

// List returns every stored garment, ordered by ID.
func (s *GarmentService) List(ctx context.Context) (out []Garment, err error) {
	start := time.Now()
	defer func() { s.obs.observe("garment_list", start, err) }()

	stored, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list garments: %w", err)
	}
	out = make([]Garment, len(stored))
	for i, g := range stored {
		out[i] = fromInternalGarment(g)
	}
	return out, nil
}

// Delete removes a garment by ID.
func (s *GarmentService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("garment_delete", start, err) }()

	if err = s.catalog.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete garment: %w", err)
	}
	return nil
}

func fromInternalGarment(g domain.Garment) Garment {
	out := Garment{
		ID:          g.ID,
		Title:       g.Title,
		Brand:       g.Brand,
		Price:       g.Price,
		Currency:    g.Currency,
		Description: g.Description,
	}
	if len(g.Attributes) > 0 {
		out.Attributes = make([]Attribute, len(g.Attributes))
		for i, a := range g.Attributes {
			out.Attributes[i] = Attribute{
				Family:     a.Family,
				Value:      a.Value,
				Confidence: a.Confidence,
			}
		}
	}
	return out
}
