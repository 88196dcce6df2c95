// Package ingest upserts garments into the catalog: the description is
// classified into canonical attributes and embedded before persisting.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/prethrift/prethrift/internal/domain"
)

// MaxBatchSize is the maximum number of garments per batch upsert.
const MaxBatchSize = 100

// Input is one garment to upsert.
type Input struct {
	ID          string
	Title       string
	Brand       string
	Price       float64
	Currency    string
	Description string
}

// ItemResult is the outcome of one garment in a batch upsert.
type ItemResult struct {
	ID  string
	OK  bool
	Err error
}

// Service ingests garments.
type Service struct {
	classifier Classifier
	embed      Embedder
	catalog    CatalogWriter
	logger     *zap.Logger
}

// New creates an ingestion service.
func New(classifier Classifier, embed Embedder, catalog CatalogWriter, logger *zap.Logger) *Service {
	return &Service{classifier: classifier, embed: embed, catalog: catalog, logger: logger}
}

// Upsert classifies and embeds the garment description, then persists the
// garment. An embedding-provider failure is logged and the garment is
// stored without an embedding; the text signal for it degrades to zero
// until re-ingested. Returns the stored garment.
func (s *Service) Upsert(ctx context.Context, in Input) (domain.Garment, error) {
	garment := domain.Garment{
		ID:          in.ID,
		Title:       in.Title,
		Brand:       in.Brand,
		Price:       in.Price,
		Currency:    in.Currency,
		Description: in.Description,
	}

	attrs := s.classifier.Classify(in.Description)
	if len(attrs) > 0 {
		confidences := s.classifier.AttributeConfidences(in.Description, attrs)
		garment.Attributes = buildAttributes(attrs, confidences)
	}

	if in.Description != "" {
		result, err := s.embed.Embed(ctx, in.Description)
		if err != nil {
			s.logger.Warn("Description embedding failed, storing garment without embedding",
				zap.String("garment_id", in.ID), zap.Error(err))
		} else {
			domain.UsageFromContext(ctx).AddTokens(result.TotalTokens)
			garment.DescriptionEmbedding = result.Embedding
		}
	}

	if err := s.catalog.Put(ctx, garment); err != nil {
		return domain.Garment{}, fmt.Errorf("store garment: %w", err)
	}

	s.logger.Info("Garment ingested",
		zap.String("garment_id", garment.ID),
		zap.Int("attributes", len(garment.Attributes)),
		zap.Bool("embedded", len(garment.DescriptionEmbedding) > 0),
	)
	return garment, nil
}

// UpsertBatch upserts garments with per-item error reporting. An oversized
// batch fails every item; otherwise items are processed independently and
// one bad garment does not block the rest.
func (s *Service) UpsertBatch(ctx context.Context, items []Input) []ItemResult {
	results := make([]ItemResult, len(items))

	if len(items) > MaxBatchSize {
		err := fmt.Errorf("batch size %d exceeds %d", len(items), MaxBatchSize)
		for i, item := range items {
			results[i] = ItemResult{ID: item.ID, Err: err}
		}
		return results
	}

	for i, item := range items {
		if item.ID == "" {
			results[i] = ItemResult{Err: errors.New("garment id is required")}
			continue
		}
		if _, err := s.Upsert(ctx, item); err != nil {
			results[i] = ItemResult{ID: item.ID, Err: err}
			continue
		}
		results[i] = ItemResult{ID: item.ID, OK: true}
	}
	return results
}

// buildAttributes flattens the family map into sorted attribute instances.
func buildAttributes(attrs map[string][]string, confidences map[domain.AttributeKey]float64) []domain.AttributeInstance {
	var out []domain.AttributeInstance
	for family, values := range attrs {
		for _, v := range values {
			out = append(out, domain.AttributeInstance{
				Family:     family,
				Value:      v,
				Confidence: confidences[domain.AttributeKey{Family: family, Value: v}],
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Family != out[j].Family {
			return out[i].Family < out[j].Family
		}
		return out[i].Value < out[j].Value
	})
	return out
}
