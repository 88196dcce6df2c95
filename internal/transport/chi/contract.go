package chi

import (
	"context"

	"github.com/prethrift/prethrift/internal/cache"
	"github.com/prethrift/prethrift/internal/domain"
	healthuc "github.com/prethrift/prethrift/internal/usecase/health"
	ingestuc "github.com/prethrift/prethrift/internal/usecase/ingest"
)

// SearchService runs ranked searches.
type SearchService interface {
	Search(ctx context.Context, text, userID string, limit int) (domain.SearchResponse, error)
}

// FeedbackService records feedback events.
type FeedbackService interface {
	Record(ctx context.Context, userID, garmentID, action string, weight float64) (domain.FeedbackEvent, error)
}

// IngestService upserts garments.
type IngestService interface {
	Upsert(ctx context.Context, in ingestuc.Input) (domain.Garment, error)
	UpsertBatch(ctx context.Context, items []ingestuc.Input) []ingestuc.ItemResult
}

// CatalogReader reads and deletes stored garments.
type CatalogReader interface {
	Get(ctx context.Context, garmentID string) (domain.Garment, error)
	List(ctx context.Context) ([]domain.Garment, error)
	Delete(ctx context.Context, garmentID string) error
}

// Extractor exposes raw preference extraction.
type Extractor interface {
	Extract(ctx context.Context, conversation string) (map[string][]string, error)
}

// Ontology lists the attribute vocabulary and its cache counters.
type Ontology interface {
	AllValues() map[string][]string
	CacheStats() cache.Stats
}

// EmbedCacheStats exposes the query embedding cache counters.
type EmbedCacheStats interface {
	EmbeddingCacheStats() cache.Stats
}

// HealthService aggregates component health checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}
