package prethrift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/prethrift/prethrift/internal/db"
	dbRedis "github.com/prethrift/prethrift/internal/db/redis"
	"github.com/prethrift/prethrift/internal/domain"
	"github.com/prethrift/prethrift/internal/ontology"
	catalogrepo "github.com/prethrift/prethrift/internal/repository/catalog"
	feedbackrepo "github.com/prethrift/prethrift/internal/repository/feedback"
	feedbackuc "github.com/prethrift/prethrift/internal/usecase/feedback"
	healthuc "github.com/prethrift/prethrift/internal/usecase/health"
	ingestuc "github.com/prethrift/prethrift/internal/usecase/ingest"
	preferenceuc "github.com/prethrift/prethrift/internal/usecase/preference"
	queryuc "github.com/prethrift/prethrift/internal/usecase/query"
	rankinguc "github.com/prethrift/prethrift/internal/usecase/ranking"
	searchuc "github.com/prethrift/prethrift/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for test substitution.
type searchUseCase interface {
	Search(ctx context.Context, text, userID string, limit int) (domain.SearchResponse, error)
}

type feedbackUseCase interface {
	Record(ctx context.Context, userID, garmentID, action string, weight float64) (domain.FeedbackEvent, error)
}

type ingestUseCase interface {
	Upsert(ctx context.Context, in ingestuc.Input) (domain.Garment, error)
	UpsertBatch(ctx context.Context, items []ingestuc.Input) []ingestuc.ItemResult
}

type catalogRepository interface {
	Get(ctx context.Context, garmentID string) (domain.Garment, error)
	List(ctx context.Context) ([]domain.Garment, error)
	Delete(ctx context.Context, garmentID string) error
}

type profileUseCase interface {
	Load(ctx context.Context, userID string) domain.Profile
}

// Client is the prethrift SDK entry point.
type Client struct {
	store      db.Store
	searchSvc  searchUseCase
	feedback   feedbackUseCase
	ingestSvc  ingestUseCase
	catalog    catalogRepository
	profileSvc profileUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a prethrift Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("prethrift: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("prethrift: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("prethrift: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	// Internal services log through zap; the SDK surfaces its own slog
	// observer instead, so the inner logger stays silent.
	nop := zap.NewNop()

	var embedder domain.Embedder = noopEmbedder{}
	if cfg.embedder != nil {
		embedder = &embedderAdapter{inner: cfg.embedder}
	}
	var extractor queryuc.Extractor = noopExtractor{}
	if cfg.extractor != nil {
		extractor = cfg.extractor
	}

	catalogRepo := catalogrepo.New(store)
	feedbackRepo := feedbackrepo.New(store)

	classifier := ontology.New(ontology.DefaultVocabulary(), ontology.DefaultSynonyms())
	parser := queryuc.NewParser(extractor, embedder, classifier, nop)
	prefSvc := preferenceuc.New(feedbackRepo, feedbackRepo, catalogRepo, nop)
	engine := rankinguc.New(mergeWeights(cfg.weights))

	return &Client{
		store:      store,
		searchSvc:  searchuc.New(parser, prefSvc, catalogRepo, engine),
		feedback:   feedbackuc.New(catalogRepo, feedbackRepo, prefSvc, nop),
		ingestSvc:  ingestuc.New(classifier, embedder, catalogRepo, nop),
		catalog:    catalogRepo,
		profileSvc: prefSvc,
		healthSvc:  healthuc.New(store, nil, nil),
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Garments returns the catalog management service.
func (c *Client) Garments() *GarmentService {
	return &GarmentService{ingest: c.ingestSvc, catalog: c.catalog, obs: c.obs}
}

// mergeWeights overlays non-zero fields onto the engine defaults.
func mergeWeights(w Weights) rankinguc.Weights {
	out := rankinguc.DefaultWeights()
	if w.TextSimilarity > 0 {
		out.TextSimilarity = w.TextSimilarity
	}
	if w.AttributeOverlap > 0 {
		out.AttributeOverlap = w.AttributeOverlap
	}
	if w.PreferenceWeight > 0 {
		out.PreferenceWeight = w.PreferenceWeight
	}
	if w.PositiveProfile > 0 {
		out.PositiveProfile = w.PositiveProfile
	}
	if w.NegativePenalty > 0 {
		out.NegativePenalty = w.NegativePenalty
	}
	return out
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder fails every Embed call. The query parser and the ingest
// service tolerate the failure and continue without embeddings.
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"prethrift: embedder not configured (use WithEmbedder)",
	)
}

// noopExtractor fails every Extract call, leaving queries attribute-less.
type noopExtractor struct{}

func (noopExtractor) Extract(_ context.Context, _ string) (map[string][]string, error) {
	return nil, errors.New(
		"prethrift: extractor not configured (use WithExtractor)",
	)
}
