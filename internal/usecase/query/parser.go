// Package query turns raw search text into a ParsedQuery: canonical
// attributes from the extraction provider plus a single text embedding.
// Both collaborators are best-effort; the parser degrades to an
// attribute-less or embedding-less parse instead of failing the search.
package query

import (
	"context"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/prethrift/prethrift/internal/cache"
	"github.com/prethrift/prethrift/internal/domain"
)

// embeddingCacheCapacity bounds the per-text query embedding cache.
// Oldest-entry eviction: repeated queries stay warm, one-off queries age out.
const embeddingCacheCapacity = 256

// Parser converts raw query text into a ParsedQuery.
type Parser struct {
	extract    Extractor
	embed      Embedder
	normalizer Normalizer
	embedCache *cache.Cache[[]float32]
	logger     *zap.Logger
}

// NewParser creates a query parser. The embedding cache is owned by the
// parser and shared across requests.
func NewParser(extract Extractor, embed Embedder, normalizer Normalizer, logger *zap.Logger) *Parser {
	return &Parser{
		extract:    extract,
		embed:      embed,
		normalizer: normalizer,
		embedCache: cache.New[[]float32](embeddingCacheCapacity, cache.EvictOldest),
		logger:     logger,
	}
}

// WithCacheMetrics attaches a ("cache", "result") counter vec to the
// query embedding cache.
func (p *Parser) WithCacheMetrics(total *prometheus.CounterVec) *Parser {
	p.embedCache.WithMetrics(total, "query_embedding")
	return p
}

// Parse builds a ParsedQuery from raw text. Empty or whitespace-only text
// yields a parse with no attributes and no embedding; collaborator
// failures degrade the corresponding signal instead of propagating.
func (p *Parser) Parse(ctx context.Context, text string) domain.ParsedQuery {
	parsed := domain.ParsedQuery{Raw: text}
	if strings.TrimSpace(text) == "" {
		return parsed
	}

	parsed.Attributes = p.extractAttributes(ctx, text)
	parsed.TextEmbedding = p.embedText(ctx, text)
	return parsed
}

// extractAttributes asks the extraction provider and canonicalizes the
// result. Any failure or malformed payload is treated as "no attributes".
func (p *Parser) extractAttributes(ctx context.Context, text string) map[string][]string {
	raw, err := p.extract.Extract(ctx, text)
	if err != nil {
		p.logger.Warn("Preference extraction failed, continuing without attributes", zap.Error(err))
		return nil
	}
	if len(raw) == 0 {
		return nil
	}

	attrs := make(map[string][]string)
	for family, values := range raw {
		var kept []string
		for _, v := range values {
			canonical, ok := p.normalizer.Normalize(family, v)
			if !ok {
				continue
			}
			if !containsString(kept, canonical) {
				kept = append(kept, canonical)
			}
		}
		if len(kept) > 0 {
			sort.Strings(kept)
			attrs[family] = kept
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// embedText returns the query embedding through the bounded cache, or nil
// when the embedding provider is unavailable.
func (p *Parser) embedText(ctx context.Context, text string) []float32 {
	vec, err := p.embedCache.GetOrCompute(text, func() ([]float32, error) {
		result, err := p.embed.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		return result.Embedding, nil
	})
	if err != nil {
		p.logger.Warn("Query embedding failed, continuing without embedding", zap.Error(err))
		return nil
	}
	return vec
}

// EmbeddingCacheStats exposes the query embedding cache counters.
func (p *Parser) EmbeddingCacheStats() cache.Stats {
	return p.embedCache.Stats()
}

// ResetEmbeddingCache clears the query embedding cache. Intended for tests.
func (p *Parser) ResetEmbeddingCache() {
	p.embedCache.Reset()
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
