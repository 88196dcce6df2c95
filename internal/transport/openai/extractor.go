package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/prethrift/prethrift/internal/domain"
	"github.com/prethrift/prethrift/internal/metrics"
)

const extractSystemPrompt = `You extract clothing preferences from text.
Return ONLY a JSON object mapping attribute families to arrays of string values.
Families: category, subcategory, fit, material, color_primary, pattern, style,
season, occasion, era, neckline, sleeve_length.
Omit families with no evidence. No prose, no markdown.`

// Extractor pulls structured attribute preferences out of free text via an
// OpenAI-compatible chat completion API.
type Extractor struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// ExtractorConfig holds the extraction provider settings.
type ExtractorConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// NewExtractor creates an OpenAI-compatible extraction provider.
func NewExtractor(cfg *ExtractorConfig) *Extractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &Extractor{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Extract implements domain.Extractor. The provider's answer is parsed
// leniently: markdown fences are stripped and non-conforming values are
// dropped rather than failing the call.
func (e *Extractor) Extract(ctx context.Context, conversation string) (map[string][]string, error) {
	req := openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: conversation},
		},
	}

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.ExtractionRequestsTotal.WithLabelValues(e.provider, e.model, "error").Inc()
		return nil, fmt.Errorf("extraction request failed: %w", domain.ErrExtractionProviderError)
	}
	if len(resp.Choices) == 0 {
		metrics.ExtractionRequestsTotal.WithLabelValues(e.provider, e.model, "error").Inc()
		return nil, fmt.Errorf("empty extraction response: %w", domain.ErrExtractionProviderError)
	}

	metrics.ExtractionRequestsTotal.WithLabelValues(e.provider, e.model, "success").Inc()

	attrs, err := parseExtractionPayload(resp.Choices[0].Message.Content)
	if err != nil {
		e.logger.Warn("Unparseable extraction payload",
			zap.String("model", e.model),
			zap.Duration("duration", duration),
			zap.Error(err))
		return nil, fmt.Errorf("parse extraction payload: %w", domain.ErrExtractionProviderError)
	}
	return attrs, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Extractor) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseExtractionPayload decodes the model output into a family map.
// Values that are not strings are skipped; a non-object payload is an error.
func parseExtractionPayload(content string) (map[string][]string, error) {
	cleaned := stripFences(content)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("not a JSON object: %w", err)
	}

	attrs := make(map[string][]string, len(raw))
	for family, data := range raw {
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			// A single bare string is accepted as a one-element list.
			var single string
			if json.Unmarshal(data, &single) != nil {
				continue
			}
			values = []string{single}
		}
		var kept []string
		for _, v := range values {
			v = strings.TrimSpace(v)
			if v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			attrs[family] = kept
		}
	}
	return attrs, nil
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag.
func stripFences(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
