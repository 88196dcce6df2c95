package domain

// ParsedQuery is the structured form of a free-text search query.
// Created per request, never persisted. Raw is preserved verbatim for
// display and audit.
type ParsedQuery struct {
	Raw           string
	Attributes    map[string][]string
	TextEmbedding []float32
}
