package domain

// Signal names used in ranking explanations.
const (
	SignalTextSimilarity   = "text_similarity"
	SignalAttributeOverlap = "attribute_overlap"
	SignalPreferenceWeight = "preference_weight"
	SignalPositiveProfile  = "positive_profile_similarity"
	SignalNegativePenalty  = "negative_profile_penalty"
)

// FamilyOverlap is the per-family attribute match breakdown for one candidate.
type FamilyOverlap struct {
	Family          string   `json:"family"`
	QueryValues     []string `json:"query_values"`
	CandidateValues []string `json:"candidate_values"`
	Overlap         []string `json:"overlap"`
	Jaccard         float64  `json:"jaccard"`
}

// RankedResult is one scored candidate with enough detail to reconstruct
// the score by hand. Produced fresh per query.
type RankedResult struct {
	GarmentID        string             `json:"garment_id"`
	Title            string             `json:"title,omitempty"`
	Description      string             `json:"description,omitempty"`
	Score            float64            `json:"score"`
	Components       map[string]float64 `json:"components"`
	Contributions    map[string]float64 `json:"contributions"`
	AttributeDetails []FamilyOverlap    `json:"attribute_details,omitempty"`
}

// SearchResponse is the outward-facing result of one search call.
type SearchResponse struct {
	Query      string              `json:"query"`
	Attributes map[string][]string `json:"attributes"`
	Weights    map[string]float64  `json:"weights"`
	Results    []RankedResult      `json:"results"`
}
