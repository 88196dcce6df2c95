package prethrift

import "time"

// Feedback actions accepted by RecordFeedback.
const (
	ActionLike    = "like"
	ActionDislike = "dislike"
	ActionView    = "view"
	ActionClick   = "click"
)

// Attribute is a classified (family, value) pair on a garment.
type Attribute struct {
	Family     string
	Value      string
	Confidence float64
}

// Garment is a stored catalog item.
type Garment struct {
	ID          string
	Title       string
	Brand       string
	Price       float64
	Currency    string
	Description string
	Attributes  []Attribute
}

// GarmentInput is the payload for Garments().Upsert. Attributes are
// classified from the description; they cannot be supplied directly.
type GarmentInput struct {
	ID          string
	Title       string
	Brand       string
	Price       float64
	Currency    string
	Description string
}

// BatchResult is the outcome of one garment in a batch upsert.
type BatchResult struct {
	ID  string
	OK  bool
	Err error
}

// FamilyOverlap is the per-family attribute match breakdown for one hit.
type FamilyOverlap struct {
	Family          string
	QueryValues     []string
	CandidateValues []string
	Overlap         []string
	Jaccard         float64
}

// SearchResult is a single ranked hit with its score breakdown.
type SearchResult struct {
	GarmentID        string
	Title            string
	Description      string
	Score            float64
	Components       map[string]float64
	Contributions    map[string]float64
	AttributeDetails []FamilyOverlap
}

// SearchResponse is the outcome of one search call.
type SearchResponse struct {
	Query      string
	Attributes map[string][]string
	Weights    map[string]float64
	Results    []SearchResult
}

// Feedback is the payload for RecordFeedback. Weight defaults to 1.
type Feedback struct {
	UserID    string
	GarmentID string
	Action    string
	Weight    float64
}

// FeedbackEvent is one recorded ledger entry.
type FeedbackEvent struct {
	UserID      string
	GarmentID   string
	Action      string
	WeightDelta float64
	CreatedAt   time.Time
}

// AttributeWeight is a learned per-user preference for one attribute value.
type AttributeWeight struct {
	Family string
	Value  string
	Weight float64
}

// Profile is a user's learned preference snapshot.
type Profile struct {
	AttributeWeights []AttributeWeight
	HasPositive      bool
	HasNegative      bool
}

// Weights are the per-signal score weights of the ranking engine.
// Zero values fall back to the built-in defaults.
type Weights struct {
	TextSimilarity   float64
	AttributeOverlap float64
	PreferenceWeight float64
	PositiveProfile  float64
	NegativePenalty  float64
}
