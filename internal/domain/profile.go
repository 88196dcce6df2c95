package domain

import "time"

// AttributeKey identifies an attribute value across families.
type AttributeKey struct {
	Family string `json:"family"`
	Value  string `json:"value"`
}

// AttributeWeight is a learned per-user preference for one attribute value.
type AttributeWeight struct {
	Weight     float64 `json:"weight"`
	Confidence float64 `json:"confidence"`
}

// Profile is the per-user preference snapshot consumed by ranking.
// Centroids are nil until at least one qualifying interaction exists.
type Profile struct {
	AttributeWeights map[AttributeKey]AttributeWeight
	PositiveCentroid []float32
	NegativeCentroid []float32
}

// Feedback actions.
const (
	ActionLike    = "like"
	ActionDislike = "dislike"
	ActionView    = "view"
	ActionClick   = "click"
)

// ValidAction reports whether the action is one the feedback ledger accepts.
func ValidAction(action string) bool {
	switch action {
	case ActionLike, ActionDislike, ActionView, ActionClick:
		return true
	}
	return false
}

// FeedbackEvent is one append-only entry in the feedback ledger.
type FeedbackEvent struct {
	UserID      string    `json:"user_id"`
	GarmentID   string    `json:"garment_id"`
	Action      string    `json:"action"`
	WeightDelta float64   `json:"weight_delta"`
	CreatedAt   time.Time `json:"created_at"`
}

// PositiveAction reports whether the event contributes to the positive centroid.
func (e FeedbackEvent) PositiveAction() bool {
	return e.Action == ActionLike || e.Action == ActionClick
}

// NegativeAction reports whether the event contributes to the negative centroid.
func (e FeedbackEvent) NegativeAction() bool {
	return e.Action == ActionDislike
}
