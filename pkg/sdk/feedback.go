package prethrift

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/prethrift/prethrift/internal/domain"
)

// RecordFeedback appends a feedback event and updates the user's learned
// preference weights. Weight defaults to 1 when zero or negative.
func (c *Client) RecordFeedback(ctx context.Context, f Feedback) (ev FeedbackEvent, err error) {
	start := time.Now()
	defer func() { c.obs.observe("feedback", start, err) }()

	event, err := c.feedback.Record(ctx, f.UserID, f.GarmentID, f.Action, f.Weight)
	if err != nil {
		return FeedbackEvent{}, fmt.Errorf("record feedback: %w", err)
	}
	return FeedbackEvent{
		UserID:      event.UserID,
		GarmentID:   event.GarmentID,
		Action:      event.Action,
		WeightDelta: event.WeightDelta,
		CreatedAt:   event.CreatedAt,
	}, nil
}

// Profile returns the user's learned preference snapshot. Attribute
// weights come back sorted by family then value.
func (c *Client) Profile(ctx context.Context, userID string) Profile {
	start := time.Now()
	defer func() { c.obs.observe("profile", start, nil) }()

	return fromInternalProfile(c.profileSvc.Load(ctx, userID))
}

func fromInternalProfile(p domain.Profile) Profile {
	out := Profile{
		HasPositive: p.PositiveCentroid != nil,
		HasNegative: p.NegativeCentroid != nil,
	}
	for key, w := range p.AttributeWeights {
		out.AttributeWeights = append(out.AttributeWeights, AttributeWeight{
			Family: key.Family,
			Value:  key.Value,
			Weight: w.Weight,
		})
	}
	sort.Slice(out.AttributeWeights, func(i, j int) bool {
		a, b := out.AttributeWeights[i], out.AttributeWeights[j]
		if a.Family != b.Family {
			return a.Family < b.Family
		}
		return a.Value < b.Value
	})
	return out
}
