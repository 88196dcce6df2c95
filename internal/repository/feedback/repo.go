// Package feedback persists the append-only feedback event log and the
// derived per-user attribute weight aggregates.
package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/prethrift/prethrift/internal/domain"
)

const (
	eventsKeyPrefix  = "prethrift:user:"
	eventsKeySuffix  = ":events"
	weightsKeySuffix = ":weights"
)

// store is the consumer interface for the feedback ledger (ISP).
type store interface {
	RPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	HIncrByFloat(ctx context.Context, key, field string, delta float64) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements the feedback ledger over db.Store.
type Repo struct {
	store store
}

// New creates a feedback repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Append adds one event to the user's log.
func (r *Repo) Append(ctx context.Context, event domain.FeedbackEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	key := eventsKey(event.UserID)
	if err := r.store.RPush(ctx, key, string(data)); err != nil {
		return fmt.Errorf("rpush %s: %w", key, err)
	}
	return nil
}

// Events returns the user's full event log, oldest first. Entries that no
// longer parse are skipped rather than failing the read.
func (r *Repo) Events(ctx context.Context, userID string) ([]domain.FeedbackEvent, error) {
	key := eventsKey(userID)
	raw, err := r.store.LRange(ctx, key, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}

	events := make([]domain.FeedbackEvent, 0, len(raw))
	for _, item := range raw {
		var event domain.FeedbackEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// AdjustWeight shifts the user's aggregate for one attribute by delta.
func (r *Repo) AdjustWeight(ctx context.Context, userID string, key domain.AttributeKey, delta float64) error {
	hashKey := weightsKey(userID)
	if err := r.store.HIncrByFloat(ctx, hashKey, weightField(key), delta); err != nil {
		return fmt.Errorf("hincrbyfloat %s: %w", hashKey, err)
	}
	return nil
}

// Weights returns the user's learned attribute weights. Fields that no
// longer parse are skipped.
func (r *Repo) Weights(ctx context.Context, userID string) (map[domain.AttributeKey]domain.AttributeWeight, error) {
	hashKey := weightsKey(userID)
	fields, err := r.store.HGetAll(ctx, hashKey)
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", hashKey, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	weights := make(map[domain.AttributeKey]domain.AttributeWeight, len(fields))
	for field, value := range fields {
		key, ok := parseWeightField(field)
		if !ok {
			continue
		}
		w, err := strconv.ParseFloat(value, 64)
		if err != nil {
			continue
		}
		weights[key] = domain.AttributeWeight{Weight: w, Confidence: 1}
	}
	return weights, nil
}

func eventsKey(userID string) string {
	return eventsKeyPrefix + userID + eventsKeySuffix
}

func weightsKey(userID string) string {
	return eventsKeyPrefix + userID + weightsKeySuffix
}

// weightField encodes an attribute key as "family=value". Families never
// contain "=", so the first separator splits unambiguously.
func weightField(key domain.AttributeKey) string {
	return key.Family + "=" + key.Value
}

func parseWeightField(field string) (domain.AttributeKey, bool) {
	family, value, ok := strings.Cut(field, "=")
	if !ok || family == "" || value == "" {
		return domain.AttributeKey{}, false
	}
	return domain.AttributeKey{Family: family, Value: value}, true
}
