package feedback

import (
	"context"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/prethrift/prethrift/internal/domain"
)

// fakeStore is an in-memory stand-in for the Redis store.
type fakeStore struct {
	lists  map[string][]string
	hashes map[string]map[string]float64
}

func newFakeStore() *fakeStore {
	return &fakeStore{lists: make(map[string][]string), hashes: make(map[string]map[string]float64)}
}

func (f *fakeStore) RPush(_ context.Context, key string, values ...string) error {
	f.lists[key] = append(f.lists[key], values...)
	return nil
}

func (f *fakeStore) LRange(_ context.Context, key string, _, _ int64) ([]string, error) {
	return f.lists[key], nil
}

func (f *fakeStore) HIncrByFloat(_ context.Context, key, field string, delta float64) error {
	hash, ok := f.hashes[key]
	if !ok {
		hash = make(map[string]float64)
		f.hashes[key] = hash
	}
	hash[field] += delta
	return nil
}

func (f *fakeStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	out := make(map[string]string)
	for field, v := range f.hashes[key] {
		out[field] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return out, nil
}

func TestAppendEventsRoundTrip(t *testing.T) {
	repo := New(newFakeStore())
	ctx := context.Background()

	first := domain.FeedbackEvent{
		UserID: "u1", GarmentID: "g1", Action: domain.ActionLike,
		WeightDelta: 1.0, CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	second := domain.FeedbackEvent{
		UserID: "u1", GarmentID: "g2", Action: domain.ActionDislike,
		WeightDelta: -1.0, CreatedAt: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
	}
	if err := repo.Append(ctx, first); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := repo.Append(ctx, second); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	events, err := repo.Events(ctx, "u1")
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Events() returned %d, want 2", len(events))
	}
	if events[0].GarmentID != "g1" || events[1].GarmentID != "g2" {
		t.Errorf("events out of order: %+v", events)
	}
	if events[1].WeightDelta != -1.0 {
		t.Errorf("WeightDelta = %f, want -1.0", events[1].WeightDelta)
	}
}

func TestEvents_EmptyLog(t *testing.T) {
	repo := New(newFakeStore())

	events, err := repo.Events(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Events() = %v, want empty", events)
	}
}

func TestEvents_SkipsMalformedEntries(t *testing.T) {
	store := newFakeStore()
	repo := New(store)
	ctx := context.Background()

	if err := repo.Append(ctx, domain.FeedbackEvent{UserID: "u1", GarmentID: "g1", Action: domain.ActionView}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	store.lists[eventsKey("u1")] = append(store.lists[eventsKey("u1")], "not-json")

	events, err := repo.Events(ctx, "u1")
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) != 1 {
		t.Errorf("Events() returned %d, want the malformed entry skipped", len(events))
	}
}

func TestAdjustWeightAccumulates(t *testing.T) {
	repo := New(newFakeStore())
	ctx := context.Background()
	key := domain.AttributeKey{Family: "style", Value: "vintage"}

	for _, delta := range []float64{1.0, 0.3, -1.0} {
		if err := repo.AdjustWeight(ctx, "u1", key, delta); err != nil {
			t.Fatalf("AdjustWeight() error = %v", err)
		}
	}

	weights, err := repo.Weights(ctx, "u1")
	if err != nil {
		t.Fatalf("Weights() error = %v", err)
	}
	if math.Abs(weights[key].Weight-0.3) > 1e-9 {
		t.Errorf("weight = %f, want 0.3", weights[key].Weight)
	}
}

func TestWeights_EmptyUser(t *testing.T) {
	repo := New(newFakeStore())

	weights, err := repo.Weights(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Weights() error = %v", err)
	}
	if weights != nil {
		t.Errorf("Weights() = %v, want nil", weights)
	}
}

func TestWeights_SkipsUnparseableFields(t *testing.T) {
	store := newFakeStore()
	repo := New(store)
	ctx := context.Background()
	key := domain.AttributeKey{Family: "color_primary", Value: "navy"}

	if err := repo.AdjustWeight(ctx, "u1", key, 0.5); err != nil {
		t.Fatalf("AdjustWeight() error = %v", err)
	}
	// A field without the separator cannot map to an attribute key.
	store.hashes[weightsKey("u1")]["bogus"] = 1

	weights, err := repo.Weights(ctx, "u1")
	if err != nil {
		t.Fatalf("Weights() error = %v", err)
	}
	if len(weights) != 1 {
		t.Errorf("Weights() = %v, want one parseable entry", weights)
	}
	if weights[key].Weight != 0.5 {
		t.Errorf("weight = %f, want 0.5", weights[key].Weight)
	}
}

func TestWeightFieldRoundTrip(t *testing.T) {
	key := domain.AttributeKey{Family: "sleeve_length", Value: "three-quarter"}
	parsed, ok := parseWeightField(weightField(key))
	if !ok || parsed != key {
		t.Errorf("round trip = %+v, %v", parsed, ok)
	}
}
