package prethrift

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/prethrift/prethrift/internal/domain"
	healthuc "github.com/prethrift/prethrift/internal/usecase/health"
	ingestuc "github.com/prethrift/prethrift/internal/usecase/ingest"
)

// --- mocks for the internal use case interfaces ---

type mockSearchUC struct {
	lastText   string
	lastUserID string
	lastLimit  int
	resp       domain.SearchResponse
	err        error
}

func (m *mockSearchUC) Search(_ context.Context, text, userID string, limit int) (domain.SearchResponse, error) {
	m.lastText = text
	m.lastUserID = userID
	m.lastLimit = limit
	return m.resp, m.err
}

type mockFeedbackUC struct {
	event domain.FeedbackEvent
	err   error
}

func (m *mockFeedbackUC) Record(_ context.Context, userID, garmentID, action string, weight float64) (domain.FeedbackEvent, error) {
	if m.err != nil {
		return domain.FeedbackEvent{}, m.err
	}
	return domain.FeedbackEvent{
		UserID:      userID,
		GarmentID:   garmentID,
		Action:      action,
		WeightDelta: m.event.WeightDelta,
		CreatedAt:   m.event.CreatedAt,
	}, nil
}

type mockIngestUC struct {
	lastIn ingestuc.Input
	out    domain.Garment
	err    error
}

func (m *mockIngestUC) Upsert(_ context.Context, in ingestuc.Input) (domain.Garment, error) {
	m.lastIn = in
	return m.out, m.err
}

func (m *mockIngestUC) UpsertBatch(_ context.Context, items []ingestuc.Input) []ingestuc.ItemResult {
	results := make([]ingestuc.ItemResult, len(items))
	for i, item := range items {
		results[i] = ingestuc.ItemResult{ID: item.ID, OK: m.err == nil, Err: m.err}
	}
	return results
}

type mockCatalog struct {
	garments map[string]domain.Garment
}

func (m *mockCatalog) Get(_ context.Context, id string) (domain.Garment, error) {
	g, ok := m.garments[id]
	if !ok {
		return domain.Garment{}, domain.ErrGarmentNotFound
	}
	return g, nil
}

func (m *mockCatalog) List(_ context.Context) ([]domain.Garment, error) {
	out := make([]domain.Garment, 0, len(m.garments))
	for _, g := range m.garments {
		out = append(out, g)
	}
	return out, nil
}

func (m *mockCatalog) Delete(_ context.Context, id string) error {
	if _, ok := m.garments[id]; !ok {
		return domain.ErrGarmentNotFound
	}
	delete(m.garments, id)
	return nil
}

type mockProfileUC struct {
	profile domain.Profile
}

func (m *mockProfileUC) Load(_ context.Context, _ string) domain.Profile {
	return m.profile
}

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- tests ---

func TestSearch_EmptyQuery(t *testing.T) {
	c := &Client{searchSvc: &mockSearchUC{}}

	_, err := c.Search(context.Background(), "   ")
	if !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestSearch_OptionsAndConversion(t *testing.T) {
	svc := &mockSearchUC{
		resp: domain.SearchResponse{
			Query:      "vintage dress",
			Attributes: map[string][]string{"style": {"vintage"}},
			Weights:    map[string]float64{domain.SignalTextSimilarity: 0.60},
			Results: []domain.RankedResult{
				{
					GarmentID:  "g1",
					Title:      "Floral dress",
					Score:      0.8,
					Components: map[string]float64{domain.SignalTextSimilarity: 0.9},
					AttributeDetails: []domain.FamilyOverlap{
						{Family: "style", QueryValues: []string{"vintage"}, Jaccard: 1},
					},
				},
			},
		},
	}
	c := &Client{searchSvc: svc}

	resp, err := c.Search(context.Background(), "vintage dress", ForUser("u1"), Limit(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.lastUserID != "u1" || svc.lastLimit != 5 {
		t.Errorf("options not applied: userID=%q limit=%d", svc.lastUserID, svc.lastLimit)
	}
	if resp.Query != "vintage dress" {
		t.Errorf("Query = %q", resp.Query)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(resp.Results))
	}
	hit := resp.Results[0]
	if hit.GarmentID != "g1" || hit.Score != 0.8 {
		t.Errorf("hit = %+v", hit)
	}
	if len(hit.AttributeDetails) != 1 || hit.AttributeDetails[0].Family != "style" {
		t.Errorf("AttributeDetails = %+v", hit.AttributeDetails)
	}
}

func TestRecordFeedback(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &Client{feedback: &mockFeedbackUC{
		event: domain.FeedbackEvent{WeightDelta: 1.0, CreatedAt: created},
	}}

	ev, err := c.RecordFeedback(context.Background(), Feedback{
		UserID: "u1", GarmentID: "g1", Action: ActionLike,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := FeedbackEvent{
		UserID: "u1", GarmentID: "g1", Action: ActionLike,
		WeightDelta: 1.0, CreatedAt: created,
	}
	if ev != want {
		t.Errorf("event = %+v, want %+v", ev, want)
	}
}

func TestRecordFeedback_UnknownGarment(t *testing.T) {
	c := &Client{feedback: &mockFeedbackUC{err: domain.ErrGarmentNotFound}}

	_, err := c.RecordFeedback(context.Background(), Feedback{
		UserID: "u1", GarmentID: "missing", Action: ActionLike,
	})
	if !errors.Is(err, ErrGarmentNotFound) {
		t.Fatalf("err = %v, want ErrGarmentNotFound", err)
	}
}

func TestGarments_UpsertMapsInput(t *testing.T) {
	ingest := &mockIngestUC{
		out: domain.Garment{
			ID: "g1",
			Attributes: []domain.AttributeInstance{
				{Family: "category", Value: "dress", Confidence: 0.75},
			},
		},
	}
	c := &Client{ingestSvc: ingest}

	g, err := c.Garments().Upsert(context.Background(), GarmentInput{
		ID:          "g1",
		Title:       "Floral dress",
		Brand:       "Vera",
		Price:       49.99,
		Currency:    "EUR",
		Description: "vintage floral midi dress",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ingest.lastIn.ID != "g1" || ingest.lastIn.Description != "vintage floral midi dress" {
		t.Errorf("input not propagated: %+v", ingest.lastIn)
	}
	wantAttrs := []Attribute{{Family: "category", Value: "dress", Confidence: 0.75}}
	if !reflect.DeepEqual(g.Attributes, wantAttrs) {
		t.Errorf("Attributes = %+v, want %+v", g.Attributes, wantAttrs)
	}
}

func TestGarments_UpsertBatch(t *testing.T) {
	ingest := &mockIngestUC{}
	c := &Client{ingestSvc: ingest}

	results := c.Garments().UpsertBatch(context.Background(), []GarmentInput{
		{ID: "g1"}, {ID: "g2"},
	})
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for i, r := range results {
		if !r.OK || r.Err != nil {
			t.Errorf("result %d = %+v, want ok", i, r)
		}
	}
}

func TestGarments_GetNotFound(t *testing.T) {
	c := &Client{catalog: &mockCatalog{}}

	_, err := c.Garments().Get(context.Background(), "missing")
	if !errors.Is(err, ErrGarmentNotFound) {
		t.Fatalf("err = %v, want ErrGarmentNotFound", err)
	}
}

func TestProfile_SortedWeights(t *testing.T) {
	c := &Client{profileSvc: &mockProfileUC{
		profile: domain.Profile{
			AttributeWeights: map[domain.AttributeKey]domain.AttributeWeight{
				{Family: "style", Value: "vintage"}:  {Weight: 1.3},
				{Family: "category", Value: "dress"}: {Weight: 1.0},
				{Family: "style", Value: "boho"}:     {Weight: 0.3},
			},
			PositiveCentroid: []float32{1, 0},
		},
	}}

	p := c.Profile(context.Background(), "u1")
	if !p.HasPositive || p.HasNegative {
		t.Errorf("centroid flags = %+v", p)
	}
	want := []AttributeWeight{
		{Family: "category", Value: "dress", Weight: 1.0},
		{Family: "style", Value: "boho", Weight: 0.3},
		{Family: "style", Value: "vintage", Weight: 1.3},
	}
	if !reflect.DeepEqual(p.AttributeWeights, want) {
		t.Errorf("AttributeWeights = %+v, want %+v", p.AttributeWeights, want)
	}
}

func TestHealth_Conversion(t *testing.T) {
	c := &Client{healthSvc: &mockHealthUC{
		report: healthuc.Report{
			Status: healthuc.Degraded,
			Checks: map[string]healthuc.CheckResult{
				"database": healthuc.CheckOK,
			},
		},
	}}

	h := c.Health(context.Background())
	if h.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", h.Status)
	}
	if h.Checks["database"] != "ok" {
		t.Errorf("Checks = %+v", h.Checks)
	}
}

func TestMergeWeights(t *testing.T) {
	w := mergeWeights(Weights{TextSimilarity: 0.5, NegativePenalty: 0.4})

	if w.TextSimilarity != 0.5 {
		t.Errorf("TextSimilarity = %v, want 0.5", w.TextSimilarity)
	}
	if w.NegativePenalty != 0.4 {
		t.Errorf("NegativePenalty = %v, want 0.4", w.NegativePenalty)
	}
	if w.AttributeOverlap != 0.25 {
		t.Errorf("AttributeOverlap = %v, want default 0.25", w.AttributeOverlap)
	}
	if w.PositiveProfile != 0.15 {
		t.Errorf("PositiveProfile = %v, want default 0.15", w.PositiveProfile)
	}
}
