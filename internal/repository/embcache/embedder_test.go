package embcache

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/prethrift/prethrift/internal/db"
	"github.com/prethrift/prethrift/internal/domain"
)

type fakeStore struct {
	data map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := f.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value []byte) error {
	f.data[key] = value
	return nil
}

type fakeEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	f.calls++
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	return domain.EmbeddingResult{Embedding: f.vec, TotalTokens: 7}, nil
}

func TestEmbed_MissThenHit(t *testing.T) {
	inner := &fakeEmbedder{vec: []float32{0.25, 0.5}}
	cached := New(inner, newFakeStore(), nil, zap.NewNop())
	ctx := context.Background()

	first, err := cached.Embed(ctx, "blue denim jacket")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if first.TotalTokens != 7 {
		t.Errorf("miss TotalTokens = %d, want provider tokens", first.TotalTokens)
	}

	second, err := cached.Embed(ctx, "blue denim jacket")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("hit TotalTokens = %d, want 0", second.TotalTokens)
	}
	if len(second.Embedding) != 2 || second.Embedding[0] != 0.25 {
		t.Errorf("cached embedding = %v", second.Embedding)
	}
}

func TestEmbed_DistinctTextsDistinctKeys(t *testing.T) {
	inner := &fakeEmbedder{vec: []float32{1}}
	cached := New(inner, newFakeStore(), nil, zap.NewNop())
	ctx := context.Background()

	if _, err := cached.Embed(ctx, "red dress"); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if _, err := cached.Embed(ctx, "green dress"); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner called %d times, want 2", inner.calls)
	}
}

func TestEmbed_ProviderErrorNotCached(t *testing.T) {
	inner := &fakeEmbedder{err: errors.New("provider down")}
	store := newFakeStore()
	cached := New(inner, store, nil, zap.NewNop())
	ctx := context.Background()

	if _, err := cached.Embed(ctx, "wool coat"); err == nil {
		t.Fatal("expected provider error")
	}
	if len(store.data) != 0 {
		t.Error("nothing should be cached on provider failure")
	}

	inner.err = nil
	inner.vec = []float32{0.9}
	result, err := cached.Embed(ctx, "wool coat")
	if err != nil {
		t.Fatalf("Embed() after recovery error = %v", err)
	}
	if len(result.Embedding) != 1 {
		t.Errorf("embedding = %v", result.Embedding)
	}
}

func TestEmbed_CorruptCacheEntryFallsThrough(t *testing.T) {
	inner := &fakeEmbedder{vec: []float32{0.5}}
	store := newFakeStore()
	cached := New(inner, store, nil, zap.NewNop())
	ctx := context.Background()

	store.data[cached.cacheKey("silk scarf")] = []byte{1, 2, 3} // not a multiple of 4

	result, err := cached.Embed(ctx, "silk scarf")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if inner.calls != 1 {
		t.Error("corrupt entry must fall through to the provider")
	}
	if len(result.Embedding) != 1 {
		t.Errorf("embedding = %v", result.Embedding)
	}
}
