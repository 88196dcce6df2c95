// Package catalog persists garments as JSON blobs with a set-based key
// index for enumeration.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/prethrift/prethrift/internal/db"
	"github.com/prethrift/prethrift/internal/domain"
)

const (
	keyPrefix = "prethrift:garment:"
	indexKey  = "prethrift:garments"
)

// store is the consumer interface for the catalog (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements garment persistence over db.Store.
type Repo struct {
	store store
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put creates or replaces a garment and registers it in the index.
func (r *Repo) Put(ctx context.Context, garment domain.Garment) error {
	data, err := json.Marshal(garment)
	if err != nil {
		return fmt.Errorf("marshal garment: %w", err)
	}
	key := garmentKey(garment.ID)
	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if err := r.store.SAdd(ctx, indexKey, garment.ID); err != nil {
		return fmt.Errorf("index garment %s: %w", garment.ID, err)
	}
	return nil
}

// Get returns a garment by ID.
func (r *Repo) Get(ctx context.Context, garmentID string) (domain.Garment, error) {
	key := garmentKey(garmentID)
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Garment{}, domain.ErrGarmentNotFound
		}
		return domain.Garment{}, fmt.Errorf("get %s: %w", key, err)
	}

	var garment domain.Garment
	if err := json.Unmarshal(raw, &garment); err != nil {
		return domain.Garment{}, fmt.Errorf("unmarshal garment %s: %w", garmentID, err)
	}
	return garment, nil
}

// List returns every garment in the catalog, ordered by ID. Entries whose
// blob vanished between the index read and the fetch are skipped.
func (r *Repo) List(ctx context.Context) ([]domain.Garment, error) {
	ids, err := r.store.SMembers(ctx, indexKey)
	if err != nil {
		return nil, fmt.Errorf("list garment ids: %w", err)
	}
	sort.Strings(ids)

	garments := make([]domain.Garment, 0, len(ids))
	for _, id := range ids {
		garment, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrGarmentNotFound) {
				continue
			}
			return nil, err
		}
		garments = append(garments, garment)
	}
	return garments, nil
}

// Delete removes a garment and its index entry.
func (r *Repo) Delete(ctx context.Context, garmentID string) error {
	garment, err := r.Get(ctx, garmentID)
	if err != nil {
		return err
	}
	if err := r.store.Del(ctx, garmentKey(garment.ID)); err != nil {
		return fmt.Errorf("del garment %s: %w", garmentID, err)
	}
	if err := r.store.SRem(ctx, indexKey, garmentID); err != nil {
		return fmt.Errorf("unindex garment %s: %w", garmentID, err)
	}
	return nil
}

// DescriptionEmbedding returns only the stored description embedding.
func (r *Repo) DescriptionEmbedding(ctx context.Context, garmentID string) ([]float32, error) {
	garment, err := r.Get(ctx, garmentID)
	if err != nil {
		return nil, err
	}
	return garment.DescriptionEmbedding, nil
}

func garmentKey(id string) string {
	return keyPrefix + id
}
