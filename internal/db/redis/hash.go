package redis

import (
	"context"

	"github.com/prethrift/prethrift/internal/db"
)

// HIncrByFloat atomically adjusts a hash field by a float delta.
func (s *Store) HIncrByFloat(ctx context.Context, key, field string, delta float64) error {
	cmd := s.b().Hincrbyfloat().Key(key).Field(field).Increment(delta).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpHIncrByFloat, Err: err}
	}
	return nil
}

// HGetAll returns all fields of a hash. A missing key yields an empty map.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	cmd := s.b().Hgetall().Key(key).Build()
	fields, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	return fields, nil
}
