// Package store persists small pieces of client state (session cookies,
// the checkout selection fallback) between runs.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var (
	ErrNotFound = errors.New("key not found")
	ErrCorrupt  = errors.New("stored value is corrupt")
)

// GetJSON decodes the value stored under key into v.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: unmarshal %s failed: %v", ErrCorrupt, key, err)
	}
	return nil
}

func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
