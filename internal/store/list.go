package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// ReadList decodes the collection at key. Missing keys, storage errors and
// malformed payloads all yield an empty slice; collections never fail to
// read.
func ReadList[T any](ctx context.Context, s Store, key string) []T {
	raw, err := s.Read(ctx, key)
	if err != nil || len(raw) == 0 {
		return nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// WriteList replaces the whole collection at key. A nil slice is persisted
// as an empty array so a seeded collection is distinguishable from an
// absent one.
func WriteList[T any](ctx context.Context, s Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}
	return s.Write(ctx, key, raw)
}

// ReadCell decodes a single-record key. The bool reports presence; like
// ReadList, malformed content reads as absent.
func ReadCell[T any](ctx context.Context, s Store, key string) (T, bool) {
	var zero T
	raw, err := s.Read(ctx, key)
	if err != nil || len(raw) == 0 {
		return zero, false
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, false
	}
	return value, true
}

// WriteCell replaces a single-record key.
func WriteCell[T any](ctx context.Context, s Store, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cell %s: %w", key, err)
	}
	return s.Write(ctx, key, raw)
}
