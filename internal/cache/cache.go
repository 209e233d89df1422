// Package cache holds the public read payloads for offerings and the catalog.
// Entries are encoded JSON so a hit is written to the client as is.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// CatalogKey holds the services and solutions summary served to the chat widget.
const CatalogKey = "catalog:summary"

func OfferingListKey(kind string) string {
	return "offerings:" + kind + ":all"
}

func OfferingSlugKey(kind, slug string) string {
	return "offerings:" + kind + ":slug:" + slug
}

// Cache implementations are safe for concurrent use. A miss is ok=false with
// a nil error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// OrNoop returns c, or a cache that never hits when c is nil.
func OrNoop(c Cache) Cache {
	if c == nil {
		return NoopCache{}
	}
	return c
}

// SetJSON encodes payload and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, payload interface{}, ttl time.Duration) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, body, ttl)
}

type NoopCache struct{}

func NewNoop() NoopCache { return NoopCache{} }

func (NoopCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NoopCache) Delete(context.Context, ...string) error                  { return nil }
