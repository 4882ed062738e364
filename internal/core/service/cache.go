package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/catregistry/cat-api/internal/core/ports"
	"github.com/catregistry/cat-api/internal/pkg/metrics"
)

// noopCache is used when no cache backend is configured.
type noopCache struct{}

func (noopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noopCache) Set(context.Context, string, any) error         { return nil }
func (noopCache) Delete(context.Context, ...string) error        { return nil }

func orNoop(c ports.Cache) ports.Cache {
	if c == nil {
		return noopCache{}
	}
	return c
}

func catKey(id string) string  { return "cat:" + id }
func userKey(id string) string { return "user:" + id }

// readThrough serves key from cache when possible and otherwise calls load,
// storing its result. Cache failures are logged and never returned.
func readThrough[T any](ctx context.Context, cache ports.Cache, log zerolog.Logger, entity, key string, load func() (*T, error)) (*T, error) {
	var cached T
	found, err := cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		metrics.CacheLookupsTotal.WithLabelValues(entity, "error").Inc()
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
	case found:
		metrics.CacheLookupsTotal.WithLabelValues(entity, "hit").Inc()
		return &cached, nil
	default:
		metrics.CacheLookupsTotal.WithLabelValues(entity, "miss").Inc()
	}

	v, err := load()
	if err != nil {
		return nil, err
	}
	if err := cache.Set(ctx, key, v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return v, nil
}

func invalidate(ctx context.Context, cache ports.Cache, log zerolog.Logger, keys ...string) {
	if err := cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}
