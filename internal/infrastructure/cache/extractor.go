package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"skill-alert/internal/domain/skill"
)

const extractionOpTimeout = 250 * time.Millisecond

type JSONStore interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CachedExtractor memoizes extraction results by registry and text hash. Cache errors
// fall through to the wrapped extractor.
type CachedExtractor struct {
	inner  *skill.Extractor
	store  JSONStore
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedExtractor(inner *skill.Extractor, store JSONStore, ttl time.Duration, logger *zap.Logger) *CachedExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedExtractor{inner: inner, store: store, ttl: ttl, logger: logger}
}

func (c *CachedExtractor) Registry() *skill.Registry {
	return c.inner.Registry()
}

func (c *CachedExtractor) Extract(text string) skill.Set {
	if c.store == nil || len(text) == 0 {
		return c.inner.Extract(text)
	}
	key := ExtractionKey(c.inner.Registry().Fingerprint(), text)

	ctx, cancel := context.WithTimeout(context.Background(), extractionOpTimeout)
	defer cancel()

	var cached []string
	hit, err := c.store.GetJSON(ctx, key, &cached)
	if err != nil {
		c.logger.Debug("extraction cache read failed", zap.Error(err))
	}
	if hit {
		return skill.NewSet(cached...)
	}

	set := c.inner.Extract(text)
	if set.Len() == 0 {
		return set
	}
	if err := c.store.SetJSON(ctx, key, set.Sorted(), c.ttl); err != nil {
		c.logger.Debug("extraction cache write failed", zap.Error(err))
	}
	return set
}
