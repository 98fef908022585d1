package scraper

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dotcommander/sitegen/internal/domain/design"
)

// CachedSource remembers successful scrapes for a bounded time. Entries are
// stored encoded so every hit decodes a fresh design.
type CachedSource struct {
	source Source
	cache  *expirable.LRU[string, []byte]
	logger *slog.Logger
}

// NewCachedSource wraps source with an LRU of size entries that expire after ttl
func NewCachedSource(source Source, size int, ttl time.Duration, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{
		source: source,
		cache:  expirable.NewLRU[string, []byte](size, nil, ttl),
		logger: logger.With("component", "scrape_cache"),
	}
}

func (c *CachedSource) Scrape(ctx context.Context, rawURL string) (*design.ScrapedDesign, error) {
	if data, ok := c.cache.Get(rawURL); ok {
		var d design.ScrapedDesign
		if err := json.Unmarshal(data, &d); err == nil {
			c.logger.Debug("cache hit", "url", rawURL)
			return &d, nil
		}
		c.logger.Error("cache entry invalid", "url", rawURL)
		c.cache.Remove(rawURL)
	}

	c.logger.Debug("cache miss", "url", rawURL)

	d, err := c.source.Scrape(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(d)
	if err != nil {
		c.logger.Error("cache encode failed", "url", rawURL, "error", err)
		return d, nil
	}
	c.cache.Add(rawURL, data)

	return d, nil
}

// Len reports how many scrapes are cached
func (c *CachedSource) Len() int {
	return c.cache.Len()
}

// Purge drops every cached scrape
func (c *CachedSource) Purge() {
	c.cache.Purge()
}
