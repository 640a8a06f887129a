// Package aggregator fetches job postings from external boards. Aggregated
// postings are transient: they are merged into the match universe per
// request and never persisted. Every failure here is non-fatal; matching
// degrades to internal postings only.
package aggregator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-matcher/internal/cache"
	"github.com/jonathan/job-matcher/internal/types"
)

// DefaultCacheTTL is how long a merged external feed stays cached.
const DefaultCacheTTL = 30 * time.Minute

// perSourceTimeout bounds each external board call so one slow provider
// cannot stall the whole request.
const perSourceTimeout = 10 * time.Second

// Query describes what to ask the external boards for.
type Query struct {
	Keywords string
	Location string
	Limit    int
	Category string
}

// cacheKey is stable across equivalent queries.
func (q Query) cacheKey() string {
	return strings.ToLower(fmt.Sprintf("agg:%s:%s:%s:%d", q.Keywords, q.Location, q.Category, q.Limit))
}

// Source is a single external job board.
type Source interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]types.JobPosting, error)
}

// Client fans a query out to all configured sources concurrently and merges
// the results. An optional cache short-circuits repeat queries.
type Client struct {
	sources []Source
	cache   cache.Cache
	ttl     time.Duration
}

// NewClient creates an aggregator over the given sources. cache may be nil.
func NewClient(c cache.Cache, ttl time.Duration, sources ...Source) *Client {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &Client{sources: sources, cache: c, ttl: ttl}
}

// Fetch returns external postings for the query. Per-source failures are
// logged and skipped; Fetch only errors when every source failed and
// nothing was cached.
func (c *Client) Fetch(ctx context.Context, q Query) ([]types.JobPosting, error) {
	key := q.cacheKey()
	if c.cache != nil {
		var cached []types.JobPosting
		if hit, err := c.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	results := make([][]types.JobPosting, len(c.sources))
	errs := make([]error, len(c.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range c.sources {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(gctx, perSourceTimeout)
			defer cancel()

			postings, err := src.Fetch(sctx, q)
			if err != nil {
				log.Printf("[aggregator] %s fetch failed: %v", src.Name(), err)
				errs[i] = err
				return nil // degrade, never abort the group
			}
			results[i] = postings
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}

	merged := dedupe(results)
	if len(merged) == 0 && len(c.sources) > 0 && failed == len(c.sources) {
		return nil, fmt.Errorf("all %d aggregator sources unavailable", failed)
	}

	if c.cache != nil && len(merged) > 0 {
		_ = c.cache.SetJSON(ctx, key, merged, c.ttl)
	}
	return merged, nil
}

// containsFold reports whether s contains any of the substrings,
// case-insensitively.
func containsFold(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// dedupe merges per-source result slices, dropping postings that repeat the
// same (title, company) pair across boards.
func dedupe(results [][]types.JobPosting) []types.JobPosting {
	seen := make(map[string]bool)
	var merged []types.JobPosting
	for _, batch := range results {
		for _, p := range batch {
			key := strings.ToLower(p.Title) + "|" + strings.ToLower(p.Company)
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, p)
		}
	}
	return merged
}
