// Package scheduler wires up the cron job that periodically re-runs the
// external aggregator for the configured default queries, keeping the feed
// cache warm so interactive match requests rarely pay external latency.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/jonathan/job-matcher/internal/aggregator"
)

// Scheduler wraps robfig/cron and manages the refresh loop.
type Scheduler struct {
	cron    *cron.Cron
	client  *aggregator.Client
	queries []aggregator.Query
	spec    string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(client *aggregator.Client, queries []aggregator.Query, intervalHours int) *Scheduler {
	if intervalHours <= 0 {
		intervalHours = 6
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cron.DefaultLogger)),
		client:  client,
		queries: queries,
		spec:    fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one refresh
// immediately so the cache is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started, spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.refresh(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

// refresh runs the aggregator for each configured query. Failures are
// logged and skipped; the next tick retries.
func (s *Scheduler) refresh(ctx context.Context) {
	if len(s.queries) == 0 {
		log.Println("[scheduler] No refresh queries configured, nothing to do")
		return
	}

	log.Printf("[scheduler] Refresh cycle started for %d quer(ies)", len(s.queries))
	for _, q := range s.queries {
		postings, err := s.client.Fetch(ctx, q)
		if err != nil {
			log.Printf("[scheduler] Refresh failed for %q/%q: %v", q.Keywords, q.Location, err)
			continue
		}
		log.Printf("[scheduler] Cached %d posting(s) for %q/%q", len(postings), q.Keywords, q.Location)
	}
	log.Println("[scheduler] Refresh cycle finished")
}
