package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/aggregator"
	"github.com/jonathan/job-matcher/internal/cache"
	"github.com/jonathan/job-matcher/internal/config"
)

var (
	refreshKeywords string
	refreshLocation string
	refreshLimit    int
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Warm the external job feed cache once",
	Long:  `Fetch external postings for the given query and store them in the feed cache, then exit.`,
	RunE:  runRefresh,
}

func init() {
	refreshCmd.Flags().StringVar(&refreshKeywords, "keywords", "", "Search keywords")
	refreshCmd.Flags().StringVar(&refreshLocation, "location", "", "Search location")
	refreshCmd.Flags().IntVar(&refreshLimit, "limit", 100, "Maximum postings to fetch")
	refreshCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(_ *cobra.Command, _ []string) error {
	// Unlike serve, refresh does not touch the database, so the full
	// config validation (which requires DATABASE_URL) is skipped.
	base := &config.Config{}
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return err
		}
		base = loaded
	}
	base.FromEnv()
	merged := base.MergeWithDefaults()
	cfg := &merged
	if cfg.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required: refresh is pointless without a cache to warm")
	}

	ctx := context.Background()
	redisCache, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() { _ = redisCache.Close() }()

	feed := newFeed(cfg, redisCache)
	postings, err := feed.Fetch(ctx, aggregator.Query{
		Keywords: refreshKeywords,
		Location: refreshLocation,
		Limit:    refreshLimit,
	})
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	log.Printf("Cached %d external posting(s)", len(postings))
	return nil
}
