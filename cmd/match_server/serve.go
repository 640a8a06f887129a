package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-matcher/internal/aggregator"
	"github.com/jonathan/job-matcher/internal/cache"
	"github.com/jonathan/job-matcher/internal/config"
	"github.com/jonathan/job-matcher/internal/db"
	"github.com/jonathan/job-matcher/internal/geo"
	"github.com/jonathan/job-matcher/internal/scheduler"
	"github.com/jonathan/job-matcher/internal/server"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the job match endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	var ttlCache cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() { _ = redisCache.Close() }()
		ttlCache = redisCache
	} else {
		log.Println("REDIS_URL not set, geocode and feed caching disabled")
	}

	geocoder := geo.NewCachedGeocoder(geo.NewClient(cfg.GeocoderBaseURL), ttlCache, 0)
	feed := newFeed(cfg, ttlCache)

	if cfg.RefreshIntervalHours > 0 && len(cfg.RefreshKeywords) > 0 {
		sched := scheduler.New(feed, refreshQueries(cfg), cfg.RefreshIntervalHours)
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()
	}

	srv := server.New(server.Config{
		Port:           cfg.Port,
		RequestTimeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}, database, geocoder, feed)

	return srv.Start()
}

// loadConfig merges the optional JSON config file with environment
// variables and defaults.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.FromEnv()
	merged := cfg.MergeWithDefaults()
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// newFeed wires the configured external job boards into one aggregator.
func newFeed(cfg *config.Config, ttlCache cache.Cache) *aggregator.Client {
	var sources []aggregator.Source
	sources = append(sources,
		aggregator.NewAdzunaSource("", cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaCountry))
	if cfg.BoardURL != "" {
		sources = append(sources, aggregator.NewBoardSource(cfg.BoardURL))
	}
	return aggregator.NewClient(ttlCache, 0, sources...)
}

func refreshQueries(cfg *config.Config) []aggregator.Query {
	queries := make([]aggregator.Query, 0, len(cfg.RefreshKeywords))
	for _, kw := range cfg.RefreshKeywords {
		queries = append(queries, aggregator.Query{
			Keywords: kw,
			Location: cfg.RefreshLocation,
			Limit:    100,
		})
	}
	return queries
}
