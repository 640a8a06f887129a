// Package config provides configuration loading and validation for the
// match server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the server configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or come from
// environment variables.
type Config struct {
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty"`    // Optional; caching is disabled without it

	// Geocoding
	GeocoderBaseURL string `json:"geocoder_base_url,omitempty"`

	// External aggregator
	AdzunaAppID   string `json:"adzuna_app_id,omitempty"`
	AdzunaAppKey  string `json:"adzuna_app_key,omitempty"`
	AdzunaCountry string `json:"adzuna_country,omitempty"`
	BoardURL      string `json:"board_url,omitempty"` // Static HTML board to scrape

	// Scheduler
	RefreshIntervalHours int      `json:"refresh_interval_hours,omitempty"`
	RefreshKeywords      []string `json:"refresh_keywords,omitempty"`
	RefreshLocation      string   `json:"refresh_location,omitempty"`

	// RequestTimeoutSeconds bounds the whole match request, external calls
	// included.
	RequestTimeoutSeconds int `json:"request_timeout_seconds,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills empty fields from environment variables. Environment always
// loses to an explicit config file value.
func (c *Config) FromEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.RedisURL == "" {
		c.RedisURL = os.Getenv("REDIS_URL")
	}
	if c.GeocoderBaseURL == "" {
		c.GeocoderBaseURL = os.Getenv("GEOCODER_BASE_URL")
	}
	if c.AdzunaAppID == "" {
		c.AdzunaAppID = os.Getenv("ADZUNA_APP_ID")
	}
	if c.AdzunaAppKey == "" {
		c.AdzunaAppKey = os.Getenv("ADZUNA_APP_KEY")
	}
	if c.AdzunaCountry == "" {
		c.AdzunaCountry = os.Getenv("ADZUNA_COUNTRY")
	}
	if c.BoardURL == "" {
		c.BoardURL = os.Getenv("BOARD_URL")
	}
	if c.Port == 0 {
		if p, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
			c.Port = p
		}
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be in [0,65535]")
	}
	if c.RefreshIntervalHours < 0 {
		return fmt.Errorf("config error: 'refresh_interval_hours' must be non-negative")
	}
	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'request_timeout_seconds' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled in.
func (c *Config) MergeWithDefaults() Config {
	result := *c
	if result.Port == 0 {
		result.Port = 8080
	}
	if result.GeocoderBaseURL == "" {
		result.GeocoderBaseURL = "https://nominatim.openstreetmap.org"
	}
	if result.AdzunaCountry == "" {
		result.AdzunaCountry = "us"
	}
	if result.RefreshIntervalHours == 0 {
		result.RefreshIntervalHours = 6
	}
	if result.RequestTimeoutSeconds == 0 {
		result.RequestTimeoutSeconds = 30
	}
	return result
}
