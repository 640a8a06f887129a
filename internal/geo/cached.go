package geo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/job-matcher/internal/cache"
	"github.com/jonathan/job-matcher/internal/types"
)

// DefaultGeocodeCacheTTL is how long a resolved place stays cached.
// Place-name coordinates effectively never change, so this is generous.
const DefaultGeocodeCacheTTL = 7 * 24 * time.Hour

// CachedGeocoder wraps a Geocoder with a TTL cache keyed by the normalized
// place string. Cache failures fall through to the underlying geocoder.
type CachedGeocoder struct {
	inner Geocoder
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedGeocoder creates a caching wrapper. A zero ttl uses
// DefaultGeocodeCacheTTL.
func NewCachedGeocoder(inner Geocoder, c cache.Cache, ttl time.Duration) *CachedGeocoder {
	if ttl == 0 {
		ttl = DefaultGeocodeCacheTTL
	}
	return &CachedGeocoder{inner: inner, cache: c, ttl: ttl}
}

// Geocode resolves a place name, consulting the cache first. Negative
// results are not cached; a place missing today may geocode tomorrow.
func (g *CachedGeocoder) Geocode(ctx context.Context, place string) (types.Coordinates, error) {
	key := geocodeKey(place)

	var cached types.Coordinates
	if g.cache != nil {
		if hit, err := g.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	coords, err := g.inner.Geocode(ctx, place)
	if err != nil {
		return types.Coordinates{}, err
	}

	if g.cache != nil {
		_ = g.cache.SetJSON(ctx, key, coords, g.ttl)
	}
	return coords, nil
}

// ReverseGeocode delegates to the underlying geocoder with caching keyed by
// rounded coordinates.
func (g *CachedGeocoder) ReverseGeocode(ctx context.Context, coords types.Coordinates) (string, error) {
	key := fmt.Sprintf("geo:rev:%.4f:%.4f", coords.Lat, coords.Lon)

	var cached string
	if g.cache != nil {
		if hit, err := g.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	place, err := g.inner.ReverseGeocode(ctx, coords)
	if err != nil {
		return "", err
	}

	if g.cache != nil {
		_ = g.cache.SetJSON(ctx, key, place, g.ttl)
	}
	return place, nil
}

func geocodeKey(place string) string {
	return "geo:fwd:" + strings.ToLower(strings.Join(strings.Fields(place), " "))
}
