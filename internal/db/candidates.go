package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-matcher/internal/types"
)

// GetCandidate retrieves a candidate profile by ID. Returns nil without
// error when no profile exists.
func (db *DB) GetCandidate(ctx context.Context, id uuid.UUID) (*types.CandidateProfile, error) {
	var (
		c            types.CandidateProfile
		lat, lon     *float64
		availability string
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, COALESCE(location, ''), lat, lon,
		        COALESCE(skills, '{}'), years_experience, COALESCE(education, '{}'),
		        COALESCE(availability, ''), expected_salary,
		        COALESCE(preferred_categories, '{}'), COALESCE(preferred_locations, '{}'),
		        COALESCE(traits, '{}')
		 FROM candidate_profiles WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Location, &lat, &lon,
		&c.Skills, &c.YearsExperience, &c.Education,
		&availability, &c.ExpectedSalary,
		&c.PreferredCategories, &c.PreferredLocations, &c.Traits)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	c.Availability = types.Availability(availability)
	if lat != nil && lon != nil {
		c.Coordinates = &types.Coordinates{Lat: *lat, Lon: *lon}
	}
	return &c, nil
}

// UpdateCandidateCoordinates persists geocoded coordinates back onto a
// profile so later match requests skip the geocoding round trip.
func (db *DB) UpdateCandidateCoordinates(ctx context.Context, id uuid.UUID, coords types.Coordinates) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE candidate_profiles SET lat = $1, lon = $2, updated_at = NOW() WHERE id = $3`,
		coords.Lat, coords.Lon, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate coordinates: %w", err)
	}
	return nil
}
