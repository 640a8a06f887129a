// Package types provides type definitions for structured data used throughout the job-matcher system.
package types

import (
	"github.com/google/uuid"
)

// Availability describes whether a candidate is actively looking for work.
type Availability string

// Availability values
const (
	AvailabilityAvailable    Availability = "available"
	AvailabilityOpenToOffers Availability = "open_to_offers"
	AvailabilityNotAvailable Availability = "not_available"
)

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CandidateProfile is a read-only snapshot of a job seeker's profile.
// The matching subsystem never mutates it; optional fields are nil when
// the candidate has not filled them in.
type CandidateProfile struct {
	ID                  uuid.UUID    `json:"id"`
	FirstName           string       `json:"firstName"`
	LastName            string       `json:"lastName"`
	Location            string       `json:"location,omitempty"`
	Coordinates         *Coordinates `json:"coordinates,omitempty"`
	Skills              []string     `json:"skills,omitempty"`
	YearsExperience     *float64     `json:"yearsExperience,omitempty"`
	Education           []string     `json:"education,omitempty"`
	Availability        Availability `json:"availability"`
	ExpectedSalary      *float64     `json:"expectedSalary,omitempty"`
	PreferredCategories []string     `json:"preferredCategories,omitempty"`
	PreferredLocations  []string     `json:"preferredLocations,omitempty"`
	Traits              []string     `json:"traits,omitempty"`
}

// HasLocationSignal reports whether the profile carries any location
// information at all. Matching refuses to run without one.
func (c *CandidateProfile) HasLocationSignal() bool {
	return c.Coordinates != nil || c.Location != ""
}
