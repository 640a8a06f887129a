package types

import (
	"github.com/google/uuid"
)

// Job source constants. Internal postings are created on the platform;
// everything else is fetched transiently from an aggregator and never
// persisted by the matching subsystem.
const (
	SourceInternal    = "internal"
	SourceLinkedIn    = "linkedin"
	SourceNaukri      = "naukri"
	SourceAdzuna      = "adzuna"
	SourceRemoteBoard = "remoteboard"
)

// Job category constants
const (
	CategorySoftware  = "software"
	CategoryDesign    = "design"
	CategoryMarketing = "marketing"
	CategorySales     = "sales"
	CategoryFinance   = "finance"
	CategoryOther     = "other"
)

// JobPosting represents a single job opening, internal or aggregated.
// External postings use a source-prefixed ID (e.g. "adzuna:12345") so they
// never collide with internal UUIDs.
type JobPosting struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Company        string       `json:"company"`
	Location       string       `json:"location,omitempty"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
	RequiredSkills []string     `json:"requiredSkills,omitempty"`
	Category       string       `json:"category,omitempty"`
	Salary         *float64     `json:"salary,omitempty"`
	Description    string       `json:"description,omitempty"`
	Source         string       `json:"source"`
	PosterID       *uuid.UUID   `json:"posterId,omitempty"`
}
