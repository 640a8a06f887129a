package types

import (
	"github.com/go-playground/validator/v10"
)

// MatchRequest represents a request to rank job postings for a candidate.
// A zero Limit means "use the ranking default"; a nil MinScore does too,
// while an explicit zero keeps every result.
type MatchRequest struct {
	CandidateID         string   `json:"candidateId" validate:"required,uuid"`
	Limit               int      `json:"limit,omitempty" validate:"gte=0,lte=100"`
	MinScore            *int     `json:"minScore,omitempty" validate:"omitempty,gte=0,lte=100"`
	MaxDistance         *float64 `json:"maxDistance,omitempty"`
	SortByDistance      bool     `json:"sortByDistance,omitempty"`
	IncludeSkillGaps    bool     `json:"includeSkillGaps,omitempty"`
	IncludeCareerAdvice bool     `json:"includeCareerAdvice,omitempty"`
}

// MatchResponse is the payload returned by the match endpoints.
type MatchResponse struct {
	Matches      []MatchResult   `json:"matches"`
	TotalMatches int             `json:"totalMatches"`
	Summary      MatchingSummary `json:"summary"`
}

// Validate validates the MatchRequest using the validator.
func (r *MatchRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.MaxDistance != nil && *r.MaxDistance < 0 {
		return &FieldError{Field: "maxDistance", Message: "must be non-negative"}
	}
	return nil
}

// FieldError reports a request field that failed validation beyond what
// struct tags can express.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}
