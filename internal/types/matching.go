package types

// MatchTier is the coarse quality bucket derived from a numeric match score.
type MatchTier string

// MatchTier values
const (
	TierExcellent MatchTier = "excellent"
	TierGood      MatchTier = "good"
	TierFair      MatchTier = "fair"
	TierPoor      MatchTier = "poor"
)

// Tier thresholds. Fixed so that golden tests stay reproducible.
const (
	TierExcellentMin = 85
	TierGoodMin      = 65
	TierFairMin      = 40
)

// TierForScore maps a 0-100 score to its quality tier.
func TierForScore(score int) MatchTier {
	switch {
	case score >= TierExcellentMin:
		return TierExcellent
	case score >= TierGoodMin:
		return TierGood
	case score >= TierFairMin:
		return TierFair
	default:
		return TierPoor
	}
}

// Skill gap importance levels
const (
	ImportanceHigh   = "high"
	ImportanceMedium = "medium"
	ImportanceLow    = "low"
)

// CompatibilityFactors holds the per-dimension sub-scores composing an
// overall match score. Each value is in [0,100].
type CompatibilityFactors struct {
	Skills            int `json:"skills"`
	Experience        int `json:"experience"`
	Location          int `json:"location"`
	Salary            int `json:"salary"`
	Availability      int `json:"availability"`
	Education         int `json:"education"`
	Personality       int `json:"personality"`
	CareerProgression int `json:"careerProgression"`
	CulturalFit       int `json:"culturalFit"`
}

// SkillGap names a job-required skill absent from the candidate's skill set.
type SkillGap struct {
	Skill             string   `json:"skill"`
	Importance        string   `json:"importance"`
	CurrentLevel      int      `json:"currentLevel"`
	RequiredLevel     int      `json:"requiredLevel"`
	LearningResources []string `json:"learningResources,omitempty"`
}

// MatchResult is the scorer's output for one (candidate, job) pair.
// It is computed per request and never persisted.
type MatchResult struct {
	JobID         string               `json:"jobId"`
	Score         int                  `json:"score"`
	Tier          MatchTier            `json:"tier"`
	MatchedSkills []string             `json:"matchedSkills,omitempty"`
	Reasons       []string             `json:"reasons,omitempty"`
	DistanceKm    *float64             `json:"distanceKm,omitempty"`
	Factors       CompatibilityFactors `json:"factors"`
	SkillGaps     []SkillGap           `json:"skillGaps,omitempty"`
	CareerAdvice  string               `json:"careerAdvice,omitempty"`
}

// MatchingSummary aggregates a batch of match results.
type MatchingSummary struct {
	TotalMatches     int      `json:"totalMatches"`
	ExcellentMatches int      `json:"excellentMatches"`
	GoodMatches      int      `json:"goodMatches"`
	FairMatches      int      `json:"fairMatches"`
	PoorMatches      int      `json:"poorMatches"`
	AverageScore     float64  `json:"averageScore"`
	TopSkills        []string `json:"topSkills,omitempty"`
	TopGaps          []string `json:"topGaps,omitempty"`
	Recommendations  []string `json:"recommendations,omitempty"`
}
