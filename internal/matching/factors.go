// Package matching implements the multi-factor compatibility scorer and the
// ranking engine that orders job postings for a candidate. Everything in
// this package is pure: no I/O, no clock, no randomness.
package matching

import (
	"math"
	"strings"

	"github.com/jonathan/job-matcher/internal/geo"
	"github.com/jonathan/job-matcher/internal/types"
)

// Factor weights. They sum to 100 and are part of the golden-test baseline;
// changing any of them changes every score in the system.
const (
	skillsWeight            = 30
	experienceWeight        = 15
	locationWeight          = 15
	salaryWeight            = 10
	availabilityWeight      = 10
	educationWeight         = 8
	personalityWeight       = 4
	careerProgressionWeight = 4
	culturalFitWeight       = 4
)

// neutralScore is the sub-score used when a factor has no signal to work
// with. Missing optional data must not drag a match down to zero.
const neutralScore = 50

// locationCutoffKm is the distance beyond which the location factor bottoms
// out at locationFloorScore.
const (
	locationCutoffKm   = 100.0
	locationFloorScore = 20
)

// fold normalizes a string for case-insensitive comparison.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// clampScore bounds a sub-score to [0,100].
func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// skillMatchStrength returns how well a candidate skill satisfies a required
// skill: 1.0 for a case-insensitive exact match, 0.5 when one contains the
// other, 0 otherwise.
func skillMatchStrength(candidateSkill, requiredSkill string) float64 {
	cs, rs := fold(candidateSkill), fold(requiredSkill)
	if cs == "" || rs == "" {
		return 0
	}
	if cs == rs {
		return 1.0
	}
	if strings.Contains(cs, rs) || strings.Contains(rs, cs) {
		return 0.5
	}
	return 0
}

// computeSkillsScore scores skill overlap against the job's required-skill
// count. Exact matches count full, partial containment counts half. A job
// with no listed requirements gives no signal either way.
func computeSkillsScore(candidate *types.CandidateProfile, job *types.JobPosting) int {
	if len(job.RequiredSkills) == 0 {
		return neutralScore
	}
	if len(candidate.Skills) == 0 {
		return 0
	}

	total := 0.0
	for _, required := range job.RequiredSkills {
		best := 0.0
		for _, have := range candidate.Skills {
			if s := skillMatchStrength(have, required); s > best {
				best = s
			}
			if best == 1.0 {
				break
			}
		}
		total += best
	}

	return clampScore(int(math.Round(100 * total / float64(len(job.RequiredSkills)))))
}

// seniorityBand is the years-of-experience range a job title/description
// implies.
type seniorityBand struct {
	min, max float64
}

// impliedSeniority derives a seniority band from title and description
// keywords. Postings with no seniority signal accept any experience level.
func impliedSeniority(job *types.JobPosting) seniorityBand {
	text := fold(job.Title) + " " + fold(job.Description)
	switch {
	case containsAny(text, "principal", "staff engineer", "head of", "lead "):
		return seniorityBand{min: 7, max: 40}
	case containsAny(text, "senior", "sr."):
		return seniorityBand{min: 5, max: 15}
	case containsAny(text, "intern", "graduate", "entry level", "entry-level"):
		return seniorityBand{min: 0, max: 2}
	case containsAny(text, "junior", "jr."):
		return seniorityBand{min: 0, max: 3}
	case containsAny(text, "mid-level", "mid level", "intermediate"):
		return seniorityBand{min: 2, max: 5}
	default:
		return seniorityBand{min: 0, max: 40}
	}
}

func containsAny(text string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(text, sub) {
			return true
		}
	}
	return false
}

// Experience score bands for under-, within- and over-qualified candidates.
const (
	experienceMatched       = 100
	experienceOverQualified = 70
	experienceUnder         = 40
)

// computeExperienceScore compares candidate years of experience against the
// seniority the posting implies.
func computeExperienceScore(candidate *types.CandidateProfile, job *types.JobPosting) int {
	if candidate.YearsExperience == nil {
		return neutralScore
	}
	years := *candidate.YearsExperience
	band := impliedSeniority(job)
	switch {
	case years < band.min:
		return experienceUnder
	case years > band.max:
		return experienceOverQualified
	default:
		return experienceMatched
	}
}

// computeLocationScore scores proximity. With coordinates on both sides the
// score decays linearly with distance down to a floor at locationCutoffKm.
// With free-text locations only, string overlap is a weaker fallback.
func computeLocationScore(candidate *types.CandidateProfile, job *types.JobPosting, distanceKm *float64) int {
	if distanceKm != nil {
		d := *distanceKm
		if d >= locationCutoffKm {
			return locationFloorScore
		}
		decay := float64(100-locationFloorScore) / locationCutoffKm
		return clampScore(int(math.Round(100 - d*decay)))
	}

	cLoc, jLoc := fold(candidate.Location), fold(job.Location)
	if cLoc == "" || jLoc == "" {
		return neutralScore
	}
	switch {
	case cLoc == jLoc:
		return 90
	case strings.Contains(jLoc, "remote"):
		return 80
	case strings.Contains(cLoc, jLoc) || strings.Contains(jLoc, cLoc):
		return 75
	default:
		return 30
	}
}

// computeSalaryScore gives full credit when the posting meets or omits a
// salary, and scales credit by the shortfall ratio otherwise.
func computeSalaryScore(candidate *types.CandidateProfile, job *types.JobPosting) int {
	if candidate.ExpectedSalary == nil || *candidate.ExpectedSalary <= 0 {
		return 100
	}
	if job.Salary == nil {
		return 100
	}
	expected := *candidate.ExpectedSalary
	offered := *job.Salary
	if offered >= expected {
		return 100
	}
	if offered <= 0 {
		return 0
	}
	return clampScore(int(math.Round(100 * offered / expected)))
}

// computeAvailabilityScore maps the availability enum to a score. Not
// available is near-zero but non-zero so a strong match elsewhere is not
// totally excluded.
func computeAvailabilityScore(candidate *types.CandidateProfile) int {
	switch candidate.Availability {
	case types.AvailabilityAvailable:
		return 100
	case types.AvailabilityOpenToOffers:
		return 60
	case types.AvailabilityNotAvailable:
		return 10
	default:
		return neutralScore
	}
}

// computeEducationScore gives a flat bonus for any education at all, plus
// incremental credit for entries whose keywords appear in the description.
func computeEducationScore(candidate *types.CandidateProfile, job *types.JobPosting) int {
	if len(candidate.Education) == 0 {
		return 40
	}

	desc := fold(job.Description)
	relevant := 0
	for _, entry := range candidate.Education {
		for _, word := range strings.Fields(fold(entry)) {
			if len(word) > 3 && strings.Contains(desc, word) {
				relevant++
				break
			}
		}
	}

	bonus := int(math.Round(30 * float64(relevant) / float64(len(candidate.Education))))
	return clampScore(70 + bonus)
}

// computePersonalityScore credits candidate trait descriptors that show up
// in the job description. No traits means no signal.
func computePersonalityScore(candidate *types.CandidateProfile, job *types.JobPosting) int {
	if len(candidate.Traits) == 0 {
		return neutralScore
	}
	desc := fold(job.Description)
	if desc == "" {
		return neutralScore
	}
	hits := 0
	for _, trait := range candidate.Traits {
		t := fold(trait)
		if t != "" && strings.Contains(desc, t) {
			hits++
		}
	}
	return clampScore(neutralScore + 12*hits)
}

// computeCareerProgressionScore checks the posting's category against the
// candidate's preferred categories.
func computeCareerProgressionScore(candidate *types.CandidateProfile, job *types.JobPosting) int {
	if len(candidate.PreferredCategories) == 0 || job.Category == "" {
		return neutralScore
	}
	jc := fold(job.Category)
	for _, pref := range candidate.PreferredCategories {
		if fold(pref) == jc {
			return 80
		}
	}
	return 35
}

// computeCulturalFitScore is a soft signal from preferred-location overlap
// with the posting's location or company.
func computeCulturalFitScore(candidate *types.CandidateProfile, job *types.JobPosting) int {
	if len(candidate.PreferredLocations) == 0 {
		return neutralScore
	}
	jLoc, jCompany := fold(job.Location), fold(job.Company)
	for _, pref := range candidate.PreferredLocations {
		p := fold(pref)
		if p == "" {
			continue
		}
		if (jLoc != "" && (strings.Contains(jLoc, p) || strings.Contains(p, jLoc))) ||
			(jCompany != "" && strings.Contains(jCompany, p)) {
			return 80
		}
	}
	return neutralScore
}

// computeDistance returns the great-circle distance when both sides carry
// coordinates, nil otherwise.
func computeDistance(candidate *types.CandidateProfile, job *types.JobPosting) *float64 {
	if candidate.Coordinates == nil || job.Coordinates == nil {
		return nil
	}
	d := geo.DistanceKm(*candidate.Coordinates, *job.Coordinates)
	return &d
}
