package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/job-matcher/internal/geo"
	"github.com/jonathan/job-matcher/internal/types"
)

// Score computes the weighted compatibility between one candidate and one
// job posting. It is a total function: any structurally valid input yields
// a result, and identical inputs always yield identical results.
func Score(candidate *types.CandidateProfile, job *types.JobPosting) types.MatchResult {
	distance := computeDistance(candidate, job)

	factors := types.CompatibilityFactors{
		Skills:            computeSkillsScore(candidate, job),
		Experience:        computeExperienceScore(candidate, job),
		Location:          computeLocationScore(candidate, job, distance),
		Salary:            computeSalaryScore(candidate, job),
		Availability:      computeAvailabilityScore(candidate),
		Education:         computeEducationScore(candidate, job),
		Personality:       computePersonalityScore(candidate, job),
		CareerProgression: computeCareerProgressionScore(candidate, job),
		CulturalFit:       computeCulturalFitScore(candidate, job),
	}

	weighted := factors.Skills*skillsWeight +
		factors.Experience*experienceWeight +
		factors.Location*locationWeight +
		factors.Salary*salaryWeight +
		factors.Availability*availabilityWeight +
		factors.Education*educationWeight +
		factors.Personality*personalityWeight +
		factors.CareerProgression*careerProgressionWeight +
		factors.CulturalFit*culturalFitWeight

	score := clampScore(int(math.Round(float64(weighted) / 100)))

	matched := matchedSkills(candidate, job)
	gaps := skillGaps(candidate, job)

	return types.MatchResult{
		JobID:         job.ID,
		Score:         score,
		Tier:          types.TierForScore(score),
		MatchedSkills: matched,
		Reasons:       buildReasons(candidate, job, factors, matched, distance),
		DistanceKm:    distance,
		Factors:       factors,
		SkillGaps:     gaps,
		CareerAdvice:  careerAdvice(types.TierForScore(score), gaps),
	}
}

// matchedSkills returns the candidate skills that case-insensitively equal
// or are contained in any required skill, deduplicated, preserving the
// candidate's original skill order.
func matchedSkills(candidate *types.CandidateProfile, job *types.JobPosting) []string {
	if len(candidate.Skills) == 0 || len(job.RequiredSkills) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(candidate.Skills))
	var matched []string
	for _, skill := range candidate.Skills {
		key := fold(skill)
		if key == "" || seen[key] {
			continue
		}
		for _, required := range job.RequiredSkills {
			rs := fold(required)
			if key == rs || strings.Contains(rs, key) {
				seen[key] = true
				matched = append(matched, skill)
				break
			}
		}
	}
	return matched
}

// skillGaps lists required skills the candidate does not cover at all.
// Importance comes from the skill's position and repetition in the job's
// required-skill list: first-listed and repeated skills matter most.
func skillGaps(candidate *types.CandidateProfile, job *types.JobPosting) []types.SkillGap {
	if len(job.RequiredSkills) == 0 {
		return nil
	}

	counts := make(map[string]int, len(job.RequiredSkills))
	for _, required := range job.RequiredSkills {
		counts[fold(required)]++
	}

	seen := make(map[string]bool, len(job.RequiredSkills))
	var gaps []types.SkillGap
	for i, required := range job.RequiredSkills {
		key := fold(required)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		covered := false
		for _, have := range candidate.Skills {
			if skillMatchStrength(have, required) > 0 {
				covered = true
				break
			}
		}
		if covered {
			continue
		}

		importance := types.ImportanceLow
		switch {
		case i == 0 || counts[key] > 1:
			importance = types.ImportanceHigh
		case i <= 2:
			importance = types.ImportanceMedium
		}

		gaps = append(gaps, types.SkillGap{
			Skill:         required,
			Importance:    importance,
			CurrentLevel:  0,
			RequiredLevel: 3,
			LearningResources: []string{
				fmt.Sprintf("Introductory %s course", required),
				fmt.Sprintf("%s official documentation", required),
			},
		})
	}
	return gaps
}

// buildReasons produces short human-readable explanations for every factor
// that stands out. An unremarkable match legitimately has no reasons.
func buildReasons(candidate *types.CandidateProfile, job *types.JobPosting, factors types.CompatibilityFactors, matched []string, distance *float64) []string {
	var reasons []string

	if factors.Skills >= 70 && len(matched) > 0 {
		listed := matched
		if len(listed) > 3 {
			listed = listed[:3]
		}
		reasons = append(reasons, "Strong skill match: "+strings.Join(listed, ", "))
	}
	if distance != nil && *distance < 10 {
		reasons = append(reasons, fmt.Sprintf("Close to the job location (%s)", geo.FormatDistance(*distance)))
	}
	if factors.Salary == 100 && job.Salary != nil && candidate.ExpectedSalary != nil {
		reasons = append(reasons, "Salary meets your expectation")
	}
	if factors.Experience == experienceMatched && candidate.YearsExperience != nil {
		reasons = append(reasons, "Your experience level fits this role")
	}
	if candidate.Availability == types.AvailabilityAvailable {
		reasons = append(reasons, "You are available to start right away")
	}
	if factors.CareerProgression >= 80 {
		reasons = append(reasons, "Matches your preferred job category")
	}

	return reasons
}

// careerAdvice renders a single templated sentence from the quality tier and
// the top skill gaps. Deliberately deterministic; generated alternatives are
// a collaborator concern, not part of the scorer.
func careerAdvice(tier types.MatchTier, gaps []types.SkillGap) string {
	if len(gaps) == 0 {
		return "Your skills already cover everything this role asks for."
	}

	names := make([]string, 0, 2)
	for _, gap := range gaps {
		names = append(names, gap.Skill)
		if len(names) == 2 {
			break
		}
	}
	skills := strings.Join(names, " and ")

	if tier == types.TierExcellent || tier == types.TierGood {
		return fmt.Sprintf("Strong fit overall; learning %s would make you an even stronger candidate.", skills)
	}
	return fmt.Sprintf("Focus on building %s to improve your fit for roles like this.", skills)
}
