package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/job-matcher/internal/types"
)

// topN is how many recurring skills and gaps the summary surfaces.
const topN = 5

// Summarize derives an aggregate view of a batch of match results. Every
// field is a deterministic function of the result list.
func Summarize(results []types.MatchResult) types.MatchingSummary {
	summary := types.MatchingSummary{TotalMatches: len(results)}
	if len(results) == 0 {
		summary.Recommendations = []string{
			"No jobs available right now. Check back soon or broaden your preferred categories.",
		}
		return summary
	}

	total := 0
	skillCounts := newFrequency()
	gapCounts := newFrequency()
	for _, r := range results {
		total += r.Score
		switch r.Tier {
		case types.TierExcellent:
			summary.ExcellentMatches++
		case types.TierGood:
			summary.GoodMatches++
		case types.TierFair:
			summary.FairMatches++
		default:
			summary.PoorMatches++
		}
		for _, skill := range r.MatchedSkills {
			skillCounts.add(skill)
		}
		for _, gap := range r.SkillGaps {
			gapCounts.add(gap.Skill)
		}
	}

	summary.AverageScore = math.Round(float64(total)/float64(len(results))*10) / 10
	summary.TopSkills = skillCounts.top(topN)
	summary.TopGaps = gapCounts.top(topN)
	summary.Recommendations = recommendations(summary)
	return summary
}

// recommendations applies fixed rules to the aggregate numbers.
func recommendations(s types.MatchingSummary) []string {
	var recs []string
	if s.ExcellentMatches > 0 {
		recs = append(recs, fmt.Sprintf("You have %d excellent match(es). Apply to those first.", s.ExcellentMatches))
	}
	if s.AverageScore < 60 {
		recs = append(recs, "Your average match score is low. Building the most requested missing skills would raise it.")
	}
	if len(s.TopGaps) > 0 {
		recs = append(recs, "Skills most often missing from your profile: "+strings.Join(s.TopGaps, ", "))
	}
	return recs
}

// frequency counts case-insensitive occurrences while remembering the first
// spelling and first-seen order, so top() is deterministic under ties.
type frequency struct {
	counts map[string]int
	first  map[string]string
	order  []string
}

func newFrequency() *frequency {
	return &frequency{
		counts: make(map[string]int),
		first:  make(map[string]string),
	}
}

func (f *frequency) add(s string) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return
	}
	if _, ok := f.counts[key]; !ok {
		f.first[key] = s
		f.order = append(f.order, key)
	}
	f.counts[key]++
}

func (f *frequency) top(n int) []string {
	keys := make([]string, len(f.order))
	copy(keys, f.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return f.counts[keys[i]] > f.counts[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = f.first[k]
	}
	return out
}
