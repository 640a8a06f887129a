package matching

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-matcher/internal/types"
)

// rankJobs builds a varied pool around the golden candidate: a near perfect
// match, a decent one, a distant one and one with no coordinates.
func rankJobs() []types.JobPosting {
	return []types.JobPosting{
		{
			ID:             "job-near",
			Title:          "Frontend Engineer",
			RequiredSkills: []string{"React", "Node.js"},
			Coordinates:    &types.Coordinates{Lat: 37.77, Lon: -122.41},
			Salary:         floatPtr(120000),
		},
		{
			ID:             "job-ok",
			Title:          "Frontend Engineer",
			RequiredSkills: []string{"React", "TypeScript", "Node.js"},
			Coordinates:    &types.Coordinates{Lat: 37.788, Lon: -122.41},
			Salary:         floatPtr(95000),
		},
		{
			ID:             "job-far",
			Title:          "Frontend Engineer",
			RequiredSkills: []string{"React", "Node.js"},
			Coordinates:    &types.Coordinates{Lat: 40.71, Lon: -74.0},
			Salary:         floatPtr(120000),
		},
		{
			ID:             "job-nowhere",
			Title:          "Frontend Engineer",
			RequiredSkills: []string{"React", "Node.js"},
			Location:       "Remote",
			Salary:         floatPtr(120000),
		},
	}
}

func TestRank_SortsByScore(t *testing.T) {
	results := Rank(context.Background(), goldenCandidate(), rankJobs(), Options{})

	require.NotEmpty(t, results)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	assert.Equal(t, "job-near", results[0].JobID)
}

func intPtr(v int) *int { return &v }

func TestRank_MinScoreFilters(t *testing.T) {
	results := Rank(context.Background(), goldenCandidate(), rankJobs(), Options{MinScore: intPtr(95)})
	assert.Empty(t, results)

	results = Rank(context.Background(), goldenCandidate(), rankJobs(), Options{MinScore: intPtr(0)})
	assert.Len(t, results, len(rankJobs()))
}

func TestRank_ExplicitZeroMinScoreKeepsEverything(t *testing.T) {
	// A posting that scores below the default cutoff for the golden
	// candidate: no skill overlap, senior role, far away.
	weak := types.JobPosting{
		ID:             "job-weak",
		Title:          "Senior Platform Engineer",
		RequiredSkills: []string{"Kubernetes"},
		Coordinates:    &types.Coordinates{Lat: 40.71, Lon: -74.0},
	}

	byDefault := Rank(context.Background(), goldenCandidate(), []types.JobPosting{weak}, Options{})
	assert.Empty(t, byDefault)

	kept := Rank(context.Background(), goldenCandidate(), []types.JobPosting{weak}, Options{MinScore: intPtr(0)})
	assert.Len(t, kept, 1)
}

func TestRank_MaxDistanceExcludesUnknownDistance(t *testing.T) {
	results := Rank(context.Background(), goldenCandidate(), rankJobs(), Options{MaxDistance: floatPtr(50), MinScore: intPtr(0)})

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.JobID)
	}
	assert.Contains(t, ids, "job-near")
	assert.Contains(t, ids, "job-ok")
	assert.NotContains(t, ids, "job-far", "beyond the distance cap")
	assert.NotContains(t, ids, "job-nowhere", "unknown distance under an active distance filter")
}

func TestRank_SortByDistance(t *testing.T) {
	results := Rank(context.Background(), goldenCandidate(), rankJobs(), Options{SortByDistance: true, MinScore: intPtr(0)})

	require.Len(t, results, 4)
	assert.Equal(t, "job-near", results[0].JobID)
	assert.Equal(t, "job-ok", results[1].JobID)
	assert.Equal(t, "job-far", results[2].JobID)
	assert.Equal(t, "job-nowhere", results[3].JobID, "unknown distance sorts last")
}

func TestRank_Limit(t *testing.T) {
	results := Rank(context.Background(), goldenCandidate(), rankJobs(), Options{Limit: 2, MinScore: intPtr(0)})
	assert.Len(t, results, 2)
}

func TestRank_DefaultLimit(t *testing.T) {
	jobs := make([]types.JobPosting, 0, 25)
	for i := 0; i < 25; i++ {
		job := rankJobs()[0]
		job.ID = fmt.Sprintf("job-%02d", i)
		jobs = append(jobs, job)
	}

	results := Rank(context.Background(), goldenCandidate(), jobs, Options{})
	assert.Len(t, results, DefaultLimit)
}

func TestRank_EmptyPool(t *testing.T) {
	results := Rank(context.Background(), goldenCandidate(), nil, Options{})
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRank_TieBreakByJobID(t *testing.T) {
	job := rankJobs()[0]
	a, b := job, job
	a.ID = "job-b"
	b.ID = "job-a"

	// Identical postings score identically; ordering must not depend on
	// input or goroutine scheduling order.
	for i := 0; i < 5; i++ {
		results := Rank(context.Background(), goldenCandidate(), []types.JobPosting{a, b}, Options{MinScore: intPtr(0)})
		require.Len(t, results, 2)
		assert.Equal(t, "job-a", results[0].JobID)
		assert.Equal(t, "job-b", results[1].JobID)
	}
}

func TestOptionsNormalize(t *testing.T) {
	opts := Options{}.normalize()
	assert.Equal(t, DefaultLimit, opts.Limit)
	require.NotNil(t, opts.MinScore)
	assert.Equal(t, DefaultMinScore, *opts.MinScore)

	opts = Options{Limit: 3, MinScore: intPtr(0)}.normalize()
	assert.Equal(t, 3, opts.Limit)
	assert.Equal(t, 0, *opts.MinScore)

	opts = Options{MinScore: intPtr(-10)}.normalize()
	assert.Equal(t, 0, *opts.MinScore)
}
