package matching

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-matcher/internal/types"
)

// Ranking defaults
const (
	DefaultLimit    = 10
	DefaultMinScore = 40
)

// Options controls filtering and ordering of ranked results.
type Options struct {
	// Limit caps the number of returned results. Zero means DefaultLimit.
	Limit int
	// MinScore drops results below this score. Nil means DefaultMinScore;
	// an explicit zero keeps everything.
	MinScore *int
	// MaxDistance, when set, drops results farther away than this many
	// kilometers. Results without a computable distance are dropped too:
	// asking for a distance filter implies distance must be known.
	MaxDistance *float64
	// SortByDistance orders results nearest-first instead of by score.
	SortByDistance bool
}

func (o Options) normalize() Options {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.MinScore == nil {
		m := DefaultMinScore
		o.MinScore = &m
	} else if *o.MinScore < 0 {
		m := 0
		o.MinScore = &m
	}
	return o
}

// Rank scores every posting for the candidate, filters by score and
// optionally by distance, sorts deterministically and truncates to the
// limit. Scoring runs concurrently; each call only reads its two inputs, so
// the final sort is the only ordering guarantee.
func Rank(ctx context.Context, candidate *types.CandidateProfile, jobs []types.JobPosting, opts Options) []types.MatchResult {
	opts = opts.normalize()
	if len(jobs) == 0 {
		return []types.MatchResult{}
	}

	scored := make([]types.MatchResult, len(jobs))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range jobs {
		g.Go(func() error {
			scored[i] = Score(candidate, &jobs[i])
			return nil
		})
	}
	_ = g.Wait() // scoring is pure and never errors

	results := make([]types.MatchResult, 0, len(scored))
	for _, r := range scored {
		if opts.MaxDistance != nil {
			if r.DistanceKm == nil || *r.DistanceKm > *opts.MaxDistance {
				continue
			}
		}
		if r.Score < *opts.MinScore {
			continue
		}
		results = append(results, r)
	}

	sortResults(results, opts.SortByDistance)

	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

// sortResults applies the total, deterministic order required by the
// ranking contract. Ties always break on job ID last so that concurrent
// scoring order can never leak into the output.
func sortResults(results []types.MatchResult, byDistance bool) {
	if byDistance {
		sort.Slice(results, func(i, j int) bool {
			a, b := results[i], results[j]
			switch {
			case a.DistanceKm == nil && b.DistanceKm == nil:
				// fall through to score
			case a.DistanceKm == nil:
				return false
			case b.DistanceKm == nil:
				return true
			case *a.DistanceKm != *b.DistanceKm:
				return *a.DistanceKm < *b.DistanceKm
			}
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			return a.JobID < b.JobID
		})
		return
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		switch {
		case a.DistanceKm == nil && b.DistanceKm == nil:
			// fall through to job ID
		case a.DistanceKm == nil:
			return false
		case b.DistanceKm == nil:
			return true
		case *a.DistanceKm != *b.DistanceKm:
			return *a.DistanceKm < *b.DistanceKm
		}
		return a.JobID < b.JobID
	})
}
