package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-matcher/internal/aggregator"
	"github.com/jonathan/job-matcher/internal/db"
	"github.com/jonathan/job-matcher/internal/geo"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/types"
)

// handleMatchPost ranks job postings for the candidate in the request body.
func (s *Server) handleMatchPost(w http.ResponseWriter, r *http.Request) {
	var req types.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}
	s.serveMatch(w, r, req)
}

// handleMatchGet is the equivalent read-only form using query parameters.
func (s *Server) handleMatchGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := types.MatchRequest{
		CandidateID:         q.Get("candidateId"),
		Limit:               parseQueryInt(q.Get("limit")),
		SortByDistance:      parseQueryBool(q.Get("sortByDistance")),
		IncludeSkillGaps:    parseQueryBool(q.Get("includeSkillGaps")),
		IncludeCareerAdvice: parseQueryBool(q.Get("includeCareerAdvice")),
	}
	if v := q.Get("minScore"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.MinScore = &n
		}
	}
	if v := q.Get("maxDistance"); v != "" {
		if d, err := strconv.ParseFloat(v, 64); err == nil {
			req.MaxDistance = &d
		}
	}
	s.serveMatch(w, r, req)
}

// serveMatch validates the request, runs the matching pipeline and writes
// the response.
func (s *Server) serveMatch(w http.ResponseWriter, r *http.Request, req types.MatchRequest) {
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	resp, err := s.runMatch(ctx, req)
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusInternalServerError {
			// Never leak internal failure detail; the caller gets the same
			// generic empty-match payload the panic path produces.
			log.Printf("[match] request failed: %v", err)
			s.jsonResponse(w, status, map[string]any{
				"error":   "internal error",
				"matches": []types.MatchResult{},
			})
			return
		}
		s.errorResponse(w, status, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// runMatch is the match pipeline: load the candidate, resolve a location
// signal, assemble the posting universe and rank it. Only unsatisfiable
// preconditions (no candidate, no location) surface as errors; every other
// failure degrades with a log line.
func (s *Server) runMatch(ctx context.Context, req types.MatchRequest) (*types.MatchResponse, error) {
	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		return nil, &ErrValidation{Field: "candidateId", Message: "must be a UUID"}
	}

	candidate, err := s.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, &ErrCandidateNotFound{CandidateID: candidateID}
	}
	if !candidate.HasLocationSignal() {
		return nil, &ErrLocationRequired{}
	}

	s.resolveCoordinates(ctx, candidate)

	jobs := s.loadPostings(ctx, candidate)

	results := matching.Rank(ctx, candidate, jobs, matching.Options{
		Limit:          req.Limit,
		MinScore:       req.MinScore,
		MaxDistance:    req.MaxDistance,
		SortByDistance: req.SortByDistance,
	})
	summary := matching.Summarize(results)

	if !req.IncludeSkillGaps || !req.IncludeCareerAdvice {
		for i := range results {
			if !req.IncludeSkillGaps {
				results[i].SkillGaps = nil
			}
			if !req.IncludeCareerAdvice {
				results[i].CareerAdvice = ""
			}
		}
	}

	return &types.MatchResponse{
		Matches:      results,
		TotalMatches: len(results),
		Summary:      summary,
	}, nil
}

// resolveCoordinates geocodes the candidate's free-text location when the
// profile has none. Failure just leaves the location factor on its string
// fallback; a success is written back asynchronously so the next request
// skips the lookup.
func (s *Server) resolveCoordinates(ctx context.Context, candidate *types.CandidateProfile) {
	if candidate.Coordinates != nil || candidate.Location == "" || s.geocoder == nil {
		return
	}

	coords, err := s.geocoder.Geocode(ctx, candidate.Location)
	if err != nil {
		if geo.IsNotFound(err) {
			log.Printf("[match] location %q did not geocode", candidate.Location)
		} else {
			log.Printf("[match] geocoder unavailable: %v", err)
		}
		return
	}
	candidate.Coordinates = &coords

	id := candidate.ID
	go func() {
		wctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.UpdateCandidateCoordinates(wctx, id, coords); err != nil {
			log.Printf("[match] failed to persist coordinates for %s: %v", id, err)
		}
	}()
}

// loadPostings assembles the posting universe: internal postings from the
// store and external postings from the aggregator, fetched concurrently.
// An aggregator failure degrades to internal-only.
func (s *Server) loadPostings(ctx context.Context, candidate *types.CandidateProfile) []types.JobPosting {
	var internal, external []types.JobPosting

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		postings, err := s.store.ListJobPostings(gctx, db.ListPostingsOptions{})
		if err != nil {
			log.Printf("[match] internal posting load failed: %v", err)
			return nil
		}
		internal = postings
		return nil
	})
	if s.feed != nil {
		g.Go(func() error {
			postings, err := s.feed.Fetch(gctx, aggregator.Query{
				Keywords: strings.Join(candidate.Skills, " "),
				Location: candidate.Location,
				Limit:    100,
			})
			if err != nil {
				log.Printf("[match] aggregator unavailable, internal postings only: %v", err)
				return nil
			}
			external = postings
			return nil
		})
	}
	_ = g.Wait()

	return append(internal, external...)
}

func parseQueryInt(v string) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func parseQueryBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
