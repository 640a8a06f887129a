package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/job-matcher/internal/db"
	"github.com/jonathan/job-matcher/internal/types"
)

// ListPostingsResponse represents the response for listing internal postings
type ListPostingsResponse struct {
	Postings []types.JobPosting `json:"postings"`
	Count    int                `json:"count"`
}

// handleListPostings lists internal job postings with optional filters.
func (s *Server) handleListPostings(w http.ResponseWriter, r *http.Request) {
	opts := db.ListPostingsOptions{
		Category: r.URL.Query().Get("category"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			opts.Limit = limit
		}
	}

	postings, err := s.store.ListJobPostings(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if postings == nil {
		postings = []types.JobPosting{}
	}

	s.jsonResponse(w, http.StatusOK, ListPostingsResponse{
		Postings: postings,
		Count:    len(postings),
	})
}
