package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-matcher/internal/aggregator"
	"github.com/jonathan/job-matcher/internal/db"
	"github.com/jonathan/job-matcher/internal/types"
)

type stubStore struct {
	candidate *types.CandidateProfile
	getErr    error
	postings  []types.JobPosting
	listErr   error

	coordsUpdated chan types.Coordinates
}

func (s *stubStore) GetCandidate(_ context.Context, _ uuid.UUID) (*types.CandidateProfile, error) {
	return s.candidate, s.getErr
}

func (s *stubStore) UpdateCandidateCoordinates(_ context.Context, _ uuid.UUID, coords types.Coordinates) error {
	if s.coordsUpdated != nil {
		s.coordsUpdated <- coords
	}
	return nil
}

func (s *stubStore) ListJobPostings(_ context.Context, _ db.ListPostingsOptions) ([]types.JobPosting, error) {
	return s.postings, s.listErr
}

type stubFeed struct {
	postings []types.JobPosting
	err      error
}

func (f *stubFeed) Fetch(_ context.Context, _ aggregator.Query) ([]types.JobPosting, error) {
	return f.postings, f.err
}

type stubGeocoder struct {
	coords types.Coordinates
	err    error
}

func (g *stubGeocoder) Geocode(_ context.Context, _ string) (types.Coordinates, error) {
	return g.coords, g.err
}

func (g *stubGeocoder) ReverseGeocode(_ context.Context, _ types.Coordinates) (string, error) {
	return "", g.err
}

var testCandidateID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")

func testCandidate() *types.CandidateProfile {
	years := 3.0
	return &types.CandidateProfile{
		ID:              testCandidateID,
		FirstName:       "Ada",
		Skills:          []string{"React", "Node.js"},
		YearsExperience: &years,
		Availability:    types.AvailabilityAvailable,
		Coordinates:     &types.Coordinates{Lat: 37.77, Lon: -122.41},
	}
}

func testPostings() []types.JobPosting {
	salary := 120000.0
	return []types.JobPosting{
		{
			ID:             "job-1",
			Title:          "Frontend Engineer",
			Company:        "Acme",
			RequiredSkills: []string{"React", "Node.js"},
			Coordinates:    &types.Coordinates{Lat: 37.77, Lon: -122.41},
			Salary:         &salary,
			Source:         types.SourceInternal,
		},
	}
}

func newTestServer(store Store, feed JobFeed) *Server {
	return New(Config{Port: 0}, store, nil, feed)
}

func doMatchPost(t *testing.T, s *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/match", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestMatchPost_Success(t *testing.T) {
	store := &stubStore{candidate: testCandidate(), postings: testPostings()}
	s := newTestServer(store, nil)

	rec := doMatchPost(t, s, types.MatchRequest{CandidateID: testCandidateID.String()})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.MatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "job-1", resp.Matches[0].JobID)
	assert.Equal(t, 1, resp.TotalMatches)
	assert.Equal(t, 1, resp.Summary.TotalMatches)
}

func TestMatchPost_WireFormat(t *testing.T) {
	store := &stubStore{candidate: testCandidate(), postings: testPostings()}
	s := newTestServer(store, nil)

	// The documented body and response use camelCase keys.
	body := []byte(`{"candidateId":"` + testCandidateID.String() + `","minScore":10,"sortByDistance":true}`)
	req := httptest.NewRequest(http.MethodPost, "/match", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalMatches":1`)
	assert.Contains(t, rec.Body.String(), `"jobId":"job-1"`)
	assert.NotContains(t, rec.Body.String(), `total_matches`)
}

func TestMatchPost_ExplicitZeroMinScore(t *testing.T) {
	weak := types.JobPosting{
		ID:             "job-weak",
		Title:          "Senior Platform Engineer",
		RequiredSkills: []string{"Kubernetes"},
		Coordinates:    &types.Coordinates{Lat: 40.71, Lon: -74.0},
		Source:         types.SourceInternal,
	}
	store := &stubStore{candidate: testCandidate(), postings: append(testPostings(), weak)}
	s := newTestServer(store, nil)

	rec := doMatchPost(t, s, types.MatchRequest{CandidateID: testCandidateID.String()})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.MatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalMatches, "default cutoff drops the weak posting")

	zero := 0
	rec = doMatchPost(t, s, types.MatchRequest{CandidateID: testCandidateID.String(), MinScore: &zero})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalMatches, "explicit zero keeps everything")
}

func TestMatchPost_CandidateNotFound(t *testing.T) {
	s := newTestServer(&stubStore{}, nil)

	rec := doMatchPost(t, s, types.MatchRequest{CandidateID: testCandidateID.String()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMatchPost_LocationRequired(t *testing.T) {
	candidate := testCandidate()
	candidate.Coordinates = nil
	candidate.Location = ""
	s := newTestServer(&stubStore{candidate: candidate}, nil)

	rec := doMatchPost(t, s, types.MatchRequest{CandidateID: testCandidateID.String()})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "location")
}

func TestMatchPost_InvalidBody(t *testing.T) {
	s := newTestServer(&stubStore{candidate: testCandidate()}, nil)

	req := httptest.NewRequest(http.MethodPost, "/match", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchPost_InvalidCandidateID(t *testing.T) {
	s := newTestServer(&stubStore{candidate: testCandidate()}, nil)

	rec := doMatchPost(t, s, map[string]string{"candidateId": "not-a-uuid"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchPost_StoreFailure(t *testing.T) {
	s := newTestServer(&stubStore{getErr: errors.New("connection refused")}, nil)

	rec := doMatchPost(t, s, types.MatchRequest{CandidateID: testCandidateID.String()})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// Generic payload with an empty match list; internal detail stays in the logs.
	assert.Contains(t, rec.Body.String(), `"matches":[]`)
	assert.Contains(t, rec.Body.String(), "internal error")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestMatchPost_MergesFeedPostings(t *testing.T) {
	salary := 130000.0
	feed := &stubFeed{postings: []types.JobPosting{{
		ID:             "adzuna:99",
		Title:          "Frontend Engineer",
		RequiredSkills: []string{"React", "Node.js"},
		Coordinates:    &types.Coordinates{Lat: 37.78, Lon: -122.41},
		Salary:         &salary,
		Source:         types.SourceAdzuna,
	}}}
	store := &stubStore{candidate: testCandidate(), postings: testPostings()}
	s := newTestServer(store, feed)

	rec := doMatchPost(t, s, types.MatchRequest{CandidateID: testCandidateID.String()})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.MatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalMatches)
}

func TestMatchPost_FeedFailureDegrades(t *testing.T) {
	feed := &stubFeed{err: errors.New("all sources down")}
	store := &stubStore{candidate: testCandidate(), postings: testPostings()}
	s := newTestServer(store, feed)

	rec := doMatchPost(t, s, types.MatchRequest{CandidateID: testCandidateID.String()})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.MatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalMatches, "internal postings still served")
}

func TestMatchPost_SkillGapsGatedByFlag(t *testing.T) {
	store := &stubStore{candidate: testCandidate(), postings: []types.JobPosting{{
		ID:             "job-1",
		Title:          "Frontend Engineer",
		RequiredSkills: []string{"React", "TypeScript", "Node.js"},
		Coordinates:    &types.Coordinates{Lat: 37.77, Lon: -122.41},
		Source:         types.SourceInternal,
	}}}
	s := newTestServer(store, nil)

	rec := doMatchPost(t, s, types.MatchRequest{CandidateID: testCandidateID.String()})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.MatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Matches, 1)
	assert.Empty(t, resp.Matches[0].SkillGaps)
	assert.Empty(t, resp.Matches[0].CareerAdvice)

	rec = doMatchPost(t, s, types.MatchRequest{
		CandidateID:         testCandidateID.String(),
		IncludeSkillGaps:    true,
		IncludeCareerAdvice: true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Matches, 1)
	assert.NotEmpty(t, resp.Matches[0].SkillGaps)
	assert.NotEmpty(t, resp.Matches[0].CareerAdvice)
}

func TestMatchGet_QueryParams(t *testing.T) {
	store := &stubStore{candidate: testCandidate(), postings: testPostings()}
	s := newTestServer(store, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/match?candidateId="+testCandidateID.String()+"&limit=5&minScore=10&sortByDistance=true", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.MatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalMatches)
}

func TestMatchGet_MissingCandidateID(t *testing.T) {
	s := newTestServer(&stubStore{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/match", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatch_GeocodesFreeTextLocation(t *testing.T) {
	candidate := testCandidate()
	candidate.Coordinates = nil
	candidate.Location = "San Francisco, CA"

	updated := make(chan types.Coordinates, 1)
	store := &stubStore{candidate: candidate, postings: testPostings(), coordsUpdated: updated}
	geocoder := &stubGeocoder{coords: types.Coordinates{Lat: 37.77, Lon: -122.41}}
	s := New(Config{Port: 0}, store, geocoder, nil)

	rec := doMatchPost(t, s, types.MatchRequest{CandidateID: testCandidateID.String()})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.MatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Matches, 1)
	require.NotNil(t, resp.Matches[0].DistanceKm, "coordinates resolved via geocoder")

	coords := <-updated
	assert.Equal(t, types.Coordinates{Lat: 37.77, Lon: -122.41}, coords)
}

func TestMatch_GeocoderFailureFallsBackToStrings(t *testing.T) {
	candidate := testCandidate()
	candidate.Coordinates = nil
	candidate.Location = "San Francisco, CA"

	store := &stubStore{candidate: candidate, postings: testPostings()}
	geocoder := &stubGeocoder{err: errors.New("provider down")}
	s := New(Config{Port: 0}, store, geocoder, nil)

	rec := doMatchPost(t, s, types.MatchRequest{CandidateID: testCandidateID.String()})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.MatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Matches, 1)
	assert.Nil(t, resp.Matches[0].DistanceKm)
}

func TestListPostings(t *testing.T) {
	store := &stubStore{postings: testPostings()}
	s := newTestServer(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/postings?category=software&limit=10", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListPostingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "job-1", resp.Postings[0].ID)
}

func TestListPostings_Empty(t *testing.T) {
	s := newTestServer(&stubStore{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/postings", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"postings":[]`)
}

func TestHealth(t *testing.T) {
	s := newTestServer(&stubStore{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&stubStore{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/match", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(&ErrCandidateNotFound{CandidateID: testCandidateID}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrLocationRequired{}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrValidation{Field: "x", Message: "y"}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
