package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonathan/job-matcher/internal/types"
)

const (
	adzunaPageSize = 50
	adzunaTimeout  = 10 * time.Second
)

// AdzunaSource fetches postings from the Adzuna public API. If AppID or
// AppKey is empty, Fetch returns (nil, nil) gracefully and the source is
// effectively disabled.
type AdzunaSource struct {
	BaseURL string
	AppID   string
	AppKey  string
	Country string // "gb", "us", "fr", ...
	client  *http.Client
}

// NewAdzunaSource constructs a source with a shared HTTP client.
func NewAdzunaSource(baseURL, appID, appKey, country string) *AdzunaSource {
	if baseURL == "" {
		baseURL = "https://api.adzuna.com/v1/api/jobs"
	}
	if country == "" {
		country = "us"
	}
	return &AdzunaSource{
		BaseURL: baseURL,
		AppID:   appID,
		AppKey:  appKey,
		Country: country,
		client:  &http.Client{Timeout: adzunaTimeout},
	}
}

// Name implements Source.
func (s *AdzunaSource) Name() string { return types.SourceAdzuna }

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

// adzunaResult mirrors a single Adzuna job listing.
type adzunaResult struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Company     adzunaCompany  `json:"company"`
	Location    adzunaLocation `json:"location"`
	SalaryMin   float64        `json:"salary_min"`
	SalaryMax   float64        `json:"salary_max"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	Category    adzunaCategory `json:"category"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

type adzunaCategory struct {
	Label string `json:"label"`
}

// Fetch retrieves postings matching the query. Returns nil without error
// when credentials are missing.
func (s *AdzunaSource) Fetch(ctx context.Context, q Query) ([]types.JobPosting, error) {
	if s.AppID == "" || s.AppKey == "" {
		log.Println("[aggregator] adzuna credentials not set, skipping")
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/%s/search/1", s.BaseURL, s.Country)
	params := url.Values{}
	params.Set("app_id", s.AppID)
	params.Set("app_key", s.AppKey)
	params.Set("results_per_page", strconv.Itoa(pageSize(q.Limit)))
	if q.Keywords != "" {
		params.Set("what", q.Keywords)
	}
	if q.Location != "" {
		params.Set("where", q.Location)
	}
	params.Set("content-type", "application/json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("adzuna read failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna HTTP status %d", resp.StatusCode)
	}

	var parsed adzunaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("adzuna parse failed: %w", err)
	}

	postings := make([]types.JobPosting, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		postings = append(postings, s.toPosting(r))
	}
	return postings, nil
}

func (s *AdzunaSource) toPosting(r adzunaResult) types.JobPosting {
	p := types.JobPosting{
		ID:          types.SourceAdzuna + ":" + r.ID,
		Title:       r.Title,
		Company:     r.Company.DisplayName,
		Location:    r.Location.DisplayName,
		Category:    mapAdzunaCategory(r.Category.Label),
		Description: r.Description,
		Source:      types.SourceAdzuna,
	}
	if r.Latitude != 0 || r.Longitude != 0 {
		p.Coordinates = &types.Coordinates{Lat: r.Latitude, Lon: r.Longitude}
	}
	if salary := midSalary(r.SalaryMin, r.SalaryMax); salary > 0 {
		p.Salary = &salary
	}
	return p
}

// midSalary collapses a salary range to its midpoint.
func midSalary(min, max float64) float64 {
	switch {
	case min > 0 && max > 0:
		return (min + max) / 2
	case max > 0:
		return max
	default:
		return min
	}
}

// mapAdzunaCategory folds Adzuna's category labels onto the platform's
// category constants.
func mapAdzunaCategory(label string) string {
	switch {
	case containsFold(label, "it jobs", "engineering", "software"):
		return types.CategorySoftware
	case containsFold(label, "creative", "design"):
		return types.CategoryDesign
	case containsFold(label, "marketing", "pr"):
		return types.CategoryMarketing
	case containsFold(label, "sales"):
		return types.CategorySales
	case containsFold(label, "accounting", "finance"):
		return types.CategoryFinance
	default:
		return types.CategoryOther
	}
}

func pageSize(limit int) int {
	if limit > 0 && limit < adzunaPageSize {
		return limit
	}
	return adzunaPageSize
}
