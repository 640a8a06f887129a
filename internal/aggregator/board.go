package aggregator

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/job-matcher/internal/types"
)

const boardTimeout = 10 * time.Second

// boardUserAgent identifies the service to the scraped board.
const boardUserAgent = "Mozilla/5.0 (compatible; JobMatcher/1.0)"

// BoardSource scrapes a static HTML job board. It expects a conventional
// listing layout: one element per posting carrying title, company and
// location cells. Boards that render client-side are out of reach here and
// simply produce no rows.
type BoardSource struct {
	URL    string
	client *http.Client
}

// NewBoardSource creates a scraper for the board at url.
func NewBoardSource(url string) *BoardSource {
	return &BoardSource{
		URL:    url,
		client: &http.Client{Timeout: boardTimeout},
	}
}

// Name implements Source.
func (s *BoardSource) Name() string { return types.SourceRemoteBoard }

// Fetch downloads the board page and extracts postings. Returns nil without
// error when no URL is configured.
func (s *BoardSource) Fetch(ctx context.Context, q Query) ([]types.JobPosting, error) {
	if s.URL == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", boardUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("board request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("board HTTP status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("board parse failed: %w", err)
	}

	keywords := strings.ToLower(strings.TrimSpace(q.Keywords))
	var postings []types.JobPosting
	doc.Find(".job, .job-listing, li.posting, tr.job-row").Each(func(i int, sel *goquery.Selection) {
		if q.Limit > 0 && len(postings) >= q.Limit {
			return
		}

		title := text(sel, ".title, .job-title, h2, h3")
		company := text(sel, ".company, .job-company")
		if title == "" || company == "" {
			return
		}
		if keywords != "" && !strings.Contains(strings.ToLower(title), keywords) {
			return
		}

		id, _ := sel.Attr("data-id")
		if id == "" {
			id = fmt.Sprintf("%d", i)
		}

		postings = append(postings, types.JobPosting{
			ID:          types.SourceRemoteBoard + ":" + id,
			Title:       title,
			Company:     company,
			Location:    text(sel, ".location, .job-location"),
			Description: text(sel, ".description, .job-description, p"),
			Category:    q.Category,
			Source:      types.SourceRemoteBoard,
		})
	})

	return postings, nil
}

// text returns the trimmed text of the first element matching selector.
func text(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}
