package db

import (
	"context"
	"fmt"

	"github.com/jonathan/job-matcher/internal/types"
)

// ListPostingsOptions holds optional filters for listing internal postings.
type ListPostingsOptions struct {
	Category string
	Limit    int
}

// ListJobPostings retrieves internal job postings, most recent first.
func (db *DB) ListJobPostings(ctx context.Context, opts ListPostingsOptions) ([]types.JobPosting, error) {
	if opts.Limit <= 0 {
		opts.Limit = 500
	}

	query := `SELECT id, title, company, COALESCE(location, ''), lat, lon,
	                 COALESCE(required_skills, '{}'), COALESCE(category, ''),
	                 salary, COALESCE(description, ''), poster_id
	          FROM job_postings WHERE 1=1`
	args := []any{}
	argNum := 1

	if opts.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argNum)
		args = append(args, opts.Category)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, opts.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	defer rows.Close()

	var postings []types.JobPosting
	for rows.Next() {
		var (
			p        types.JobPosting
			lat, lon *float64
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Company, &p.Location, &lat, &lon,
			&p.RequiredSkills, &p.Category, &p.Salary, &p.Description, &p.PosterID); err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		if lat != nil && lon != nil {
			p.Coordinates = &types.Coordinates{Lat: *lat, Lon: *lon}
		}
		p.Source = types.SourceInternal
		postings = append(postings, p)
	}
	return postings, nil
}

// CountJobPostings returns the number of internal postings.
func (db *DB) CountJobPostings(ctx context.Context) (int, error) {
	var count int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM job_postings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count job postings: %w", err)
	}
	return count, nil
}
