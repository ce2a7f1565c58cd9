package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"picqer/internal/application"
	"picqer/internal/domain"
	"picqer/internal/ports"
)

// DefaultSearchLimit caps catalog queries when the caller gives no limit
const DefaultSearchLimit = 50

// SearchResult wraps domain.Record with a relevance score
type SearchResult struct {
	domain.Record
	Score int
}

// SearchRecordsCommand searches saved records with fuzzy matching. With a
// catalog it searches every directory ever saved to; without one it searches
// the current directory only.
type SearchRecordsCommand struct {
	session *application.Session
	catalog ports.RecordCatalog
	Query   string
	Limit   int
}

// NewSearchRecordsCommand creates a new SearchRecordsCommand. catalog may be nil.
func NewSearchRecordsCommand(session *application.Session, catalog ports.RecordCatalog, query string, limit int) *SearchRecordsCommand {
	return &SearchRecordsCommand{
		session: session,
		catalog: catalog,
		Query:   query,
		Limit:   limit,
	}
}

// Validate checks if the search operation is valid
func (c *SearchRecordsCommand) Validate() error {
	if err := application.ValidateRequired("query", c.Query); err != nil {
		return err
	}
	if c.Limit < 0 {
		return &application.ValidationError{
			Field:   "limit",
			Message: fmt.Sprintf("limit must not be negative, got: %d", c.Limit),
		}
	}
	return nil
}

// Execute runs the search command and returns scored, sorted results
func (c *SearchRecordsCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(c.Query) < 2 {
		return nil, nil
	}

	limit := c.Limit
	if limit == 0 {
		limit = DefaultSearchLimit
	}

	var candidates []domain.Record
	if c.catalog != nil {
		// the catalog returns newest matches first; fetch extra so ranking
		// can promote older but closer ones
		found, err := c.catalog.Search(c.Query, limit*4)
		if err != nil {
			return nil, fmt.Errorf("failed to search catalog: %w", err)
		}
		candidates = found
	} else {
		candidates = c.session.Records()
	}

	results := FuzzySort(candidates, c.Query)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Check for exact substring match first (highest priority)
	if strings.Contains(target, query) {
		score := 100
		// Bonus if it starts with query
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: check if chars appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] == query[queryIdx] {
			if prevMatchIdx == i-1 {
				score += 10 // consecutive chars
			}
			if i == 0 {
				score += 15 // start of string
			}
			if i > 0 && isSeparator(target[i-1]) {
				score += 10 // after separator
			}
			score += 1
			prevMatchIdx = i
			queryIdx++
		}
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

func isSeparator(b byte) bool {
	switch b {
	case ' ', '.', '-', '_', '/':
		return true
	}
	return false
}

// FuzzySort sorts records by relevance to the query, dropping non-matches.
// Filename matches outrank directory matches; ties keep the newest first.
func FuzzySort(records []domain.Record, query string) []SearchResult {
	scored := make([]SearchResult, 0, len(records))

	for _, r := range records {
		s1 := FuzzyScore(r.Filename, query)
		s2 := FuzzyScore(filepath.Dir(r.Filepath), query) / 2

		best := max(s1, s2)
		if best > 0 {
			scored = append(scored, SearchResult{
				Record: r,
				Score:  best,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Created.After(scored[j].Created)
	})

	return scored
}
