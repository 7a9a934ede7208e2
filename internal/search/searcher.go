package search

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/time/rate"
)

// Searcher resolves a query string to a list of candidate result URLs.
// Real backends (API or scraped) live outside this module; the pipeline only
// depends on this interface.
type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// StubSearcher derives a single plausible candidate URL from the query's
// first word, allowing the pipeline to run without network credentials.
// It paces calls like a real backend so swapping one in changes no behavior.
type StubSearcher struct {
	limiter *rate.Limiter
}

// NewStubSearcher creates a stub searcher issuing at most one query per
// interval of 1/qps seconds. A qps of 0 disables pacing.
func NewStubSearcher(qps float64) *StubSearcher {
	limit := rate.Inf
	if qps > 0 {
		limit = rate.Limit(qps)
	}
	return &StubSearcher{limiter: rate.NewLimiter(limit, 1)}
}

// Search returns a single synthetic result URL for the query.
func (s *StubSearcher) Search(ctx context.Context, query string) ([]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	fields := strings.Fields(query)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty query")
	}
	base := strings.ToLower(strings.Trim(fields[0], `"`))
	base = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, base)
	if base == "" {
		return nil, fmt.Errorf("query has no usable term")
	}
	return []string{fmt.Sprintf("https://%s.com", base)}, nil
}
