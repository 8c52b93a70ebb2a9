package core

import (
	"context"
	"fmt"
)

const (
	DefaultSearchLimit = 50
	MaxSearchLimit     = 200
)

// SearchFilters narrows an employee search. Text filters are case-insensitive
// partial matches; Status is exact. Empty values are ignored.
type SearchFilters struct {
	FirstName  string
	LastName   string
	Department string
	Position   string
	Location   string
	Status     Status
}

// SearchQuery is a complete search request.
type SearchQuery struct {
	Filters SearchFilters
	Limit   int
	Offset  int
	Fields  []Field
}

// Normalize applies pagination defaults and bounds.
func (q *SearchQuery) Normalize() error {
	if q.Limit == 0 {
		q.Limit = DefaultSearchLimit
	}
	if q.Limit < 1 || q.Limit > MaxSearchLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxSearchLimit)
	}
	if q.Offset < 0 {
		return fmt.Errorf("offset must be greater than or equal to 0")
	}
	return nil
}

// SearchResult holds one page of matches and the total match count.
type SearchResult struct {
	Employees []Employee
	Total     int
}

// EmployeeSearcher runs employee searches.
type EmployeeSearcher interface {
	SearchEmployees(ctx context.Context, query SearchQuery) (*SearchResult, error)
}
