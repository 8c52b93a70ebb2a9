package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/staffsearch/staffsearch/internal/core"
	apperrors "github.com/staffsearch/staffsearch/internal/errors"
	"github.com/staffsearch/staffsearch/internal/metrics"
	"github.com/staffsearch/staffsearch/internal/observability"
)

// DefaultSearchTimeout bounds a single search against the store.
const DefaultSearchTimeout = 10 * time.Second

// SearchResponse is the body of a successful employee search.
type SearchResponse struct {
	Employees []map[string]any `json:"employees"`
	Total     int              `json:"total"`
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
}

// SearchHandler serves GET /api/v1/employees/search.
type SearchHandler struct {
	searcher core.EmployeeSearcher
	timeout  time.Duration
}

// NewSearchHandler wraps searcher. A non-positive timeout uses DefaultSearchTimeout.
func NewSearchHandler(searcher core.EmployeeSearcher, timeout time.Duration) *SearchHandler {
	if timeout <= 0 {
		timeout = DefaultSearchTimeout
	}
	return &SearchHandler{searcher: searcher, timeout: timeout}
}

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query, err := ParseSearchQuery(r.URL.Query())
	if err != nil {
		respondWithError(w, r, apperrors.FromSearchError(r.Context(), err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	result, err := h.searcher.SearchEmployees(ctx, query)
	metrics.RecordSearch(err == nil, time.Since(start), resultTotal(result))
	if err != nil {
		respondWithError(w, r, apperrors.FromSearchError(r.Context(), err))
		return
	}

	employees := make([]map[string]any, 0, len(result.Employees))
	for _, emp := range result.Employees {
		employees = append(employees, emp.Project(query.Fields))
	}

	if logger := observability.ServerLogger; logger != nil {
		logger.Debug("Employee search served",
			zap.Int("total", result.Total),
			zap.Int("returned", len(employees)),
			zap.Int("limit", query.Limit),
			zap.Int("offset", query.Offset),
		)
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Employees: employees,
		Total:     result.Total,
		Limit:     query.Limit,
		Offset:    query.Offset,
	})
}

func resultTotal(result *core.SearchResult) int {
	if result == nil {
		return 0
	}
	return result.Total
}

// ParseSearchQuery builds a normalized SearchQuery from request parameters.
// Field whitelist violations are returned as *core.InvalidFieldError; all other
// problems are validation envelopes.
func ParseSearchQuery(values url.Values) (core.SearchQuery, error) {
	query := core.SearchQuery{
		Filters: core.SearchFilters{
			FirstName:  strings.TrimSpace(values.Get("first_name")),
			LastName:   strings.TrimSpace(values.Get("last_name")),
			Department: strings.TrimSpace(values.Get("department")),
			Position:   strings.TrimSpace(values.Get("position")),
			Location:   strings.TrimSpace(values.Get("location")),
		},
		Limit: core.DefaultSearchLimit,
	}

	if raw := values.Get("status"); raw != "" {
		status, err := core.ParseStatus(raw)
		if err != nil {
			return query, apperrors.NewValidationError(err.Error())
		}
		query.Filters.Status = status
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > core.MaxSearchLimit {
			return query, apperrors.NewValidationError(fmt.Sprintf("limit must be an integer between 1 and %d", core.MaxSearchLimit))
		}
		query.Limit = limit
	}

	if raw := values.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return query, apperrors.NewValidationError("offset must be an integer greater than or equal to 0")
		}
		query.Offset = offset
	}

	if values.Has("select") {
		fields, err := core.ParseFields(values.Get("select"))
		if err != nil {
			return query, err
		}
		query.Fields = fields
	}

	if err := query.Normalize(); err != nil {
		return query, apperrors.NewValidationError(err.Error())
	}
	return query, nil
}
