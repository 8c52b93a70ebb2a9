package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffsearch/staffsearch/internal/core"
)

type fakeSearcher struct {
	got    core.SearchQuery
	calls  int
	result *core.SearchResult
	err    error
}

func (f *fakeSearcher) SearchEmployees(ctx context.Context, query core.SearchQuery) (*core.SearchResult, error) {
	f.calls++
	f.got = query
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func sampleResult() *core.SearchResult {
	return &core.SearchResult{
		Employees: []core.Employee{
			{
				ID:         "EMP0001",
				FirstName:  "John",
				LastName:   "Doe",
				Email:      core.StringPtr("john.doe@company.com"),
				Department: core.StringPtr("Engineering"),
				Status:     core.StatusActive,
			},
		},
		Total: 7,
	}
}

func doSearch(t *testing.T, h http.Handler, rawQuery string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/search?"+rawQuery, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSearchHandler_Defaults(t *testing.T) {
	searcher := &fakeSearcher{result: sampleResult()}
	rec := doSearch(t, NewSearchHandler(searcher, 0), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, core.DefaultSearchLimit, searcher.got.Limit)
	assert.Zero(t, searcher.got.Offset)
	assert.Nil(t, searcher.got.Fields)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 7, body["total"])
	assert.EqualValues(t, 50, body["limit"])
	assert.EqualValues(t, 0, body["offset"])

	employees := body["employees"].([]any)
	require.Len(t, employees, 1)
	emp := employees[0].(map[string]any)
	assert.Len(t, emp, len(core.AllFields))
	assert.Equal(t, "EMP0001", emp["id"])
	assert.Nil(t, emp["phone"])
}

func TestSearchHandler_PassesFilters(t *testing.T) {
	searcher := &fakeSearcher{result: &core.SearchResult{}}
	q := url.Values{
		"first_name": {"Jo"},
		"last_name":  {"Doe"},
		"department": {"Eng"},
		"position":   {"Lead"},
		"location":   {"New York"},
		"status":     {"INACTIVE"},
		"limit":      {"10"},
		"offset":     {"20"},
	}
	rec := doSearch(t, NewSearchHandler(searcher, 0), q.Encode())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, core.SearchFilters{
		FirstName:  "Jo",
		LastName:   "Doe",
		Department: "Eng",
		Position:   "Lead",
		Location:   "New York",
		Status:     core.StatusInactive,
	}, searcher.got.Filters)
	assert.Equal(t, 10, searcher.got.Limit)
	assert.Equal(t, 20, searcher.got.Offset)
	assert.JSONEq(t, `{"employees":[],"total":0,"limit":10,"offset":20}`, rec.Body.String())
}

func TestSearchHandler_SelectProjectsFields(t *testing.T) {
	searcher := &fakeSearcher{result: sampleResult()}
	rec := doSearch(t, NewSearchHandler(searcher, 0), "select="+url.QueryEscape("id, first_name ,email"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []core.Field{core.FieldID, core.FieldFirstName, core.FieldEmail}, searcher.got.Fields)
	assert.JSONEq(t,
		`{"employees":[{"id":"EMP0001","first_name":"John","email":"john.doe@company.com"}],"total":7,"limit":50,"offset":0}`,
		rec.Body.String())
}

func TestSearchHandler_RejectsInvalidSelect(t *testing.T) {
	cases := []string{
		"password",
		"id,salary",
		"ID",
		"id; DROP TABLE employees",
		"id,",
		"*",
	}
	for _, sel := range cases {
		t.Run(sel, func(t *testing.T) {
			searcher := &fakeSearcher{result: sampleResult()}
			rec := doSearch(t, NewSearchHandler(searcher, 0), "select="+url.QueryEscape(sel))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, searcher.calls, "store must not be queried")

			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "INVALID_INPUT", body.Error.Code)
			assert.Contains(t, body.Error.Message, "in select parameter")
		})
	}
}

func TestSearchHandler_RejectsBadParameters(t *testing.T) {
	cases := map[string]string{
		"limit zero":      "limit=0",
		"limit too large": "limit=201",
		"limit not int":   "limit=ten",
		"negative offset": "offset=-1",
		"offset not int":  "offset=1.5",
		"bad status":      "status=active",
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			searcher := &fakeSearcher{result: sampleResult()}
			rec := doSearch(t, NewSearchHandler(searcher, 0), q)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, searcher.calls)
			assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
		})
	}
}

func TestSearchHandler_LimitBounds(t *testing.T) {
	for _, q := range []string{"limit=1", "limit=200"} {
		searcher := &fakeSearcher{result: &core.SearchResult{}}
		rec := doSearch(t, NewSearchHandler(searcher, 0), q)
		assert.Equal(t, http.StatusOK, rec.Code, q)
	}
}

func TestSearchHandler_StoreFailure(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("database is locked")}
	rec := doSearch(t, NewSearchHandler(searcher, 0), "first_name=John")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "DATABASE_ERROR")
	assert.NotContains(t, rec.Body.String(), "database is locked")
}

func TestRootHandler(t *testing.T) {
	SetVersionInfo("1.0.0", "abc", "today")
	t.Cleanup(func() { SetVersionInfo("dev", "unknown", "unknown") })

	rec := httptest.NewRecorder()
	RootHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"message":"Employee Search API is running","status":"healthy","version":"1.0.0","docs":"/docs"}`,
		rec.Body.String())
}

func TestDocsHandlers(t *testing.T) {
	rec := httptest.NewRecorder()
	OpenAPIHandler(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	paths := doc["paths"].(map[string]any)
	assert.Contains(t, paths, "/api/v1/employees/search")

	for name, h := range map[string]http.HandlerFunc{"/docs": SwaggerHandler, "/redoc": RedocHandler} {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, name, nil))
		assert.Equal(t, http.StatusOK, rec.Code, name)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "/openapi.json")
	}
}
