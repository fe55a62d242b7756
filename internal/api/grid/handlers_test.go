package grid

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/wfxconsole/internal/grid"
	"github.com/codr1/wfxconsole/internal/testutil/clienttest"
)

const apiRows = `[{"responseData":[
{"EDIPackageImportID":12,"fileName":"techpack-a.xlsx","status":"Completed","TransactionStatus":"Success","uploadedOn":"2024-05-01T10:30:00Z","ErrorMessage":""},
{"EDIPackageImportID":7,"fileName":"techpack-b.xlsx","status":"Failed","TransactionStatus":"Failed","uploadedOn":"2024-04-01T08:00:00Z","ErrorMessage":"Missing style"}]}]`

type stubFetcher struct {
	rows []grid.Row
	err  error
	got  string
}

func (s *stubFetcher) Fetch(ctx context.Context, guid string) ([]grid.Row, error) {
	s.got = guid
	return s.rows, s.err
}

func setFetcher(t *testing.T, f rowFetcher) {
	t.Helper()
	old, oldLoc := fetcher, location
	fetcher, location = f, time.UTC
	t.Cleanup(func() { fetcher, location = old, oldLoc })
}

func TestHandleGridPage_RemoteAPI(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(apiRows))
	}))
	defer server.Close()
	setFetcher(t, grid.NewClient(server.URL, "TechPack", time.Second))

	env := clienttest.New(t)
	rec := httptest.NewRecorder()
	HandleGridPage(rec, env.Request(httptest.NewRequest(http.MethodGet, "/grid?GUID=abc-123", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer abc-123", gotAuth)
	body := rec.Body.String()
	assert.Contains(t, body, "techpack-a.xlsx")
	assert.Contains(t, body, `<span class="status-error">Failed</span>`)
	assert.Contains(t, body, `<span class="error-cell">Missing style</span>`)
	assert.Contains(t, body, ".wfx-grid{")
	assert.NotContains(t, body, "error-banner")
}

func TestHandleGridPage_MissingGUID(t *testing.T) {
	stub := &stubFetcher{}
	setFetcher(t, stub)

	rec := httptest.NewRecorder()
	HandleGridRows(rec, httptest.NewRequest(http.MethodGet, "/grid/rows", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "GUID is required.")
	assert.Empty(t, stub.got)
}

func TestHandleGridRows_FetchError(t *testing.T) {
	setFetcher(t, &stubFetcher{err: errors.New("dial tcp: connection refused")})

	rec := httptest.NewRecorder()
	HandleGridRows(rec, httptest.NewRequest(http.MethodGet, "/grid/rows?guid=abc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch data: dial tcp: connection refused")
	assert.NotContains(t, rec.Body.String(), "<table>")
}

func TestHandleGridRows_Query(t *testing.T) {
	rows, err := grid.ParseResponse([]byte(apiRows))
	require.NoError(t, err)
	stub := &stubFetcher{rows: rows}
	setFetcher(t, stub)

	q := url.Values{"guid": {" abc "}, "q": {"missing"}, "sort": {"EDIPackageImportID"}, "pageSize": {"25"}}
	rec := httptest.NewRecorder()
	HandleGridRows(rec, httptest.NewRequest(http.MethodGet, "/grid/rows?"+q.Encode(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", stub.got)
	body := rec.Body.String()
	assert.Contains(t, body, "techpack-b.xlsx")
	assert.NotContains(t, body, "techpack-a.xlsx")
	assert.Contains(t, body, "1 rows, page 1 of 1")
}

func TestParseQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/grid/rows?sort=nope&desc=true&page=3&pageSize=50", nil)
	q := parseQuery(r)
	assert.Equal(t, "", q.SortField)
	assert.True(t, q.SortDesc)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 50, q.PageSize)
}

func TestHandleCellEdit(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		value      string
		wantStatus int
		wantBody   string
	}{
		{name: "input", field: "fileName", value: "a.xlsx", wantStatus: http.StatusOK, wantBody: `hx-post="/api/v1/grid/cell"`},
		{name: "dropdown", field: "status", value: "Failed", wantStatus: http.StatusOK, wantBody: `name="value"`},
		{name: "read only", field: "EDIPackageImportID", value: "7", wantStatus: http.StatusBadRequest},
		{name: "unknown", field: "nope", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{"field": {tt.field}, "value": {tt.value}}
			rec := httptest.NewRecorder()
			HandleCellEdit(rec, httptest.NewRequest(http.MethodGet, "/grid/cell/edit?"+q.Encode(), nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandleCellUpdate(t *testing.T) {
	setFetcher(t, nil)

	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
		wantBody   string
	}{
		{
			name:       "status option",
			form:       url.Values{"field": {"status"}, "original": {"Failed"}, "value": {"In Progress"}},
			wantStatus: http.StatusOK,
			wantBody:   `<span class="status-pending">In Progress</span>`,
		},
		{
			name:       "status outside options",
			form:       url.Values{"field": {"status"}, "original": {"Failed"}, "value": {"Archived"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "not an allowed option",
		},
		{
			name:       "file name",
			form:       url.Values{"field": {"fileName"}, "original": {"a.xlsx"}, "value": {"<b>.xlsx"}},
			wantStatus: http.StatusOK,
			wantBody:   "&lt;b&gt;.xlsx",
		},
		{
			name:       "read only",
			form:       url.Values{"field": {"filetype"}, "value": {"x"}},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/grid/cell", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			HandleCellUpdate(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}
