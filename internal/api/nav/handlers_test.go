package nav

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleSearch(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPaths []string
	}{
		{name: "empty", query: "", wantPaths: nil},
		{name: "page", query: "sett", wantPaths: []string{"/settings"}},
		{name: "widget", query: "toast", wantPaths: []string{"/library/wfx-toast"}},
		{name: "page and widgets", query: "data", wantPaths: []string{"/grid", "/library/ui-data-table"}},
		{name: "no match", query: "zzz", wantPaths: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q="+tt.query, nil)
			rec := httptest.NewRecorder()
			HandleSearch(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			var results []SearchResult
			if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			paths := make(map[string]bool, len(results))
			for _, res := range results {
				paths[res.Path] = true
			}
			for _, want := range tt.wantPaths {
				if !paths[want] {
					t.Fatalf("results %+v missing %s", results, want)
				}
			}
			if len(tt.wantPaths) == 0 && len(results) != 0 {
				t.Fatalf("results = %+v, want none", results)
			}
		})
	}
}

func TestHandleMenu(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/menu?path=/users", nil)
	rec := httptest.NewRecorder()
	HandleMenu(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `id="mobile-menu"`) {
		t.Fatal("menu markup missing")
	}
	if !strings.Contains(body, `<a href="/users" class="active">`) {
		t.Fatalf("menu did not mark /users active: %s", body)
	}
}
