// internal/api/nav/handlers.go
package nav

import (
	"net/http"
	"strings"

	"github.com/codr1/wfxconsole/internal/api/apiutil"
	"github.com/codr1/wfxconsole/internal/templates/components/nav"
	"github.com/codr1/wfxconsole/internal/widgets"
)

const maxResults = 10

var registry = widgets.Default

// InitHandlers sets the widget registry searched alongside the sidebar.
func InitHandlers(r *widgets.Registry) {
	if r != nil {
		registry = r
	}
}

// SearchResult is one navigation target.
type SearchResult struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Kind  string `json:"kind"`
}

func HandleMenu(w http.ResponseWriter, r *http.Request) {
	active := r.URL.Query().Get("path")
	if active == "" {
		active = "/"
	}
	apiutil.RenderHTMLComponent(r.Context(), w, nav.Menu(active), nil, "Failed to render menu", "Failed to render menu")
}

func HandleMenuClose(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(""))
}

// HandleSearch matches q against page titles and widget names.
func HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	results := make([]SearchResult, 0, maxResults)
	if q == "" {
		apiutil.WriteJSON(w, http.StatusOK, results)
		return
	}

	for _, item := range nav.Items {
		if strings.Contains(strings.ToLower(item.Label), q) {
			results = append(results, SearchResult{Label: item.Label, Path: item.Path, Kind: "page"})
		}
	}
	for _, spec := range registry.All() {
		if len(results) >= maxResults {
			break
		}
		if strings.Contains(spec.Name, q) || strings.Contains(strings.ToLower(spec.Summary), q) {
			results = append(results, SearchResult{Label: spec.Name, Path: "/library/" + spec.Name, Kind: "widget"})
		}
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	apiutil.WriteJSON(w, http.StatusOK, results)
}
