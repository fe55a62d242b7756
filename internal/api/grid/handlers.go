// internal/api/grid/handlers.go
package grid

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/api/apiutil"
	"github.com/codr1/wfxconsole/internal/api/authz"
	"github.com/codr1/wfxconsole/internal/api/shell"
	"github.com/codr1/wfxconsole/internal/grid"
	gridtempl "github.com/codr1/wfxconsole/internal/templates/components/grid"
)

const missingGUIDMessage = "GUID is required. Please provide GUID in query parameters (e.g., ?GUID=your-guid-here)"

type rowFetcher interface {
	Fetch(ctx context.Context, guid string) ([]grid.Row, error)
}

var (
	fetcher         rowFetcher
	defaultPageSize = grid.PageSizes[0]
	location        = time.Local
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(client *grid.Client, pageSize int) {
	if client == nil {
		log.Warn().Msg("InitHandlers called with nil grid client; grid pages will show an error")
		return
	}
	fetcher = client
	if pageSize > 0 {
		defaultPageSize = pageSize
	}
}

// /grid
func HandleGridPage(w http.ResponseWriter, r *http.Request) {
	data := load(r)
	shell.Render(w, r, "Error Resolution", gridtempl.Page(data))
}

// /grid/rows
func HandleGridRows(w http.ResponseWriter, r *http.Request) {
	data := load(r)
	apiutil.RenderHTMLComponent(r.Context(), w, gridtempl.Table(data), nil, "Failed to render grid", "Failed to render grid")
}

// load fetches, queries and themes the grid for r. Fetch failures are
// reported inline.
func load(r *http.Request) gridtempl.GridData {
	ctx := r.Context()
	q := r.URL.Query()

	data := gridtempl.GridData{
		GUID:     strings.TrimSpace(apiutil.FirstNonEmpty(q.Get("GUID"), q.Get("guid"))),
		Columns:  grid.Columns(),
		Query:    parseQuery(r),
		Location: location,
	}
	if client := authz.ClientFromContext(ctx); client != nil && client.Theme != nil {
		data.ParamsCSS = grid.ParamsFor(client.Theme.Current()).CSS(".wfx-grid")
	}

	if data.GUID == "" {
		data.Error = missingGUIDMessage
		return data
	}
	if fetcher == nil {
		data.Error = "Failed to fetch data: grid API is not configured"
		return data
	}

	rows, err := fetcher.Fetch(ctx, data.GUID)
	switch {
	case errors.Is(err, context.Canceled):
		log.Ctx(ctx).Debug().Str("guid", data.GUID).Msg("Grid fetch cancelled")
		data.Error = "Failed to fetch data: request cancelled"
		return data
	case err != nil:
		log.Ctx(ctx).Error().Err(err).Str("guid", data.GUID).Msg("Failed to fetch grid data")
		data.Error = "Failed to fetch data: " + err.Error()
		return data
	}

	data.Loaded = true
	data.Result = grid.Apply(rows, data.Query)
	log.Ctx(ctx).Debug().
		Str("guid", data.GUID).
		Int("rows", len(rows)).
		Int("matched", data.Result.Total).
		Msg("Grid data loaded")
	return data
}

func parseQuery(r *http.Request) grid.Query {
	q := r.URL.Query()
	query := grid.Query{
		PageSize:  defaultPageSize,
		SortField: q.Get("sort"),
		Search:    q.Get("q"),
	}
	// Malformed paging falls back to the first page at the default size.
	query.Page, _ = apiutil.ParseOptionalIntField(q.Get("page"), "page", 1)
	if size, err := apiutil.ParseOptionalIntField(q.Get("pageSize"), "pageSize", defaultPageSize); err == nil {
		query.PageSize = size
	}
	if desc, err := apiutil.ParseBool(q.Get("desc")); err == nil {
		query.SortDesc = desc
	}
	if _, ok := grid.ColumnByField(query.SortField); !ok {
		query.SortField = ""
	}
	return query
}

// /grid/cell/edit
func HandleCellEdit(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	value := r.URL.Query().Get("value")

	editor, status, err := editorFor(field, value)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	if editor.IsCancelBeforeStart() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	component, err := editor.Component("value")
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("field", field).Msg("Failed to render cell editor")
		http.Error(w, "Failed to render editor", http.StatusInternalServerError)
		return
	}
	apiutil.RenderHTMLComponent(r.Context(), w, gridtempl.CellEditor(field, value, component), nil, "Failed to render editor", "Failed to render editor")
}

// /api/v1/grid/cell
func HandleCellUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	field := r.FormValue("field")
	original := r.FormValue("original")
	value := r.FormValue("value")

	editor, status, err := editorFor(field, original)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	col, _ := grid.ColumnByField(field)

	if selector, ok := editor.(interface{ Select(string) error }); ok {
		err = selector.Select(value)
	} else {
		err = editor.Init(value)
	}
	if err != nil {
		apiutil.WriteHTMLFeedback(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result := editor.Value()
	if editor.IsCancelAfterEnd() {
		result = original
	}
	log.Ctx(r.Context()).Info().
		Str("field", field).
		Str("original", original).
		Str("value", result).
		Msg("Grid cell edited")
	apiutil.RenderHTMLComponent(r.Context(), w, grid.Cell(col, result, location), nil, "Failed to render cell", "Failed to render cell")
}

func editorFor(field, value string) (grid.CellEditor, int, error) {
	col, ok := grid.ColumnByField(field)
	if !ok {
		return nil, http.StatusBadRequest, errors.New("unknown column")
	}
	editor, err := grid.NewEditor(col)
	if err != nil {
		if errors.Is(err, grid.ErrNotEditable) {
			return nil, http.StatusBadRequest, errors.New("column is not editable")
		}
		return nil, http.StatusInternalServerError, err
	}
	if err := editor.Init(value); err != nil {
		return nil, http.StatusUnprocessableEntity, err
	}
	return editor, http.StatusOK, nil
}
