package grid

import (
	"net/url"
	"strconv"
	"time"

	"github.com/codr1/wfxconsole/internal/grid"
)

type GridData struct {
	GUID     string
	Error    string
	Loaded   bool
	Columns  []grid.Column
	Query    grid.Query
	Result   grid.Result
	Location *time.Location
	// ParamsCSS scopes the grid's theme variables to .wfx-grid.
	ParamsCSS string
}

// QueryURL returns the rows URL for q with the current guid.
func (d GridData) QueryURL(q grid.Query) string {
	v := url.Values{}
	v.Set("guid", d.GUID)
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.SortField != "" {
		v.Set("sort", q.SortField)
		if q.SortDesc {
			v.Set("desc", "true")
		}
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	return "/grid/rows?" + v.Encode()
}
