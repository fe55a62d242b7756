package grid

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/codr1/wfxconsole/internal/grid"
	"github.com/codr1/wfxconsole/internal/templates/markup"
	"github.com/codr1/wfxconsole/internal/widgets"
)

func Page(data GridData) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<div class="wfx-prime"><h2>Error Resolution</h2>`)
		w.Raw(`<form class="grid-toolbar" hx-get="/grid/rows" hx-target="#grid-body" hx-swap="outerHTML">`)
		guid, err := widgets.NewControl(widgets.WfxInput, "guid")
		if err != nil {
			w.Fail(err)
			return
		}
		guid.WriteValue(data.GUID)
		input, err := guid.Render(widgets.Props{"placeholder": "Transaction GUID", "ariaLabel": "Transaction GUID"}, nil)
		if err != nil {
			w.Fail(err)
			return
		}
		w.Component(input)
		w.Printf(`<input type="search" name="q" value="%s" placeholder="Search">`, data.Query.Search)
		load, err := widgets.Render(widgets.WfxButton, widgets.Props{"label": "Load", "icon": "pi pi-refresh", "type": "submit"}, nil)
		if err != nil {
			w.Fail(err)
			return
		}
		w.Component(load)
		w.Raw(`</form>`)
		w.Component(Table(data))
		w.Raw(`</div>`)
	})
}

// Table is the swappable grid body: error banner, rows and pager.
func Table(data GridData) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<div id="grid-body" class="wfx-grid">`)
		if data.ParamsCSS != "" {
			w.Raw(`<style>`)
			w.Raw(data.ParamsCSS)
			w.Raw(`</style>`)
		}
		if data.Error != "" {
			w.Printf(`<div class="error-banner" role="alert">%s</div>`, data.Error)
		}
		if !data.Loaded {
			w.Raw(`</div>`)
			return
		}

		w.Raw(`<table><thead><tr>`)
		for _, col := range data.Columns {
			q := data.Query
			q.Page = 1
			indicator := ""
			if q.SortField == col.Field {
				q.SortDesc = !q.SortDesc
				indicator = " pi pi-sort-amount-up"
				if data.Query.SortDesc {
					indicator = " pi pi-sort-amount-down"
				}
			} else {
				q.SortField, q.SortDesc = col.Field, false
			}
			w.Printf(`<th style="%s"><a hx-get="%s" hx-target="#grid-body" hx-swap="outerHTML">%s<i class="%s"></i></a></th>`,
				columnStyle(col), data.QueryURL(q), col.Header, indicator)
		}
		w.Raw(`</tr></thead><tbody>`)

		if len(data.Result.Rows) == 0 {
			w.Printf(`<tr><td colspan="%d" class="grid-empty">No rows</td></tr>`, len(data.Columns))
		}
		for _, row := range data.Result.Rows {
			w.Raw(`<tr>`)
			for _, col := range data.Columns {
				value := row.Value(col.Field)
				if col.Editable {
					edit := url.Values{"field": {col.Field}, "value": {value}}
					w.Printf(`<td class="cell-editable" hx-get="/grid/cell/edit?%s" hx-trigger="dblclick" hx-swap="innerHTML">`, edit.Encode())
				} else {
					w.Raw(`<td>`)
				}
				w.Component(grid.Cell(col, value, data.Location))
				w.Raw(`</td>`)
			}
			w.Raw(`</tr>`)
		}
		w.Raw(`</tbody></table>`)

		pager(w, data)
		w.Raw(`</div>`)
	})
}

func columnStyle(col grid.Column) string {
	style := ""
	if col.Width > 0 {
		style += "width:" + strconv.Itoa(col.Width) + "px;"
	}
	if col.MinWidth > 0 {
		style += "min-width:" + strconv.Itoa(col.MinWidth) + "px;"
	}
	return style
}

func pager(w *markup.Writer, data GridData) {
	res := data.Result
	w.Raw(`<div class="grid-pager">`)
	w.Printf(`<span>%d rows, page %d of %d</span>`, res.Total, res.Page, res.TotalPages)
	if res.Page > 1 {
		q := data.Query
		q.Page = res.Page - 1
		w.Printf(`<button hx-get="%s" hx-target="#grid-body" hx-swap="outerHTML"><i class="pi pi-angle-left"></i></button>`, data.QueryURL(q))
	}
	if res.Page < res.TotalPages {
		q := data.Query
		q.Page = res.Page + 1
		w.Printf(`<button hx-get="%s" hx-target="#grid-body" hx-swap="outerHTML"><i class="pi pi-angle-right"></i></button>`, data.QueryURL(q))
	}
	for _, size := range grid.PageSizes {
		q := data.Query
		q.Page, q.PageSize = 1, size
		w.Printf(`<a class="%s" hx-get="%s" hx-target="#grid-body" hx-swap="outerHTML">%d</a>`,
			markup.If(size == res.PageSize, "active"), data.QueryURL(q), size)
	}
	w.Raw(`</div>`)
}

// CellEditor wraps an editor component in a form that posts the edit.
func CellEditor(field, original string, editor templ.Component) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<form class="cell-editor" hx-post="/api/v1/grid/cell" hx-target="closest td" hx-swap="innerHTML">`)
		w.Printf(`<input type="hidden" name="field" value="%s"><input type="hidden" name="original" value="%s">`, field, original)
		w.Component(editor)
		w.Raw(`<button type="submit" aria-label="Save"><i class="pi pi-check"></i></button>`)
		w.Raw(`</form>`)
	})
}
