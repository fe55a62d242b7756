package users

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/wfxconsole/internal/templates/markup"
	"github.com/codr1/wfxconsole/internal/users"
	"github.com/codr1/wfxconsole/internal/widgets"
)

type option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func options(all string, values []string) []option {
	opts := []option{{Label: all, Value: ""}}
	for _, v := range values {
		opts = append(opts, option{Label: strings.ToUpper(v[:1]) + v[1:], Value: v})
	}
	return opts
}

var tableColumns = []map[string]string{
	{"field": "name", "header": "Name"},
	{"field": "email", "header": "Email"},
	{"field": "role", "header": "Role"},
	{"field": "status", "header": "Status"},
	{"field": "createdAt", "header": "Created"},
}

func Page(data UsersData) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<div class="user-list"><div class="user-list__header"><h2>Users</h2><p>Manage application users</p></div>`)

		w.Raw(`<form class="user-list__filters" hx-get="/users/list" hx-target="#user-table" hx-swap="outerHTML" hx-trigger="change, keyup changed delay:300ms from:input[name=q]">`)
		w.Printf(`<input type="search" name="q" value="%s" placeholder="Search users...">`, data.Filters.Search)
		for _, f := range []struct {
			name, value, all string
			values       []string
		}{
			{"role", data.Filters.Role, "All Roles", users.Roles},
			{"status", data.Filters.Status, "All Statuses", users.Statuses},
		} {
			control, err := widgets.NewControl(widgets.UIDropdown, f.name)
			if err != nil {
				w.Fail(err)
				return
			}
			control.WriteValue(f.value)
			c, err := control.Render(widgets.Props{"options": options(f.all, f.values), "showClear": true}, nil)
			if err != nil {
				w.Fail(err)
				return
			}
			w.Component(c)
		}
		w.Raw(`</form>`)

		w.Component(Table(data))
		w.Component(CreateForm(data.FormValues, data.FormErrors))
		w.Raw(`</div>`)
	})
}

// Table renders the users page as a data-table element with a server
// rendered fallback inside it.
func Table(data UsersData) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		rows := make([]map[string]string, 0, len(data.Page.Items))
		for _, u := range data.Page.Items {
			rows = append(rows, map[string]string{
				"id": u.ID, "name": u.FullName(), "email": u.Email, "role": u.Role, "status": u.Status,
				"createdAt": u.CreatedAt.Format("2006-01-02"),
			})
		}

		fallback := markup.Func(func(w *markup.Writer) {
			w.Raw(`<table class="user-table"><thead><tr><th>Name</th><th>Email</th><th>Role</th><th>Status</th><th>Created</th><th></th></tr></thead><tbody>`)
			if len(data.Page.Items) == 0 {
				w.Raw(`<tr><td colspan="6">No records found</td></tr>`)
			}
			for _, u := range data.Page.Items {
				w.Printf(`<tr id="user-%s"><td>%s</td><td>%s</td><td>%s</td>`, u.ID, u.FullName(), u.Email, u.Role)
				w.Printf(`<td><span class="tag tag--%s">%s</span></td><td>%s</td>`, StatusSeverity(u.Status), u.Status, u.CreatedAt.Format("Jan 2, 2006"))
				w.Printf(`<td><button class="icon-button" hx-delete="/api/v1/users/%s" hx-target="#user-%s" hx-swap="outerHTML" hx-confirm="Delete %s?"><i class="pi pi-trash"></i></button></td></tr>`,
					u.ID, u.ID, u.FullName())
			}
			w.Raw(`</tbody></table>`)
		})

		table, err := widgets.Render(widgets.UIDataTable, widgets.Props{
			"data":         rows,
			"columns":      tableColumns,
			"rows":         data.Page.PageSize,
			"totalRecords": data.Page.Total,
			"lazy":         true,
		}, nil, fallback)
		if err != nil {
			w.Fail(err)
			return
		}

		w.Printf(`<div id="user-table" hx-get="%s" hx-trigger="usersChanged from:body" hx-swap="outerHTML">`, data.FilterURL(max(data.Page.Page, 1)))
		w.Component(table)
		w.Printf(`<div class="pager"><span>%d users, page %d of %d</span>`, data.Page.Total, data.Page.Page, data.Page.TotalPages)
		if data.Page.Page > 1 {
			w.Printf(`<button hx-get="%s" hx-target="#user-table" hx-swap="outerHTML">Previous</button>`, data.FilterURL(data.Page.Page-1))
		}
		if data.Page.Page < data.Page.TotalPages {
			w.Printf(`<button hx-get="%s" hx-target="#user-table" hx-swap="outerHTML">Next</button>`, data.FilterURL(data.Page.Page+1))
		}
		w.Raw(`</div></div>`)
	})
}

// CreateForm posts a new user; on success the table and form are refreshed.
func CreateForm(values, errs map[string]string) templ.Component {
	return markup.Func(func(w *markup.Writer) {
		w.Raw(`<form id="user-create" class="user-create" hx-post="/users" hx-target="#user-create" hx-swap="outerHTML">`)
		w.Raw(`<h3>Add user</h3>`)
		for _, f := range []struct{ name, label, typ string }{
			{"firstName", "First name", "text"},
			{"lastName", "Last name", "text"},
			{"email", "Email", "email"},
			{"password", "Password", "password"},
		} {
			value := values[f.name]
			if f.typ == "password" {
				value = ""
			}
			w.Printf(`<div class="form-field"><label for="new-%s">%s</label><input id="new-%s" type="%s" name="%s" value="%s">`,
				f.name, f.label, f.name, f.typ, f.name, value)
			if msg := errs[f.name]; msg != "" {
				w.Printf(`<small class="field-error">%s %s</small>`, f.label, msg)
			}
			w.Raw(`</div>`)
		}
		w.Raw(`<div class="form-field"><label for="new-role">Role</label><select id="new-role" name="role">`)
		for _, role := range users.Roles {
			w.Printf(`<option value="%s"%s>%s</option>`, role, markup.HTML(markup.If(values["role"] == role, " selected")), role)
		}
		w.Raw(`</select>`)
		if msg := errs["role"]; msg != "" {
			w.Printf(`<small class="field-error">Role %s</small>`, msg)
		}
		w.Raw(`</div>`)
		if msg := errs[""]; msg != "" {
			w.Printf(`<div class="error-banner">%s</div>`, msg)
		}
		w.Raw(`<button type="submit">Create</button></form>`)
	})
}
