package users

import (
	"net/url"
	"strconv"

	"github.com/codr1/wfxconsole/internal/users"
)

type UsersData struct {
	Filters users.Filters
	Page    users.Page[users.User]
	// FormErrors holds create-form field messages keyed by json name.
	FormErrors map[string]string
	FormValues map[string]string
}

// FilterURL returns the list URL for filters with page replaced.
func (d UsersData) FilterURL(page int) string {
	v := url.Values{}
	if d.Filters.Search != "" {
		v.Set("q", d.Filters.Search)
	}
	if d.Filters.Role != "" {
		v.Set("role", d.Filters.Role)
	}
	if d.Filters.Status != "" {
		v.Set("status", d.Filters.Status)
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("pageSize", strconv.Itoa(d.Page.PageSize))
	return "/users/list?" + v.Encode()
}

// StatusSeverity maps a user status to a tag colour.
func StatusSeverity(status string) string {
	switch status {
	case "active":
		return "success"
	case "pending":
		return "warn"
	case "suspended":
		return "danger"
	default:
		return "secondary"
	}
}
