// Package htmx reads and writes the htmx request and response headers the
// console relies on.
package htmx

import (
	"net/http"
	"strings"
)

// IsRequest reports whether r was issued by htmx rather than a full page load.
func IsRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// Target returns the id of the element the response will be swapped into,
// or "" for non-htmx requests.
func Target(r *http.Request) string {
	if !IsRequest(r) {
		return ""
	}
	return strings.TrimPrefix(r.Header.Get("HX-Target"), "#")
}

// Redirect makes htmx do a full navigation to url. A plain redirect would be
// followed by the XHR and swapped into the target.
func Redirect(w http.ResponseWriter, url string, status int) {
	w.Header().Set("HX-Redirect", url)
	w.WriteHeader(status)
}
