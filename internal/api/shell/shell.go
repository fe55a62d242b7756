// Package shell renders feature content inside the console layout.
package shell

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/api/apiutil"
	"github.com/codr1/wfxconsole/internal/api/authz"
	"github.com/codr1/wfxconsole/internal/api/htmx"
	"github.com/codr1/wfxconsole/internal/notify"
	"github.com/codr1/wfxconsole/internal/storage"
	"github.com/codr1/wfxconsole/internal/templates/components/nav"
	"github.com/codr1/wfxconsole/internal/templates/components/settings"
	"github.com/codr1/wfxconsole/internal/templates/layouts"
)

var appName = "WFX Console"

// Init sets the application name shown in the header.
func Init(name string) {
	if name != "" {
		appName = name
	}
}

// LoadPreferences reads the client's display preferences, falling back to
// defaults when nothing usable is stored.
func LoadPreferences(ctx context.Context, client *authz.Client) settings.Preferences {
	prefs := settings.DefaultPreferences()
	if client == nil || client.Storage == nil {
		return prefs
	}
	stored, ok, err := storage.Get[settings.Preferences](ctx, client.Storage, settings.PreferencesKey, storage.Durable)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Failed to load preferences")
		return prefs
	}
	if ok {
		return stored
	}
	return prefs
}

// NewPage builds the layout data for r. Queued toasts are drained into it.
func NewPage(r *http.Request, title string) layouts.Page {
	ctx := r.Context()
	page := layouts.Page{
		AppName:    appName,
		Title:      title,
		Path:       r.URL.Path,
		Animations: true,
	}
	if page.Title == "" {
		page.Title = nav.Title(r.URL.Path, "")
	}

	client := authz.ClientFromContext(ctx)
	if client == nil {
		return page
	}
	if client.Theme != nil {
		page.Theme = client.Theme.Current()
		page.MarkerValue = client.Theme.Marker.Value()
		page.Themes = client.Theme.Registry().List()
	}
	if client.Notify != nil {
		toasts, err := client.Notify.Drain(ctx)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("Failed to drain toasts")
		}
		page.Toasts = toasts
	}
	prefs := LoadPreferences(ctx, client)
	page.Compact = prefs.CompactMode
	page.Animations = prefs.Animations
	page.SidebarCollapsed = prefs.SidebarCollapsed
	page.Authenticated = client.Authenticated(ctx)
	return page
}

// Render writes content inside the full layout.
func Render(w http.ResponseWriter, r *http.Request, title string, content templ.Component) {
	page := layouts.Base(NewPage(r, title), content)
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render page", "Failed to render page")
}

// RenderBare writes content without the sidebar and header.
func RenderBare(w http.ResponseWriter, r *http.Request, status int, title string, content templ.Component) {
	page := layouts.Bare(NewPage(r, title), content)
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, page, nil, "Failed to render page", "Failed to render page")
}

// Toast queues a message for the client and, for htmx requests, flushes the
// queue into an HX-Trigger header so it shows without a reload. Call it
// before the response body is written.
func Toast(w http.ResponseWriter, r *http.Request, severity notify.Severity, opts notify.Options) {
	ctx := r.Context()
	client := authz.ClientFromContext(ctx)
	if client == nil || client.Notify == nil {
		return
	}
	var err error
	switch severity {
	case notify.SeveritySuccess:
		err = client.Notify.Success(ctx, opts)
	case notify.SeverityWarn:
		err = client.Notify.Warn(ctx, opts)
	case notify.SeverityError:
		err = client.Notify.Error(ctx, opts)
	default:
		err = client.Notify.Info(ctx, opts)
	}
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Failed to queue toast")
		return
	}
	if htmx.IsRequest(r) {
		client.Notify.Trigger(ctx, w)
	}
}
