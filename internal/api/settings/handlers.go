// internal/api/settings/handlers.go
package settings

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/api/apiutil"
	"github.com/codr1/wfxconsole/internal/api/authz"
	"github.com/codr1/wfxconsole/internal/api/htmx"
	"github.com/codr1/wfxconsole/internal/api/shell"
	"github.com/codr1/wfxconsole/internal/notify"
	"github.com/codr1/wfxconsole/internal/storage"
	"github.com/codr1/wfxconsole/internal/templates/components/nav"
	settingstempl "github.com/codr1/wfxconsole/internal/templates/components/settings"
	themetempl "github.com/codr1/wfxconsole/internal/templates/components/themes"
	"github.com/codr1/wfxconsole/internal/widgets"
)

// ChangedEvent tells open pages to re-apply body classes.
const ChangedEvent = "preferencesChanged"

// /settings
func HandleSettingsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	client := authz.ClientFromContext(ctx)
	if client == nil || client.Theme == nil {
		log.Ctx(ctx).Error().Msg("Client missing from request context")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := settingstempl.SettingsData{
		Themes:      themetempl.NewOptions(client.Theme.Registry().List(), client.Theme.Current().ID),
		Preferences: shell.LoadPreferences(ctx, client),
	}
	shell.Render(w, r, "Settings", settingstempl.Page(data))
}

// /api/v1/settings/preferences
func HandlePreferencesUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	client := authz.ClientFromContext(ctx)
	if client == nil || client.Storage == nil {
		logger.Error().Msg("Client missing from request context")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	prefs := shell.LoadPreferences(ctx, client)
	if apiutil.IsJSONRequest(r) {
		if err := apiutil.DecodeJSON(r, &prefs); err != nil {
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		if err := bindPreferences(r, &prefs); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := storage.Set(ctx, client.Storage, settingstempl.PreferencesKey, prefs, storage.Durable); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusInternalServerError, Message: "Failed to save preferences", Err: err})
		return
	}
	logger.Info().
		Bool("compact", prefs.CompactMode).
		Bool("animations", prefs.Animations).
		Bool("sidebar_collapsed", prefs.SidebarCollapsed).
		Msg("Preferences saved")

	if apiutil.IsJSONRequest(r) {
		apiutil.WriteJSON(w, http.StatusOK, prefs)
		return
	}

	notify.SetTrigger(w, ChangedEvent, prefs)
	shell.Toast(w, r, notify.SeveritySuccess, notify.Options{Summary: "Preferences saved"})
	apiutil.RenderHTMLComponent(ctx, w, settingstempl.PreferencesForm(prefs), nil, "Failed to render preferences", "Failed to render preferences")
}

// bindPreferences reads the switch controls through the form value contract.
func bindPreferences(r *http.Request, prefs *settingstempl.Preferences) error {
	targets := map[string]*bool{
		"compactMode":      &prefs.CompactMode,
		"animations":       &prefs.Animations,
		"sidebarCollapsed": &prefs.SidebarCollapsed,
	}
	controls := make([]*widgets.Control, 0, len(targets))
	for name, target := range targets {
		control, err := widgets.NewControl(widgets.UISwitch, name)
		if err != nil {
			return err
		}
		control.RegisterOnChange(func(v any) {
			if b, ok := v.(bool); ok {
				*target = b
			}
		})
		controls = append(controls, control)
	}
	return widgets.BindForm(r.Form, controls...)
}

// /api/v1/settings/sidebar
func HandleSidebarToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	client := authz.ClientFromContext(ctx)
	if client == nil || client.Storage == nil {
		logger.Error().Msg("Client missing from request context")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	collapsed, err := apiutil.ParseBool(r.URL.Query().Get("collapsed"))
	if err != nil {
		http.Error(w, "collapsed must be a boolean", http.StatusBadRequest)
		return
	}
	path := r.URL.Query().Get("path")
	if !strings.HasPrefix(path, "/") {
		path = "/"
	}

	prefs := shell.LoadPreferences(ctx, client)
	prefs.SidebarCollapsed = collapsed
	if err := storage.Set(ctx, client.Storage, settingstempl.PreferencesKey, prefs, storage.Durable); err != nil {
		// The toggle still applies to this page.
		logger.Warn().Err(err).Msg("Failed to save sidebar state")
	}

	if !htmx.IsRequest(r) {
		http.Redirect(w, r, path, http.StatusSeeOther)
		return
	}
	apiutil.RenderHTMLComponent(ctx, w, nav.Sidebar(path, collapsed), nil, "Failed to render sidebar", "Failed to render sidebar")
}
