// internal/api/themes/handlers.go
package themes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/api/apiutil"
	"github.com/codr1/wfxconsole/internal/api/authz"
	"github.com/codr1/wfxconsole/internal/api/htmx"
	"github.com/codr1/wfxconsole/internal/notify"
	"github.com/codr1/wfxconsole/internal/templates/components/settings"
	themetempl "github.com/codr1/wfxconsole/internal/templates/components/themes"
	"github.com/codr1/wfxconsole/internal/themes"
)

const (
	// ChangedEvent is the HX-Trigger event pages listen on to re-mark the document.
	ChangedEvent  = "themeChanged"
	sseEventName  = "theme"
	themeGridID   = "theme-grid"
	heartbeatRate = 25 * time.Second
)

var heartbeatInterval = heartbeatRate

// ChangedDetail is the payload of both the HX-Trigger event and the SSE stream.
type ChangedDetail struct {
	ID      string `json:"id"`
	CSSVars string `json:"cssVars"`
}

func changedDetail(theme themes.Theme) ChangedDetail {
	return ChangedDetail{ID: theme.ID, CSSVars: theme.CSSVars()}
}

type setThemeRequest struct {
	ThemeID string `json:"themeId"`
}

type setThemeResponse struct {
	Theme   themes.Theme `json:"theme"`
	Changed bool         `json:"changed"`
}

func themeClient(w http.ResponseWriter, r *http.Request) (*themes.Client, bool) {
	client := authz.ClientFromContext(r.Context())
	if client == nil || client.Theme == nil {
		log.Ctx(r.Context()).Error().Msg("Theme service missing from request context")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	return client.Theme, true
}

// /api/v1/theme (GET)
func HandleThemeCurrent(w http.ResponseWriter, r *http.Request) {
	svc, ok := themeClient(w, r)
	if !ok {
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, svc.Current())
}

// /api/v1/themes
func HandleThemesList(w http.ResponseWriter, r *http.Request) {
	svc, ok := themeClient(w, r)
	if !ok {
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, svc.Registry().List())
}

// /api/v1/theme (POST)
func HandleThemeSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	svc, ok := themeClient(w, r)
	if !ok {
		return
	}

	themeID, err := decodeThemeID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Unknown ids leave the active theme untouched and still succeed.
	changed := svc.SetTheme(ctx, themeID)
	current := svc.Current()
	if changed {
		logger.Info().Str("theme_id", current.ID).Msg("Theme changed")
	}

	if apiutil.IsJSONRequest(r) {
		apiutil.WriteJSON(w, http.StatusOK, setThemeResponse{Theme: current, Changed: changed})
		return
	}

	if changed {
		notify.SetTrigger(w, ChangedEvent, changedDetail(current))
	}

	if !htmx.IsRequest(r) {
		http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
		return
	}

	if htmx.Target(r) == themeGridID {
		options := themetempl.NewOptions(svc.Registry().List(), current.ID)
		apiutil.RenderHTMLComponent(ctx, w, settings.ThemeCards(options), nil, "Failed to render theme grid", "Failed to render themes")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// /api/v1/theme/events streams the client's theme changes as server-sent events.
func HandleThemeEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	svc, ok := themeClient(w, r)
	if !ok {
		return
	}

	rc := http.NewResponseController(w)
	updates, cancel := svc.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		logger.Error().Err(err).Msg("Streaming not supported")
		return
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	logger.Debug().Int("subscribers", svc.SubscriberCount()).Msg("Theme stream opened")
	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("Theme stream closed")
			return
		case theme, ok := <-updates:
			if !ok {
				return
			}
			if err := writeEvent(w, sseEventName, changedDetail(theme)); err != nil {
				logger.Debug().Err(err).Msg("Theme stream write failed")
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

func decodeThemeID(r *http.Request) (string, error) {
	if apiutil.IsJSONRequest(r) {
		var req setThemeRequest
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			return "", err
		}
		id := strings.TrimSpace(req.ThemeID)
		if id == "" {
			return "", fmt.Errorf("themeId is required")
		}
		return id, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("invalid form data")
	}
	id := strings.TrimSpace(apiutil.FirstNonEmpty(r.FormValue("theme_id"), r.FormValue("themeId")))
	if id == "" {
		return "", fmt.Errorf("theme_id is required")
	}
	return id, nil
}

// redirectTarget sends plain form posts back to the page they came from.
func redirectTarget(r *http.Request) string {
	if next := r.FormValue("next"); strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/settings"
}
