package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/api/authz"
	"github.com/codr1/wfxconsole/internal/api/htmx"
	"github.com/codr1/wfxconsole/internal/notify"
	"github.com/codr1/wfxconsole/internal/storage"
	"github.com/codr1/wfxconsole/internal/themes"
)

const (
	DeviceCookieName  = "wfx_device"
	SessionCookieName = "wfx_session"
	deviceCookieTTL   = 365 * 24 * time.Hour
	sessionTokenBytes = 32
)

func isSecureCookie() bool {
	return appConfig != nil && appConfig.App.Environment == "production"
}

func isPublicPath(path string) bool {
	return path == "/health" || path == "/favicon.ico" || strings.HasPrefix(path, "/static/")
}

// WithClient binds every request to a browser: a long-lived device cookie
// selects the durable scope and a browser-session cookie the session scope.
// Missing or malformed cookies are replaced with fresh ids.
func WithClient(store *storage.Store, pool *themes.Pool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			deviceID, fresh := cookieID(r, DeviceCookieName)
			if fresh {
				setIDCookie(w, DeviceCookieName, deviceID, deviceCookieTTL)
			}
			sessionID, fresh := cookieID(r, SessionCookieName)
			if fresh {
				setIDCookie(w, SessionCookieName, sessionID, 0)
			}

			logger := log.Ctx(r.Context()).With().Str("device_id", deviceID).Logger()
			ctx := logger.WithContext(r.Context())

			svc := store.For(deviceID, sessionID)
			client := &authz.Client{
				DeviceID:  deviceID,
				SessionID: sessionID,
				Storage:   svc,
				Theme:     pool.Get(ctx, deviceID, sessionID),
				Notify:    notify.New(svc),
			}
			next.ServeHTTP(w, r.WithContext(authz.ContextWithClient(ctx, client)))
		})
	}
}

// cookieID returns the cookie's id, or a new one (fresh=true) when the
// cookie is missing or not a UUID.
func cookieID(r *http.Request, name string) (id string, fresh bool) {
	if cookie, err := r.Cookie(name); err == nil {
		if parsed, err := uuid.Parse(cookie.Value); err == nil {
			return parsed.String(), false
		}
	}
	return uuid.NewString(), true
}

// setIDCookie writes an id cookie. A zero ttl makes a browser-session cookie.
func setIDCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureCookie(),
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		cookie.Expires = time.Now().Add(ttl)
		cookie.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, cookie)
}

// RequireLogin sends unauthenticated browsers to /login. It is a no-op when
// enabled is false.
func RequireLogin(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) || r.URL.Path == "/login" {
				next.ServeHTTP(w, r)
				return
			}
			if _, err := authz.RequireClient(r.Context()); err == nil {
				next.ServeHTTP(w, r)
				return
			}

			log.Ctx(r.Context()).Debug().Str("path", r.URL.Path).Msg("Unauthenticated request redirected to login")
			switch {
			case htmx.IsRequest(r):
				htmx.Redirect(w, "/login", http.StatusUnauthorized)
			case strings.HasPrefix(r.URL.Path, "/api/"):
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
			default:
				http.Redirect(w, r, "/login?next="+safeNext(r.URL.RequestURI()), http.StatusSeeOther)
			}
		})
	}
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// CreateSession marks the client as signed in. The session id is rotated
// so a pre-login session cookie cannot be reused.
func CreateSession(ctx context.Context, w http.ResponseWriter, client *authz.Client) error {
	if client == nil || store == nil {
		return errors.New("session requires a client and store")
	}

	token, err := newSessionToken()
	if err != nil {
		return err
	}

	store.EndSession(client.SessionID)
	sessionID := uuid.NewString()
	svc := store.For(client.DeviceID, sessionID)
	if err := storage.Set(ctx, svc, authz.AuthTokenKey, token, storage.Session); err != nil {
		return err
	}
	setIDCookie(w, SessionCookieName, sessionID, 0)

	client.SessionID = sessionID
	client.Storage = svc
	client.Notify = notify.New(svc)
	return nil
}

// ClearSession ends the client's session and expires its cookie.
func ClearSession(w http.ResponseWriter, client *authz.Client) {
	if client != nil && store != nil {
		store.EndSession(client.SessionID)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureCookie(),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

func newSessionToken() (string, error) {
	token := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(token); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(token), nil
}
