// Package storageapi exposes the client's storage scopes to page scripts.
package storageapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/api/apiutil"
	"github.com/codr1/wfxconsole/internal/api/authz"
	"github.com/codr1/wfxconsole/internal/notify"
	"github.com/codr1/wfxconsole/internal/ratelimit"
	"github.com/codr1/wfxconsole/internal/storage"
	"github.com/codr1/wfxconsole/internal/themes"
)

const maxBody = 1 << 20

// Session keys owned by the server. Scripts can neither read nor write them.
var reservedSessionKeys = []string{authz.AuthTokenKey, notify.QueueKey}

var (
	pool     *themes.Pool
	throttle *ratelimit.Throttle
)

// InitHandlers wires the theme pool (so durable theme writes reach the live
// theme service) and the per-device write throttle. Either may be nil.
func InitHandlers(p *themes.Pool, t *ratelimit.Throttle) {
	pool = p
	throttle = t
}

type entryResponse struct {
	Key   string          `json:"key"`
	Scope string          `json:"scope"`
	Value json.RawMessage `json:"value"`
}

type keysResponse struct {
	Scope string   `json:"scope"`
	Keys  []string `json:"keys"`
}

func requestClient(w http.ResponseWriter, r *http.Request) (*authz.Client, storage.Scope, bool) {
	client := authz.ClientFromContext(r.Context())
	if client == nil || client.Storage == nil {
		log.Ctx(r.Context()).Error().Msg("Client missing from request context")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, 0, false
	}
	scope, err := storage.ParseScope(r.PathValue("scope"))
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
		return nil, 0, false
	}
	return client, scope, true
}

func reserved(scope storage.Scope, key string) bool {
	return scope == storage.Session && slices.Contains(reservedSessionKeys, storage.NormalizeKey(key))
}

func allowWrite(w http.ResponseWriter, r *http.Request, client *authz.Client) bool {
	if throttle == nil || throttle.Allow(client.DeviceID) {
		return true
	}
	ratelimit.LogRateLimitExceeded(r.Context(), "storage_write", client.DeviceID, ratelimit.GetClientIP(r, false), "throttled")
	w.Header().Set("Retry-After", "1")
	apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusTooManyRequests, Message: "Too many storage writes"})
	return false
}

// reloadTheme re-reads the pooled theme service when its persisted id may
// have changed underneath it.
func reloadTheme(ctx context.Context, client *authz.Client, scope storage.Scope, key string) {
	if pool == nil || scope != storage.Durable {
		return
	}
	if key == "" || key == themes.PreferenceKey {
		pool.Reload(ctx, client.DeviceID)
	}
}

// /api/v1/storage/{scope}
func HandleKeys(w http.ResponseWriter, r *http.Request) {
	client, scope, ok := requestClient(w, r)
	if !ok {
		return
	}
	keys, err := client.Storage.Keys(r.Context(), scope)
	if err != nil {
		writeStorageError(w, r, err)
		return
	}
	keys = slices.DeleteFunc(keys, func(key string) bool { return reserved(scope, key) })
	slices.Sort(keys)
	apiutil.WriteJSON(w, http.StatusOK, keysResponse{Scope: scope.String(), Keys: keys})
}

// /api/v1/storage/{scope}/{key} (GET)
func HandleGet(w http.ResponseWriter, r *http.Request) {
	client, scope, ok := requestClient(w, r)
	if !ok {
		return
	}
	key := storage.NormalizeKey(r.PathValue("key"))
	if reserved(scope, key) {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusForbidden, Message: "Key is reserved"})
		return
	}

	raw, found, err := client.Storage.GetRaw(r.Context(), key, scope)
	if err != nil {
		writeStorageError(w, r, err)
		return
	}
	if !found {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusNotFound, Message: "Key not found"})
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, entryResponse{Key: key, Scope: scope.String(), Value: rawJSON(raw)})
}

// /api/v1/storage/{scope}/{key} (PUT). The body is any JSON value. Strings
// are stored verbatim, everything else as compact JSON.
func HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	client, scope, ok := requestClient(w, r)
	if !ok {
		return
	}
	key := storage.NormalizeKey(r.PathValue("key"))
	if reserved(scope, key) {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusForbidden, Message: "Key is reserved"})
		return
	}
	if !allowWrite(w, r, client) {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Failed to read body", Err: err})
		return
	}
	value, err := storedForm(body)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: "Body must be a JSON value", Err: err})
		return
	}

	if err := client.Storage.SetRaw(ctx, key, value, scope); err != nil {
		writeStorageError(w, r, err)
		return
	}
	reloadTheme(ctx, client, scope, key)
	log.Ctx(ctx).Debug().Str("key", key).Str("scope", scope.String()).Int("bytes", len(value)).Msg("Storage value written")
	w.WriteHeader(http.StatusNoContent)
}

// /api/v1/storage/{scope}/{key} (DELETE)
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	client, scope, ok := requestClient(w, r)
	if !ok {
		return
	}
	key := storage.NormalizeKey(r.PathValue("key"))
	if reserved(scope, key) {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusForbidden, Message: "Key is reserved"})
		return
	}
	if !allowWrite(w, r, client) {
		return
	}

	if err := client.Storage.Remove(ctx, key, scope); err != nil {
		writeStorageError(w, r, err)
		return
	}
	reloadTheme(ctx, client, scope, key)
	w.WriteHeader(http.StatusNoContent)
}

// /api/v1/storage/{scope} (DELETE). Clearing the session scope keeps the
// client signed in.
func HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	client, scope, ok := requestClient(w, r)
	if !ok {
		return
	}
	if !allowWrite(w, r, client) {
		return
	}

	var token string
	if scope == storage.Session {
		token, _, _ = client.Storage.GetRaw(ctx, authz.AuthTokenKey, storage.Session)
	}
	if err := client.Storage.Clear(ctx, scope); err != nil {
		writeStorageError(w, r, err)
		return
	}
	if token != "" {
		if err := client.Storage.SetRaw(ctx, authz.AuthTokenKey, token, storage.Session); err != nil {
			writeStorageError(w, r, err)
			return
		}
	}
	reloadTheme(ctx, client, scope, "")
	log.Ctx(ctx).Info().Str("scope", scope.String()).Msg("Storage scope cleared")
	w.WriteHeader(http.StatusNoContent)
}

func storedForm(body []byte) (string, error) {
	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return "", errors.New("invalid JSON")
	}
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return s, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// rawJSON returns stored JSON as is and wraps anything else as a JSON string.
func rawJSON(raw string) json.RawMessage {
	if json.Valid([]byte(raw)) {
		return json.RawMessage(raw)
	}
	quoted, _ := json.Marshal(raw)
	return quoted
}

func writeStorageError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidKey):
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Message: err.Error(), Err: err})
	case errors.Is(err, storage.ErrQuotaExceeded):
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusRequestEntityTooLarge, Message: "Value exceeds the storage quota", Err: err})
	case errors.Is(err, storage.ErrUnavailable):
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusServiceUnavailable, Message: "Storage unavailable", Err: err})
	default:
		apiutil.WriteError(w, r, err)
	}
}
