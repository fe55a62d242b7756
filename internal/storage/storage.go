// Package storage provides typed key-value persistence in two scopes: a
// durable scope bound to a browser's device cookie and a session scope bound
// to its browser-session cookie.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"reflect"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

type Scope int

const (
	Durable Scope = iota
	Session
)

func (s Scope) String() string {
	switch s {
	case Durable:
		return "durable"
	case Session:
		return "session"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// ParseScope accepts the scope names used in URLs. "local" is an alias for
// durable.
func ParseScope(raw string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "durable", "local":
		return Durable, nil
	case "session":
		return Session, nil
	default:
		return 0, fmt.Errorf("unknown storage scope %q", raw)
	}
}

var (
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrUnavailable   = errors.New("storage unavailable")
	ErrInvalidKey    = errors.New("storage key is required")
)

// Service is one client's view of the store. Keys are namespaced under the
// application prefix before they reach a backend.
type Service struct {
	durable       Backend
	session       Backend
	deviceID      string
	sessionID     string
	prefix        string
	maxValueBytes int
}

func (s *Service) backend(scope Scope) (Backend, string, error) {
	switch scope {
	case Durable:
		return s.durable, s.deviceID, nil
	case Session:
		return s.session, s.sessionID, nil
	default:
		return nil, "", fmt.Errorf("unknown storage scope %d", int(scope))
	}
}

// NormalizeKey returns the form a key is stored under, before the
// application prefix is added.
func NormalizeKey(key string) string {
	return strings.TrimSpace(key)
}

func (s *Service) fullKey(key string) (string, error) {
	key = NormalizeKey(key)
	if key == "" {
		return "", ErrInvalidKey
	}
	return s.prefix + key, nil
}

// GetRaw returns the stored string for key. Empty values read as absent.
func (s *Service) GetRaw(ctx context.Context, key string, scope Scope) (string, bool, error) {
	backend, namespace, err := s.backend(scope)
	if err != nil {
		return "", false, err
	}
	fullKey, err := s.fullKey(key)
	if err != nil {
		return "", false, err
	}
	value, ok, err := backend.Get(ctx, namespace, fullKey)
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %w", ErrUnavailable, key, err)
	}
	if !ok || value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// SetRaw stores value verbatim.
func (s *Service) SetRaw(ctx context.Context, key, value string, scope Scope) error {
	backend, namespace, err := s.backend(scope)
	if err != nil {
		return err
	}
	fullKey, err := s.fullKey(key)
	if err != nil {
		return err
	}
	if s.maxValueBytes > 0 && len(value) > s.maxValueBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrQuotaExceeded, key, len(value), s.maxValueBytes)
	}
	if err := backend.Set(ctx, namespace, fullKey, value); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrUnavailable, key, err)
	}
	return nil
}

// updateLocks serialise Update calls. Keys hash onto a fixed set of
// stripes, so unrelated keys occasionally share one.
var updateLocks [64]sync.Mutex

func updateLock(scope Scope, namespace, fullKey string) *sync.Mutex {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d\x00%s\x00%s", scope, namespace, fullKey)
	return &updateLocks[h.Sum32()%uint32(len(updateLocks))]
}

// Update replaces key with fn's result while holding a lock for the key, so
// read-modify-write cycles within this process do not lose updates. fn sees
// the current value (ok is false when absent). Returning "" removes the key.
// When fn fails nothing is written and its error is returned.
func (s *Service) Update(ctx context.Context, key string, scope Scope, fn func(current string, ok bool) (string, error)) error {
	_, namespace, err := s.backend(scope)
	if err != nil {
		return err
	}
	fullKey, err := s.fullKey(key)
	if err != nil {
		return err
	}

	mu := updateLock(scope, namespace, fullKey)
	mu.Lock()
	defer mu.Unlock()

	current, ok, err := s.GetRaw(ctx, key, scope)
	if err != nil {
		return err
	}
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	if next == "" {
		return s.Remove(ctx, key, scope)
	}
	return s.SetRaw(ctx, key, next, scope)
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Service) Remove(ctx context.Context, key string, scope Scope) error {
	backend, namespace, err := s.backend(scope)
	if err != nil {
		return err
	}
	fullKey, err := s.fullKey(key)
	if err != nil {
		return err
	}
	if err := backend.Remove(ctx, namespace, fullKey); err != nil {
		return fmt.Errorf("%w: remove %s: %w", ErrUnavailable, key, err)
	}
	return nil
}

// Clear removes every application key for this client in scope. Keys written
// outside the application prefix are left alone.
func (s *Service) Clear(ctx context.Context, scope Scope) error {
	backend, namespace, err := s.backend(scope)
	if err != nil {
		return err
	}
	if err := backend.ClearPrefix(ctx, namespace, s.prefix); err != nil {
		return fmt.Errorf("%w: clear %s: %w", ErrUnavailable, scope, err)
	}
	return nil
}

// Keys lists this client's application keys in scope, without the prefix.
func (s *Service) Keys(ctx context.Context, scope Scope) ([]string, error) {
	backend, namespace, err := s.backend(scope)
	if err != nil {
		return nil, err
	}
	keys, err := backend.Keys(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("%w: keys %s: %w", ErrUnavailable, scope, err)
	}
	result := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, s.prefix) {
			result = append(result, strings.TrimPrefix(key, s.prefix))
		}
	}
	return result, nil
}

// Get reads key and decodes it as JSON into T. A value that is not valid JSON
// is returned as the raw string when T is string-kinded; for any other T the
// value is discarded and Get reports it as absent.
func Get[T any](ctx context.Context, s *Service, key string, scope Scope) (T, bool, error) {
	var value T
	raw, ok, err := s.GetRaw(ctx, key, scope)
	if err != nil || !ok {
		return value, false, err
	}

	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		return value, true, nil
	}

	var zero T
	target := reflect.ValueOf(&value).Elem()
	if target.Kind() == reflect.String {
		target.SetString(raw)
		log.Ctx(ctx).Debug().
			Str("key", key).
			Str("scope", scope.String()).
			Msg("Stored value is not JSON, returning raw string")
		return value, true, nil
	}

	log.Ctx(ctx).Warn().
		Str("key", key).
		Str("scope", scope.String()).
		Str("type", target.Type().String()).
		Msg("Discarding stored value that does not decode")
	return zero, false, nil
}

// Set stores strings verbatim and everything else as JSON.
func Set[T any](ctx context.Context, s *Service, key string, value T, scope Scope) error {
	rv := reflect.ValueOf(value)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return s.SetRaw(ctx, key, rv.String(), scope)
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.SetRaw(ctx, key, string(encoded), scope)
}
