package storage

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type Options struct {
	KeyPrefix     string
	MaxValueBytes int
	SessionTTL    time.Duration
	Clock         Clock
}

// Store owns the process-wide backends and hands out per-client Services.
type Store struct {
	durable     Backend
	session     *MemoryBackend
	opts        Options
	fellBack    bool
	fallbackErr error
}

// Open builds a Store. When openDurable fails the durable scope is served
// from memory for the life of the process and the failure is logged.
func Open(ctx context.Context, opts Options, openDurable func(context.Context) (Backend, error)) *Store {
	store := &Store{
		session: NewMemoryBackend(opts.SessionTTL, opts.Clock),
		opts:    opts,
	}

	var durable Backend
	var err error
	if openDurable != nil {
		durable, err = openDurable(ctx)
	}
	if openDurable == nil || err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Durable storage unavailable, falling back to memory")
		durable = NewMemoryBackend(0, opts.Clock)
		store.fellBack = true
		store.fallbackErr = err
	}
	store.durable = durable
	return store
}

// NewMemoryStore returns a Store whose scopes both live in memory.
func NewMemoryStore(opts Options) *Store {
	return &Store{
		durable: NewMemoryBackend(0, opts.Clock),
		session: NewMemoryBackend(opts.SessionTTL, opts.Clock),
		opts:    opts,
	}
}

// For returns the Service for one browser.
func (s *Store) For(deviceID, sessionID string) *Service {
	return &Service{
		durable:       s.durable,
		session:       s.session,
		deviceID:      deviceID,
		sessionID:     sessionID,
		prefix:        s.opts.KeyPrefix,
		maxValueBytes: s.opts.MaxValueBytes,
	}
}

// FellBack reports whether the durable scope is running on the in-memory
// fallback, with the error that caused it.
func (s *Store) FellBack() (bool, error) {
	return s.fellBack, s.fallbackErr
}

// EndSession drops everything held in a session namespace.
func (s *Store) EndSession(sessionID string) {
	s.session.DropNamespace(sessionID)
}

// SweepSessions drops session namespaces idle beyond the session TTL.
func (s *Store) SweepSessions(ctx context.Context) int {
	removed := s.session.SweepExpired(ctx)
	if removed > 0 {
		log.Ctx(ctx).Info().Int("removed", removed).Msg("Expired storage sessions swept")
	}
	return removed
}
