package themes

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/storage"
)

const (
	PreferenceKey        = "app_theme"
	PreferenceVersionKey = "app_theme_version"
	PreferenceVersion    = 1
)

// Service owns one client's active theme. The active theme is loaded from
// durable storage when the service is built and written back on every change.
// All methods are safe for concurrent use; concurrent SetTheme calls resolve
// last-write-wins.
type Service struct {
	registry *Registry
	store    *storage.Service
	marker   Marker

	mu          sync.RWMutex
	current     Theme
	subscribers map[int]chan Theme
	nextSubID   int
}

// NewService resolves the persisted theme id against the registry, falling
// back to the default theme, then applies and persists the result. A nil
// store disables persistence.
func NewService(ctx context.Context, registry *Registry, store *storage.Service, marker Marker) *Service {
	if marker == nil {
		marker = &DocumentMarker{}
	}
	s := &Service{
		registry:    registry,
		store:       store,
		marker:      marker,
		subscribers: make(map[int]chan Theme),
	}

	theme := s.preferred(ctx)
	s.mu.Lock()
	s.activate(ctx, theme)
	s.mu.Unlock()
	return s
}

// Reload re-reads the persisted id, for when storage was written without
// going through SetTheme. Subscribers and the marker see the result.
func (s *Service) Reload(ctx context.Context) Theme {
	theme := s.preferred(ctx)
	s.mu.Lock()
	s.activate(ctx, theme)
	s.mu.Unlock()
	return theme
}

// preferred resolves the persisted id against the registry, falling back to
// the default theme.
func (s *Service) preferred(ctx context.Context) Theme {
	theme := s.registry.Default()
	if s.store == nil {
		return theme
	}
	logger := log.Ctx(ctx)
	savedID, ok, err := storage.Get[string](ctx, s.store, PreferenceKey, storage.Durable)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("Failed to read theme preference, using default")
	case ok:
		if saved, found := s.registry.FindByID(savedID); found {
			theme = saved
		} else {
			logger.Warn().Str("theme_id", savedID).Msg("Persisted theme not in catalogue, using default")
		}
	}
	return theme
}

// SetTheme switches to the theme with the given id. Unknown ids change
// nothing, write nothing and return false.
func (s *Service) SetTheme(ctx context.Context, id string) bool {
	theme, ok := s.registry.FindByID(id)
	if !ok {
		log.Ctx(ctx).Warn().Str("theme_id", id).Msg("Ignoring unknown theme")
		return false
	}

	s.mu.Lock()
	s.activate(ctx, theme)
	s.mu.Unlock()
	return true
}

// activate requires s.mu held for writing.
func (s *Service) activate(ctx context.Context, theme Theme) {
	s.current = theme
	s.persist(ctx, theme.ID)
	s.marker.Apply(theme.ID)
	for _, ch := range s.subscribers {
		offer(ch, theme)
	}
}

// persist failures are logged and never returned; the next service build
// rederives state from whatever was stored.
func (s *Service) persist(ctx context.Context, id string) {
	if s.store == nil {
		return
	}
	logger := log.Ctx(ctx)
	if err := storage.Set(ctx, s.store, PreferenceKey, id, storage.Durable); err != nil {
		logger.Error().Err(err).Str("theme_id", id).Msg("Failed to persist theme preference")
		return
	}
	if err := storage.Set(ctx, s.store, PreferenceVersionKey, PreferenceVersion, storage.Durable); err != nil {
		logger.Error().Err(err).Msg("Failed to persist theme preference version")
	}
}

func (s *Service) Current() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Service) GetThemeByID(id string) (Theme, bool) {
	return s.registry.FindByID(id)
}

func (s *Service) IsDarkTheme() bool {
	return s.Current().IsDark
}

func (s *Service) Registry() *Registry {
	return s.registry
}

// Subscribe returns a channel that always holds the most recent theme. The
// current theme is delivered immediately. Slow readers miss intermediate
// values, never the latest one. Call cancel to unsubscribe; it closes the
// channel.
func (s *Service) Subscribe() (<-chan Theme, func()) {
	ch := make(chan Theme, 1)

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	ch <- s.current
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

func (s *Service) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

// offer replaces whatever is buffered in ch with theme.
func offer(ch chan Theme, theme Theme) {
	for {
		select {
		case ch <- theme:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
