// Package notify queues toast messages for a client until the next page or
// htmx response delivers them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/storage"
)

const (
	QueueKey    = "toasts"
	DefaultLife = 3000 * time.Millisecond
	maxQueued   = 20
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

type Options struct {
	Summary string
	Detail  string
	// Life is how long the toast stays visible. Zero means DefaultLife.
	Life   time.Duration
	Sticky bool
}

// Message is the queued form of a toast, shaped for the client toast region.
type Message struct {
	Severity Severity `json:"severity"`
	Summary  string   `json:"summary"`
	Detail   string   `json:"detail,omitempty"`
	Life     int64    `json:"life"`
	Sticky   bool     `json:"sticky"`
}

// Service queues messages in the client's session scope.
type Service struct {
	store *storage.Service
}

func New(store *storage.Service) *Service {
	return &Service{store: store}
}

func (s *Service) Success(ctx context.Context, opts Options) error {
	return s.add(ctx, SeveritySuccess, opts)
}

func (s *Service) Info(ctx context.Context, opts Options) error {
	return s.add(ctx, SeverityInfo, opts)
}

func (s *Service) Warn(ctx context.Context, opts Options) error {
	return s.add(ctx, SeverityWarn, opts)
}

func (s *Service) Error(ctx context.Context, opts Options) error {
	return s.add(ctx, SeverityError, opts)
}

func (s *Service) add(ctx context.Context, severity Severity, opts Options) error {
	message := NewMessage(severity, opts)
	err := s.store.Update(ctx, QueueKey, storage.Session, func(current string, ok bool) (string, error) {
		queued := decodeQueue(ctx, current, ok)
		queued = append(queued, message)
		if len(queued) > maxQueued {
			queued = queued[len(queued)-maxQueued:]
		}
		encoded, err := json.Marshal(queued)
		return string(encoded), err
	})
	if err != nil {
		return fmt.Errorf("queue toast: %w", err)
	}
	return nil
}

// decodeQueue drops a queue that no longer decodes rather than failing every
// later toast.
func decodeQueue(ctx context.Context, raw string, ok bool) []Message {
	if !ok {
		return nil
	}
	var queued []Message
	if err := json.Unmarshal([]byte(raw), &queued); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Discarding undecodable toast queue")
		return nil
	}
	return queued
}

func NewMessage(severity Severity, opts Options) Message {
	life := opts.Life
	if life <= 0 {
		life = DefaultLife
	}
	return Message{
		Severity: severity,
		Summary:  opts.Summary,
		Detail:   opts.Detail,
		Life:     life.Milliseconds(),
		Sticky:   opts.Sticky,
	}
}

// Drain returns the queued messages in order and empties the queue.
func (s *Service) Drain(ctx context.Context) ([]Message, error) {
	var queued []Message
	err := s.store.Update(ctx, QueueKey, storage.Session, func(current string, ok bool) (string, error) {
		queued = decodeQueue(ctx, current, ok)
		return "", nil
	})
	if err != nil {
		return nil, fmt.Errorf("drain toasts: %w", err)
	}
	return queued, nil
}

// Clear discards every queued message.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.Remove(ctx, QueueKey, storage.Session)
}

// Trigger drains the queue into an HX-Trigger showToast event on w. It must
// be called before the response header is written.
func (s *Service) Trigger(ctx context.Context, w http.ResponseWriter) {
	messages, err := s.Drain(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to drain toasts")
		return
	}
	if len(messages) == 0 {
		return
	}
	SetTrigger(w, "showToast", messages)
}

// SetTrigger merges event into the response's HX-Trigger header, preserving
// events set earlier in the request.
func SetTrigger(w http.ResponseWriter, event string, detail any) {
	events := map[string]any{}
	if existing := w.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			events = map[string]any{existing: nil}
		}
	}
	events[event] = detail
	encoded, err := json.Marshal(events)
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(encoded))
}
