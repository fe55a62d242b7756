package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	SessionSweepJob   = "storage-session-sweep"
	ThemePoolEvictJob = "theme-pool-evict"
	RateLimitSweepJob = "rate-limit-sweep"

	// Pool eviction and limiter sweeps are cheap; run them every five minutes.
	housekeepingCron = "*/5 * * * *"
	throttleIdle     = 10 * time.Minute
)

type SessionSweeper interface {
	SweepSessions(ctx context.Context) int
}

type PoolEvicter interface {
	Evict(ctx context.Context) int
}

type LoginSweeper interface {
	Sweep(ctx context.Context) int
}

type ThrottleSweeper interface {
	Sweep(ctx context.Context, idle time.Duration) int
}

// Maintenance lists the housekeeping targets. Nil fields are skipped.
type Maintenance struct {
	SweepSchedule string
	Sessions      SessionSweeper
	Pool          PoolEvicter
	Logins        LoginSweeper
	Throttles     []ThrottleSweeper
}

// RegisterMaintenance adds the housekeeping jobs to s.
func (s *Service) RegisterMaintenance(m Maintenance) error {
	if m.Sessions != nil {
		if _, err := s.AddJob(SessionSweepJob, m.SweepSchedule, func(ctx context.Context) {
			if n := m.Sessions.SweepSessions(ctx); n > 0 {
				log.Ctx(ctx).Info().Int("sessions", n).Msg("Expired session storage swept")
			}
		}); err != nil {
			return err
		}
	}

	if m.Pool != nil {
		if _, err := s.AddJob(ThemePoolEvictJob, housekeepingCron, func(ctx context.Context) {
			if n := m.Pool.Evict(ctx); n > 0 {
				log.Ctx(ctx).Info().Int("clients", n).Msg("Idle theme clients evicted")
			}
		}); err != nil {
			return err
		}
	}

	if m.Logins != nil || len(m.Throttles) > 0 {
		if _, err := s.AddJob(RateLimitSweepJob, housekeepingCron, func(ctx context.Context) {
			if m.Logins != nil {
				m.Logins.Sweep(ctx)
			}
			for _, th := range m.Throttles {
				th.Sweep(ctx, throttleIdle)
			}
		}); err != nil {
			return err
		}
	}
	return nil
}
