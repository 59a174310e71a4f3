// Package worker holds background loops that run beside the HTTP server.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type BookingExpirer interface {
	ExpireStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// ExpirySweeper expires pending bookings whose checkout was never completed.
// The processor's session-expired webhook handles most of these; the sweeper
// catches deliveries that never arrived.
type ExpirySweeper struct {
	bookings BookingExpirer
	maxAge   time.Duration
	interval time.Duration
	log      *zap.Logger
}

func NewExpirySweeper(bookings BookingExpirer, maxAge, interval time.Duration, log *zap.Logger) *ExpirySweeper {
	return &ExpirySweeper{bookings: bookings, maxAge: maxAge, interval: interval, log: log}
}

// Run sweeps once immediately, then on every tick until the context ends.
func (s *ExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	n, err := s.bookings.ExpireStale(ctx, time.Now().Add(-s.maxAge))
	if err != nil {
		s.log.Error("expiry sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("expired stale bookings", zap.Int64("count", n))
	}
}
