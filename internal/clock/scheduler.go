package clock

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the re-evaluation cadence of the countdown.
const DefaultInterval = time.Second

// TickFunc runs one evaluation at now. Returning true stops the scheduler:
// the caller has reached a terminal state and needs no further ticks.
type TickFunc func(now time.Time) (done bool)

// tickSource starts a ticker and returns its channel and a stop function.
type tickSource func(d time.Duration) (<-chan time.Time, func())

func realTicks(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Scheduler invokes a TickFunc on a fixed cadence. It owns cancellation:
// it stops when the TickFunc reports done or the context is canceled.
type Scheduler struct {
	interval time.Duration
	clock    Clock
	tick     TickFunc
	log      *zap.Logger
	source   tickSource
}

// NewScheduler creates a Scheduler. A non-positive interval uses
// DefaultInterval, a nil clock uses Real and a nil logger discards output.
func NewScheduler(interval time.Duration, clk Clock, tick TickFunc, log *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clk == nil {
		clk = Real{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		interval: interval,
		clock:    clk,
		tick:     tick,
		log:      log,
		source:   realTicks,
	}
}

// Run evaluates once immediately and then once per interval. It blocks
// until the TickFunc reports done (returning nil) or ctx is canceled
// (returning ctx.Err()).
func (s *Scheduler) Run(ctx context.Context) error {
	if s.tick(s.clock.Now()) {
		s.log.Debug("scheduler finished on first tick")
		return nil
	}

	ticks, stop := s.source(s.interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticks:
			now := s.clock.Now()
			if s.tick(now) {
				s.log.Debug("scheduler reached terminal state", zap.Time("now", now))
				return nil
			}
		}
	}
}
