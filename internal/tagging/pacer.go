package tagging

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// PacingInterval is the default pause between two requests of a batch run
const PacingInterval = 1100 * time.Millisecond

// Pacer is the admission policy applied after every batch request
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedPacer sleeps a fixed interval
type FixedPacer struct {
	interval time.Duration
	clock    clockwork.Clock
}

func NewFixedPacer(interval time.Duration, clock clockwork.Clock) *FixedPacer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &FixedPacer{interval: interval, clock: clock}
}

func (p *FixedPacer) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.clock.After(p.interval):
		return nil
	}
}

// RatePacer is a token bucket shared by every batch that uses it, so the
// ceiling holds across sessions too
type RatePacer struct {
	limiter *rate.Limiter
}

// NewRatePacer allows perMinute requests per minute with no burst
func NewRatePacer(perMinute int) *RatePacer {
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	// start empty: the request that precedes the first Wait has already gone out
	limiter.Allow()
	return &RatePacer{limiter: limiter}
}

func (p *RatePacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
