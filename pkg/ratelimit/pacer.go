// Package ratelimit paces outgoing folder API requests so that long runs do not
// hammer the upstream service. Pacing is off unless a positive rate is set.
package ratelimit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var (
	throttlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folder_api_throttles_total",
		Help: "Total number of requests delayed by the request pacer",
	})

	throttleSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "folder_api_throttle_seconds",
		Help:    "Time requests spent waiting on the request pacer",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
)

// Pacer gates requests through a token bucket. A nil *Pacer never blocks.
type Pacer struct {
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewPacer returns a pacer allowing requestsPerSecond with the given burst.
// It returns nil when requestsPerSecond <= 0.
func NewPacer(requestsPerSecond float64, burst int, logger zerolog.Logger) *Pacer {
	if requestsPerSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Pacer{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		logger:  logger,
	}
}

// Wait blocks until the next request may be sent or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}

	r := p.limiter.Reserve()
	if !r.OK() {
		return ctx.Err()
	}

	delay := r.Delay()
	if delay <= 0 {
		return nil
	}

	throttlesTotal.Inc()
	throttleSeconds.Observe(delay.Seconds())
	p.logger.Debug().Dur("delay", delay).Msg("Pacing request")

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Limit returns the configured rate, or rate.Inf for a nil pacer.
func (p *Pacer) Limit() rate.Limit {
	if p == nil {
		return rate.Inf
	}
	return p.limiter.Limit()
}
