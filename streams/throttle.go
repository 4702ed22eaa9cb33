package streams

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/gustavo-munhoz/reason/core"
)

// Throttled wraps a Stream, pacing Next calls to at most ratePerSecond
// instances per second. Useful when replaying a synthetic generator at a
// wall-clock rate instead of as fast as the CPU allows (e.g. a live demo
// or a rate-capped benchmark).
type Throttled struct {
	inner   Stream
	limiter *rate.Limiter
}

// NewThrottled wraps inner so that Next blocks to stay under
// ratePerSecond instances/second, with burst allowed up to burst.
func NewThrottled(inner Stream, ratePerSecond float64, burst int) *Throttled {
	return &Throttled{inner: inner, limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst)}
}

func (t *Throttled) Header() *core.Model { return t.inner.Header() }

func (t *Throttled) HasMore() bool { return t.inner.HasMore() }

func (t *Throttled) Next() (core.Instance, bool) {
	if !t.inner.HasMore() {
		return nil, false
	}
	_ = t.limiter.Wait(context.Background())
	return t.inner.Next()
}

func (t *Throttled) Restart() error { return t.inner.Restart() }
