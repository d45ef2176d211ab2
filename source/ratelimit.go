package source

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttled wraps a Source and limits the rate of LoadIDs calls against the
// backend. All clones share the limiter, so the limit applies to the backend
// as a whole rather than per handle.
type Throttled struct {
	inner   Source
	limiter *rate.Limiter
}

// NewThrottled wraps inner with a request rate limit of r and burst b.
func NewThrottled(inner Source, r rate.Limit, b int) *Throttled {
	return &Throttled{inner: inner, limiter: rate.NewLimiter(r, b)}
}

// SupportsSelectiveLoad implements Source.
func (t *Throttled) SupportsSelectiveLoad() bool { return t.inner.SupportsSelectiveLoad() }

// LoadIDs implements Source. It blocks until the limiter grants a slot or
// the context is cancelled.
func (t *Throttled) LoadIDs(ctx context.Context, ids []uint64) (Stream, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.inner.LoadIDs(ctx, ids)
}

// Clone implements Source.
func (t *Throttled) Clone() Source {
	return &Throttled{inner: t.inner.Clone(), limiter: t.limiter}
}
