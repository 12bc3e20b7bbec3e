package chattl

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a minimum spacing between successful provider calls.
// The RequestQueue waits on it before every dispatch and marks it after
// every success, so the spacing also holds across worker restarts.
type Pacer struct {
	spacing     time.Duration
	lastSuccess time.Time
	now         func() time.Time
	mu          sync.Mutex
}

// NewPacer creates a pacer with the given spacing. A zero spacing never waits.
func NewPacer(spacing time.Duration) *Pacer {
	if spacing < 0 {
		spacing = 0
	}
	return &Pacer{
		spacing: spacing,
		now:     time.Now,
	}
}

// Wait blocks until the spacing since the last success has elapsed or ctx is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	return sleepCtx(ctx, p.Remaining())
}

// Remaining returns how long a dispatch would have to wait.
func (p *Pacer) Remaining() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastSuccess.IsZero() {
		return 0
	}
	wait := p.spacing - p.now().Sub(p.lastSuccess)
	if wait < 0 {
		return 0
	}
	return wait
}

// Mark records a successful completion.
func (p *Pacer) Mark() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSuccess = p.now()
}
