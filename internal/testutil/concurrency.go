package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/vk/inception/internal/inception"
)

// ConcurrencyProbe is a pass-through stage that records how many calls were
// running at the same time. Each call sleeps for the configured duration so
// that overlapping callers are observable.
type ConcurrencyProbe struct {
	sleep time.Duration

	mu      sync.Mutex
	running int
	peak    int
	calls   int
}

// NewConcurrencyProbe creates a probe whose calls each last sleep.
func NewConcurrencyProbe(sleep time.Duration) *ConcurrencyProbe {
	return &ConcurrencyProbe{sleep: sleep}
}

// Process implements inception.Stage.
func (p *ConcurrencyProbe) Process(ctx context.Context, f *inception.File) (*inception.File, error) {
	p.mu.Lock()
	p.running++
	p.calls++
	if p.running > p.peak {
		p.peak = p.running
	}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running--
		p.mu.Unlock()
	}()

	select {
	case <-time.After(p.sleep):
		return f, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Peak returns the highest number of overlapping calls observed.
func (p *ConcurrencyProbe) Peak() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.peak
}

// Calls returns the total number of calls.
func (p *ConcurrencyProbe) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
