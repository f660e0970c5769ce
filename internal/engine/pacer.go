// Package engine orchestrates the audit batch: document listing, resume
// checks, paced extraction calls, fact normalization, legal decisions and
// artifact persistence.
package engine

import (
	"context"
	"sync"
	"time"
)

// Pacer throttles external extraction calls: after every batchSize
// successful calls, the next call is held back for a cooldown period.
// The pause happens at the gate before a call, never between a call and
// the persistence of its result, so a kill during the cooldown cannot
// lose a paid payload. Failed calls do not count toward the batch; a
// burst of failures should not trigger an idle pause.
type Pacer struct {
	mu        sync.Mutex
	batchSize int
	cooldown  time.Duration
	calls     int
	pending   bool
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewPacer creates a pacer. A batchSize or cooldown of zero disables
// throttling.
func NewPacer(batchSize int, cooldown time.Duration) *Pacer {
	return &Pacer{
		batchSize: batchSize,
		cooldown:  cooldown,
		sleep:     sleepCtx,
	}
}

// Wait gates one external call. When the previous batch boundary armed a
// cooldown, Wait blocks for it; the internal lock is held through the
// sleep so concurrent workers queue up behind it and no new call starts
// during the cooldown.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.batchSize <= 0 || p.cooldown <= 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.pending {
		return nil
	}
	if err := p.sleep(ctx, p.cooldown); err != nil {
		return err
	}
	p.pending = false
	return nil
}

// Success records one successful external call and arms the cooldown at
// batch boundaries. Callers invoke it only after the call's result is
// safely persisted.
func (p *Pacer) Success() {
	if p.batchSize <= 0 || p.cooldown <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	if p.calls%p.batchSize == 0 {
		p.pending = true
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
