package knapsack

import (
	"context"
	"sync/atomic"
	"time"
)

// Pacer suspends a run between steps.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Delay is a Pacer whose duration can be changed while a run is in flight.
// A duration <= 0 does not suspend.
type Delay struct {
	d atomic.Int64
}

func NewDelay(d time.Duration) *Delay {
	p := &Delay{}
	p.Set(d)
	return p
}

func (p *Delay) Set(d time.Duration) {
	p.d.Store(int64(d))
}

func (p *Delay) Get() time.Duration {
	return time.Duration(p.d.Load())
}

func (p *Delay) Wait(ctx context.Context) error {
	d := p.Get()
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
