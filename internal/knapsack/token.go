package knapsack

import (
	"context"
	"sync"
)

// Token is the cancellation handle of one animation run.
type Token struct {
	id     uint64
	ctx    context.Context
	cancel context.CancelFunc
}

func (t *Token) ID() uint64 { return t.id }

func (t *Token) Context() context.Context { return t.ctx }

// Cancelled reports whether the run holding this token must stop.
func (t *Token) Cancelled() bool { return t.ctx.Err() != nil }

// Controller hands out tokens so that at most one run is live.
type Controller struct {
	parent context.Context

	mu      sync.Mutex
	current *Token
	nextID  uint64
}

func NewController(parent context.Context) *Controller {
	if parent == nil {
		parent = context.Background()
	}
	return &Controller{parent: parent}
}

// Reset cancels the current token and returns a fresh one.
func (c *Controller) Reset() *Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.cancel()
	}
	c.nextID++
	ctx, cancel := context.WithCancel(c.parent)
	c.current = &Token{id: c.nextID, ctx: ctx, cancel: cancel}
	return c.current
}

// Cancel aborts the current run without issuing a new token.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.cancel()
	}
}

func (c *Controller) Current() *Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Live reports whether id names the current, uncancelled token.
func (c *Controller) Live(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil && c.current.id == id && !c.current.Cancelled()
}
