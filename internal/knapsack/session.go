package knapsack

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/san-kum/knapviz/internal/grid"
)

// SessionConfig wires a Session to its surface.
type SessionConfig struct {
	// Container receives every new grid.
	Container grid.Container
	// Stylesheet is passed to grid.New.
	Stylesheet  string
	GridOptions []grid.Option
	Pacer       Pacer
	Highlight   bool
	// OnGrid is called with every new grid before it is attached.
	OnGrid func(*grid.Grid)
	// OnStatus receives the description of every computed entry.
	OnStatus func(string)
	// OnFinish is called once per started run with its terminal error
	// (nil when Done, context.Canceled when superseded). It must not call
	// Start or Prepare.
	OnFinish func(*Animator, error)
	Logger   *slog.Logger
}

// Session owns the single live grid and the single in-flight run of one
// surface.
type Session struct {
	cfg        SessionConfig
	controller *Controller
	logger     *slog.Logger

	startMu sync.Mutex

	mu   sync.Mutex
	grid *grid.Grid
	anim *Animator
	done chan struct{}
}

func NewSession(cfg SessionConfig) *Session {
	if cfg.Pacer == nil {
		cfg.Pacer = NewDelay(0)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		cfg:        cfg,
		controller: NewController(context.Background()),
		logger:     logger,
	}
}

// Prepare cancels the previous run, waits for it to stop, then replaces the
// grid and builds a new animator without running it. Invalid input fails
// before any grid is created.
func (s *Session) Prepare(capacity int, weights, prices []int) (*Animator, *Token, error) {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	return s.prepare(capacity, weights, prices)
}

func (s *Session) prepare(capacity int, weights, prices []int) (*Animator, *Token, error) {
	token := s.controller.Reset()
	// Cancel takes the animator lock, so no step of prev lands after it.
	if prev := s.Current(); prev != nil {
		prev.Cancel()
	}
	s.waitPrevious()

	if err := Validate(capacity, weights, prices); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grid != nil {
		s.grid.Detach()
	}
	opts := append([]grid.Option{grid.WithLogger(s.logger)}, s.cfg.GridOptions...)
	g, err := grid.New(len(weights)+2, capacity+2, s.cfg.Stylesheet, opts...)
	if err != nil {
		return nil, nil, err
	}
	if s.cfg.OnGrid != nil {
		s.cfg.OnGrid(g)
	}
	if err := g.Attach(s.cfg.Container); err != nil {
		return nil, nil, err
	}

	a, err := New(g, capacity, weights, prices,
		WithHighlight(s.cfg.Highlight),
		WithStatus(s.cfg.OnStatus),
		WithLogger(s.logger),
	)
	if err != nil {
		g.Detach()
		return nil, nil, err
	}
	s.grid, s.anim = g, a
	s.logger.Info("run prepared", "run", token.ID(), "capacity", capacity, "items", len(weights))
	return a, token, nil
}

// Start prepares a run and drives it in the background.
func (s *Session) Start(capacity int, weights, prices []int) (*Animator, error) {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	a, token, err := s.prepare(capacity, weights, prices)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.done = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		err := a.Run(token.Context(), s.cfg.Pacer)
		switch {
		case err == nil:
			answer, _ := a.Answer()
			s.logger.Info("run finished", "run", token.ID(), "answer", answer)
		case errors.Is(err, context.Canceled):
			s.logger.Info("run cancelled", "run", token.ID())
		default:
			s.logger.Error("run failed", "run", token.ID(), "err", err)
		}
		if s.cfg.OnFinish != nil {
			s.cfg.OnFinish(a, err)
		}
	}()
	return a, nil
}

func (s *Session) waitPrevious() {
	s.mu.Lock()
	done := s.done
	s.done = nil
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Wait blocks until the in-flight run, if any, has stopped.
func (s *Session) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Cancel aborts the in-flight run.
func (s *Session) Cancel() {
	s.controller.Cancel()
	s.mu.Lock()
	a := s.anim
	s.mu.Unlock()
	if a != nil {
		a.Cancel()
	}
}

// Close cancels the run, waits for it and detaches the grid.
func (s *Session) Close() {
	s.Cancel()
	s.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grid != nil {
		s.grid.Detach()
	}
}

func (s *Session) Grid() *grid.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid
}

func (s *Session) Current() *Animator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anim
}

func (s *Session) Controller() *Controller {
	return s.controller
}
