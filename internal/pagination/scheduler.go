package pagination

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gompdf/pageflow/internal/doctree"
)

// DefaultDelay is how long the scheduler waits for edits to settle.
const DefaultDelay = 50 * time.Millisecond

// SchedulerOptions configures a Scheduler.
type SchedulerOptions struct {
	Delay time.Duration
	// Lock is the owner's lock; it is held while a pass runs so passes never
	// interleave with edits.
	Lock sync.Locker
	// Document returns the document to reflow. It is called with Lock held.
	Document func() *doctree.Document
	// OnPass is called after every pass with Lock released.
	OnPass func(Result)
	Logger *slog.Logger
}

// Scheduler drives an Engine from edit notifications. Each Notify supersedes
// the pending timer; when the timer fires one pass runs, and a pass that
// changed the document re-arms the timer, so the document converges one
// repair at a time.
type Scheduler struct {
	engine  *Engine
	options SchedulerOptions
	logger  *slog.Logger

	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	closed bool

	// running serializes passes.
	running sync.Mutex
}

// NewScheduler creates a scheduler for engine.
func NewScheduler(engine *Engine, options SchedulerOptions) *Scheduler {
	if options.Delay <= 0 {
		options.Delay = DefaultDelay
	}
	if options.Lock == nil {
		options.Lock = &sync.Mutex{}
	}
	logger := options.Logger
	if logger == nil {
		logger = engine.logger
	}
	return &Scheduler{engine: engine, options: options, logger: logger}
}

// Notify reports a document change and (re)arms the timer.
func (s *Scheduler) Notify() {
	s.arm(0)
}

func (s *Scheduler) arm(chain int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.options.Delay, func() { s.fire(gen, chain) })
}

// Pending reports whether a pass is scheduled.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func (s *Scheduler) fire(gen uint64, chain int) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	s.running.Lock()
	defer s.running.Unlock()
	res, err := s.pass()
	if err != nil || !res.Mutated() {
		return
	}
	if chain+1 >= s.engine.options.MaxIterations {
		s.logger.Warn("reflow stopped before converging", "passes", chain+1)
		return
	}
	s.arm(chain + 1)
}

func (s *Scheduler) pass() (Result, error) {
	s.options.Lock.Lock()
	res, err := s.engine.Pass(s.options.Document())
	s.options.Lock.Unlock()
	if err != nil {
		s.logger.Debug("reflow pass failed", "error", err)
		return res, err
	}
	if s.options.OnPass != nil {
		s.options.OnPass(res)
	}
	return res, nil
}

// Flush cancels the pending timer and, if one was armed, runs passes
// synchronously until the document stops changing. It returns the number of
// passes run. The caller must not hold the owner's lock.
func (s *Scheduler) Flush() (int, error) {
	// Wait for an in-flight pass; it may re-arm the timer.
	s.running.Lock()
	defer s.running.Unlock()

	s.mu.Lock()
	pending := s.timer != nil
	s.stopLocked()
	s.mu.Unlock()
	if !pending {
		return 0, nil
	}

	for n := 1; ; n++ {
		res, err := s.pass()
		if err != nil {
			return n, err
		}
		if !res.Mutated() {
			return n, nil
		}
		if n >= s.engine.options.MaxIterations {
			return n, fmt.Errorf("%w after %d passes", ErrNotConverged, n)
		}
	}
}

// Close cancels the pending timer. Later notifications are ignored.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.closed = true
}

func (s *Scheduler) stopLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
