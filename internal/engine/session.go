package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"pybundle/internal/buildspec"
	"pybundle/internal/diagnose"
)

// State is the lifecycle of one build session.
type State string

const (
	StateIdle        State = "idle"
	StateComposing   State = "composing"
	StateRunning     State = "running"
	StateClassifying State = "classifying"
	StateSucceeded   State = "succeeded"
	StateFailed      State = "failed"
	StateCancelled   State = "cancelled"
)

// Terminal reports whether no further transitions are possible. A new build
// always requires a new session.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}

// Session is one end-to-end attempt to build one executable from one options
// snapshot. The engine owns all mutation; callers observe through accessors
// which copy.
type Session struct {
	id      string
	options buildspec.Options

	mu              sync.Mutex
	state           State
	lines           []string
	exitCode        int
	exitSet         bool
	advisory        *diagnose.Diagnostic
	cancelRequested bool
	cancel          context.CancelFunc
	startedAt       time.Time
	finishedAt      time.Time

	done chan struct{}
}

func newSession(opts buildspec.Options) *Session {
	return &Session{
		id:        uuid.NewString(),
		options:   opts,
		state:     StateIdle,
		exitCode:  -1,
		startedAt: time.Now(),
		done:      make(chan struct{}),
	}
}

// ID returns the opaque session handle.
func (s *Session) ID() string { return s.id }

// Options returns the immutable options snapshot.
func (s *Session) Options() buildspec.Options { return s.options }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Lines returns a copy of the captured transcript so far.
func (s *Session) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]string, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// ExitCode returns the process exit code once the process has terminated.
func (s *Session) ExitCode() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitCode, s.exitSet
}

// Advisory returns the diagnostic attached to a failed session, if any.
func (s *Session) Advisory() *diagnose.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advisory
}

// Done is closed when the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} { return s.done }

// Result snapshots the terminal outcome. Valid only after Done is closed.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Result{
		SessionID:  s.id,
		Outcome:    outcomeForState(s.state),
		ExitCode:   s.exitCode,
		Diagnostic: s.advisory,
		Duration:   s.finishedAt.Sub(s.startedAt),
	}
}

func outcomeForState(state State) Outcome {
	switch state {
	case StateSucceeded:
		return OutcomeSucceeded
	case StateCancelled:
		return OutcomeCancelled
	default:
		return OutcomeFailed
	}
}

func (s *Session) transition(next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

func (s *Session) appendLine(line string) {
	s.mu.Lock()
	s.lines = append(s.lines, line)
	s.mu.Unlock()
}

func (s *Session) setExitCode(code int) {
	s.mu.Lock()
	s.exitCode = code
	s.exitSet = true
	s.mu.Unlock()
}

func (s *Session) requestCancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return false
	}
	s.cancelRequested = true
	if s.cancel != nil {
		s.cancel()
	}
	return true
}

func (s *Session) cancelWasRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelRequested
}

func (s *Session) bindCancel(cancel context.CancelFunc) {
	s.mu.Lock()
	// A cancel that raced in before the process spawned takes effect now.
	requested := s.cancelRequested
	s.cancel = cancel
	s.mu.Unlock()
	if requested {
		cancel()
	}
}

// finish moves the session to its terminal state exactly once. A requested
// cancel always wins over whatever the process did afterwards.
func (s *Session) finish(state State, advisory *diagnose.Diagnostic) {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	if s.cancelRequested {
		state = StateCancelled
		advisory = nil
	}
	s.state = state
	s.advisory = advisory
	s.finishedAt = time.Now()
	s.mu.Unlock()
	close(s.done)
}
