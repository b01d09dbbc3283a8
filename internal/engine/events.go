package engine

import (
	"sync"
	"time"

	"pybundle/internal/diagnose"
)

// Outcome is the terminal verdict of one session.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// Result is the single terminal event of a session. Diagnostic is nil for
// succeeded and cancelled builds.
type Result struct {
	SessionID  string
	Outcome    Outcome
	ExitCode   int // -1 when no process produced an exit status
	Diagnostic *diagnose.Diagnostic
	Duration   time.Duration
}

// Sink is the UI boundary. Line receives every transcript line in pipe
// order; Done fires exactly once after the last line. Implementations may be
// slow: the engine buffers between the pipe reader and the sink so a laggy
// consumer never stalls the subprocess.
type Sink interface {
	Line(line string)
	Done(result Result)
}

type nopSink struct{}

func (nopSink) Line(string) {}

func (nopSink) Done(Result) {}

// lineForwarder decouples the pipe reader from the sink. Build output is
// line-rate, so the queue stays small in practice; it is unbounded rather
// than lossy because dropped lines would corrupt the transcript the user
// sees.
type lineForwarder struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []string
	closed bool
	done   chan struct{}
	sink   Sink
}

func newLineForwarder(sink Sink) *lineForwarder {
	f := &lineForwarder{sink: sink, done: make(chan struct{})}
	f.cond = sync.NewCond(&f.mu)
	go f.loop()
	return f
}

func (f *lineForwarder) Push(line string) {
	f.mu.Lock()
	f.queue = append(f.queue, line)
	f.mu.Unlock()
	f.cond.Signal()
}

// Close stops intake and lets the loop drain what is queued.
func (f *lineForwarder) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cond.Signal()
}

// Wait blocks until every pushed line has reached the sink.
func (f *lineForwarder) Wait() {
	<-f.done
}

func (f *lineForwarder) loop() {
	for {
		f.mu.Lock()
		for len(f.queue) == 0 && !f.closed {
			f.cond.Wait()
		}
		batch := f.queue
		f.queue = nil
		closed := f.closed
		f.mu.Unlock()

		for _, line := range batch {
			f.sink.Line(line)
		}

		if closed && len(batch) == 0 {
			close(f.done)
			return
		}
		if closed {
			// One more pass in case lines raced in before Close.
			f.mu.Lock()
			empty := len(f.queue) == 0
			f.mu.Unlock()
			if empty {
				close(f.done)
				return
			}
		}
	}
}
