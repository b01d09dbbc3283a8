package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"pybundle/internal/engine"
)

const timeRounding = 100 * time.Millisecond

// streamSink writes every transcript line to the terminal as it arrives and
// hands the terminal result back to the command.
type streamSink struct {
	mu  sync.Mutex
	out io.Writer

	res  engine.Result
	done chan struct{}
}

func newStreamSink(out io.Writer) *streamSink {
	return &streamSink{out: out, done: make(chan struct{})}
}

func (s *streamSink) Line(line string) {
	s.mu.Lock()
	fmt.Fprintln(s.out, line)
	s.mu.Unlock()
}

func (s *streamSink) Done(result engine.Result) {
	s.mu.Lock()
	s.res = result
	s.mu.Unlock()
	close(s.done)
}

// wait blocks until the session delivered its result through Done.
func (s *streamSink) wait() engine.Result {
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.res
}

func printResult(out io.Writer, result engine.Result, colorize bool) {
	fmt.Fprintln(out)
	switch result.Outcome {
	case engine.OutcomeSucceeded:
		fmt.Fprintln(out, renderStatusLine("Build", statusOK, fmt.Sprintf("finished in %s", result.Duration.Round(timeRounding)), colorize))
	case engine.OutcomeCancelled:
		fmt.Fprintln(out, renderStatusLine("Build", statusWarn, "cancelled", colorize))
	default:
		fmt.Fprintln(out, renderStatusLine("Build", statusError, fmt.Sprintf("failed with exit code %d", result.ExitCode), colorize))
		if d := result.Diagnostic; d != nil {
			fmt.Fprintln(out, renderStatusLine("Cause", statusInfo, d.Message, colorize))
			if d.Remedy != "" {
				fmt.Fprintln(out, renderStatusLine("Suggestion", statusInfo, d.Remedy, colorize))
			}
		}
	}
}
