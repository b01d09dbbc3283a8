package pyinstaller

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"
)

// Spawn failures. The engine maps these onto terminal diagnostics; none of
// them is ever retried automatically.
var (
	// ErrToolNotFound means the interpreter executable could not be located.
	ErrToolNotFound = errors.New("packaging tool not found")
	// ErrPermissionDenied means the OS refused to start the interpreter.
	ErrPermissionDenied = errors.New("packaging tool permission denied")
	// ErrSpawnFailed covers every other OS-level launch failure.
	ErrSpawnFailed = errors.New("packaging tool spawn failed")
	// ErrRunFailed means the process started but its output or exit status
	// could not be collected.
	ErrRunFailed = errors.New("packaging tool run failed")
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, dir string, onLine func(string)) (int, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithKillGrace overrides the delay between the polite termination of a
// cancelled build and the forced kill of its process tree.
func WithKillGrace(grace time.Duration) Option {
	return func(c *Client) {
		if grace > 0 {
			c.grace = grace
		}
	}
}

// Client launches the packaging tool as `<python> -m <module>` and streams
// its combined output line by line.
type Client struct {
	python string
	module string
	grace  time.Duration
	exec   Executor
}

const defaultKillGrace = 10 * time.Second

// New constructs a packaging tool client.
func New(python, module string, opts ...Option) (*Client, error) {
	python = strings.TrimSpace(python)
	if python == "" {
		return nil, errors.New("python interpreter required")
	}
	module = strings.TrimSpace(module)
	if module == "" {
		return nil, errors.New("packaging module required")
	}
	client := &Client{python: python, module: module, grace: defaultKillGrace}
	for _, opt := range opts {
		opt(client)
	}
	if client.exec == nil {
		client.exec = commandExecutor{grace: client.grace}
	}
	return client, nil
}

// Invocation returns the full command line for the given arguments, used to
// echo the command into the build transcript before launch.
func (c *Client) Invocation(args []string) []string {
	full := make([]string, 0, len(args)+3)
	full = append(full, c.python, "-m", c.module)
	return append(full, args...)
}

// Build runs the packaging tool in workDir. Standard error is folded into
// standard output and every line reaches onLine in pipe order. The returned
// exit code is only meaningful when err is nil; a context cancellation
// surfaces as the context's error after the process tree is gone.
func (c *Client) Build(ctx context.Context, args []string, workDir string, onLine func(string)) (int, error) {
	full := make([]string, 0, len(args)+2)
	full = append(full, "-m", c.module)
	full = append(full, args...)

	code, err := c.exec.Run(ctx, c.python, full, workDir, onLine)
	if err != nil {
		return code, c.wrapSpawnError(err)
	}
	return code, nil
}

func (c *Client) wrapSpawnError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, ErrRunFailed):
		return err
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: interpreter %q: %w", ErrToolNotFound, c.python, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: interpreter %q: %w", ErrPermissionDenied, c.python, err)
	default:
		return fmt.Errorf("%w: %w", ErrSpawnFailed, err)
	}
}
