package pyinstaller

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// killer terminates a spawned process tree, not just the top process: the
// packaging tool forks sub-tools and orphaning them would leave work dirs
// locked.
type killer interface {
	// Terminate asks the tree to stop.
	Terminate()
	// Kill forcefully ends the tree.
	Kill()
	// Close releases OS handles held for tree control.
	Close()
}

type commandExecutor struct {
	grace time.Duration
}

func (e commandExecutor) Run(ctx context.Context, binary string, args []string, dir string, onLine func(string)) (int, error) {
	cmd := exec.Command(binary, args...) //nolint:gosec
	cmd.Dir = dir
	setSysProcAttr(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, fmt.Errorf("stdout pipe: %w", err)
	}
	// Error lines must interleave with output lines as the OS pipe observes
	// them, so both streams share one pipe.
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("start %s: %w", binary, err)
	}

	tree := newProcessTree(cmd)

	done := make(chan struct{})
	go func() {
		select {
		case <-done:
		case <-ctx.Done():
			tree.Terminate()
			grace := e.grace
			if grace <= 0 {
				grace = defaultKillGrace
			}
			select {
			case <-done:
			case <-time.After(grace):
				tree.Kill()
			}
		}
	}()

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if onLine != nil {
			onLine(scanner.Text())
		}
	}
	scanErr := scanner.Err()

	waitErr := cmd.Wait()
	close(done)
	tree.Close()

	if ctx.Err() != nil {
		return exitCode(cmd, waitErr), ctx.Err()
	}
	if scanErr != nil {
		return exitCode(cmd, waitErr), fmt.Errorf("%w: read output: %w", ErrRunFailed, scanErr)
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return -1, fmt.Errorf("%w: wait command: %w", ErrRunFailed, waitErr)
	}
	return exitCode(cmd, waitErr), nil
}

func exitCode(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
