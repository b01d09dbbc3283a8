package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyRunning rejects Start while a session is not yet terminal.
	// The caller's session is left untouched; no new session is created.
	ErrAlreadyRunning = errors.New("build already running")
	// ErrNoActiveBuild is returned by Cancel when nothing is running.
	ErrNoActiveBuild = errors.New("no active build")
)

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later handling.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		return fmt.Errorf("%s: %w", detail, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "engine failure"
	}
	return strings.Join(parts, ": ")
}
