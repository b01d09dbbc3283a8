// Package diagnose turns a complete build transcript and exit status into at
// most one structured advisory. Classification runs exactly once per build,
// after the process has exited, so multi-line context like stack traces is
// always fully visible and partial matches cannot produce false positives.
package diagnose
