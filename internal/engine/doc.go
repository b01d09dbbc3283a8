// Package engine coordinates one build run end to end: it validates the
// options snapshot, composes the packaging tool's arguments, drives the
// subprocess, streams every output line to the UI boundary in pipe order,
// and classifies the complete transcript after exit. A single engine allows
// one running session at a time, with a lock file extending the guard across
// processes.
package engine
