// Package buildspec defines the immutable options record describing one
// build and composes the packaging tool's command-line arguments from it.
// Composition is pure; everything that touches the filesystem or a process
// lives elsewhere.
package buildspec
