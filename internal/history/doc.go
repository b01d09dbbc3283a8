// Package history persists finished build sessions in a local SQLite
// database so past outcomes and diagnostics can be inspected later.
package history
