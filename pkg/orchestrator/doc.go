// Package orchestrator wires the screen lookup → value binding → decorator →
// renderer pipeline behind a single Generate call, so the HTTP server, the
// CLI and library callers share one entry point.
package orchestrator
