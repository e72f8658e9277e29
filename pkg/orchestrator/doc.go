// Package orchestrator wires the field registry, persistence API, submission
// coordinator and output renderers behind a single entry point so commands
// and servers do not repeat the same assembly.
package orchestrator
