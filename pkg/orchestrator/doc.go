// Package orchestrator wires the field parser, the actions parser, the mailer
// resolver and the block assembler into a single entry point, and lays the
// converted blocks out on a page.
package orchestrator
