// Package diag defines the diagnostic model shared by every analysis phase
// (C1 in the component table): syntax-tree building, sema lowering,
// requirements-graph resolution, and interface/support-file emission.
//
// # Data model
//
//   - Severity — the error/warning/note taxonomy (severity.go).
//   - Code — a compact numeric identifier with a stable string form grouped
//     by the §7 error-kind taxonomy (codes.go).
//   - Diagnostic — severity, code, message, primary span, and optional notes.
//
// # Emitting diagnostics
//
// Phases depend on the Reporter interface rather than a concrete sink, so
// they can be driven by a Bag (production use), a NopReporter (when only the
// resolved requirement set is wanted), or a MultiReporter (fan-out, e.g. to
// both a Bag and a golden-test recorder). diag.ReportError / ReportWarning /
// ReportNote build a ReportBuilder that accumulates notes before Emit.
//
// Bag accumulates diagnostics up to a capacity, and supports a stable sort
// by (file, start, end, severity desc, code asc) so that two runs over the
// same inputs emit byte-identical diagnostic text (§8 Determinism).
package diag
