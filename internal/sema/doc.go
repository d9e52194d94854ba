// Package sema lowers internal/syntax trees into the minimal semantic
// tree the requirements graph (internal/reqgraph) consumes: scope begin/
// end markers, implicit get/set nodes, resolved function calls, and the
// handful of other node kinds that carry implicit-parameter meaning.
// Everything else in a function body — arithmetic, control flow with no
// implicit-scope effect, ordinary statements — is dropped at this stage;
// the graph never needs to see it.
//
// Grounded on the teacher's internal/sema package for its Options/Result/
// Context threading shape (see builder.go), trimmed from a full type
// checker down to implicit-specific lowering: no type unification, no
// generic instantiation, no borrow checking.
package sema
