// Package syntax implements a language-agnostic syntax-tree model: the
// discriminated union of declarations, statements, expressions, types, and
// attributes that the syntax-tree builder (internal/syntaxbuilder) produces
// from a host AST, and that the sema-tree builder (internal/sema) lowers
// into implicit-relevant nodes.
//
// Node storage follows the arena-plus-typed-ID convention used across this
// module: every node kind lives in its own Arena, nodes reference each
// other by ID rather than by pointer, and a tree is immutable once built.
// The grammar here is much smaller than a full language frontend's: no
// generics, no pattern matching, just enough statement and expression
// shape to carry implicit-parameter information through a call graph.
package syntax
