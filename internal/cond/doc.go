// Package cond implements the three-valued conditional-compilation
// evaluator (§4.3): partial evaluation of boolean expression trees against a
// build configuration, plus the branch-filtering rule used by the syntax
// builder to prune inactive if/elseif/else chains before the rest of the
// analyzer ever sees them.
//
// There is no teacher package for this: the host compiler's own
// internal/directive is a test-scenario runner, not an ifdef evaluator. The
// expression shape and evaluator here are deliberately minimal — just
// enough to carry literals, identifiers, calls, negation, and the two
// logical connectives through from a host AST.
package cond
