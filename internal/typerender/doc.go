// Package typerender turns internal/syntax type expressions into the two
// string forms the rest of the analyzer needs: a canonical form used to
// key an ImplicitKey of kind "type", and a strict form used for the
// module interface's returnType description. Neither form requires a full
// type system — the analyzer never checks assignability or subtyping, it
// only needs a stable textual identity for a type expression.
package typerender
