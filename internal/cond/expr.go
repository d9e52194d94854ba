package cond

// ExprKind tags the shape of a conditional-compilation expression node.
type ExprKind uint8

const (
	ExprBoolLiteral ExprKind = iota
	ExprIdent                // identifier with no arguments, e.g. "debug"
	ExprCall                 // identifier with arguments, e.g. "os(iOS)" — always Unknown
	ExprNot                  // !operand
	ExprAnd                  // left && right
	ExprOr                   // left || right
	ExprParen                // single-element parenthesised tuple, e.g. "(debug)"
)

// Expr is a node of a conditional-compilation boolean expression. Only the
// fields relevant to Kind are populated; this mirrors the host's own
// condition syntax closely enough for the syntax builder to translate
// directly without an intermediate pass.
type Expr struct {
	Kind      ExprKind
	BoolValue bool   // ExprBoolLiteral
	Name      string // ExprIdent, ExprCall
	Operand   *Expr  // ExprNot, ExprParen
	Left      *Expr  // ExprAnd, ExprOr
	Right     *Expr  // ExprAnd, ExprOr
}

// Bool builds a boolean literal expression.
func Bool(v bool) Expr { return Expr{Kind: ExprBoolLiteral, BoolValue: v} }

// Ident builds a bare identifier expression.
func Ident(name string) Expr { return Expr{Kind: ExprIdent, Name: name} }

// Call builds an identifier-with-arguments expression; the arguments
// themselves are never inspected since any such call evaluates to Unknown.
func Call(name string) Expr { return Expr{Kind: ExprCall, Name: name} }

// Not builds a negation of operand.
func Not(operand Expr) Expr { return Expr{Kind: ExprNot, Operand: &operand} }

// And builds a logical conjunction.
func And(left, right Expr) Expr { return Expr{Kind: ExprAnd, Left: &left, Right: &right} }

// Or builds a logical disjunction.
func Or(left, right Expr) Expr { return Expr{Kind: ExprOr, Left: &left, Right: &right} }

// Paren builds a single-element parenthesised-tuple wrapper around inner.
func Paren(inner Expr) Expr { return Expr{Kind: ExprParen, Operand: &inner} }
