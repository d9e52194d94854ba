package syntax

import "implicits/internal/source"

// ExprKind discriminates the expression shapes the sema-tree builder needs
// to recognize. "Other" collapses every expression form that carries no
// implicit-parameter relevance.
type ExprKind uint8

const (
	ExprFunctionCall ExprKind = iota
	ExprClosure
	ExprMacroExpansion
	ExprDeclRef
	ExprMemberAccessor
	ExprOther
)

// CallArg is a single argument in a function-call expression.
type CallArg struct {
	Label    source.StringID
	HasLabel bool
	Value    ExprID
	Span     source.Span
}

// Expr is a single expression node. Only the fields relevant to Kind are
// populated.
type Expr struct {
	Kind   ExprKind
	Syntax Syntax
	Span   source.Span

	// FunctionCall
	Callee          ExprID
	Args            []CallArg
	TrailingClosure ExprID

	// Closure
	ClosureParams []source.StringID
	ClosureBody   []CodeBlockItemID

	// MacroExpansion
	MacroName source.StringID

	// DeclRef
	Name         source.StringID
	ArgLabels    []source.StringID
	HasArgLabels bool

	// MemberAccessor
	Base   ExprID
	Member source.StringID
}
