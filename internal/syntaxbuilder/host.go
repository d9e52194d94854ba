// Package syntaxbuilder is C5 (§4.2, "Syntax construction"): the layer
// that turns a host-language AST into the internal/syntax (C4) trees
// internal/sema (C8) consumes. It is deliberately positioned the way the
// teacher's own internal/ast.Builder is positioned relative to its parser
// — a pure tree-construction API with one factory method per node shape,
// called incrementally while a front end walks host source — except here
// the "front end" is whatever produces a HostFile value, since this
// analyzer accepts its input as a structural description rather than
// bytes on disk. Build does not evaluate #if conditions: a HostFile's
// conditional blocks are copied into the tree with every branch intact,
// and internal/sema filters the branches against its cond.Config
// (internal/cond, C3) when it lowers the tree.
package syntaxbuilder

import (
	"implicits/internal/cond"
	"implicits/internal/syntax"
)

// HostFile is one source file's top-level content, described the way a
// parser would hand it to a tree builder: nested by value rather than by
// arena ID, so a front end can construct one without first knowing how
// internal/syntax indexes anything.
type HostFile struct {
	Path  string
	Items []HostTopLevelItem
}

// HostTopLevelItem is a single top-level entry: exactly one of Import,
// Decl, Extension, or IfConfig is populated, selected by Kind.
type HostTopLevelItem struct {
	Kind      syntax.TopLevelItemKind
	Import    *HostImport
	Decl      *HostDecl
	Extension *HostExtension
	IfConfig  *HostIfConfig[HostTopLevelItem]
}

// HostIfConfig is a #if/#elseif/#else chain over items of type I, mirroring
// syntax.IfConfigBlock's branch shape before arena allocation.
type HostIfConfig[I any] struct {
	Branches []HostIfConfigBranch[I]
}

// HostIfConfigBranch is one guarded (or, with a nil Condition, the final
// unconditional else) branch of a HostIfConfig.
type HostIfConfigBranch[I any] struct {
	Condition *cond.Expr
	Items     []I
}

type HostImport struct {
	ModulePath []string
	Exported   bool
}

type HostAttr struct {
	Name string
	Args []HostExpr
}

type HostParam struct {
	Label      string
	HasLabel   bool
	Name       string
	Type       HostTypeExpr
	HasDefault bool
}

type HostFunctionDecl struct {
	Affiliation syntax.Affiliation
	Parameters  []HostParam
	ReturnType  HostTypeExpr
	HasReturn   bool
	Body        []HostCodeBlockItem
	Modifiers   syntax.FunctionModifiers
}

type HostBinding struct {
	Pattern     syntax.PatternKind
	Name        string           // PatternIdentifier
	Elements    []HostBinding    // PatternTuple
	Type        HostTypeExpr
	HasType     bool
	Initializer HostExpr
	HasInit     bool
	Accessor    []HostCodeBlockItem
	HasAccessor bool
	Attrs       []HostAttr
}

type HostVariableDecl struct {
	Affiliation syntax.Affiliation
	Specifier   syntax.BindingSpecifier
	Bindings    []HostBinding
}

// HostDecl is one declaration, described like syntax.Decl: only the field
// matching Kind is populated.
type HostDecl struct {
	Kind       syntax.DeclKind
	Name       string
	Namespace  []string
	Attrs      []HostAttr
	Visibility syntax.Visibility

	Function *HostFunctionDecl // DeclFunction
	Variable *HostVariableDecl // DeclVariable

	MemberBlock []HostDecl // DeclType, DeclProtocol
	Members     []HostDecl // DeclMemberBlock
}

type HostExtension struct {
	Namespace     []string
	IsComplexType bool
	MemberBlock   []HostDecl
}

type HostCallArg struct {
	Label    string
	HasLabel bool
	Value    HostExpr
}

// HostExpr mirrors syntax.Expr: only the fields matching Kind are
// populated. Expr fields that themselves hold sub-expressions are pointers
// so a HostExpr literal can be built without pre-allocating children.
type HostExpr struct {
	Kind syntax.ExprKind

	Callee          *HostExpr // FunctionCall
	Args            []HostCallArg
	TrailingClosure *HostExpr

	ClosureParams []string // Closure
	ClosureBody   []HostCodeBlockItem

	MacroName string // MacroExpansion

	Name         string // DeclRef
	ArgLabels    []string
	HasArgLabels bool

	Base   *HostExpr // MemberAccessor
	Member string
}

type HostStmt struct {
	Kind        syntax.StmtKind
	Body        []HostCodeBlockItem
	CatchBodies [][]HostCodeBlockItem
}

// HostCodeBlockItem is one entry of a function or closure body. Exactly
// one of Decl, Stmt, Expr, or IfConfig is populated, selected by Kind.
type HostCodeBlockItem struct {
	Kind     syntax.CodeBlockItemKind
	Decl     *HostDecl
	Stmt     *HostStmt
	Expr     *HostExpr
	IfConfig *HostIfConfig[HostCodeBlockItem]
}

// HostTypeExpr mirrors syntax.TypeExpr; only fields relevant to Kind are
// populated.
type HostTypeExpr struct {
	Kind syntax.TypeExprKind

	Name        string
	GenericArgs []HostTypeExpr
	Base        *HostTypeExpr
	Elements    []HostTypeExpr
	KeyType     *HostTypeExpr
	ValueType   *HostTypeExpr
	Params      []HostTypeExpr
	Result      *HostTypeExpr
	Effects     syntax.FunctionTypeEffects

	SomeOrAnyIsAny bool
}

// Ident is a convenience constructor for the overwhelmingly common case: a
// bare named type with no generics, optionality, or composition.
func Ident(name string) HostTypeExpr {
	return HostTypeExpr{Kind: syntax.TypeIdentifier, Name: name}
}
