package syntax

import "implicits/internal/source"

// DeclKind discriminates the declaration shapes the builder recognizes.
type DeclKind uint8

const (
	DeclType DeclKind = iota
	DeclProtocol
	DeclFunction
	DeclVariable
	DeclMemberBlock
)

// Affiliation describes how a function or variable member relates to its
// enclosing type.
type Affiliation uint8

const (
	AffiliationFree Affiliation = iota
	AffiliationInstance
	AffiliationStatic
	AffiliationClass
)

// FunctionModifiers holds the subset of declaration modifiers that affect
// dispatch staticness.
type FunctionModifiers struct {
	Open     bool
	Override bool
	Final    bool
}

// Param is a single function parameter.
type Param struct {
	Syntax     Syntax
	Label      source.StringID // external/argument label; may equal Name
	Name       source.StringID // internal/second name, "_" for wildcard
	HasLabel   bool
	Type       TypeExprID
	HasDefault bool
	Span       source.Span
}

// FunctionDecl holds the function-specific parts of a Decl with Kind ==
// DeclFunction.
type FunctionDecl struct {
	Affiliation Affiliation
	Parameters  []ParamID
	ReturnType  TypeExprID
	HasReturn   bool
	Body        []CodeBlockItemID
	Modifiers   FunctionModifiers
}

// BindingSpecifier distinguishes a constant binding from a mutable one.
type BindingSpecifier uint8

const (
	SpecifierLet BindingSpecifier = iota
	SpecifierVar
)

// VariableDecl holds the variable-specific parts of a Decl with Kind ==
// DeclVariable.
type VariableDecl struct {
	Affiliation Affiliation
	Specifier   BindingSpecifier
	Bindings    []BindingID
}

// PatternKind discriminates the shape of a binding's left-hand pattern.
type PatternKind uint8

const (
	PatternWildcard PatternKind = iota
	PatternIdentifier
	PatternTuple
	PatternUnsupported
)

// Binding is a single `pattern = initializer` entry inside a variable
// declaration.
type Binding struct {
	Syntax      Syntax
	Pattern     PatternKind
	Name        source.StringID // PatternIdentifier
	Elements    []BindingID      // PatternTuple
	Type        TypeExprID
	HasType     bool
	Initializer ExprID
	HasInit     bool
	Accessor    []CodeBlockItemID
	HasAccessor bool
	Attrs       []AttrID
	Span        source.Span
}

// Decl is a single declaration node. Only the fields relevant to Kind are
// populated.
type Decl struct {
	Kind       DeclKind
	Syntax     Syntax
	Span       source.Span
	Name       source.StringID
	Namespace  []source.StringID
	Attrs      []AttrID
	Visibility Visibility

	Function *FunctionDecl // DeclFunction
	Variable *VariableDecl // DeclVariable

	// DeclType, DeclProtocol
	MemberBlock DeclID

	// DeclMemberBlock
	Members []DeclID
}

// Extension attaches a member block to an existing type by name.
type Extension struct {
	Syntax        Syntax
	Span          source.Span
	Namespace     []source.StringID
	IsComplexType bool
	MemberBlock   DeclID
}
