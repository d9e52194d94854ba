package syntax

import "implicits/internal/source"

// TypeExprKind discriminates the shapes a type expression can take.
type TypeExprKind uint8

const (
	TypeIdentifier TypeExprKind = iota
	TypeGeneric
	TypeOptional
	TypeUnwrappedOptional
	TypeTuple
	TypeMember
	TypeArray
	TypeAttributed
	TypeClassRestriction
	TypeComposition
	TypeDictionary
	TypeFunction
	TypeMetatype
	TypeMissing
	TypeNamedOpaqueReturn
	TypePackElement
	TypePackExpansion
	TypeSomeOrAny
	TypeSuppressed
)

// ThrowsKind discriminates a function type's throwing effect.
type ThrowsKind uint8

const (
	ThrowsNone ThrowsKind = iota
	ThrowsRethrows
	ThrowsTyped
)

// FunctionTypeEffects holds the async/throws effects attached to a
// function type expression.
type FunctionTypeEffects struct {
	IsAsync    bool
	Throws     ThrowsKind
	ThrownType TypeExprID
}

// TypeExpr is a single node in a type expression tree. Only the fields
// relevant to Kind are populated; the rest are zero.
type TypeExpr struct {
	Kind   TypeExprKind
	Syntax Syntax
	Span   source.Span

	Name        source.StringID // Identifier, Member, NamedOpaqueReturn
	GenericArgs []TypeExprID    // Generic
	Base        TypeExprID      // Generic, Optional, UnwrappedOptional, Array, Member, Metatype, PackElement, PackExpansion, Attributed
	Elements    []TypeExprID    // Tuple, Composition
	KeyType     TypeExprID      // Dictionary
	ValueType   TypeExprID      // Dictionary
	Params      []TypeExprID    // Function
	Result      TypeExprID      // Function
	Effects     FunctionTypeEffects

	SomeOrAnyIsAny bool // SomeOrAny: true for "any", false for "some"
}
