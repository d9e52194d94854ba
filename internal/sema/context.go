package sema

import (
	"implicits/internal/source"
)

// TypeKind distinguishes the few enclosing-type facts scope-taking
// dispatch rules care about.
type TypeKind uint8

const (
	TypeKindNone TypeKind = iota
	TypeKindStruct
	TypeKindEnum
	TypeKindClass
	TypeKindProtocol
)

// EnclosingType records just the facts needed to decide whether a member
// function may be scope-taking: its kind and whether the class (if any)
// is final.
type EnclosingType struct {
	Kind    TypeKind
	IsFinal bool
}

// LocalVar is a visible local binding and its resolved/declared type,
// used by the limited type-inference subset for implicit key discovery.
type LocalVar struct {
	Name          source.StringID
	CanonicalType string
	IsScope       bool // true iff this local is known to be an ImplicitScope
}

// Context is threaded through the sema builder as it walks one function
// body at a time. It never survives past the function currently being
// lowered except for the parts explicitly copied into a nested call.
type Context struct {
	Strings *source.Interner

	NamespaceStack  []source.StringID
	EnclosingType   EnclosingType
	Locals          []LocalVar
	EnableExporting bool

	// InDefer is set while walking a defer body (including nested
	// closures inside it), per the "only scope.end() is legal" rule.
	InDefer bool

	// InUnresolvedIfConfig is set while walking an unresolvedIfConfigBlock
	// body, where scope mutation is illegal but reads are allowed.
	InUnresolvedIfConfig bool

	// NestingDepth tracks function nesting; >0 means we're inside a
	// nested function, where a scope parameter is always an error.
	NestingDepth int

	// isExtensionOfComplexType is set while walking the member block of an
	// extension whose extended type is not a bare identifier (e.g. a
	// generic instantiation or tuple), where @Implicit members are
	// rejected outright.
	isExtensionOfComplexType bool
}

// NewContext builds a root Context for a fresh top-level walk.
func NewContext(strings *source.Interner, enableExporting bool) *Context {
	return &Context{Strings: strings, EnableExporting: enableExporting}
}

// PushNamespace returns a copy of ctx with name appended to the namespace
// stack — the sema builder never mutates a shared Context across sibling
// branches, it threads a new value down each one.
func (ctx Context) PushNamespace(name source.StringID) Context {
	next := ctx
	next.NamespaceStack = append(append([]source.StringID(nil), ctx.NamespaceStack...), name)
	return next
}

// Namespace returns the current namespace path.
func (ctx Context) Namespace() []source.StringID { return ctx.NamespaceStack }

// LookupLocal finds a visible local by name, most-recently-declared wins.
func (ctx Context) LookupLocal(name source.StringID) (LocalVar, bool) {
	for i := len(ctx.Locals) - 1; i >= 0; i-- {
		if ctx.Locals[i].Name == name {
			return ctx.Locals[i], true
		}
	}
	return LocalVar{}, false
}

// WithLocal returns a copy of ctx with an additional visible local.
func (ctx Context) WithLocal(v LocalVar) Context {
	next := ctx
	next.Locals = append(append([]LocalVar(nil), ctx.Locals...), v)
	return next
}

// ScopeIdentIsScope reports whether the identifier named "scope" is
// currently visible and known to be an ImplicitScope.
func (ctx Context) ScopeIdentIsScope(strings *source.Interner) bool {
	id := strings.Intern("scope")
	local, ok := ctx.LookupLocal(id)
	return ok && local.IsScope
}
