package reqgraph

import (
	"implicits/internal/diag"
	"implicits/internal/source"
)

// ScopeKind discriminates the three states a CodeBlockState's visible
// implicit scope can be in at a given point in a linear walk.
type ScopeKind uint8

const (
	ScopeNone ScopeKind = iota
	ScopeInherited
	ScopeLocal
)

// ScopeState tracks the implicit scope visible at the current point of a
// body walk. DeclaredAt is the span of the implicitScopeBegin that
// produced a ScopeLocal state, used to attribute "multiple local implicit
// scopes" notes back to the first declaration.
type ScopeState struct {
	Kind       ScopeKind
	DeclaredAt source.Span
	Ended      bool
}

// CodeBlockState threads through a single linear statement walk. Parent
// is the most recently allocated node on the current linear chain — every
// statement either extends it (Parent = newNode) or, for a sub-graph
// shape (closure, unresolved #if), starts a fresh chain of its own.
type CodeBlockState struct {
	Parent               NodeID
	Scope                ScopeState
	BagReferences        []NodeID
	AllowsStoredBagUsage bool
	FileTag              source.FileID
}

// scopeTransition is the outcome of beginLocalScope: the resulting scope
// state, whether a warning should be emitted, and — if the new begin is
// illegal rather than merely surprising — the error to report instead.
type scopeTransition struct {
	next    ScopeState
	warn    bool
	isError bool
	errCode diag.Code
	errMsg  string
}

// beginLocalScope implements the §4.7 state-transition table for
// `implicitScopeBegin`. prev is the scope visible just before the begin;
// nested reports whether the begin call used nesting:true; at is the
// begin's own span, recorded into the resulting ScopeLocal state.
func beginLocalScope(prev ScopeState, nested bool, at source.Span) scopeTransition {
	switch prev.Kind {
	case ScopeInherited:
		if nested {
			return scopeTransition{next: ScopeState{Kind: ScopeLocal, DeclaredAt: at}}
		}
		return scopeTransition{
			next: ScopeState{Kind: ScopeLocal, DeclaredAt: at},
			warn: true,
		}
	case ScopeNone:
		if nested {
			return scopeTransition{
				next:    prev,
				isError: true,
				errCode: diag.ScopeNestingForbidden,
				errMsg:  "nesting scope is forbidden here",
			}
		}
		return scopeTransition{next: ScopeState{Kind: ScopeLocal, DeclaredAt: at}}
	case ScopeLocal:
		return scopeTransition{
			next:    prev,
			isError: true,
			errCode: diag.ScopeMultipleLocal,
			errMsg:  "multiple local implicit scopes",
		}
	default:
		return scopeTransition{next: ScopeState{Kind: ScopeLocal, DeclaredAt: at}}
	}
}
