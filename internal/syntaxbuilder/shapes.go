package syntaxbuilder

import "implicits/internal/syntax"

// This file collects convenience constructors for the handful of call and
// attribute shapes internal/sema's builder recognizes by literal spelling
// (see internal/sema's wellKnownNames). A front end could spell these out
// directly as HostExpr/HostAttr literals; these helpers just save it from
// having to repeat the exact identifiers sema looks for.

// ScopeParam builds the `_ scope: ImplicitScope` parameter that marks a
// function as scope-taking: internal/sema recognizes a scope parameter by
// its wildcard first name (no argument label) and accepts only `scope` or
// `_` as its second name.
func ScopeParam() HostParam {
	return HostParam{Name: "scope", Type: Ident("ImplicitScope")}
}

// ScopeConstructionBinding builds the `let scope = ImplicitScope()` (or,
// with withBag, `let scope = ImplicitScope(with: implicits)`) binding that
// opens a nested scope inside a function body.
func ScopeConstructionBinding(withBag bool) HostBinding {
	call := HostExpr{
		Kind:   syntax.ExprFunctionCall,
		Callee: &HostExpr{Kind: syntax.ExprDeclRef, Name: "ImplicitScope"},
	}
	if withBag {
		call.Args = []HostCallArg{{
			Label:    "with",
			HasLabel: true,
			Value:    HostExpr{Kind: syntax.ExprDeclRef, Name: "implicits"},
		}}
	}
	return HostBinding{
		Pattern:     syntax.PatternIdentifier,
		Name:        "scope",
		Initializer: call,
		HasInit:     true,
	}
}

// ScopeEndCallItem builds the `scope.end()` code-block item that must be
// the sole content (or nested-closure content) of a scope-taking
// function's deferred cleanup.
func ScopeEndCallItem() HostCodeBlockItem {
	return HostCodeBlockItem{
		Kind: syntax.CodeBlockExpr,
		Expr: &HostExpr{
			Kind: syntax.ExprFunctionCall,
			Callee: &HostExpr{
				Kind:   syntax.ExprMemberAccessor,
				Base:   &HostExpr{Kind: syntax.ExprDeclRef, Name: "scope"},
				Member: "end",
			},
		},
	}
}

// DeferScopeEnd builds the `defer { scope.end() }` statement a scope-taking
// function uses to guarantee its scope closes on every exit path.
func DeferScopeEnd() HostStmt {
	return HostStmt{Kind: syntax.StmtDefer, Body: []HostCodeBlockItem{ScopeEndCallItem()}}
}

// ImplicitAttr builds the bare `@Implicit` attribute (key inferred from
// the binding's declared or initializer type).
func ImplicitAttr() HostAttr {
	return HostAttr{Name: "Implicit"}
}

// ImplicitAttrForPath builds `@Implicit(\.member)`-shaped key-path
// disambiguation: an attribute argument that is a bare member access on an
// implicit member name.
func ImplicitAttrForPath(member string) HostAttr {
	return HostAttr{Name: "Implicit", Args: []HostExpr{{Kind: syntax.ExprDeclRef, Name: member}}}
}

// SPIAttr builds the `@_spi` marker a public scope-taking function needs
// when exporting is enabled.
func SPIAttr() HostAttr {
	return HostAttr{Name: "_spi"}
}
