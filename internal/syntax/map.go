package syntax

// mapArena rebuilds an arena by applying f to every stored element, in
// allocation order, preserving IDs (element i keeps index i+1).
func mapArena[T any](a *Arena[T], f func(T) T) *Arena[T] {
	out := NewArena[T](uint(a.Len()))
	for _, v := range a.Slice() {
		out.Allocate(f(v))
	}
	return out
}

// MapSyntax rebuilds t with every node's Syntax handle replaced by
// f(node.Syntax), leaving every other field and every ID untouched. This
// is how a tree built against a live host AST is turned into a
// relocatable one addressed only by source.Span, for caching or for
// cross-module symbol descriptions.
func MapSyntax(t *Tree, f func(Syntax) Syntax) *Tree {
	out := &Tree{Files: append([]File(nil), t.Files...)}

	out.TopLevelItems = mapArena(t.TopLevelItems, func(v TopLevelItem) TopLevelItem {
		return v // TopLevelItem carries no Syntax handle of its own
	})
	out.Imports = mapArena(t.Imports, func(v Import) Import {
		v.Syntax = f(v.Syntax)
		return v
	})
	out.Declarations = mapArena(t.Declarations, func(v Decl) Decl {
		v.Syntax = f(v.Syntax)
		return v
	})
	out.Extensions = mapArena(t.Extensions, func(v Extension) Extension {
		v.Syntax = f(v.Syntax)
		return v
	})
	out.TopLevelIfConfigs = mapArena(t.TopLevelIfConfigs, func(v IfConfigBlock[TopLevelItemID]) IfConfigBlock[TopLevelItemID] {
		v.Syntax = f(v.Syntax)
		return v
	})
	out.CodeIfConfigs = mapArena(t.CodeIfConfigs, func(v IfConfigBlock[CodeBlockItemID]) IfConfigBlock[CodeBlockItemID] {
		v.Syntax = f(v.Syntax)
		return v
	})
	out.CodeBlockItems = mapArena(t.CodeBlockItems, func(v CodeBlockItem) CodeBlockItem {
		return v // CodeBlockItem carries no Syntax handle of its own
	})
	out.Stmts = mapArena(t.Stmts, func(v Stmt) Stmt {
		v.Syntax = f(v.Syntax)
		return v
	})
	out.Exprs = mapArena(t.Exprs, func(v Expr) Expr {
		v.Syntax = f(v.Syntax)
		return v
	})
	out.Types = mapArena(t.Types, func(v TypeExpr) TypeExpr {
		v.Syntax = f(v.Syntax)
		return v
	})
	out.Attrs = mapArena(t.Attrs, func(v Attr) Attr {
		v.Syntax = f(v.Syntax)
		return v
	})
	out.Bindings = mapArena(t.Bindings, func(v Binding) Binding {
		v.Syntax = f(v.Syntax)
		return v
	})
	out.Params = mapArena(t.Params, func(v Param) Param {
		v.Syntax = f(v.Syntax)
		return v
	})

	return out
}
