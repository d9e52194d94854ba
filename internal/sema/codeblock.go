package sema

import (
	"implicits/internal/cond"
	"implicits/internal/diag"
	"implicits/internal/source"
	"implicits/internal/symtab"
	"implicits/internal/syntax"
)

// lowerCodeBlockItems walks one function or closure body, threading ctx
// sequentially so a `let scope = ImplicitScope()` binding becomes visible
// to every statement after it but none before it.
func (b *Builder) lowerCodeBlockItems(items []syntax.CodeBlockItemID, ctx Context) []NodeID {
	var out []NodeID
	for _, itemID := range items {
		item := b.tree.CodeBlockItems.Get(uint32(itemID))
		if item == nil {
			continue
		}
		switch item.Kind {
		case syntax.CodeBlockDecl:
			nid, next := b.lowerCodeBlockDecl(item.Decl, ctx)
			ctx = next
			if nid.IsValid() {
				out = append(out, nid)
			}
		case syntax.CodeBlockStmt:
			if nid := b.lowerStmt(item.Stmt, ctx); nid.IsValid() {
				out = append(out, nid)
			}
		case syntax.CodeBlockExpr:
			if nid := b.lowerExprStatement(item.Expr, ctx); nid.IsValid() {
				out = append(out, nid)
			}
		case syntax.CodeBlockIfConfig:
			out = append(out, b.lowerCodeIfConfig(item.IfConfig, ctx)...)
		}
	}
	return out
}

func (b *Builder) lowerCodeIfConfig(id syntax.CodeIfConfigID, ctx Context) []NodeID {
	block := b.tree.CodeIfConfigs.Get(uint32(id))
	if block == nil {
		return nil
	}
	clauses := make([]cond.Clause[[]syntax.CodeBlockItemID], len(block.Clauses))
	for i, c := range block.Clauses {
		clauses[i] = cond.Clause[[]syntax.CodeBlockItemID]{Condition: c.Condition, Body: c.Items}
	}
	filtered := cond.FilterBranches(clauses, b.opts.Config)
	var out []NodeID
	for _, clause := range filtered {
		if clause.Resolved == cond.Unknown {
			childCtx := ctx
			childCtx.InUnresolvedIfConfig = true
			children := b.lowerCodeBlockItems(clause.Body, childCtx)
			out = append(out, b.out.Alloc(Node{
				Kind:     NodeUnresolvedIfConfigBlock,
				Span:     block.Span,
				Children: children,
			}))
			continue
		}
		out = append(out, b.lowerCodeBlockItems(clause.Body, ctx)...)
	}
	return out
}

// --- code-block-level declarations ------------------------------------

func (b *Builder) lowerCodeBlockDecl(declID syntax.DeclID, ctx Context) (NodeID, Context) {
	decl := b.tree.Declarations.Get(uint32(declID))
	if decl == nil {
		return NoNodeID, ctx
	}
	if decl.Kind == syntax.DeclVariable {
		return b.lowerCodeBlockVariableDecl(decl, ctx)
	}
	// Nested function or type: reuse the top-level lowering path.
	// lowerFunctionDecl already increments NestingDepth in its own child
	// context, so the caller's ctx (and its Locals) is unaffected.
	return b.lowerDecl(declID, ctx), ctx
}

func (b *Builder) lowerCodeBlockVariableDecl(decl *syntax.Decl, ctx Context) (NodeID, Context) {
	if len(decl.Variable.Bindings) != 1 {
		// Tuple-destructuring local declarations carry no implicit
		// relevance; lower each binding independently without threading
		// new locals (none of them can be a scope construction).
		var children []NodeID
		for _, bindingID := range decl.Variable.Bindings {
			if nid := b.lowerBinding(bindingID, decl, ctx); nid.IsValid() {
				children = append(children, nid)
			}
		}
		if len(children) == 0 {
			return NoNodeID, ctx
		}
		return b.out.Alloc(Node{Kind: NodeInnerScope, Span: decl.Span, Children: children}), ctx
	}

	bindingID := decl.Variable.Bindings[0]
	binding := b.tree.Bindings.Get(uint32(bindingID))
	if binding == nil {
		return NoNodeID, ctx
	}

	if binding.HasInit {
		if nid, next, ok := b.tryLowerScopeConstruction(decl, binding, ctx); ok {
			return nid, next
		}
	}

	nid := b.lowerBinding(bindingID, decl, ctx)

	next := ctx
	if binding.Pattern == syntax.PatternIdentifier {
		typeName := ""
		if binding.HasType {
			typeName = b.renderer.Canonical(binding.Type)
		} else if binding.HasInit {
			typeName, _ = b.inferTypeFromExpr(binding.Initializer, ctx)
		}
		next = next.WithLocal(LocalVar{Name: binding.Name, CanonicalType: typeName})
	}
	return nid, next
}

// tryLowerScopeConstruction recognizes `let scope = ImplicitScope()` and
// `let scope = ImplicitScope(with: someBag)`, the only call shapes that
// introduce a local ImplicitScope.
func (b *Builder) tryLowerScopeConstruction(decl *syntax.Decl, binding *syntax.Binding, ctx Context) (NodeID, Context, bool) {
	call := b.tree.Exprs.Get(uint32(binding.Initializer))
	if call == nil || call.Kind != syntax.ExprFunctionCall {
		return NoNodeID, ctx, false
	}
	callee := b.tree.Exprs.Get(uint32(call.Callee))
	if callee == nil || callee.Kind != syntax.ExprDeclRef || callee.Name != b.names.implicitScope {
		return NoNodeID, ctx, false
	}

	if decl.Variable.Specifier != syntax.SpecifierLet {
		b.report(diag.StructScopeVarNotConstant, diag.SevError, binding.Span, "'scope' must be declared with a constant binding")
	}

	withBag := false
	for _, arg := range call.Args {
		if !arg.HasLabel {
			continue
		}
		if arg.Label != b.names.with {
			b.report(diag.StructInvalidBagVariableName, diag.SevError, arg.Span, "unrecognized ImplicitScope argument label")
			continue
		}
		withBag = true
		if value := b.tree.Exprs.Get(uint32(arg.Value)); value == nil || value.Kind != syntax.ExprDeclRef || value.Name != b.names.implicits {
			b.report(diag.StructInvalidBagVariableName, diag.SevError, arg.Span, "ImplicitScope(with:) argument must be the enclosing 'implicits' bag")
		}
	}

	nid := b.out.Alloc(Node{Kind: NodeImplicitScopeBegin, Span: binding.Span, Nested: false, WithBag: withBag})
	next := ctx.WithLocal(LocalVar{Name: binding.Name, CanonicalType: "ImplicitScope", IsScope: true})
	return nid, next, true
}

// --- statements --------------------------------------------------------

func (b *Builder) lowerStmt(id syntax.StmtID, ctx Context) NodeID {
	stmt := b.tree.Stmts.Get(uint32(id))
	if stmt == nil {
		return NoNodeID
	}
	switch stmt.Kind {
	case syntax.StmtDefer:
		b.validateDeferBody(stmt.Body, 0)
		childCtx := ctx
		childCtx.InDefer = true
		children := b.lowerCodeBlockItems(stmt.Body, childCtx)
		return b.out.Alloc(Node{Kind: NodeDeferStatement, Span: stmt.Span, Children: children})
	case syntax.StmtDo:
		var children []NodeID
		children = append(children, b.lowerCodeBlockItems(stmt.Body, ctx)...)
		for _, catchBody := range stmt.CatchBodies {
			children = append(children, b.lowerCodeBlockItems(catchBody, ctx)...)
		}
		if len(children) == 0 {
			return NoNodeID
		}
		return b.out.Alloc(Node{Kind: NodeInnerScope, Span: stmt.Span, Children: children})
	case syntax.StmtOther:
		// Collapses if/while/for/switch and every other control-flow shape
		// the grammar doesn't distinguish; its Body is the (single,
		// simplified) block of code-block items the statement governs.
		// Without lowering it, implicit constructs written inside an `if`
		// branch would be invisible to the scope-state walk that follows.
		children := b.lowerCodeBlockItems(stmt.Body, ctx)
		if len(children) == 0 {
			return NoNodeID
		}
		return b.out.Alloc(Node{Kind: NodeInnerScope, Span: stmt.Span, Children: children})
	default:
		return NoNodeID
	}
}

// validateDeferBody enforces that every top-level entry of a defer body is
// a scope.end() call, or a closure literal whose own top-level entries are
// in turn scope.end() calls — one level of nesting, no deeper.
func (b *Builder) validateDeferBody(items []syntax.CodeBlockItemID, depth int) {
	for _, itemID := range items {
		item := b.tree.CodeBlockItems.Get(uint32(itemID))
		if item == nil {
			continue
		}
		if item.Kind != syntax.CodeBlockExpr {
			b.reportDeferViolation(item, depth)
			continue
		}
		expr := b.tree.Exprs.Get(uint32(item.Expr))
		if expr == nil {
			continue
		}
		if b.isScopeEndCall(expr) {
			continue
		}
		if expr.Kind == syntax.ExprClosure {
			if depth > 0 {
				b.report(diag.StructDeferNestedScopeEnd, diag.SevError, expr.Span, "nested scope.end() must be at the topmost level of the defer body")
				continue
			}
			b.validateDeferBody(expr.ClosureBody, depth+1)
			continue
		}
		b.report(diag.StructDeferIllegalStatement, diag.SevError, expr.Span, "only scope.end() is allowed in a defer body")
	}
}

func (b *Builder) reportDeferViolation(item *syntax.CodeBlockItem, depth int) {
	span := source.Span{}
	if item.Kind == syntax.CodeBlockStmt {
		if s := b.tree.Stmts.Get(uint32(item.Stmt)); s != nil {
			span = s.Span
		}
	} else if item.Kind == syntax.CodeBlockDecl {
		if d := b.tree.Declarations.Get(uint32(item.Decl)); d != nil {
			span = d.Span
		}
	}
	b.report(diag.StructDeferIllegalStatement, diag.SevError, span, "only scope.end() is allowed in a defer body")
}

// --- expression statements ----------------------------------------------

func (b *Builder) lowerExprStatement(id syntax.ExprID, ctx Context) NodeID {
	expr := b.tree.Exprs.Get(uint32(id))
	if expr == nil {
		return NoNodeID
	}
	switch expr.Kind {
	case syntax.ExprFunctionCall:
		return b.lowerCallExpr(expr, ctx)
	case syntax.ExprClosure:
		children := b.lowerCodeBlockItems(expr.ClosureBody, ctx)
		return b.out.Alloc(Node{Kind: NodeClosureExpression, Span: expr.Span, Children: children})
	default:
		return NoNodeID
	}
}

func (b *Builder) lowerCallExpr(expr *syntax.Expr, ctx Context) NodeID {
	if b.isScopeMethodCall(expr, b.names.nested) {
		if ctx.InUnresolvedIfConfig {
			b.report(diag.StructIfConfigIllegalScope, diag.SevError, expr.Span, "scope mutation is not allowed inside an unresolved #if branch")
		}
		return b.out.Alloc(Node{Kind: NodeImplicitScopeBegin, Span: expr.Span, Nested: true})
	}
	if b.isScopeMethodCall(expr, b.names.end) {
		if !ctx.InDefer {
			b.report(diag.ScopeEndUnpaired, diag.SevError, expr.Span, "scope.end() without a matching local scope")
		}
		return b.out.Alloc(Node{Kind: NodeImplicitScopeEnd, Span: expr.Span})
	}
	if b.isImplicitMapCall(expr) {
		return b.lowerImplicitMap(expr, ctx)
	}
	if b.isWithScopeCall(expr) {
		return b.lowerWithScope(expr, ctx)
	}
	if name, ok := b.withNamedImplicitsName(expr); ok {
		return b.lowerWithNamedImplicits(expr, name, ctx)
	}
	return b.resolveCall(expr, ctx)
}

func (b *Builder) isScopeMethodCall(expr *syntax.Expr, member source.StringID) bool {
	callee := b.tree.Exprs.Get(uint32(expr.Callee))
	if callee == nil || callee.Kind != syntax.ExprMemberAccessor || callee.Member != member {
		return false
	}
	base := b.tree.Exprs.Get(uint32(callee.Base))
	return base != nil && base.Kind == syntax.ExprDeclRef && base.Name == b.names.scope
}

func (b *Builder) isScopeEndCall(expr *syntax.Expr) bool {
	return expr.Kind == syntax.ExprFunctionCall && b.isScopeMethodCall(expr, b.names.end)
}

func (b *Builder) isImplicitMapCall(expr *syntax.Expr) bool {
	callee := b.tree.Exprs.Get(uint32(expr.Callee))
	if callee == nil || callee.Kind != syntax.ExprMemberAccessor || callee.Member != b.names.mapMember {
		return false
	}
	base := b.tree.Exprs.Get(uint32(callee.Base))
	return base != nil && base.Kind == syntax.ExprDeclRef && base.Name == b.names.implicitMarker
}

func (b *Builder) isWithScopeCall(expr *syntax.Expr) bool {
	if !expr.TrailingClosure.IsValid() {
		return false
	}
	callee := b.tree.Exprs.Get(uint32(expr.Callee))
	return callee != nil && callee.Kind == syntax.ExprDeclRef && callee.Name == b.names.withScopeName
}

func (b *Builder) withNamedImplicitsName(expr *syntax.Expr) (string, bool) {
	if !expr.TrailingClosure.IsValid() {
		return "", false
	}
	callee := b.tree.Exprs.Get(uint32(expr.Callee))
	if callee == nil || callee.Kind != syntax.ExprDeclRef || callee.Name == b.names.withScopeName {
		return "", false
	}
	name := b.name(callee.Name)
	if len(name) > len("withImplicits") && name[:4] == "with" && name[len(name)-9:] == "Implicits" {
		return name, true
	}
	return "", false
}

func (b *Builder) lowerImplicitMap(expr *syntax.Expr, ctx Context) NodeID {
	if len(expr.Args) != 2 {
		b.report(diag.StructMapArgumentShape, diag.SevError, expr.Span, "Implicit.map requires exactly two arguments")
		return NoNodeID
	}
	from, okFrom := b.inferKeyFromAttrArg(expr.Args[0].Value)
	to, okTo := b.inferKeyFromAttrArg(expr.Args[1].Value)
	if !okFrom || !okTo {
		b.report(diag.StructMapArgumentShape, diag.SevError, expr.Span, "Implicit.map arguments must each be a key-path literal or T.self")
		return NoNodeID
	}
	return b.out.Alloc(Node{Kind: NodeImplicitMap, Span: expr.Span, From: from, To: to})
}

func (b *Builder) lowerWithScope(expr *syntax.Expr, ctx Context) NodeID {
	closure := b.tree.Exprs.Get(uint32(expr.TrailingClosure))
	nested := false
	withBag := false
	for _, arg := range expr.Args {
		if !arg.HasLabel {
			continue
		}
		switch arg.Label {
		case b.names.nestingLabel:
			nested = true
		case b.names.with:
			withBag = true
		}
	}
	childCtx := ctx
	if closure != nil && len(closure.ClosureParams) > 0 {
		childCtx = childCtx.WithLocal(LocalVar{Name: closure.ClosureParams[0], CanonicalType: "ImplicitScope", IsScope: true})
	}
	var children []NodeID
	if closure != nil {
		children = b.lowerCodeBlockItems(closure.ClosureBody, childCtx)
	}
	return b.out.Alloc(Node{Kind: NodeWithScope, Span: expr.Span, Nested: nested, WithBag: withBag, Children: children})
}

func (b *Builder) lowerWithNamedImplicits(expr *syntax.Expr, wrapperName string, ctx Context) NodeID {
	closure := b.tree.Exprs.Get(uint32(expr.TrailingClosure))
	var children []NodeID
	paramCount := 0
	if closure != nil {
		paramCount = len(closure.ClosureParams)
		children = b.lowerCodeBlockItems(closure.ClosureBody, ctx)
	}
	return b.out.Alloc(Node{
		Kind:              NodeWithNamedImplicits,
		Span:              expr.Span,
		WrapperName:       wrapperName,
		ClosureParamCount: paramCount,
		Children:          children,
	})
}

// resolveCall looks up an ordinary call's callee through the forward
// declaration index. Only calls that pass the visible scope along (one of
// the arguments is the bare "scope" identifier) are sema-relevant; every
// other call carries no implicit-parameter information.
func (b *Builder) resolveCall(expr *syntax.Expr, ctx Context) NodeID {
	if !b.callForwardsScope(expr, ctx) {
		return NoNodeID
	}
	callee := b.tree.Exprs.Get(uint32(expr.Callee))
	if callee == nil {
		return NoNodeID
	}

	labels := argLabelsOf(expr.Args)
	hasLabels := hasLabelsOf(expr.Args)

	var result symtab.MatchResult[syntax.Syntax]
	switch callee.Kind {
	case syntax.ExprDeclRef:
		if isCapitalized(b.name(callee.Name)) {
			result = b.opts.Index.FindInitializer([]source.StringID{callee.Name}, labels, hasLabels)
		} else {
			result = b.opts.Index.FindStaticOrFree(ctx.Namespace(), callee.Name, labels, hasLabels)
		}
	case syntax.ExprMemberAccessor:
		result = b.opts.Index.FindMember(ctx.Namespace(), callee.Member, labels, hasLabels)
	default:
		return NoNodeID
	}

	if result.Unresolved() {
		b.report(diag.ResolveUnresolvedSymbol, diag.SevError, expr.Span, "unresolved symbol")
		return b.out.Alloc(Node{Kind: NodeFunctionCall, Span: expr.Span})
	}
	if result.Ambiguous() {
		var notes []diag.Note
		for _, cand := range result.Candidates {
			if sym := b.opts.Index.Get(cand); sym != nil {
				notes = append(notes, diag.Note{Span: expr.Span, Msg: "candidate"})
			}
		}
		b.reportWithNotes(diag.ResolveAmbiguousUse, diag.SevError, expr.Span, "ambiguous use", notes)
		return b.out.Alloc(Node{Kind: NodeFunctionCall, Span: expr.Span})
	}

	candidate := result.First()
	var sig symtab.CallableSignature
	if sym := b.opts.Index.Get(candidate); sym != nil {
		sig = sym.Signature
	}
	return b.out.Alloc(Node{Kind: NodeFunctionCall, Span: expr.Span, Signature: sig, Candidate: candidate})
}

// isCapitalized reports whether name's first rune is an uppercase ASCII
// letter — the call-site heuristic for "this identifier names a type, so
// a bare call is an initializer call" rather than a free function.
func isCapitalized(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

// callForwardsScope reports whether expr passes the currently-visible
// scope identifier as one of its bare arguments.
func (b *Builder) callForwardsScope(expr *syntax.Expr, ctx Context) bool {
	if !ctx.ScopeIdentIsScope(b.opts.Strings) {
		return false
	}
	for _, arg := range expr.Args {
		value := b.tree.Exprs.Get(uint32(arg.Value))
		if value != nil && value.Kind == syntax.ExprDeclRef && value.Name == b.names.scope {
			return true
		}
	}
	return false
}
