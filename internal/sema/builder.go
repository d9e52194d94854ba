package sema

import (
	"implicits/internal/cond"
	"implicits/internal/diag"
	"implicits/internal/source"
	"implicits/internal/symtab"
	"implicits/internal/syntax"
	"implicits/internal/typerender"
)

// Options configures a single Builder pass over one module's syntax
// trees.
type Options struct {
	Strings         *source.Interner
	Index           *symtab.Index[syntax.Syntax]
	Reporter        diag.Reporter
	Config          cond.Config
	EnableExporting bool
}

// Builder lowers internal/syntax trees into a sema Tree. It is stateless
// between files — Context carries everything that varies per walk.
type Builder struct {
	opts     Options
	names    wellKnownNames
	renderer *typerender.Renderer
	tree     *syntax.Tree
	out      *Tree
}

// NewBuilder constructs a Builder over a single syntax tree.
func NewBuilder(opts Options, tree *syntax.Tree) *Builder {
	return &Builder{
		opts:     opts,
		names:    internWellKnownNames(opts.Strings),
		renderer: typerender.NewRenderer(opts.Strings, tree),
		tree:     tree,
		out:      NewTree(),
	}
}

// Build lowers every file in the tree and returns the resulting sema
// Tree.
func (b *Builder) Build() *Tree {
	for _, file := range b.tree.Files {
		ctx := NewContext(b.opts.Strings, b.opts.EnableExporting)
		roots := b.lowerTopLevelItems(file.Items, *ctx)
		b.out.Roots = append(b.out.Roots, roots...)
	}
	return b.out
}

func (b *Builder) report(code diag.Code, sev diag.Severity, span source.Span, msg string) {
	b.opts.Reporter.Report(code, sev, span, msg, nil)
}

func (b *Builder) reportWithNotes(code diag.Code, sev diag.Severity, span source.Span, msg string, notes []diag.Note) {
	b.opts.Reporter.Report(code, sev, span, msg, notes)
}

func (b *Builder) name(id source.StringID) string {
	s, ok := b.opts.Strings.Lookup(id)
	if !ok {
		return ""
	}
	return s
}

// --- top level -------------------------------------------------------

func (b *Builder) lowerTopLevelItems(items []syntax.TopLevelItemID, ctx Context) []NodeID {
	var out []NodeID
	for _, itemID := range items {
		item := b.tree.TopLevelItems.Get(uint32(itemID))
		if item == nil {
			continue
		}
		switch item.Kind {
		case syntax.TopLevelDeclaration:
			if id := b.lowerDecl(item.Decl, ctx); id.IsValid() {
				out = append(out, id)
			}
		case syntax.TopLevelExtension:
			if id := b.lowerExtension(item.Extension, ctx); id.IsValid() {
				out = append(out, id)
			}
		case syntax.TopLevelIfConfig:
			out = append(out, b.lowerTopLevelIfConfig(item.IfConfig, ctx)...)
		}
	}
	return out
}

func (b *Builder) lowerTopLevelIfConfig(id syntax.TopLevelIfConfigID, ctx Context) []NodeID {
	block := b.tree.TopLevelIfConfigs.Get(uint32(id))
	if block == nil {
		return nil
	}
	// An unresolved top-level #if branch flows through unconditionally —
	// the defer/scope nesting restriction on unresolved conditionals only
	// applies inside a function body, so top-level items need no wrapper
	// node here.
	filtered := cond.FilterBranches(toClauseSlice(block.Clauses), b.opts.Config)
	var out []NodeID
	for _, clause := range filtered {
		out = append(out, b.lowerTopLevelItems(clause.Body, ctx)...)
	}
	return out
}

func toClauseSlice[I any](in []syntax.IfConfigClause[I]) []cond.Clause[[]I] {
	out := make([]cond.Clause[[]I], len(in))
	for i, c := range in {
		out[i] = cond.Clause[[]I]{Condition: c.Condition, Body: c.Items}
	}
	return out
}

func (b *Builder) lowerExtension(id syntax.ExtensionID, ctx Context) NodeID {
	ext := b.tree.Extensions.Get(uint32(id))
	if ext == nil {
		return NoNodeID
	}
	childCtx := ctx
	for _, seg := range ext.Namespace {
		childCtx = childCtx.PushNamespace(seg)
	}
	childCtx.isExtensionOfComplexType = ext.IsComplexType
	members := b.lowerMemberBlock(ext.MemberBlock, childCtx)
	return b.out.Alloc(Node{
		Kind:      NodeExtensionDeclaration,
		Span:      ext.Span,
		Namespace: ext.Namespace,
		Children:  members,
	})
}

func (b *Builder) lowerMemberBlock(id syntax.DeclID, ctx Context) []NodeID {
	block := b.tree.Declarations.Get(uint32(id))
	if block == nil || block.Kind != syntax.DeclMemberBlock {
		return nil
	}
	var out []NodeID
	for _, memberID := range block.Members {
		if nid := b.lowerDecl(memberID, ctx); nid.IsValid() {
			out = append(out, nid)
		}
	}
	return out
}

func (b *Builder) lowerDecl(declID syntax.DeclID, ctx Context) NodeID {
	decl := b.tree.Declarations.Get(uint32(declID))
	if decl == nil {
		return NoNodeID
	}
	switch decl.Kind {
	case syntax.DeclFunction:
		return b.lowerFunctionDecl(decl, ctx)
	case syntax.DeclVariable:
		return b.lowerVariableDecl(decl, ctx)
	case syntax.DeclType, syntax.DeclProtocol:
		childCtx := ctx.PushNamespace(decl.Name)
		childCtx.EnclosingType = b.enclosingTypeOf(decl)
		members := b.lowerMemberBlock(decl.MemberBlock, childCtx)
		return b.out.Alloc(Node{
			Kind:      NodeTypeDeclaration,
			Span:      decl.Span,
			Namespace: childCtx.Namespace(),
			Children:  members,
		})
	}
	return NoNodeID
}

func (b *Builder) enclosingTypeOf(decl *syntax.Decl) EnclosingType {
	// The simplified grammar doesn't distinguish struct/enum/class at the
	// Decl level (no separate DeclKind per nominal shape), so dispatch
	// checks below treat every DeclType as a non-final class unless a
	// "final" attribute is present, which is the conservative choice:
	// forbidding dynamic dispatch modifiers on a scope-taking member is
	// always safe even if the type turns out to be a struct.
	isFinal := false
	for _, attrID := range decl.Attrs {
		attr := b.tree.Attrs.Get(uint32(attrID))
		if attr != nil && attr.Name == b.names.final {
			isFinal = true
		}
	}
	kind := TypeKindClass
	if decl.Kind == syntax.DeclProtocol {
		kind = TypeKindProtocol
	}
	return EnclosingType{Kind: kind, IsFinal: isFinal}
}

// --- function declarations --------------------------------------------

func (b *Builder) lowerFunctionDecl(decl *syntax.Decl, ctx Context) NodeID {
	fn := decl.Function
	if fn == nil {
		return NoNodeID
	}

	scopeParams := b.findScopeParams(fn.Parameters)
	isScopeTaking := len(scopeParams) == 1
	if len(scopeParams) > 1 {
		for _, extra := range scopeParams[1:] {
			p := b.tree.Params.Get(uint32(extra))
			span := decl.Span
			if p != nil {
				span = p.Span
			}
			b.report(diag.StructExcessScopeParam, diag.SevError, span, "function has more than one ImplicitScope parameter")
		}
	}

	if isScopeTaking {
		b.validateScopeParamName(scopeParams[0])
		b.validateStaticDispatch(decl, ctx)
		if ctx.EnclosingType.Kind == TypeKindProtocol {
			b.report(diag.StructProtocolScopeMember, diag.SevError, decl.Span, "protocol member with an ImplicitScope parameter requires dynamic dispatch, which is not supported")
		}
		if decl.Visibility.MoreOrEqualVisible(syntax.VisPublic) && b.opts.EnableExporting && !b.hasSPIAttribute(decl.Attrs) {
			b.report(diag.StructPublicWithoutSPI, diag.SevError, decl.Span, "public scope-taking function must be marked with the designated SPI attribute when exporting is enabled")
		}
		if ctx.NestingDepth > 0 {
			b.report(diag.StructNestedFnWithScope, diag.SevError, decl.Span, "nested functions with a scope parameter are not supported")
		}
	}

	childCtx := ctx
	childCtx.NestingDepth++
	if isScopeTaking {
		childCtx = childCtx.WithLocal(LocalVar{Name: b.names.scope, CanonicalType: "ImplicitScope", IsScope: true})
	}
	body := b.lowerCodeBlockItems(fn.Body, childCtx)

	return b.out.Alloc(Node{
		Kind:           NodeFunctionDeclaration,
		Span:           decl.Span,
		Namespace:      ctx.Namespace(),
		Children:       body,
		IsScopeTaking:  isScopeTaking,
		IsInitializer:  b.name(decl.Name) == "init",
		FunctionSymbol: b.selfSymbolID(decl, ctx),
		Visibility:     decl.Visibility,
	})
}

// selfSymbolID recovers the SymbolID the forward-declaration pass assigned
// to decl, by performing the same lookup a call site resolving against
// decl would perform. This lets internal/reqgraph join a function-call
// node's already-resolved Candidate straight to the declaration node that
// defines it, without re-deriving signatures itself. An overloaded symbol
// sharing decl's exact label shape make this ambiguous; reqgraph simply
// gets no declaration edge for that call, same as any other unresolved
// reference.
func (b *Builder) selfSymbolID(decl *syntax.Decl, ctx Context) symtab.SymbolID {
	fn := decl.Function
	labels, hasLabels := paramLabelsOf(b.tree, fn.Parameters)

	var result symtab.MatchResult[syntax.Syntax]
	switch {
	case b.name(decl.Name) == "init":
		result = b.opts.Index.FindInitializer(ctx.Namespace(), labels, hasLabels)
	case fn.Affiliation == syntax.AffiliationFree || fn.Affiliation == syntax.AffiliationStatic || fn.Affiliation == syntax.AffiliationClass:
		result = b.opts.Index.FindStaticOrFree(ctx.Namespace(), decl.Name, labels, hasLabels)
	default:
		result = b.opts.Index.FindMember(ctx.Namespace(), decl.Name, labels, hasLabels)
	}
	if result.Resolved() {
		return result.First()
	}
	return symtab.NoSymbolID
}

func paramLabelsOf(tree *syntax.Tree, paramIDs []syntax.ParamID) ([]source.StringID, []bool) {
	labels := make([]source.StringID, len(paramIDs))
	has := make([]bool, len(paramIDs))
	for i, pid := range paramIDs {
		p := tree.Params.Get(uint32(pid))
		if p == nil {
			continue
		}
		labels[i] = p.Label
		has[i] = p.HasLabel
	}
	return labels, has
}

func (b *Builder) findScopeParams(paramIDs []syntax.ParamID) []syntax.ParamID {
	var out []syntax.ParamID
	for _, pid := range paramIDs {
		p := b.tree.Params.Get(uint32(pid))
		if p == nil {
			continue
		}
		typeExpr := b.tree.Types.Get(uint32(p.Type))
		if typeExpr == nil || typeExpr.Kind != syntax.TypeIdentifier || typeExpr.Name != b.names.implicitScope {
			continue
		}
		if p.HasLabel && p.Label != b.names.wildcard {
			continue
		}
		out = append(out, pid)
	}
	return out
}

func (b *Builder) validateScopeParamName(pid syntax.ParamID) {
	p := b.tree.Params.Get(uint32(pid))
	if p == nil {
		return
	}
	second := p.Name
	if second != b.names.wildcard && second != b.names.scope {
		b.report(diag.StructBadScopeParamName, diag.SevError, p.Span, "scope parameter's second name must be 'scope' or '_'")
	}
}

func (b *Builder) validateStaticDispatch(decl *syntax.Decl, ctx Context) {
	mods := decl.Function.Modifiers
	if mods.Open {
		b.report(diag.StructNonStaticDispatch, diag.SevError, decl.Span, "scope-taking function may not be declared 'open'")
	}
	if mods.Override {
		b.report(diag.StructNonStaticDispatch, diag.SevError, decl.Span, "scope-taking function may not override")
	}
	if decl.Function.Affiliation == syntax.AffiliationClass {
		b.report(diag.StructNonStaticDispatch, diag.SevError, decl.Span, "scope-taking function may not have 'class' affiliation")
	}
	if ctx.EnclosingType.Kind == TypeKindClass && !ctx.EnclosingType.IsFinal && !mods.Final {
		b.report(diag.StructNonStaticDispatch, diag.SevError, decl.Span, "scope-taking member of a non-final class must itself be final")
	}
}

func (b *Builder) hasSPIAttribute(attrs []syntax.AttrID) bool {
	for _, id := range attrs {
		attr := b.tree.Attrs.Get(uint32(id))
		if attr != nil && attr.Name == b.names.spiAttr {
			return true
		}
	}
	return false
}

// --- variable declarations --------------------------------------------

func (b *Builder) lowerVariableDecl(decl *syntax.Decl, ctx Context) NodeID {
	var children []NodeID
	for _, bindingID := range decl.Variable.Bindings {
		if nid := b.lowerBinding(bindingID, decl, ctx); nid.IsValid() {
			children = append(children, nid)
		}
	}
	if len(children) == 0 {
		return NoNodeID
	}
	if len(children) == 1 {
		return children[0]
	}
	return b.out.Alloc(Node{Kind: NodeInnerScope, Span: decl.Span, Children: children})
}

func (b *Builder) lowerBinding(bindingID syntax.BindingID, decl *syntax.Decl, ctx Context) NodeID {
	binding := b.tree.Bindings.Get(uint32(bindingID))
	if binding == nil {
		return NoNodeID
	}

	implicitAttr, hasImplicitAttr := b.findImplicitAttr(binding.Attrs)
	if !hasImplicitAttr {
		return b.out.Alloc(Node{Kind: NodeField, Span: binding.Span, Children: b.lowerCodeBlockItems(binding.Accessor, ctx)})
	}

	if ctx.isExtensionOfComplexType {
		b.report(diag.StructImplicitInExtension, diag.SevError, binding.Span, "@Implicit cannot be used in an extension of a non-identifier type")
	}

	mode := ModeGet
	if binding.HasInit {
		mode = ModeSet
	}

	key, ok := b.inferImplicitKey(implicitAttr, binding, ctx)
	if !ok {
		return NoNodeID
	}

	if binding.Pattern == syntax.PatternWildcard && binding.HasInit {
		b.report(diag.WarnAnonymousInitValue, diag.SevWarning, binding.Span, "anonymous implicit will not be saved")
	}

	isMember := decl.Variable.Affiliation != syntax.AffiliationFree
	if isMember && binding.HasInit && decl.Variable.Specifier != syntax.SpecifierVar {
		b.report(diag.StructStoredImplicitInit, diag.SevError, binding.Span, "stored implicit property cannot have an initial value")
	}
	if binding.Name == b.names.scope && decl.Variable.Specifier == syntax.SpecifierVar {
		b.report(diag.StructScopeVarNotConstant, diag.SevError, binding.Span, "'scope' must be declared with a constant binding")
	}

	if isMember {
		return b.out.Alloc(Node{Kind: NodeMemberImplicit, Span: binding.Span, Mode: mode, Key: key})
	}
	return b.out.Alloc(Node{Kind: NodeImplicit, Span: binding.Span, Mode: mode, Key: key})
}

func (b *Builder) findImplicitAttr(attrs []syntax.AttrID) (*syntax.Attr, bool) {
	for i, id := range attrs {
		attr := b.tree.Attrs.Get(uint32(id))
		if attr == nil {
			continue
		}
		if attr.Name == b.names.implicitMarker {
			if i != 0 {
				b.report(diag.StructAnnotationNotOutermost, diag.SevError, attr.Span, "implicit marker must be the first attribute")
			}
			return attr, true
		}
	}
	return nil, false
}

func (b *Builder) inferImplicitKey(attr *syntax.Attr, binding *syntax.Binding, ctx Context) (ImplicitKey, bool) {
	if len(attr.Args) > 0 {
		return b.inferKeyFromAttrArg(attr.Args[0])
	}
	if binding.HasType {
		return ImplicitKey{Kind: KeyType, Name: b.renderer.Canonical(binding.Type)}, true
	}
	if binding.HasInit {
		if typeName, ok := b.inferTypeFromExpr(binding.Initializer, ctx); ok {
			return ImplicitKey{Kind: KeyType, Name: typeName}, true
		}
		b.report(diag.StructUnableToInferType, diag.SevError, binding.Span, "unable to infer type for implicit binding")
		return ImplicitKey{}, false
	}
	b.report(diag.StructUnableToInferKey, diag.SevError, binding.Span, "unable to infer implicit key")
	return ImplicitKey{}, false
}

func (b *Builder) inferKeyFromAttrArg(argID syntax.ExprID) (ImplicitKey, bool) {
	arg := b.tree.Exprs.Get(uint32(argID))
	if arg == nil {
		return ImplicitKey{}, false
	}
	switch arg.Kind {
	case syntax.ExprMemberAccessor:
		if arg.Member == b.names.selfMember {
			base := b.tree.Exprs.Get(uint32(arg.Base))
			if base != nil && base.Kind == syntax.ExprDeclRef {
				return ImplicitKey{Kind: KeyType, Name: b.name(base.Name)}, true
			}
		}
		return ImplicitKey{Kind: KeyPath, Name: b.name(arg.Member)}, true
	case syntax.ExprDeclRef:
		return ImplicitKey{Kind: KeyPath, Name: b.name(arg.Name)}, true
	}
	return ImplicitKey{}, false
}

func (b *Builder) inferTypeFromExpr(exprID syntax.ExprID, ctx Context) (string, bool) {
	expr := b.tree.Exprs.Get(uint32(exprID))
	if expr == nil {
		return "", false
	}
	switch expr.Kind {
	case syntax.ExprFunctionCall:
		callee := b.tree.Exprs.Get(uint32(expr.Callee))
		if callee != nil && callee.Kind == syntax.ExprDeclRef {
			result := b.opts.Index.FindStaticOrFree(ctx.Namespace(), callee.Name, argLabelsOf(expr.Args), hasLabelsOf(expr.Args))
			if sym := b.opts.Index.Get(result.First()); result.Resolved() && sym != nil {
				return sym.Signature.ReturnType, sym.Signature.ReturnType != ""
			}
		}
		return "", false
	case syntax.ExprDeclRef:
		if local, ok := ctx.LookupLocal(expr.Name); ok {
			return local.CanonicalType, local.CanonicalType != ""
		}
		return "", false
	case syntax.ExprMemberAccessor:
		base := b.tree.Exprs.Get(uint32(expr.Base))
		if base != nil && base.Kind == syntax.ExprDeclRef && base.Name == b.names.selfIdent {
			if local, ok := ctx.LookupLocal(b.names.selfIdent); ok {
				return local.CanonicalType, local.CanonicalType != ""
			}
		}
		return "", false
	}
	return "", false
}

func argLabelsOf(args []syntax.CallArg) []source.StringID {
	out := make([]source.StringID, len(args))
	for i, a := range args {
		out[i] = a.Label
	}
	return out
}

func hasLabelsOf(args []syntax.CallArg) []bool {
	out := make([]bool, len(args))
	for i, a := range args {
		out[i] = a.HasLabel
	}
	return out
}
