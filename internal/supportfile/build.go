// Package supportfile is C11 (§4.9, §6 "Support file conventions"): for
// every exported scope-taking function it synthesizes an adapter that
// takes the computed implicit requirements as extra trailing parameters,
// plus a tag type and computed property for every defined key-path key.
// The output is an internal/syntax fragment built node-by-node, the same
// way the teacher's AST builder constructs nodes programmatically rather
// than by parsing text — there is no pretty-printer downstream of this
// package, only the in-memory tree a caller can render or feed onward.
package supportfile

import (
	"sort"

	"implicits/internal/reqgraph"
	"implicits/internal/sema"
	"implicits/internal/source"
	"implicits/internal/symtab"
	"implicits/internal/syntax"
)

// BuildOptions gathers the already-resolved analysis state Build needs:
// the same C7/C8/C9 outputs internal/modiface consumes, since both
// packages project the same requirements graph, just into different wire
// shapes.
type BuildOptions struct {
	ModuleName string

	Tree    *sema.Tree
	Graph   *reqgraph.Graph
	Index   *symtab.Index[any]
	Strings *source.Interner

	// ImportObservations is supplied by the driver: internal/sema has no
	// node kind for an import declaration (the same gap internal/modiface
	// documents for ReexportedModules), so nothing here can discover which
	// modules the generated adapters need to import — the driver already
	// knows, from whatever it fed C5, and passes the raw per-file
	// observations through for this package to dedup and level-merge.
	ImportObservations []ImportObservation

	// LegacyMode keeps imports that are needed only by non-exported
	// adapters instead of dropping them. This package currently only ever
	// synthesizes adapters for already-exported functions (the
	// PublicInterface list), so NeededOnlyByNonExported observations never
	// actually arise from Build itself; the flag exists for a driver that
	// also collects observations from non-exported call sites elsewhere.
	LegacyMode bool
}

// Output is the synthesized support file: one syntax fragment plus the
// collected import list.
type Output struct {
	Tree    *syntax.Tree
	Imports []Import
}

// Import is a single deduped, level-merged import the generated support
// file needs.
type Import struct {
	Module string
	Level  syntax.Visibility
}

// ImportObservation is one raw sighting of an import requirement, as
// gathered per-file by whatever produced the host AST this module's C5
// pass walked.
type ImportObservation struct {
	Module                  string
	Level                   syntax.Visibility
	NeededOnlyByNonExported bool
}

// Build synthesizes the full support-file fragment for a module: one
// adapter per exported scope-taking function with a non-empty requirement
// set, one tag+property pair per defined key-path key, and a single
// withNamedImplicits wrapper.
func Build(opts BuildOptions) *Output {
	tree := syntax.NewTree()
	var file syntax.File

	for _, id := range opts.Graph.PublicInterface {
		originID, sig, ok := lookupFunction(opts, id)
		if !ok {
			continue
		}
		req := opts.Graph.Requirements(id)
		if len(req) == 0 {
			continue
		}
		declID := buildAdapter(tree, opts, originID, sig, req)
		file.Items = append(file.Items, addDecl(tree, declID))
	}

	for _, key := range collectKeypathKeys(opts.Tree) {
		tagID, propID := buildKeyDecl(tree, opts, key)
		file.Items = append(file.Items, addDecl(tree, tagID), addDecl(tree, propID))
	}

	file.Items = append(file.Items, addDecl(tree, buildNamedImplicitsWrapper(tree, opts)))

	tree.Files = append(tree.Files, file)

	return &Output{
		Tree:    tree,
		Imports: CollectImports(opts.ImportObservations, opts.LegacyMode),
	}
}

func addDecl(tree *syntax.Tree, id syntax.DeclID) syntax.TopLevelItemID {
	return syntax.TopLevelItemID(tree.TopLevelItems.Allocate(syntax.TopLevelItem{Kind: syntax.TopLevelDeclaration, Decl: id}))
}

func lookupFunction(opts BuildOptions, nodeID reqgraph.NodeID) (sema.NodeID, symtab.CallableSignature, bool) {
	gn := opts.Graph.Get(nodeID)
	if gn == nil {
		return 0, symtab.CallableSignature{}, false
	}
	declNode := opts.Tree.Get(gn.Origin)
	if declNode == nil || !declNode.FunctionSymbol.IsValid() || opts.Index == nil {
		return 0, symtab.CallableSignature{}, false
	}
	symInfo := opts.Index.Get(declNode.FunctionSymbol)
	if symInfo == nil {
		return 0, symtab.CallableSignature{}, false
	}
	return gn.Origin, symInfo.Signature, true
}

// buildAdapter synthesizes one adapter declaration per §4.9: original
// visible parameters first, then one @autoclosure parameter per required
// implicit key sorted lexicographically by injected parameter name, a
// body that opens a scope, binds an @Implicit local per injected param,
// and tail-calls the original function.
//
// The syntax.Param shape carries no attribute list, so the @autoclosure
// marker itself can't be represented structurally on the parameter — a
// consumer distinguishes an injected parameter from an original one by
// position (everything past len(sig.Parameters)) and by its function-type
// shape, not by a flag.
func buildAdapter(tree *syntax.Tree, opts BuildOptions, originID sema.NodeID, sig symtab.CallableSignature, req sema.KeySet) syntax.DeclID {
	declNode := opts.Tree.Get(originID)

	injected := make([]sema.ImplicitKey, 0, len(req))
	for k := range req {
		injected = append(injected, k)
	}
	sort.Slice(injected, func(i, j int) bool { return paramName(injected[i]) < paramName(injected[j]) })

	params := make([]syntax.ParamID, 0, len(sig.Parameters)+len(injected))
	for _, p := range sig.Parameters {
		params = append(params, syntax.ParamID(tree.Params.Allocate(syntax.Param{
			Label:      p.Label,
			Name:       p.Label,
			HasLabel:   p.HasLabel,
			Type:       internType(tree, opts.Strings, p.Type),
			HasDefault: p.HasDefault,
		})))
	}
	for _, key := range injected {
		name := internString(opts.Strings, paramName(key))
		params = append(params, syntax.ParamID(tree.Params.Allocate(syntax.Param{
			Label:    name,
			Name:     name,
			HasLabel: true,
			Type:     internAutoclosureType(tree, opts.Strings, key),
		})))
	}

	fn := syntax.FunctionDecl{
		Affiliation: affiliationOf(sig.Kind),
		Parameters:  params,
		ReturnType:  internType(tree, opts.Strings, sig.ReturnType),
		HasReturn:   sig.ReturnType != "",
		Body:        buildAdapterBody(tree, opts, sig, injected),
	}

	name := sig.Name()
	if name == source.NoStringID {
		name = internString(opts.Strings, "callAsFunction")
	}

	return syntax.DeclID(tree.Declarations.Allocate(syntax.Decl{
		Kind:       syntax.DeclFunction,
		Span:       declNode.Span,
		Name:       name,
		Namespace:  sig.Namespace,
		Visibility: syntax.VisPublic,
		Function:   &fn,
	}))
}

func affiliationOf(kind symtab.CallableKind) syntax.Affiliation {
	switch kind {
	case symtab.KindStaticFunction:
		return syntax.AffiliationStatic
	default:
		return syntax.AffiliationInstance
	}
}

// buildAdapterBody synthesizes: scope.begin() with a deferred scope.end(),
// one @Implicit-annotated local per injected parameter initialized by
// calling that parameter's autoclosure, then a tail call to the original
// function passing the original parameters through.
func buildAdapterBody(tree *syntax.Tree, opts BuildOptions, sig symtab.CallableSignature, injected []sema.ImplicitKey) []syntax.CodeBlockItemID {
	var body []syntax.CodeBlockItemID

	beginCall := callExpr(tree, opts.Strings, "beginImplicitScope")
	body = append(body, syntax.CodeBlockItemID(tree.CodeBlockItems.Allocate(syntax.CodeBlockItem{Kind: syntax.CodeBlockExpr, Expr: beginCall})))

	endCall := callExpr(tree, opts.Strings, "endImplicitScope")
	deferStmt := syntax.StmtID(tree.Stmts.Allocate(syntax.Stmt{
		Kind: syntax.StmtDefer,
		Body: []syntax.CodeBlockItemID{syntax.CodeBlockItemID(tree.CodeBlockItems.Allocate(syntax.CodeBlockItem{Kind: syntax.CodeBlockExpr, Expr: endCall}))},
	}))
	body = append(body, syntax.CodeBlockItemID(tree.CodeBlockItems.Allocate(syntax.CodeBlockItem{Kind: syntax.CodeBlockStmt, Stmt: deferStmt})))

	for _, key := range injected {
		name := paramName(key)
		nameID := internString(opts.Strings, name)
		initExpr := callExpr(tree, opts.Strings, name)

		binding := syntax.BindingID(tree.Bindings.Allocate(syntax.Binding{
			Pattern:     syntax.PatternIdentifier,
			Name:        nameID,
			Initializer: initExpr,
			HasInit:     true,
			Attrs:       []syntax.AttrID{implicitAttr(tree, opts.Strings, key)},
		}))
		declID := syntax.DeclID(tree.Declarations.Allocate(syntax.Decl{
			Kind:     syntax.DeclVariable,
			Variable: &syntax.VariableDecl{Specifier: syntax.SpecifierLet, Bindings: []syntax.BindingID{binding}},
		}))
		body = append(body, syntax.CodeBlockItemID(tree.CodeBlockItems.Allocate(syntax.CodeBlockItem{Kind: syntax.CodeBlockDecl, Decl: declID})))
	}

	args := make([]syntax.CallArg, 0, len(sig.Parameters))
	for _, p := range sig.Parameters {
		ref := syntax.ExprID(tree.Exprs.Allocate(syntax.Expr{Kind: syntax.ExprDeclRef, Name: p.Label}))
		args = append(args, syntax.CallArg{Label: p.Label, HasLabel: p.HasLabel, Value: ref})
	}
	callee := syntax.ExprID(tree.Exprs.Allocate(syntax.Expr{Kind: syntax.ExprDeclRef, Name: sig.Name()}))
	tailCall := syntax.ExprID(tree.Exprs.Allocate(syntax.Expr{Kind: syntax.ExprFunctionCall, Callee: callee, Args: args}))
	body = append(body, syntax.CodeBlockItemID(tree.CodeBlockItems.Allocate(syntax.CodeBlockItem{Kind: syntax.CodeBlockExpr, Expr: tailCall})))

	return body
}

// implicitAttr builds the @Implicit(<key>) attribute attached to a
// synthesized local: a type key references the type identifier, a
// key-path key references the key member, the same approximation §4.9
// otherwise leaves to the actual key-path expression grammar.
func implicitAttr(tree *syntax.Tree, strings *source.Interner, key sema.ImplicitKey) syntax.AttrID {
	var arg syntax.ExprID
	if key.Kind == sema.KeyPath {
		arg = syntax.ExprID(tree.Exprs.Allocate(syntax.Expr{Kind: syntax.ExprMemberAccessor, Member: internString(strings, key.Name)}))
	} else {
		arg = syntax.ExprID(tree.Exprs.Allocate(syntax.Expr{Kind: syntax.ExprDeclRef, Name: internString(strings, key.Name)}))
	}
	return syntax.AttrID(tree.Attrs.Allocate(syntax.Attr{Name: internString(strings, "Implicit"), Args: []syntax.ExprID{arg}}))
}

func callExpr(tree *syntax.Tree, strings *source.Interner, name string) syntax.ExprID {
	callee := syntax.ExprID(tree.Exprs.Allocate(syntax.Expr{Kind: syntax.ExprDeclRef, Name: internString(strings, name)}))
	return syntax.ExprID(tree.Exprs.Allocate(syntax.Expr{Kind: syntax.ExprFunctionCall, Callee: callee}))
}

func internString(strings *source.Interner, s string) source.StringID {
	if strings == nil {
		return source.NoStringID
	}
	return strings.Intern(s)
}

func internType(tree *syntax.Tree, strings *source.Interner, name string) syntax.TypeExprID {
	if name == "" {
		return syntax.TypeExprID(tree.Types.Allocate(syntax.TypeExpr{Kind: syntax.TypeMissing}))
	}
	return syntax.TypeExprID(tree.Types.Allocate(syntax.TypeExpr{Kind: syntax.TypeIdentifier, Name: internString(strings, name)}))
}

func keyTypeName(key sema.ImplicitKey) string {
	if key.Kind == sema.KeyPath {
		return "Any"
	}
	return key.Name
}

// internAutoclosureType builds the `() -> T` function-type shape an
// injected parameter's type uses; see buildAdapter's doc comment for why
// the @autoclosure marker itself isn't carried on it.
func internAutoclosureType(tree *syntax.Tree, strings *source.Interner, key sema.ImplicitKey) syntax.TypeExprID {
	result := internType(tree, strings, keyTypeName(key))
	return syntax.TypeExprID(tree.Types.Allocate(syntax.TypeExpr{Kind: syntax.TypeFunction, Result: result}))
}

// keypathKey is this package's own flattened view of a declared key-path
// key; kept local rather than imported from internal/modiface so the two
// C10/C11 packages don't depend on each other for a four-line walk.
type keypathKey struct {
	Name string
	Type string
}

// collectKeypathKeys carries the same documented simplification as
// internal/modiface's: sema.NodeKeysDeclaration has no Visibility field,
// so every declared key is treated as at least package-visible.
func collectKeypathKeys(tree *sema.Tree) []keypathKey {
	if tree == nil {
		return nil
	}
	var out []keypathKey
	var walk func(id sema.NodeID)
	walk = func(id sema.NodeID) {
		n := tree.Get(id)
		if n == nil {
			return
		}
		if n.Kind == sema.NodeKeysDeclaration {
			for _, decl := range n.KeyDecls {
				out = append(out, keypathKey{Name: decl.Name, Type: decl.Type})
			}
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, root := range tree.Roots {
		walk(root)
	}
	return out
}

// buildKeyDecl synthesizes the paired tag enum and computed property §6
// specifies for one declared key-path key. Both are emitted at package
// visibility: there is no data source yet to tell a public key apart from
// a package one (the same gap collectKeypathKeys documents), so the
// @inlinable gate the spec describes for public keys never fires today —
// it activates automatically once that visibility field exists.
func buildKeyDecl(tree *syntax.Tree, opts BuildOptions, key keypathKey) (tag, prop syntax.DeclID) {
	tagName := tagTypeName(key.Name)
	tagNameID := internString(opts.Strings, tagName)

	tag = syntax.DeclID(tree.Declarations.Allocate(syntax.Decl{
		Kind:       syntax.DeclType,
		Name:       tagNameID,
		Visibility: syntax.VisPackage,
	}))

	metatype := syntax.TypeExprID(tree.Types.Allocate(syntax.TypeExpr{Kind: syntax.TypeMetatype, Base: internType(tree, opts.Strings, tagName)}))
	getterBody := []syntax.CodeBlockItemID{
		syntax.CodeBlockItemID(tree.CodeBlockItems.Allocate(syntax.CodeBlockItem{
			Kind: syntax.CodeBlockExpr,
			Expr: syntax.ExprID(tree.Exprs.Allocate(syntax.Expr{Kind: syntax.ExprDeclRef, Name: tagNameID})),
		})),
	}
	binding := syntax.BindingID(tree.Bindings.Allocate(syntax.Binding{
		Pattern:     syntax.PatternIdentifier,
		Name:        internString(opts.Strings, key.Name),
		Type:        metatype,
		HasType:     true,
		Accessor:    getterBody,
		HasAccessor: true,
	}))
	prop = syntax.DeclID(tree.Declarations.Allocate(syntax.Decl{
		Kind:       syntax.DeclVariable,
		Visibility: syntax.VisPackage,
		Variable:   &syntax.VariableDecl{Specifier: syntax.SpecifierVar, Bindings: []syntax.BindingID{binding}},
	}))
	return tag, prop
}

// buildNamedImplicitsWrapper synthesizes the one generic
// `withNamedImplicits` closure-wrapper per module: it takes a build
// closure and returns a closure that runs it with a freshly constructed
// bag in scope. The spec describes its intent ("generic wrapper
// constructing the bag from requirements, returning a closure") without
// pinning an exact signature, so this is the narrowest shape that
// satisfies it: no generic parameter list is modeled since internal/syntax
// carries no generic-parameter-list node of its own yet.
func buildNamedImplicitsWrapper(tree *syntax.Tree, opts BuildOptions) syntax.DeclID {
	resultType := internAutoclosureType(tree, opts.Strings, sema.ImplicitKey{Kind: sema.KeyType, Name: "Void"})

	buildParamName := internString(opts.Strings, "build")
	buildParam := syntax.ParamID(tree.Params.Allocate(syntax.Param{
		Label:    buildParamName,
		Name:     buildParamName,
		HasLabel: true,
		Type:     resultType,
	}))

	closureBody := []syntax.CodeBlockItemID{
		syntax.CodeBlockItemID(tree.CodeBlockItems.Allocate(syntax.CodeBlockItem{Kind: syntax.CodeBlockExpr, Expr: callExpr(tree, opts.Strings, "build")})),
	}
	closure := syntax.ExprID(tree.Exprs.Allocate(syntax.Expr{Kind: syntax.ExprClosure, ClosureBody: closureBody}))

	fn := syntax.FunctionDecl{
		Affiliation: syntax.AffiliationFree,
		Parameters:  []syntax.ParamID{buildParam},
		ReturnType:  resultType,
		HasReturn:   true,
		Body:        []syntax.CodeBlockItemID{syntax.CodeBlockItemID(tree.CodeBlockItems.Allocate(syntax.CodeBlockItem{Kind: syntax.CodeBlockExpr, Expr: closure}))},
	}

	return syntax.DeclID(tree.Declarations.Allocate(syntax.Decl{
		Kind:       syntax.DeclFunction,
		Name:       internString(opts.Strings, "withNamedImplicits"),
		Visibility: syntax.VisPublic,
		Function:   &fn,
	}))
}

// CollectImports dedups raw per-file import observations by module,
// keeping the most visible Level seen for each and dropping observations
// that are needed only by non-exported adapters unless legacyMode keeps
// them — §6's "imports ... emitted with max observed access level ...
// gated behind configurable legacy mode".
func CollectImports(observations []ImportObservation, legacyMode bool) []Import {
	best := make(map[string]syntax.Visibility, len(observations))
	var order []string
	for _, o := range observations {
		if o.NeededOnlyByNonExported && !legacyMode {
			continue
		}
		lvl, seen := best[o.Module]
		if !seen {
			order = append(order, o.Module)
			best[o.Module] = o.Level
			continue
		}
		if o.Level > lvl {
			best[o.Module] = o.Level
		}
	}
	out := make([]Import, 0, len(order))
	for _, m := range order {
		out = append(out, Import{Module: m, Level: best[m]})
	}
	return out
}
