package sema

import (
	"testing"

	"implicits/internal/cond"
	"implicits/internal/diag"
	"implicits/internal/source"
	"implicits/internal/symtab"
	"implicits/internal/syntax"
)

func newFixture(t *testing.T) (*syntax.Tree, *source.Interner, *diag.Bag, Options) {
	t.Helper()
	tree := syntax.NewTree()
	strings := source.NewInterner()
	bag := diag.NewBag(64)
	opts := Options{
		Strings:  strings,
		Index:    symtab.NewIndex[syntax.Syntax](),
		Reporter: diag.BagReporter{Bag: bag},
		Config:   cond.NewEnabledConfig(),
	}
	return tree, strings, bag, opts
}

func scopeTypeExpr(tree *syntax.Tree, strings *source.Interner) syntax.TypeExprID {
	id := tree.Types.Allocate(syntax.TypeExpr{
		Kind: syntax.TypeIdentifier,
		Name: strings.Intern("ImplicitScope"),
	})
	return syntax.TypeExprID(id)
}

func wrapFunctionInFile(tree *syntax.Tree, declID syntax.DeclID) {
	itemID := tree.TopLevelItems.Allocate(syntax.TopLevelItem{Kind: syntax.TopLevelDeclaration, Decl: declID})
	tree.Files = append(tree.Files, syntax.File{ID: source.FileID(1), Items: []syntax.TopLevelItemID{syntax.TopLevelItemID(itemID)}})
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestLowerFunctionDeclMarksScopeTaking(t *testing.T) {
	tree, strings, bag, opts := newFixture(t)
	wildcard := strings.Intern("_")
	scopeName := strings.Intern("scope")
	_ = scopeName

	paramID := tree.Params.Allocate(syntax.Param{Name: wildcard, Type: scopeTypeExpr(tree, strings)})
	declID := tree.Declarations.Allocate(syntax.Decl{
		Kind: syntax.DeclFunction,
		Name: strings.Intern("fetch"),
		Function: &syntax.FunctionDecl{
			Affiliation: syntax.AffiliationFree,
			Parameters:  []syntax.ParamID{syntax.ParamID(paramID)},
		},
	})
	wrapFunctionInFile(tree, syntax.DeclID(declID))

	b := NewBuilder(opts, tree)
	out := b.Build()

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if len(out.Roots) != 1 {
		t.Fatalf("expected one root node, got %d", len(out.Roots))
	}
	node := out.Get(out.Roots[0])
	if node.Kind != NodeFunctionDeclaration || !node.IsScopeTaking {
		t.Fatalf("expected a scope-taking function declaration node, got %+v", node)
	}
}

func TestExcessScopeParamReported(t *testing.T) {
	tree, strings, bag, opts := newFixture(t)
	wildcard := strings.Intern("_")

	p1 := tree.Params.Allocate(syntax.Param{Name: wildcard, Type: scopeTypeExpr(tree, strings)})
	p2 := tree.Params.Allocate(syntax.Param{Name: wildcard, Type: scopeTypeExpr(tree, strings)})
	declID := tree.Declarations.Allocate(syntax.Decl{
		Kind: syntax.DeclFunction,
		Name: strings.Intern("fetch"),
		Function: &syntax.FunctionDecl{
			Affiliation: syntax.AffiliationFree,
			Parameters:  []syntax.ParamID{syntax.ParamID(p1), syntax.ParamID(p2)},
		},
	})
	wrapFunctionInFile(tree, syntax.DeclID(declID))

	b := NewBuilder(opts, tree)
	b.Build()

	if !hasCode(bag, diag.StructExcessScopeParam) {
		t.Fatalf("expected StructExcessScopeParam, got %+v", bag.Items())
	}
}

func TestBadScopeParamNameReported(t *testing.T) {
	tree, strings, bag, opts := newFixture(t)
	badName := strings.Intern("ctx")

	paramID := tree.Params.Allocate(syntax.Param{Name: badName, Type: scopeTypeExpr(tree, strings)})
	declID := tree.Declarations.Allocate(syntax.Decl{
		Kind: syntax.DeclFunction,
		Name: strings.Intern("fetch"),
		Function: &syntax.FunctionDecl{
			Affiliation: syntax.AffiliationFree,
			Parameters:  []syntax.ParamID{syntax.ParamID(paramID)},
		},
	})
	wrapFunctionInFile(tree, syntax.DeclID(declID))

	b := NewBuilder(opts, tree)
	b.Build()

	if !hasCode(bag, diag.StructBadScopeParamName) {
		t.Fatalf("expected StructBadScopeParamName, got %+v", bag.Items())
	}
}

func TestOpenScopeTakingFunctionReportsNonStaticDispatch(t *testing.T) {
	tree, strings, bag, opts := newFixture(t)
	wildcard := strings.Intern("_")

	paramID := tree.Params.Allocate(syntax.Param{Name: wildcard, Type: scopeTypeExpr(tree, strings)})
	declID := tree.Declarations.Allocate(syntax.Decl{
		Kind: syntax.DeclFunction,
		Name: strings.Intern("refresh"),
		Function: &syntax.FunctionDecl{
			Affiliation: syntax.AffiliationInstance,
			Parameters:  []syntax.ParamID{syntax.ParamID(paramID)},
			Modifiers:   syntax.FunctionModifiers{Open: true},
		},
	})
	wrapFunctionInFile(tree, syntax.DeclID(declID))

	b := NewBuilder(opts, tree)
	b.Build()

	if !hasCode(bag, diag.StructNonStaticDispatch) {
		t.Fatalf("expected StructNonStaticDispatch, got %+v", bag.Items())
	}
}

func TestImplicitBindingInfersKeyFromDeclaredType(t *testing.T) {
	tree, strings, bag, opts := newFixture(t)
	markerAttr := tree.Attrs.Allocate(syntax.Attr{Name: strings.Intern("Implicit")})
	typeID := tree.Types.Allocate(syntax.TypeExpr{Kind: syntax.TypeIdentifier, Name: strings.Intern("Logger")})

	bindingID := tree.Bindings.Allocate(syntax.Binding{
		Pattern: syntax.PatternIdentifier,
		Name:    strings.Intern("logger"),
		Type:    syntax.TypeExprID(typeID),
		HasType: true,
		Attrs:   []syntax.AttrID{syntax.AttrID(markerAttr)},
	})
	declID := tree.Declarations.Allocate(syntax.Decl{
		Kind:     syntax.DeclVariable,
		Variable: &syntax.VariableDecl{Affiliation: syntax.AffiliationFree, Bindings: []syntax.BindingID{syntax.BindingID(bindingID)}},
	})
	wrapFunctionInFile(tree, syntax.DeclID(declID))

	b := NewBuilder(opts, tree)
	out := b.Build()

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	node := out.Get(out.Roots[0])
	if node.Kind != NodeImplicit || node.Key.Kind != KeyType || node.Key.Name != "Logger" {
		t.Fatalf("expected implicit keyed by type Logger, got %+v", node)
	}
}

func TestImplicitBindingWithoutTypeOrInitReportsError(t *testing.T) {
	tree, strings, bag, opts := newFixture(t)
	markerAttr := tree.Attrs.Allocate(syntax.Attr{Name: strings.Intern("Implicit")})
	bindingID := tree.Bindings.Allocate(syntax.Binding{
		Pattern: syntax.PatternIdentifier,
		Name:    strings.Intern("logger"),
		Attrs:   []syntax.AttrID{syntax.AttrID(markerAttr)},
	})
	declID := tree.Declarations.Allocate(syntax.Decl{
		Kind:     syntax.DeclVariable,
		Variable: &syntax.VariableDecl{Affiliation: syntax.AffiliationFree, Bindings: []syntax.BindingID{syntax.BindingID(bindingID)}},
	})
	wrapFunctionInFile(tree, syntax.DeclID(declID))

	b := NewBuilder(opts, tree)
	b.Build()

	if !hasCode(bag, diag.StructUnableToInferKey) {
		t.Fatalf("expected StructUnableToInferKey, got %+v", bag.Items())
	}
}

func TestRedundantImplicitMarkerNotOutermostReported(t *testing.T) {
	tree, strings, bag, opts := newFixture(t)
	otherAttr := tree.Attrs.Allocate(syntax.Attr{Name: strings.Intern("discardableResult")})
	markerAttr := tree.Attrs.Allocate(syntax.Attr{Name: strings.Intern("Implicit")})
	typeID := tree.Types.Allocate(syntax.TypeExpr{Kind: syntax.TypeIdentifier, Name: strings.Intern("Logger")})

	bindingID := tree.Bindings.Allocate(syntax.Binding{
		Pattern: syntax.PatternIdentifier,
		Name:    strings.Intern("logger"),
		Type:    syntax.TypeExprID(typeID),
		HasType: true,
		Attrs:   []syntax.AttrID{syntax.AttrID(otherAttr), syntax.AttrID(markerAttr)},
	})
	declID := tree.Declarations.Allocate(syntax.Decl{
		Kind:     syntax.DeclVariable,
		Variable: &syntax.VariableDecl{Affiliation: syntax.AffiliationFree, Bindings: []syntax.BindingID{syntax.BindingID(bindingID)}},
	})
	wrapFunctionInFile(tree, syntax.DeclID(declID))

	b := NewBuilder(opts, tree)
	b.Build()

	if !hasCode(bag, diag.StructAnnotationNotOutermost) {
		t.Fatalf("expected StructAnnotationNotOutermost, got %+v", bag.Items())
	}
}

func TestFunctionDeclRecoversOwnSymbolID(t *testing.T) {
	tree, strings, bag, opts := newFixture(t)
	fetchName := strings.Intern("fetch")
	want := opts.Index.Declare(symtab.SymbolInfo[syntax.Syntax]{Signature: symtab.CallableSignature{
		Kind:       symtab.KindStaticFunction,
		StaticName: fetchName,
	}})

	declID := tree.Declarations.Allocate(syntax.Decl{
		Kind: syntax.DeclFunction,
		Name: fetchName,
		Function: &syntax.FunctionDecl{
			Affiliation: syntax.AffiliationFree,
		},
	})
	wrapFunctionInFile(tree, syntax.DeclID(declID))

	b := NewBuilder(opts, tree)
	out := b.Build()

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	node := out.Get(out.Roots[0])
	if node.FunctionSymbol != want {
		t.Fatalf("expected FunctionSymbol %v, got %v", want, node.FunctionSymbol)
	}
}
