package syntaxbuilder

import (
	"implicits/internal/source"
	"implicits/internal/syntax"
)

// Build translates a batch of host files belonging to one module into a
// single internal/syntax Tree, the shape internal/sema.NewBuilder consumes
// directly. Each HostFile is registered in fileSet as a virtual file so
// diagnostics raised against the resulting tree still carry a File to
// point at, even though no byte-accurate span information survives the
// translation — host input arrives pre-structured, not as bytes to
// re-lex.
func Build(files []HostFile, strings *source.Interner, fileSet *source.FileSet) *syntax.Tree {
	b := &builder{tree: syntax.NewTree(), strings: strings}
	for _, hf := range files {
		b.fileID = fileSet.AddVirtual(hf.Path, nil)
		var items []syntax.TopLevelItemID
		for _, item := range hf.Items {
			items = append(items, b.topLevelItem(item))
		}
		b.tree.Files = append(b.tree.Files, syntax.File{ID: b.fileID, Items: items})
	}
	return b.tree
}

type builder struct {
	tree    *syntax.Tree
	strings *source.Interner
	fileID  source.FileID
}

func (b *builder) span() source.Span {
	return source.Span{File: b.fileID}
}

func (b *builder) intern(s string) source.StringID {
	return b.strings.Intern(s)
}

func (b *builder) internAll(ss []string) []source.StringID {
	if len(ss) == 0 {
		return nil
	}
	out := make([]source.StringID, len(ss))
	for i, s := range ss {
		out[i] = b.intern(s)
	}
	return out
}

// --- top level -----------------------------------------------------------

func (b *builder) topLevelItem(item HostTopLevelItem) syntax.TopLevelItemID {
	out := syntax.TopLevelItem{Kind: item.Kind}
	switch item.Kind {
	case syntax.TopLevelImport:
		if item.Import != nil {
			out.Import = syntax.ImportID(b.tree.Imports.Allocate(b.importDecl(*item.Import)))
		}
	case syntax.TopLevelDeclaration:
		if item.Decl != nil {
			out.Decl = b.decl(*item.Decl)
		}
	case syntax.TopLevelExtension:
		if item.Extension != nil {
			out.Extension = syntax.ExtensionID(b.tree.Extensions.Allocate(b.extension(*item.Extension)))
		}
	case syntax.TopLevelIfConfig:
		if item.IfConfig != nil {
			out.IfConfig = syntax.TopLevelIfConfigID(b.tree.TopLevelIfConfigs.Allocate(b.topLevelIfConfig(*item.IfConfig)))
		}
	}
	return syntax.TopLevelItemID(b.tree.TopLevelItems.Allocate(out))
}

func (b *builder) importDecl(imp HostImport) syntax.Import {
	return syntax.Import{
		Syntax:     nil,
		Span:       b.span(),
		ModulePath: b.internAll(imp.ModulePath),
		Exported:   imp.Exported,
	}
}

func (b *builder) extension(ext HostExtension) syntax.Extension {
	return syntax.Extension{
		Syntax:        nil,
		Span:          b.span(),
		Namespace:     b.internAll(ext.Namespace),
		IsComplexType: ext.IsComplexType,
		MemberBlock: syntax.DeclID(b.tree.Declarations.Allocate(syntax.Decl{
			Kind:    syntax.DeclMemberBlock,
			Span:    b.span(),
			Members: b.memberBlockDecl(ext.MemberBlock),
		})),
	}
}

func (b *builder) topLevelIfConfig(hic HostIfConfig[HostTopLevelItem]) syntax.IfConfigBlock[syntax.TopLevelItemID] {
	clauses := make([]syntax.IfConfigClause[syntax.TopLevelItemID], len(hic.Branches))
	for i, branch := range hic.Branches {
		items := make([]syntax.TopLevelItemID, len(branch.Items))
		for j, it := range branch.Items {
			items[j] = b.topLevelItem(it)
		}
		clauses[i] = syntax.IfConfigClause[syntax.TopLevelItemID]{Condition: branch.Condition, Items: items}
	}
	return syntax.IfConfigBlock[syntax.TopLevelItemID]{Syntax: nil, Span: b.span(), Clauses: clauses}
}

// --- declarations ----------------------------------------------------------

func (b *builder) decl(hd HostDecl) syntax.DeclID {
	out := syntax.Decl{
		Kind:       hd.Kind,
		Syntax:     nil,
		Span:       b.span(),
		Name:       b.intern(hd.Name),
		Namespace:  b.internAll(hd.Namespace),
		Attrs:      b.attrs(hd.Attrs),
		Visibility: hd.Visibility,
	}
	switch hd.Kind {
	case syntax.DeclFunction:
		if hd.Function != nil {
			out.Function = b.functionDecl(hd.Function)
		}
	case syntax.DeclVariable:
		if hd.Variable != nil {
			out.Variable = b.variableDecl(hd.Variable)
		}
	case syntax.DeclType, syntax.DeclProtocol:
		out.MemberBlock = syntax.DeclID(b.tree.Declarations.Allocate(syntax.Decl{
			Kind:    syntax.DeclMemberBlock,
			Span:    b.span(),
			Members: b.memberBlockDecl(hd.MemberBlock),
		}))
	case syntax.DeclMemberBlock:
		out.Members = b.memberBlockDecl(hd.Members)
	}
	return syntax.DeclID(b.tree.Declarations.Allocate(out))
}

func (b *builder) memberBlockDecl(members []HostDecl) []syntax.DeclID {
	if len(members) == 0 {
		return nil
	}
	out := make([]syntax.DeclID, len(members))
	for i, m := range members {
		out[i] = b.decl(m)
	}
	return out
}

func (b *builder) functionDecl(hf *HostFunctionDecl) *syntax.FunctionDecl {
	params := make([]syntax.ParamID, len(hf.Parameters))
	for i, p := range hf.Parameters {
		params[i] = syntax.ParamID(b.tree.Params.Allocate(b.param(p)))
	}
	var body []syntax.CodeBlockItemID
	for _, item := range hf.Body {
		body = append(body, b.codeBlockItem(item))
	}
	return &syntax.FunctionDecl{
		Affiliation: hf.Affiliation,
		Parameters:  params,
		ReturnType:  b.typeExprOrNone(hf.HasReturn, hf.ReturnType),
		HasReturn:   hf.HasReturn,
		Body:        body,
		Modifiers:   hf.Modifiers,
	}
}

func (b *builder) param(hp HostParam) syntax.Param {
	return syntax.Param{
		Syntax:     nil,
		Label:      b.intern(hp.Label),
		Name:       b.intern(hp.Name),
		HasLabel:   hp.HasLabel,
		Type:       b.typeExpr(hp.Type),
		HasDefault: hp.HasDefault,
		Span:       b.span(),
	}
}

func (b *builder) variableDecl(hv *HostVariableDecl) *syntax.VariableDecl {
	bindings := make([]syntax.BindingID, len(hv.Bindings))
	for i, hb := range hv.Bindings {
		bindings[i] = b.binding(hb)
	}
	return &syntax.VariableDecl{
		Affiliation: hv.Affiliation,
		Specifier:   hv.Specifier,
		Bindings:    bindings,
	}
}

func (b *builder) binding(hb HostBinding) syntax.BindingID {
	elements := make([]syntax.BindingID, len(hb.Elements))
	for i, e := range hb.Elements {
		elements[i] = b.binding(e)
	}
	var accessor []syntax.CodeBlockItemID
	for _, item := range hb.Accessor {
		accessor = append(accessor, b.codeBlockItem(item))
	}
	return syntax.BindingID(b.tree.Bindings.Allocate(syntax.Binding{
		Syntax:      nil,
		Pattern:     hb.Pattern,
		Name:        b.intern(hb.Name),
		Elements:    elements,
		Type:        b.typeExprOrNone(hb.HasType, hb.Type),
		HasType:     hb.HasType,
		Initializer: b.exprOrNone(hb.HasInit, hb.Initializer),
		HasInit:     hb.HasInit,
		Accessor:    accessor,
		HasAccessor: hb.HasAccessor,
		Attrs:       b.attrs(hb.Attrs),
		Span:        b.span(),
	}))
}

func (b *builder) attrs(has []HostAttr) []syntax.AttrID {
	if len(has) == 0 {
		return nil
	}
	out := make([]syntax.AttrID, len(has))
	for i, a := range has {
		args := make([]syntax.ExprID, len(a.Args))
		for j, arg := range a.Args {
			args[j] = b.expr(arg)
		}
		out[i] = syntax.AttrID(b.tree.Attrs.Allocate(syntax.Attr{Syntax: nil, Span: b.span(), Name: b.intern(a.Name), Args: args}))
	}
	return out
}

// --- statements and code blocks -------------------------------------------

func (b *builder) codeBlockItem(item HostCodeBlockItem) syntax.CodeBlockItemID {
	out := syntax.CodeBlockItem{Kind: item.Kind}
	switch item.Kind {
	case syntax.CodeBlockDecl:
		if item.Decl != nil {
			out.Decl = b.decl(*item.Decl)
		}
	case syntax.CodeBlockStmt:
		if item.Stmt != nil {
			out.Stmt = b.stmt(*item.Stmt)
		}
	case syntax.CodeBlockExpr:
		if item.Expr != nil {
			out.Expr = b.expr(*item.Expr)
		}
	case syntax.CodeBlockIfConfig:
		if item.IfConfig != nil {
			out.IfConfig = syntax.CodeIfConfigID(b.tree.CodeIfConfigs.Allocate(b.codeIfConfig(*item.IfConfig)))
		}
	}
	return syntax.CodeBlockItemID(b.tree.CodeBlockItems.Allocate(out))
}

func (b *builder) codeIfConfig(hic HostIfConfig[HostCodeBlockItem]) syntax.IfConfigBlock[syntax.CodeBlockItemID] {
	clauses := make([]syntax.IfConfigClause[syntax.CodeBlockItemID], len(hic.Branches))
	for i, branch := range hic.Branches {
		items := make([]syntax.CodeBlockItemID, len(branch.Items))
		for j, it := range branch.Items {
			items[j] = b.codeBlockItem(it)
		}
		clauses[i] = syntax.IfConfigClause[syntax.CodeBlockItemID]{Condition: branch.Condition, Items: items}
	}
	return syntax.IfConfigBlock[syntax.CodeBlockItemID]{Syntax: nil, Span: b.span(), Clauses: clauses}
}

func (b *builder) stmt(hs HostStmt) syntax.StmtID {
	var body []syntax.CodeBlockItemID
	for _, item := range hs.Body {
		body = append(body, b.codeBlockItem(item))
	}
	var catches [][]syntax.CodeBlockItemID
	for _, catch := range hs.CatchBodies {
		var items []syntax.CodeBlockItemID
		for _, item := range catch {
			items = append(items, b.codeBlockItem(item))
		}
		catches = append(catches, items)
	}
	return syntax.StmtID(b.tree.Stmts.Allocate(syntax.Stmt{
		Kind:        hs.Kind,
		Syntax:      nil,
		Span:        b.span(),
		Body:        body,
		CatchBodies: catches,
	}))
}

// --- expressions -----------------------------------------------------------

func (b *builder) exprOrNone(has bool, he HostExpr) syntax.ExprID {
	if !has {
		return syntax.NoExprID
	}
	return b.expr(he)
}

func (b *builder) expr(he HostExpr) syntax.ExprID {
	out := syntax.Expr{Kind: he.Kind, Syntax: nil, Span: b.span()}
	switch he.Kind {
	case syntax.ExprFunctionCall:
		if he.Callee != nil {
			out.Callee = b.expr(*he.Callee)
		}
		out.Args = make([]syntax.CallArg, len(he.Args))
		for i, a := range he.Args {
			out.Args[i] = syntax.CallArg{Label: b.intern(a.Label), HasLabel: a.HasLabel, Value: b.expr(a.Value), Span: b.span()}
		}
		if he.TrailingClosure != nil {
			out.TrailingClosure = b.expr(*he.TrailingClosure)
		}
	case syntax.ExprClosure:
		out.ClosureParams = b.internAll(he.ClosureParams)
		for _, item := range he.ClosureBody {
			out.ClosureBody = append(out.ClosureBody, b.codeBlockItem(item))
		}
	case syntax.ExprMacroExpansion:
		out.MacroName = b.intern(he.MacroName)
	case syntax.ExprDeclRef:
		out.Name = b.intern(he.Name)
		out.ArgLabels = b.internAll(he.ArgLabels)
		out.HasArgLabels = he.HasArgLabels
	case syntax.ExprMemberAccessor:
		if he.Base != nil {
			out.Base = b.expr(*he.Base)
		}
		out.Member = b.intern(he.Member)
	}
	return syntax.ExprID(b.tree.Exprs.Allocate(out))
}

// --- types -------------------------------------------------------------

func (b *builder) typeExprOrNone(has bool, ht HostTypeExpr) syntax.TypeExprID {
	if !has {
		return syntax.NoTypeExprID
	}
	return b.typeExpr(ht)
}

func (b *builder) typeExpr(ht HostTypeExpr) syntax.TypeExprID {
	out := syntax.TypeExpr{Kind: ht.Kind, Syntax: nil, Span: b.span(), Name: b.intern(ht.Name), Effects: ht.Effects, SomeOrAnyIsAny: ht.SomeOrAnyIsAny}
	if ht.Base != nil {
		out.Base = b.typeExpr(*ht.Base)
	}
	if ht.KeyType != nil {
		out.KeyType = b.typeExpr(*ht.KeyType)
	}
	if ht.ValueType != nil {
		out.ValueType = b.typeExpr(*ht.ValueType)
	}
	if ht.Result != nil {
		out.Result = b.typeExpr(*ht.Result)
	}
	for _, g := range ht.GenericArgs {
		out.GenericArgs = append(out.GenericArgs, b.typeExpr(g))
	}
	for _, e := range ht.Elements {
		out.Elements = append(out.Elements, b.typeExpr(e))
	}
	for _, p := range ht.Params {
		out.Params = append(out.Params, b.typeExpr(p))
	}
	return syntax.TypeExprID(b.tree.Types.Allocate(out))
}
