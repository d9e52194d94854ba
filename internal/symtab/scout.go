package symtab

import (
	"implicits/internal/source"
	"implicits/internal/syntax"
	"implicits/internal/typerender"
)

// Scout performs the pre-pass over a syntax tree: it walks every
// top-level entity, extension, type, and member block and forward-
// declares every callable it finds into an Index, before any call-site
// resolution happens. Scouting reports no diagnostics and records no
// failed-initializer notes.
type Scout struct {
	Strings  *source.Interner
	Renderer *typerender.Renderer
	Index    *Index[syntax.Syntax]
}

// NewScout builds a Scout over tree, sharing strings with the caller's
// interner.
func NewScout(strings *source.Interner, tree *syntax.Tree) *Scout {
	return &Scout{
		Strings:  strings,
		Renderer: typerender.NewRenderer(strings, tree),
		Index:    NewIndex[syntax.Syntax](),
	}
}

// Run walks every file in tree and forward-declares every callable.
func (s *Scout) Run(tree *syntax.Tree) {
	for _, file := range tree.Files {
		s.walkItems(tree, nil, file.Items)
	}
}

func (s *Scout) walkItems(tree *syntax.Tree, namespace []source.StringID, items []syntax.TopLevelItemID) {
	for _, itemID := range items {
		item := tree.TopLevelItems.Get(uint32(itemID))
		if item == nil {
			continue
		}
		switch item.Kind {
		case syntax.TopLevelDeclaration:
			s.walkDecl(tree, namespace, item.Decl)
		case syntax.TopLevelExtension:
			s.walkExtension(tree, item.Extension)
		case syntax.TopLevelIfConfig:
			block := tree.TopLevelIfConfigs.Get(uint32(item.IfConfig))
			if block == nil {
				continue
			}
			for _, clause := range block.Clauses {
				s.walkItems(tree, namespace, clause.Items)
			}
		}
	}
}

func (s *Scout) walkExtension(tree *syntax.Tree, extID syntax.ExtensionID) {
	ext := tree.Extensions.Get(uint32(extID))
	if ext == nil {
		return
	}
	s.walkMemberBlock(tree, ext.Namespace, ext.MemberBlock)
}

func (s *Scout) walkDecl(tree *syntax.Tree, namespace []source.StringID, declID syntax.DeclID) {
	decl := tree.Declarations.Get(uint32(declID))
	if decl == nil {
		return
	}
	switch decl.Kind {
	case syntax.DeclFunction:
		s.declareFunction(tree, namespace, decl)
	case syntax.DeclType, syntax.DeclProtocol:
		childNamespace := append(append([]source.StringID(nil), namespace...), decl.Name)
		s.walkMemberBlock(tree, childNamespace, decl.MemberBlock)
	}
}

func (s *Scout) walkMemberBlock(tree *syntax.Tree, namespace []source.StringID, blockID syntax.DeclID) {
	block := tree.Declarations.Get(uint32(blockID))
	if block == nil || block.Kind != syntax.DeclMemberBlock {
		return
	}
	for _, memberID := range block.Members {
		s.walkDecl(tree, namespace, memberID)
	}
}

func (s *Scout) declareFunction(tree *syntax.Tree, namespace []source.StringID, decl *syntax.Decl) {
	if decl.Function == nil {
		return
	}
	sig := CallableSignature{
		Namespace:  append([]source.StringID(nil), namespace...),
		Parameters: s.buildParams(tree, decl.Function.Parameters),
	}
	if decl.Function.HasReturn {
		sig.ReturnType, _ = s.Renderer.Strict(decl.Function.ReturnType)
	}
	switch decl.Function.Affiliation {
	case syntax.AffiliationStatic, syntax.AffiliationClass:
		sig.Kind = KindStaticFunction
		sig.StaticName = decl.Name
	case syntax.AffiliationFree:
		sig.Kind = KindStaticFunction
		sig.StaticName = decl.Name
	default:
		sig.Kind = KindMemberFunction
		sig.MemberName = decl.Name
	}
	if isInitializerName(s.Strings, decl.Name) {
		sig.Kind = KindInitializer
	}
	if isCallAsFunctionName(s.Strings, decl.Name) {
		sig.Kind = KindCallAsFunction
	}

	s.Index.Declare(SymbolInfo[syntax.Syntax]{Signature: sig, Syntax: decl.Syntax})
}

func (s *Scout) buildParams(tree *syntax.Tree, paramIDs []syntax.ParamID) []SignatureParam {
	out := make([]SignatureParam, 0, len(paramIDs))
	for _, pid := range paramIDs {
		p := tree.Params.Get(uint32(pid))
		if p == nil {
			out = append(out, SignatureParam{})
			continue
		}
		typeStr, _ := s.Renderer.Strict(p.Type)
		out = append(out, SignatureParam{
			Label:      p.Label,
			HasLabel:   p.HasLabel,
			Type:       typeStr,
			HasDefault: p.HasDefault,
		})
	}
	return out
}

func isInitializerName(strings *source.Interner, name source.StringID) bool {
	n, ok := strings.Lookup(name)
	return ok && n == "init"
}

func isCallAsFunctionName(strings *source.Interner, name source.StringID) bool {
	n, ok := strings.Lookup(name)
	return ok && n == "callAsFunction"
}
