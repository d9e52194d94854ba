package modiface

import (
	"sort"

	"implicits/internal/bytestream"
	"implicits/internal/reqgraph"
	"implicits/internal/sema"
	"implicits/internal/source"
	"implicits/internal/symtab"
)

// BuildOptions gathers every input Build needs to turn one module's
// already-resolved analysis state into a ModuleInterface. Everything here
// was already computed by an earlier component (C7's Index, C8's Tree, C9's
// Graph) — Build performs no resolution of its own, only projection and
// rendering.
type BuildOptions struct {
	ModuleName string

	Tree     *sema.Tree
	Graph    *reqgraph.Graph
	Index    *symtab.Index[syntax_Syntax]
	Strings  *source.Interner
	FileSet  *source.FileSet

	// ReexportedModules is supplied by the driver rather than derived here:
	// internal/sema's node-kind set has no representation for an import or
	// re-export declaration at all (the host grammar concept never got a
	// lowering target), so nothing in the sema tree can answer "which
	// modules were imported with the exported attribute" yet. Until that
	// gap is closed this list is whatever the caller already knows.
	ReexportedModules []string
}

// Build projects the public and testable surface of a single module's
// analysis into a ModuleInterface, per §4.8.
func Build(opts BuildOptions) *ModuleInterface {
	mi := &ModuleInterface{
		ModuleName:        opts.ModuleName,
		ReexportedModules: opts.ReexportedModules,
	}
	for _, id := range opts.Graph.PublicInterface {
		if s, ok := buildSymbol(opts, id); ok {
			mi.Symbols = append(mi.Symbols, s)
		}
	}
	for _, id := range opts.Graph.TestableInterface {
		if s, ok := buildSymbol(opts, id); ok {
			mi.TestableSymbols = append(mi.TestableSymbols, s)
		}
	}
	mi.DefinedKeypathKeys = collectKeypathKeys(opts.Tree)
	return mi
}

// syntax_Syntax exists only so this file doesn't have to import
// internal/syntax solely to spell its Syntax alias; Build's caller always
// instantiates the same *symtab.Index[syntax.Syntax] Scout produces, and
// syntax.Syntax is itself declared as `any` (see internal/syntax's mapSyntax
// design note), so the two names are interchangeable at the type level.
type syntax_Syntax = any

func buildSymbol(opts BuildOptions, nodeID reqgraph.NodeID) (Symbol, bool) {
	gn := opts.Graph.Get(nodeID)
	if gn == nil {
		return Symbol{}, false
	}
	declNode := opts.Tree.Get(gn.Origin)
	if declNode == nil || !declNode.FunctionSymbol.IsValid() || opts.Index == nil {
		return Symbol{}, false
	}
	symInfo := opts.Index.Get(declNode.FunctionSymbol)
	if symInfo == nil {
		return Symbol{}, false
	}
	sig := symInfo.Signature

	info := SymbolInfo{
		Kind:           sig.Kind,
		Parameters:     renderParameters(opts.Strings, sig.Parameters),
		Namespace:      renderNames(opts.Strings, sig.Namespace),
		ReturnType:     renderReturnType(sig.ReturnType),
		SourceLocation: resolveLocation(opts.FileSet, declNode.Span),
		File:           filePath(opts.FileSet, declNode.Span.File),
	}

	req := opts.Graph.Requirements(nodeID)
	keys := make([]ImplicitKey, 0, len(req))
	for k := range req {
		keys = append(keys, ImplicitKey{Kind: k.Kind, Name: k.Name})
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].Name < keys[j].Name
	})

	return Symbol{Info: info, HasRequirements: true, Requirements: keys}, true
}

func renderParameters(strings *source.Interner, params []symtab.SignatureParam) []Parameter {
	out := make([]Parameter, 0, len(params))
	for _, p := range params {
		name := "_"
		if p.HasLabel {
			name = lookup(strings, p.Label)
		}
		out = append(out, Parameter{Name: name, Type: p.Type, HasDefault: p.HasDefault})
	}
	return out
}

func renderNames(strings *source.Interner, ids []source.StringID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, lookup(strings, id))
	}
	return out
}

func lookup(strings *source.Interner, id source.StringID) string {
	if strings == nil {
		return ""
	}
	s, _ := strings.Lookup(id)
	return s
}

// renderReturnType always succeeds: symtab.CallableSignature.ReturnType is
// already a rendered string by the time a symbol reaches this package (C8
// renders it once, at lowering time, via internal/typerender), so there is
// no failure mode left to carry here. A malformed return type was already
// recorded as an internal/typerender.UnrenderableError upstream and shows
// up as the literal "<unrenderable>" substring in this same string.
func renderReturnType(rendered string) bytestream.Failable[ReturnType] {
	return bytestream.Success(ReturnType{Description: rendered, StrictDescription: rendered})
}

func resolveLocation(fileSet *source.FileSet, span source.Span) SourceLocation {
	if fileSet == nil {
		return SourceLocation{}
	}
	start, _ := fileSet.Resolve(span)
	return SourceLocation{File: filePath(fileSet, span.File), Line: int32(start.Line), Column: int32(start.Col)}
}

func filePath(fileSet *source.FileSet, id source.FileID) string {
	if fileSet == nil {
		return ""
	}
	f := fileSet.Get(id)
	if f == nil {
		return ""
	}
	return f.Path
}

// collectKeypathKeys walks every NodeKeysDeclaration in the tree and
// flattens its key-path declarations. The spec restricts this to public
// and package-visible declarations; internal/sema's KeysDeclaration node
// carries no Visibility field of its own today (only FunctionDeclaration
// does), so every declared key is currently treated as at least
// package-visible and included unconditionally — a real visibility filter
// needs that field added to the node first.
func collectKeypathKeys(tree *sema.Tree) []KeypathKey {
	if tree == nil {
		return nil
	}
	var out []KeypathKey
	var walk func(id sema.NodeID)
	walk = func(id sema.NodeID) {
		n := tree.Get(id)
		if n == nil {
			return
		}
		if n.Kind == sema.NodeKeysDeclaration {
			for _, decl := range n.KeyDecls {
				out = append(out, KeypathKey{Name: decl.Name, Type: decl.Type})
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
