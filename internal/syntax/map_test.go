package syntax

import (
	"testing"

	"implicits/internal/source"
)

func buildSampleTree() *Tree {
	tr := NewTree()

	nameID := tr.Declarations.Allocate(Decl{
		Kind:       DeclFunction,
		Syntax:     "host-node-fn",
		Name:       source.StringID(1),
		Visibility: VisPublic,
		Function: &FunctionDecl{
			Affiliation: AffiliationFree,
		},
	})
	paramID := tr.Params.Allocate(Param{
		Syntax: "host-node-param",
		Name:   source.StringID(2),
	})
	_ = paramID
	tr.TopLevelItems.Allocate(TopLevelItem{
		Kind: TopLevelDeclaration,
		Decl: DeclID(nameID),
	})
	tr.Imports.Allocate(Import{Syntax: "host-node-import"})

	return tr
}

func TestMapSyntaxReplacesEveryHandle(t *testing.T) {
	tr := buildSampleTree()

	out := MapSyntax(tr, func(s Syntax) Syntax {
		host, ok := s.(string)
		if !ok {
			return s
		}
		return source.Span{File: 1, Start: 0, End: uint32(len(host))}
	})

	decl := out.Declarations.Get(1)
	if decl == nil {
		t.Fatal("expected declaration to survive MapSyntax")
	}
	if _, ok := decl.Syntax.(source.Span); !ok {
		t.Fatalf("expected declaration Syntax to become a source.Span, got %T", decl.Syntax)
	}
	if decl.Name != source.StringID(1) || decl.Visibility != VisPublic {
		t.Fatalf("expected non-Syntax fields untouched, got %+v", *decl)
	}

	param := out.Params.Get(1)
	if param == nil {
		t.Fatal("expected param to survive MapSyntax")
	}
	if _, ok := param.Syntax.(source.Span); !ok {
		t.Fatalf("expected param Syntax to become a source.Span, got %T", param.Syntax)
	}

	imp := out.Imports.Get(1)
	if imp == nil || imp.Syntax == nil {
		t.Fatal("expected import Syntax to be remapped, not cleared")
	}
}

func TestMapSyntaxLeavesOriginalTreeUntouched(t *testing.T) {
	tr := buildSampleTree()
	_ = MapSyntax(tr, func(Syntax) Syntax { return source.Span{} })

	decl := tr.Declarations.Get(1)
	if _, ok := decl.Syntax.(string); !ok {
		t.Fatalf("expected original tree's Syntax handle to remain a string, got %T", decl.Syntax)
	}
}

func TestMapSyntaxPreservesIDsAndArenaLengths(t *testing.T) {
	tr := buildSampleTree()
	out := MapSyntax(tr, func(Syntax) Syntax { return source.Span{} })

	if out.Declarations.Len() != tr.Declarations.Len() {
		t.Fatalf("expected matching declaration arena length, got %d vs %d", out.Declarations.Len(), tr.Declarations.Len())
	}
	if out.TopLevelItems.Get(1).Decl != DeclID(1) {
		t.Fatalf("expected top-level item to still reference DeclID(1), got %v", out.TopLevelItems.Get(1).Decl)
	}
}
