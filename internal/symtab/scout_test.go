package symtab

import (
	"testing"

	"implicits/internal/source"
	"implicits/internal/syntax"
)

func TestScoutDeclaresTopLevelFunction(t *testing.T) {
	tree := syntax.NewTree()
	strings := source.NewInterner()
	fetchName := strings.Intern("fetch")

	declID := tree.Declarations.Allocate(syntax.Decl{
		Kind: syntax.DeclFunction,
		Name: fetchName,
		Function: &syntax.FunctionDecl{
			Affiliation: syntax.AffiliationFree,
		},
	})
	itemID := tree.TopLevelItems.Allocate(syntax.TopLevelItem{
		Kind: syntax.TopLevelDeclaration,
		Decl: syntax.DeclID(declID),
	})
	tree.Files = append(tree.Files, syntax.File{ID: source.FileID(1), Items: []syntax.TopLevelItemID{syntax.TopLevelItemID(itemID)}})

	scout := NewScout(strings, tree)
	scout.Run(tree)

	got := scout.Index.FindStaticOrFree(nil, fetchName, nil, nil)
	if !got.Resolved() {
		t.Fatalf("expected top-level function to be forward-declared, got %+v", got)
	}
}

func TestScoutDeclaresTypeMember(t *testing.T) {
	tree := syntax.NewTree()
	strings := source.NewInterner()
	typeName := strings.Intern("Widget")
	memberName := strings.Intern("refresh")

	memberDeclID := tree.Declarations.Allocate(syntax.Decl{
		Kind: syntax.DeclFunction,
		Name: memberName,
		Function: &syntax.FunctionDecl{
			Affiliation: syntax.AffiliationInstance,
		},
	})
	blockID := tree.Declarations.Allocate(syntax.Decl{
		Kind:    syntax.DeclMemberBlock,
		Members: []syntax.DeclID{syntax.DeclID(memberDeclID)},
	})
	typeDeclID := tree.Declarations.Allocate(syntax.Decl{
		Kind:        syntax.DeclType,
		Name:        typeName,
		MemberBlock: syntax.DeclID(blockID),
	})
	itemID := tree.TopLevelItems.Allocate(syntax.TopLevelItem{
		Kind: syntax.TopLevelDeclaration,
		Decl: syntax.DeclID(typeDeclID),
	})
	tree.Files = append(tree.Files, syntax.File{ID: source.FileID(1), Items: []syntax.TopLevelItemID{syntax.TopLevelItemID(itemID)}})

	scout := NewScout(strings, tree)
	scout.Run(tree)

	got := scout.Index.FindMember([]source.StringID{typeName}, memberName, nil, nil)
	if !got.Resolved() {
		t.Fatalf("expected member function to be forward-declared under its type namespace, got %+v", got)
	}
}

func TestScoutDeclaresExtensionMember(t *testing.T) {
	tree := syntax.NewTree()
	strings := source.NewInterner()
	typeName := strings.Intern("Widget")
	memberName := strings.Intern("describe")

	memberDeclID := tree.Declarations.Allocate(syntax.Decl{
		Kind: syntax.DeclFunction,
		Name: memberName,
		Function: &syntax.FunctionDecl{
			Affiliation: syntax.AffiliationInstance,
		},
	})
	blockID := tree.Declarations.Allocate(syntax.Decl{
		Kind:    syntax.DeclMemberBlock,
		Members: []syntax.DeclID{syntax.DeclID(memberDeclID)},
	})
	extID := tree.Extensions.Allocate(syntax.Extension{
		Namespace:   []source.StringID{typeName},
		MemberBlock: syntax.DeclID(blockID),
	})
	itemID := tree.TopLevelItems.Allocate(syntax.TopLevelItem{
		Kind:      syntax.TopLevelExtension,
		Extension: syntax.ExtensionID(extID),
	})
	tree.Files = append(tree.Files, syntax.File{ID: source.FileID(1), Items: []syntax.TopLevelItemID{syntax.TopLevelItemID(itemID)}})

	scout := NewScout(strings, tree)
	scout.Run(tree)

	got := scout.Index.FindMember([]source.StringID{typeName}, memberName, nil, nil)
	if !got.Resolved() {
		t.Fatalf("expected extension member to be forward-declared, got %+v", got)
	}
}

func TestScoutDeclaresInitializerByName(t *testing.T) {
	tree := syntax.NewTree()
	strings := source.NewInterner()
	initName := strings.Intern("init")

	declID := tree.Declarations.Allocate(syntax.Decl{
		Kind: syntax.DeclFunction,
		Name: initName,
		Function: &syntax.FunctionDecl{
			Affiliation: syntax.AffiliationInstance,
		},
	})
	itemID := tree.TopLevelItems.Allocate(syntax.TopLevelItem{
		Kind: syntax.TopLevelDeclaration,
		Decl: syntax.DeclID(declID),
	})
	tree.Files = append(tree.Files, syntax.File{ID: source.FileID(1), Items: []syntax.TopLevelItemID{syntax.TopLevelItemID(itemID)}})

	scout := NewScout(strings, tree)
	scout.Run(tree)

	got := scout.Index.FindInitializer(nil, nil, nil)
	if !got.Resolved() {
		t.Fatalf("expected init-named function to be classified as an initializer, got %+v", got)
	}
}
