package syntax

import "implicits/internal/source"

// Syntax is an opaque handle back to whatever produced a syntax node: a
// host-AST node when the tree belongs to the module currently being
// analyzed, or a source.Span when the tree was reconstructed from a
// dependency's serialized module interface and no live host AST exists.
// Nodes carry this handle purely for diagnostic location; nothing in this
// package inspects it.
type Syntax = any

// TopLevelItemKind discriminates the four shapes a file-level entry can
// take.
type TopLevelItemKind uint8

const (
	TopLevelImport TopLevelItemKind = iota
	TopLevelDeclaration
	TopLevelExtension
	TopLevelIfConfig
)

// TopLevelItem is one entry directly inside a File's item list.
type TopLevelItem struct {
	Kind      TopLevelItemKind
	Import    ImportID
	Decl      DeclID
	Extension ExtensionID
	IfConfig  TopLevelIfConfigID
}

// File is a single source file's top-level item list.
type File struct {
	ID    source.FileID
	Items []TopLevelItemID
}

// Tree is the full syntax forest for a module: every file's top-level
// items, plus the arenas every node kind is allocated from.
type Tree struct {
	Files []File

	TopLevelItems     *Arena[TopLevelItem]
	Imports           *Arena[Import]
	Declarations      *Arena[Decl]
	Extensions        *Arena[Extension]
	TopLevelIfConfigs *Arena[IfConfigBlock[TopLevelItemID]]
	CodeIfConfigs     *Arena[IfConfigBlock[CodeBlockItemID]]
	CodeBlockItems    *Arena[CodeBlockItem]
	Stmts             *Arena[Stmt]
	Exprs             *Arena[Expr]
	Types             *Arena[TypeExpr]
	Attrs             *Arena[Attr]
	Bindings          *Arena[Binding]
	Params            *Arena[Param]
}

// NewTree allocates an empty Tree with all arenas ready for use.
func NewTree() *Tree {
	return &Tree{
		TopLevelItems:     NewArena[TopLevelItem](0),
		Imports:           NewArena[Import](0),
		Declarations:      NewArena[Decl](0),
		Extensions:        NewArena[Extension](0),
		TopLevelIfConfigs: NewArena[IfConfigBlock[TopLevelItemID]](0),
		CodeIfConfigs:     NewArena[IfConfigBlock[CodeBlockItemID]](0),
		CodeBlockItems:    NewArena[CodeBlockItem](0),
		Stmts:             NewArena[Stmt](0),
		Exprs:             NewArena[Expr](0),
		Types:             NewArena[TypeExpr](0),
		Attrs:             NewArena[Attr](0),
		Bindings:          NewArena[Binding](0),
		Params:            NewArena[Param](0),
	}
}
