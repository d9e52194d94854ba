package sema

import (
	"implicits/internal/source"
	"implicits/internal/symtab"
	"implicits/internal/syntax"
)

// NodeID identifies a node inside a Tree's flat node arena. Every node
// kind lives in the same arena — unlike internal/syntax, the sema tree is
// small enough that per-kind arenas would only add indirection.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// NodeKind discriminates the node shapes the requirements graph (C9)
// understands. TopLevel- and member-block-only kinds (TypeDeclaration,
// FunctionDeclaration, KeysDeclaration, Implicit-as-member, Bag, Field)
// share the arena with code-block kinds; Kind plus the node's nesting
// position tells a consumer which fields are meaningful.
type NodeKind uint8

const (
	NodeTypeDeclaration NodeKind = iota
	NodeExtensionDeclaration
	NodeFunctionDeclaration
	NodeKeysDeclaration

	NodeMemberImplicit
	NodeMemberBag
	NodeField

	NodeDeferStatement
	NodeClosureExpression
	NodeInnerScope
	NodeFunctionCall
	NodeImplicitScopeBegin
	NodeImplicitScopeEnd
	NodeWithScope
	NodeWithNamedImplicits
	NodeImplicitMap
	NodeImplicit
	NodeUnresolvedIfConfigBlock
)

// ImplicitMode discriminates a NodeImplicit's direction.
type ImplicitMode uint8

const (
	ModeGet ImplicitMode = iota
	ModeSet
)

// Node is a single sema-tree entry. Only the fields relevant to Kind are
// populated. Span and Namespace let the requirements graph attribute
// diagnostics without needing to walk back into internal/syntax.
type Node struct {
	Kind      NodeKind
	Span      source.Span
	Namespace []source.StringID

	Children []NodeID // FunctionDeclaration body, DeferStatement/InnerScope/WithScope/WithNamedImplicits body, TypeDeclaration/ExtensionDeclaration members

	// ImplicitScopeBegin, WithScope
	Nested  bool
	WithBag bool

	// FunctionCall
	Signature symtab.CallableSignature
	Candidate symtab.SymbolID // resolved defining symbol, once resolved

	// ClosureExpression
	HasBag bool

	// WithNamedImplicits
	WrapperName        string
	ClosureParamCount  int

	// ImplicitMap
	From, To ImplicitKey

	// Implicit (code-block) / MemberImplicit
	Mode ImplicitMode
	Key  ImplicitKey

	// KeysDeclaration
	KeyDecls []ImplicitKeyDecl

	// UnresolvedIfConfigBlock
	ConditionText string

	// FunctionDeclaration
	IsScopeTaking  bool
	IsInitializer  bool
	FunctionSymbol symtab.SymbolID
	Visibility     syntax.Visibility
}

// ImplicitKeyDecl is a single entry of a `keysDeclaration` node: a
// key-path key declared through an ImplicitsKeys extension.
type ImplicitKeyDecl struct {
	Name string
	Type string
}

// Tree is the full sema forest for a module: one root node list per file
// plus the shared node arena.
type Tree struct {
	Roots []NodeID
	nodes []Node
}

// NewTree allocates an empty Tree.
func NewTree() *Tree { return &Tree{nodes: []Node{{}}} }

// Alloc appends a node and returns its ID.
func (t *Tree) Alloc(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// Get returns a pointer to the node at id, or nil for an invalid id.
func (t *Tree) Get(id NodeID) *Node {
	if !id.IsValid() || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Len reports the number of allocated nodes, excluding the sentinel.
func (t *Tree) Len() int { return len(t.nodes) - 1 }
