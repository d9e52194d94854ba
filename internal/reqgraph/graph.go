// Package reqgraph builds the requirements graph (§4.7): a directed graph
// whose nodes provide and require implicit keys, derived from a
// sema.Tree. Propagating requirements along edges to a fixed point answers
// the question every entry point ultimately needs answered — "what set of
// implicit values must already be in scope before this code can run".
package reqgraph

import (
	"implicits/internal/sema"
	"implicits/internal/source"
	"implicits/internal/symtab"
)

// NodeID identifies a node inside a Graph's flat node arena.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Node is a single requirements-graph entry. Edges are ordered: within a
// parent, source order is the tie-break the fixpoint sort relies on for a
// deterministic result.
type Node struct {
	Origin sema.NodeID
	Span   source.Span

	Provides sema.KeySet
	Requires sema.KeySet
	Edges    []NodeID

	// Callee carries the symbol a function-call node resolved against, as
	// recorded by C8. resolveSymbolReferences (§4.7 step 2) turns a valid
	// Callee into an edge and leaves the field set; a call that never had a resolved
	// candidate (C8 already reported it as unresolved or ambiguous) leaves
	// Callee invalid and contributes no edge.
	Callee symtab.SymbolID

	IsEntryPoint bool

	// Broken marks a node with an illegal structural state (orphan
	// scope.end(), unused bag, writing to an inherited scope, ...). The
	// node stays in the graph — reachability still needs a consistent
	// picture — but its own requirements no longer matter to the
	// diagnostic already reported for it.
	Broken bool

	// requirementsMemo caches the fixed point computed for this node
	// during propagation; memoized reports whether it has been computed.
	// A visit to a node already on the current call stack (a cycle)
	// yields an empty set, per the "re-entry returns empty" rule, and
	// leaves the memo untouched.
	requirementsMemo sema.KeySet
	memoized         bool
}

// BagRef is one entry of the bags side list: a bag node paired with the
// file it was declared in, needed by C10/C11 to attribute bag-seeded
// interfaces back to a source location.
type BagRef struct {
	Bag  NodeID
	File source.FileID
}

// Graph is the full requirements graph for a module: one flat node arena
// plus the side lists §4.7 Build and Propagate both read from.
type Graph struct {
	nodes []Node

	EntryPoints []NodeID
	Bags        []BagRef

	PublicInterface        []NodeID
	TestableInterface      []NodeID
	ImplicitFunctions      []NodeID
	NamedImplicitsWrappers []NodeID
}

// NamespaceKey returns a stable map key for a dotted symbol namespace,
// used by the builder to key the per-type stored-implicit and
// stored-bag-usage tracking maps described in §4.7.
func NamespaceKey(strings *source.Interner, ns []source.StringID) string {
	key := ""
	for i, seg := range ns {
		if i > 0 {
			key += "."
		}
		s, _ := strings.Lookup(seg)
		key += s
	}
	return key
}

// NewGraph allocates an empty Graph with the sentinel NoNodeID pre-seeded.
func NewGraph() *Graph {
	return &Graph{nodes: []Node{{}}}
}

// Alloc appends a node and returns its ID.
func (g *Graph) Alloc(n Node) NodeID {
	g.nodes = append(g.nodes, n)
	return NodeID(len(g.nodes) - 1)
}

// Get returns a pointer to the node at id, or nil for an invalid id.
func (g *Graph) Get(id NodeID) *Node {
	if !id.IsValid() || int(id) >= len(g.nodes) {
		return nil
	}
	return &g.nodes[id]
}

// Len reports the number of allocated nodes, excluding the sentinel.
func (g *Graph) Len() int { return len(g.nodes) - 1 }

// AllNodeIDs returns every allocated node's ID in allocation order,
// excluding the sentinel.
func (g *Graph) AllNodeIDs() []NodeID {
	ids := make([]NodeID, g.Len())
	for i := range ids {
		ids[i] = NodeID(i + 1)
	}
	return ids
}

// Requirements returns the fixed point Build's propagation pass computed
// for id — empty for an id that was never reached from a root (an entry
// point, a bag, a named-implicits wrapper, an interface symbol, or an
// implicit function).
func (g *Graph) Requirements(id NodeID) sema.KeySet {
	n := g.Get(id)
	if n == nil || !n.memoized {
		return sema.NewKeySet()
	}
	return n.requirementsMemo
}

// addEdge appends target to from's edge list, preserving source order.
func (g *Graph) addEdge(from, target NodeID) {
	n := g.Get(from)
	if n == nil || !target.IsValid() {
		return
	}
	n.Edges = append(n.Edges, target)
}

// addEntryPoint records id as an entry point, skipping the sentinel.
func (g *Graph) addEntryPoint(id NodeID) {
	if n := g.Get(id); n != nil {
		n.IsEntryPoint = true
		g.EntryPoints = append(g.EntryPoints, id)
	}
}
