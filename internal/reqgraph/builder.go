package reqgraph

import (
	"sort"

	"implicits/internal/diag"
	"implicits/internal/sema"
	"implicits/internal/source"
	"implicits/internal/symtab"
	"implicits/internal/syntax"
)

// Options configures a single Builder pass over one module's sema tree.
type Options struct {
	Strings  *source.Interner
	Reporter diag.Reporter
}

// implicitChain tracks the in-progress `implicitStoredProperties` list for
// one type's namespace: tail is where the next member or bag attaches,
// head is the eventual attachment point for that type's scope-taking
// initializers. The two coincide until a stored bag is declared, at which
// point the bag becomes the new head while tail keeps tracking the most
// recently chained member so later members still link in behind it.
type implicitChain struct {
	head NodeID
	tail NodeID
}

// Builder walks a *sema.Tree and produces the requirements graph it
// describes (§4.7). It is stateless between independent Build calls.
type Builder struct {
	opts Options
	tree *sema.Tree
	out  *Graph

	symbolToNode map[symtab.SymbolID]NodeID
	pendingCalls []NodeID
	bagChecks    []NodeID

	chains     map[string]*implicitChain
	scopeInits map[string][]NodeID
}

// NewBuilder constructs a Builder over a single sema tree.
func NewBuilder(opts Options, tree *sema.Tree) *Builder {
	return &Builder{
		opts:         opts,
		tree:         tree,
		out:          NewGraph(),
		symbolToNode: make(map[symtab.SymbolID]NodeID),
		chains:       make(map[string]*implicitChain),
		scopeInits:   make(map[string][]NodeID),
	}
}

// Build walks every root of the sema tree and returns the resulting
// Graph, with symbol references resolved, stored-implicit initializer
// edges attached, and requirements propagated to a fixed point.
func (b *Builder) Build() *Graph {
	for _, root := range b.tree.Roots {
		b.walkTopLevel(root)
	}
	b.resolveSymbolReferences()
	b.attachStoredImplicitChains()
	b.propagate()
	return b.out
}

func (b *Builder) report(code diag.Code, sev diag.Severity, span source.Span, msg string) {
	if b.opts.Reporter != nil {
		b.opts.Reporter.Report(code, sev, span, msg, nil)
	}
}

// --- top-level and member-block walking --------------------------------

func (b *Builder) walkTopLevel(id sema.NodeID) {
	node := b.tree.Get(id)
	if node == nil {
		return
	}
	switch node.Kind {
	case sema.NodeTypeDeclaration, sema.NodeExtensionDeclaration:
		key := b.namespaceKey(node.Namespace)
		for _, child := range node.Children {
			b.walkMember(child, key)
		}
	case sema.NodeFunctionDeclaration:
		b.walkFunctionDeclaration(id, "", true)
	case sema.NodeKeysDeclaration:
		// Key-path key declarations feed C10's definedKeypathKeys and
		// C11's key-tag synthesis directly from the sema tree; they
		// contribute no node to the requirements graph itself.
	}
}

func (b *Builder) walkMember(id sema.NodeID, namespaceKey string) {
	node := b.tree.Get(id)
	if node == nil {
		return
	}
	switch node.Kind {
	case sema.NodeFunctionDeclaration:
		b.walkFunctionDeclaration(id, namespaceKey, true)
	case sema.NodeTypeDeclaration:
		b.walkTopLevel(id)
	case sema.NodeMemberImplicit:
		b.walkStoredImplicit(id, node, namespaceKey)
	case sema.NodeMemberBag:
		b.walkStoredBag(id, node, namespaceKey)
	case sema.NodeField:
		// A plain (non-@Implicit) member's accessor body never has a
		// bound "scope" local — nothing in it can construct, read, or
		// write an implicit, so there is nothing here for the graph.
	}
}

func (b *Builder) walkStoredImplicit(id sema.NodeID, node *sema.Node, namespaceKey string) {
	n := Node{Origin: id, Span: node.Span, Requires: sema.NewKeySet(), Provides: sema.NewKeySet()}
	if node.Mode == sema.ModeGet {
		n.Requires.Add(node.Key)
	} else {
		n.Provides.Add(node.Key)
	}
	nid := b.out.Alloc(n)
	b.chainMember(namespaceKey, nid)
}

func (b *Builder) walkStoredBag(id sema.NodeID, node *sema.Node, namespaceKey string) {
	nid := b.out.Alloc(Node{Origin: id, Span: node.Span, Requires: sema.NewKeySet(), Provides: sema.NewKeySet()})
	chain := b.chainFor(namespaceKey)
	if chain.tail.IsValid() {
		b.out.addEdge(nid, chain.tail)
	}
	chain.head = nid
	b.out.Bags = append(b.out.Bags, BagRef{Bag: nid, File: node.Span.File})
	b.bagChecks = append(b.bagChecks, nid)
}

func (b *Builder) chainFor(namespaceKey string) *implicitChain {
	c, ok := b.chains[namespaceKey]
	if !ok {
		c = &implicitChain{}
		b.chains[namespaceKey] = c
	}
	return c
}

// chainMember links a newly allocated stored-implicit node behind the
// current tail of its type's chain — see implicitChain's doc comment.
func (b *Builder) chainMember(namespaceKey string, nid NodeID) {
	chain := b.chainFor(namespaceKey)
	if chain.tail.IsValid() {
		b.out.addEdge(nid, chain.tail)
	}
	if chain.head.IsValid() && chain.head != chain.tail {
		b.out.addEdge(chain.head, nid)
	} else {
		chain.head = nid
	}
	chain.tail = nid
}

// attachStoredImplicitChains wires every scope-taking initializer of a
// type to the head of that type's implicitStoredProperties chain, once
// every member has been seen. A type whose chain is non-empty but which
// declared no scope-taking initializer is not separately diagnosed: the
// data model has no code for that failure, and the specification is
// silent on it.
func (b *Builder) attachStoredImplicitChains() {
	for key, inits := range b.scopeInits {
		chain, ok := b.chains[key]
		if !ok || !chain.head.IsValid() {
			continue
		}
		for _, initNode := range inits {
			b.out.addEdge(initNode, chain.head)
		}
	}
}

func (b *Builder) namespaceKey(ns []source.StringID) string {
	return NamespaceKey(b.opts.Strings, ns)
}

// --- function declarations ----------------------------------------------

func (b *Builder) walkFunctionDeclaration(id sema.NodeID, namespaceKey string, topLevel bool) {
	node := b.tree.Get(id)
	if node == nil {
		return
	}

	declNode := b.out.Alloc(Node{Origin: id, Span: node.Span, Requires: sema.NewKeySet(), Provides: sema.NewKeySet()})
	if node.FunctionSymbol.IsValid() {
		b.symbolToNode[node.FunctionSymbol] = declNode
	}

	if topLevel && node.IsScopeTaking {
		b.out.ImplicitFunctions = append(b.out.ImplicitFunctions, declNode)
		if node.Visibility.MoreOrEqualVisible(syntax.VisPublic) {
			b.out.PublicInterface = append(b.out.PublicInterface, declNode)
			b.out.TestableInterface = append(b.out.TestableInterface, declNode)
		} else if node.Visibility.MoreOrEqualVisible(syntax.VisInternal) {
			b.out.TestableInterface = append(b.out.TestableInterface, declNode)
		}
		if node.IsInitializer && namespaceKey != "" {
			b.scopeInits[namespaceKey] = append(b.scopeInits[namespaceKey], declNode)
		}
	}

	scope := ScopeState{Kind: ScopeNone}
	if node.IsScopeTaking {
		scope = ScopeState{Kind: ScopeInherited}
	}
	state := CodeBlockState{Parent: declNode, Scope: scope, FileTag: node.Span.File}
	b.walkBody(node.Children, state)
}

// --- body walking --------------------------------------------------------

func (b *Builder) walkBody(children []sema.NodeID, state CodeBlockState) CodeBlockState {
	for _, id := range children {
		state = b.walkBodyNode(id, state)
	}
	return state
}

func (b *Builder) walkBodyNode(id sema.NodeID, state CodeBlockState) CodeBlockState {
	node := b.tree.Get(id)
	if node == nil {
		return state
	}
	switch node.Kind {
	case sema.NodeInnerScope, sema.NodeUnresolvedIfConfigBlock:
		// Transparent wrapper: if/while/for/switch bodies, do/catch
		// bodies, and genuinely ambiguous #if branches all thread the
		// same linear state through — none of them open a new scope of
		// their own, they just group statements that already ran (or
		// would have run) inline.
		return b.walkBody(node.Children, state)
	case sema.NodeFunctionDeclaration:
		b.walkFunctionDeclaration(id, "", false)
		return state
	case sema.NodeTypeDeclaration, sema.NodeExtensionDeclaration:
		b.walkTopLevel(id)
		return state
	case sema.NodeDeferStatement:
		b.walkDefer(id, node, &state)
		return state
	case sema.NodeClosureExpression:
		return b.walkClosure(id, node, state)
	case sema.NodeImplicitScopeBegin:
		return b.walkScopeBegin(id, node, state)
	case sema.NodeWithScope:
		return b.walkWithScope(id, node, state)
	case sema.NodeWithNamedImplicits:
		return b.walkWithNamedImplicits(id, node, state)
	case sema.NodeImplicitMap:
		b.walkImplicitMap(id, node, state)
		return state
	case sema.NodeImplicit:
		b.walkImplicit(id, node, state)
		return state
	case sema.NodeFunctionCall:
		return b.walkFunctionCall(id, node, state)
	default:
		return state
	}
}

func (b *Builder) mergeRequire(parent NodeID, key sema.ImplicitKey) {
	n := b.out.Get(parent)
	if n == nil {
		return
	}
	if n.Requires == nil {
		n.Requires = sema.NewKeySet()
	}
	n.Requires.Add(key)
}

func (b *Builder) mergeProvide(parent NodeID, key sema.ImplicitKey) {
	n := b.out.Get(parent)
	if n == nil {
		return
	}
	if n.Provides == nil {
		n.Provides = sema.NewKeySet()
	}
	n.Provides.Add(key)
}

func (b *Builder) walkImplicit(id sema.NodeID, node *sema.Node, state CodeBlockState) {
	switch node.Mode {
	case sema.ModeGet:
		if state.Scope.Kind == ScopeNone {
			b.report(diag.ScopeMissing, diag.SevError, node.Span, "missing scope")
		}
		b.mergeRequire(state.Parent, node.Key)
	case sema.ModeSet:
		switch state.Scope.Kind {
		case ScopeNone:
			b.report(diag.ScopeMissing, diag.SevError, node.Span, "missing scope")
		case ScopeInherited:
			b.report(diag.ScopeWriteToInherited, diag.SevError, node.Span, "writing to implicit scope without local 'ImplicitScope'")
		}
		b.mergeProvide(state.Parent, node.Key)
	}
}

func (b *Builder) walkImplicitMap(id sema.NodeID, node *sema.Node, state CodeBlockState) {
	switch state.Scope.Kind {
	case ScopeNone:
		b.report(diag.ScopeMissing, diag.SevError, node.Span, "missing scope")
	case ScopeInherited:
		b.report(diag.ScopeWriteToInherited, diag.SevError, node.Span, "writing to implicit scope without local 'ImplicitScope'")
	}
	b.mergeRequire(state.Parent, node.From)
	b.mergeProvide(state.Parent, node.To)
}

// --- scope construction ---------------------------------------------------

func (b *Builder) walkScopeBegin(id sema.NodeID, node *sema.Node, state CodeBlockState) CodeBlockState {
	trans := beginLocalScope(state.Scope, node.Nested, node.Span)
	b.reportTransition(trans, node.Span, state.Scope.DeclaredAt)

	newNode := b.out.Alloc(Node{
		Origin:   id,
		Span:     node.Span,
		Requires: sema.NewKeySet(),
		Provides: sema.NewKeySet(),
		Broken:   trans.isError,
	})
	b.applyEdgePolicy(newNode, node.Nested, node.WithBag, &state)

	state.Parent = newNode
	state.Scope = trans.next
	return state
}

func (b *Builder) reportTransition(trans scopeTransition, span, firstDeclSpan source.Span) {
	if trans.isError {
		rb := diag.ReportError(b.opts.Reporter, trans.errCode, span, trans.errMsg)
		if trans.errCode == diag.ScopeMultipleLocal {
			rb = rb.WithNote(firstDeclSpan, "first local scope declared here")
		}
		rb.Emit()
		return
	}
	if trans.warn {
		b.report(diag.WarnScopeOverride, diag.SevWarning, span, "implicitly overriding existing scope")
	}
}

// applyEdgePolicy implements the §4.7 edge-policy table shared by
// implicitScopeBegin and withScope: (nested, usesBag, hasKnownParent).
func (b *Builder) applyEdgePolicy(newNode NodeID, nested, withBag bool, state *CodeBlockState) {
	switch {
	case nested && withBag:
		b.report(diag.ScopeNestedWithBag, diag.SevError, b.out.Get(newNode).Span, "nested scopes with bags are not supported")
	case !nested && !withBag:
		b.out.addEntryPoint(newNode)
	case nested && !withBag:
		if state.Parent.IsValid() {
			b.out.addEdge(state.Parent, newNode)
		} else {
			b.out.addEntryPoint(newNode)
		}
	case !nested && withBag:
		state.BagReferences = append(state.BagReferences, newNode)
	}
}

func (b *Builder) walkWithScope(id sema.NodeID, node *sema.Node, outer CodeBlockState) CodeBlockState {
	trans := beginLocalScope(outer.Scope, node.Nested, node.Span)
	b.reportTransition(trans, node.Span, outer.Scope.DeclaredAt)

	wNode := b.out.Alloc(Node{Origin: id, Span: node.Span, Requires: sema.NewKeySet(), Provides: sema.NewKeySet(), Broken: trans.isError})
	b.applyEdgePolicy(wNode, node.Nested, node.WithBag, &outer)

	inner := CodeBlockState{Parent: wNode, Scope: trans.next, FileTag: outer.FileTag}
	inner = b.walkBody(node.Children, inner)

	// withScope is block-scoped: the scope it introduces does not survive
	// past its own closing brace, so the caller's Scope is left untouched
	// for statements that follow it. Any bag reference its body couldn't
	// resolve bubbles out in case an enclosing closure resolves it.
	outer.BagReferences = append(outer.BagReferences, inner.BagReferences...)
	outer.Parent = wNode
	return outer
}

func (b *Builder) walkWithNamedImplicits(id sema.NodeID, node *sema.Node, outer CodeBlockState) CodeBlockState {
	wNode := b.out.Alloc(Node{Origin: id, Span: node.Span, Requires: sema.NewKeySet(), Provides: sema.NewKeySet()})
	b.out.NamedImplicitsWrappers = append(b.out.NamedImplicitsWrappers, wNode)

	inner := CodeBlockState{Parent: wNode, Scope: ScopeState{Kind: ScopeLocal, DeclaredAt: node.Span}, FileTag: outer.FileTag}
	b.walkBody(node.Children, inner)

	if outer.Parent.IsValid() {
		b.out.addEdge(outer.Parent, wNode)
	}
	outer.Parent = wNode
	return outer
}

// --- defer / scope.end() -------------------------------------------------

func (b *Builder) walkDefer(id sema.NodeID, node *sema.Node, state *CodeBlockState) {
	if !b.deferEndsScope(node.Children, 0) {
		return
	}
	switch {
	case state.Scope.Kind != ScopeLocal:
		b.report(diag.ScopeEndUnpaired, diag.SevError, node.Span, "scope.end() without a matching local scope")
	case state.Scope.Ended:
		b.report(diag.ScopeEndUnpaired, diag.SevError, node.Span, "scope.end() without a matching local scope")
	default:
		state.Scope.Ended = true
	}
}

// deferEndsScope reports whether a defer body (or, one level down, a
// closure literal nested directly inside it) contains a lowered
// scope.end() call. Deeper placement is already rejected by C8's own
// defer-body validation, so this only needs to look one level down.
func (b *Builder) deferEndsScope(children []sema.NodeID, depth int) bool {
	for _, id := range children {
		node := b.tree.Get(id)
		if node == nil {
			continue
		}
		if node.Kind == sema.NodeImplicitScopeEnd {
			return true
		}
		if node.Kind == sema.NodeClosureExpression && depth == 0 {
			if b.deferEndsScope(node.Children, depth+1) {
				return true
			}
		}
	}
	return false
}

// --- closures --------------------------------------------------------------

func (b *Builder) walkClosure(id sema.NodeID, node *sema.Node, state CodeBlockState) CodeBlockState {
	if !node.HasBag {
		// C8 shares the enclosing Context (and its bound "scope" local)
		// with every closure literal unconditionally, so a closure with
		// no captured bag of its own is not a boundary at all from the
		// requirements-graph's point of view — it is simply more
		// statements inline.
		return b.walkBody(node.Children, state)
	}

	bagNode := b.out.Alloc(Node{Origin: id, Span: node.Span, Requires: sema.NewKeySet(), Provides: sema.NewKeySet()})
	b.out.Bags = append(b.out.Bags, BagRef{Bag: bagNode, File: node.Span.File})
	b.bagChecks = append(b.bagChecks, bagNode)

	bagState := CodeBlockState{Parent: bagNode, Scope: ScopeState{Kind: ScopeNone}, FileTag: state.FileTag}
	b.walkBody(node.Children, bagState)

	closureNode := b.out.Alloc(Node{Origin: id, Span: node.Span, Requires: sema.NewKeySet(), Provides: sema.NewKeySet()})
	b.out.addEdge(closureNode, bagNode)
	if state.Parent.IsValid() {
		b.out.addEdge(state.Parent, closureNode)
	}
	state.Parent = closureNode
	return state
}

// --- function calls ---------------------------------------------------------

func (b *Builder) walkFunctionCall(id sema.NodeID, node *sema.Node, state CodeBlockState) CodeBlockState {
	n := Node{Origin: id, Span: node.Span, Requires: sema.NewKeySet(), Provides: sema.NewKeySet()}
	if node.Candidate.IsValid() {
		n.Callee = node.Candidate
	} else {
		// C8 already reported this call as unresolved or ambiguous; the
		// node stays in the graph (reachability must stay consistent)
		// but contributes no edge of its own.
		n.Broken = true
	}
	callNode := b.out.Alloc(n)
	if node.Candidate.IsValid() {
		b.pendingCalls = append(b.pendingCalls, callNode)
	}
	if state.Parent.IsValid() {
		b.out.addEdge(state.Parent, callNode)
	}
	state.Parent = callNode
	return state
}

// resolveSymbolReferences is §4.7 step 2, simplified: C8 already performed
// overload resolution down to a single symtab.SymbolID (or reported the
// call itself as unresolved/ambiguous and left Candidate invalid), so
// there is only ever zero-or-one match to look for here, never many. A
// valid symbol with no corresponding declaration node in this tree is a
// call into a different compilation unit and is left without an edge.
func (b *Builder) resolveSymbolReferences() {
	for _, callNode := range b.pendingCalls {
		n := b.out.Get(callNode)
		if n == nil {
			continue
		}
		if defNode, ok := b.symbolToNode[n.Callee]; ok {
			b.out.addEdge(callNode, defNode)
		}
	}
}

// --- propagation -----------------------------------------------------------

// propagate computes the fixed point described in §4.7 step 3 for every
// entry point and auxiliary root, then diagnoses the two failure classes
// that can only be known once propagation has run: an entry point whose
// local scope still has outstanding requirements after full propagation
// (nothing will ever supply them, since an entry point is not itself
// inherited from a caller), and a captured bag whose propagated
// requirement set came back empty (nothing inside it ever needed what it
// captured).
func (b *Builder) propagate() {
	visiting := make(map[NodeID]bool)

	roots := make([]NodeID, 0, len(b.out.EntryPoints)+len(b.out.Bags)+len(b.out.NamedImplicitsWrappers)+len(b.out.PublicInterface)+len(b.out.TestableInterface)+len(b.out.ImplicitFunctions))
	roots = append(roots, b.out.EntryPoints...)
	for _, br := range b.out.Bags {
		roots = append(roots, br.Bag)
	}
	roots = append(roots, b.out.NamedImplicitsWrappers...)
	roots = append(roots, b.out.PublicInterface...)
	roots = append(roots, b.out.TestableInterface...)
	roots = append(roots, b.out.ImplicitFunctions...)

	for _, r := range roots {
		b.requirementsOf(r, visiting)
	}

	for _, ep := range b.out.EntryPoints {
		req := b.requirementsOf(ep, visiting)
		if len(req) == 0 {
			continue
		}
		span := source.Span{}
		if n := b.out.Get(ep); n != nil {
			span = n.Span
		}
		b.report(diag.ReqUnresolved, diag.SevError, span, "unresolved requirement(s): "+joinKeyNames(req))
	}

	for _, bagNode := range b.bagChecks {
		req := b.requirementsOf(bagNode, visiting)
		if len(req) != 0 {
			continue
		}
		span := source.Span{}
		if n := b.out.Get(bagNode); n != nil {
			span = n.Span
		}
		b.report(diag.ScopeUnusedBag, diag.SevError, span, "unused bag")
	}
}

// requirementsOf returns the memoised fixed point for id, computing it on
// first visit. A node reached while already on the current recursion
// stack (a call cycle) contributes nothing to that stack frame — whatever
// it requires is already accumulated in an ancestor frame by the time the
// cycle closes.
func (b *Builder) requirementsOf(id NodeID, visiting map[NodeID]bool) sema.KeySet {
	n := b.out.Get(id)
	if n == nil {
		return sema.KeySet{}
	}
	if n.memoized {
		return n.requirementsMemo
	}
	if visiting[id] {
		return sema.NewKeySet()
	}
	visiting[id] = true

	acc := sema.NewKeySet()
	for _, e := range n.Edges {
		acc = acc.Union(b.requirementsOf(e, visiting))
	}
	if n.Requires != nil {
		acc = acc.Union(n.Requires)
	}
	if n.Provides != nil {
		acc = acc.Subtract(n.Provides)
	}

	delete(visiting, id)
	n.requirementsMemo = acc
	n.memoized = true
	return acc
}

// joinKeyNames renders a key set's names, sorted lexicographically, for
// the aggregate "unresolved requirement(s)" diagnostic message.
func joinKeyNames(ks sema.KeySet) string {
	names := make([]string, 0, len(ks))
	for k := range ks {
		names = append(names, k.String())
	}
	sort.Strings(names)
	out := ""
	for i, name := range names {
		if i > 0 {
			out += ", "
		}
		out += name
	}
	return out
}
