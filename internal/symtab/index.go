package symtab

import (
	"sort"

	"implicits/internal/diag"
	"implicits/internal/source"
)

// Index is the forward-declaration table Scout fills in and the
// sema-tree builder queries. It is generic over the syntax-handle type so
// the same code builds both the in-module index (handles = live syntax)
// and the index seeded from a dependency's module interface (handles =
// SourceLocation).
type Index[S any] struct {
	symbols []SymbolInfo[S]

	// failedInitializerNotes holds, per type namespace (joined by the
	// caller into a stable key), the notes passed to
	// RecordFailedInitializerNotes. Scout records none, and call-site
	// resolution in internal/sema does not read them.
	failedInitializerNotes map[string][]diag.Note
}

// NewIndex builds an empty Index.
func NewIndex[S any]() *Index[S] {
	return &Index[S]{failedInitializerNotes: make(map[string][]diag.Note)}
}

// Declare forward-declares a callable and returns its SymbolID.
func (idx *Index[S]) Declare(info SymbolInfo[S]) SymbolID {
	idx.symbols = append(idx.symbols, info)
	return SymbolID(len(idx.symbols))
}

// Get returns the symbol at the given ID, or nil if invalid.
func (idx *Index[S]) Get(id SymbolID) *SymbolInfo[S] {
	if !id.IsValid() || int(id) > len(idx.symbols) {
		return nil
	}
	return &idx.symbols[id-1]
}

// Len reports the number of forward-declared symbols.
func (idx *Index[S]) Len() int { return len(idx.symbols) }

// RecordFailedInitializerNotes appends notes to a type's namespace key;
// FailedInitializerNotes reads them back.
func (idx *Index[S]) RecordFailedInitializerNotes(namespaceKey string, notes []diag.Note) {
	idx.failedInitializerNotes[namespaceKey] = append(idx.failedInitializerNotes[namespaceKey], notes...)
}

// FailedInitializerNotes returns the notes recorded for a namespace key,
// if any.
func (idx *Index[S]) FailedInitializerNotes(namespaceKey string) []diag.Note {
	return idx.failedInitializerNotes[namespaceKey]
}

// MatchResult is the outcome of a lookup: exactly one match resolves,
// zero are unresolved, more than one are ambiguous (Candidates holds every
// match so the caller can attach a note per candidate).
type MatchResult[S any] struct {
	Candidates []SymbolID
}

func (m MatchResult[S]) Resolved() bool    { return len(m.Candidates) == 1 }
func (m MatchResult[S]) Unresolved() bool  { return len(m.Candidates) == 0 }
func (m MatchResult[S]) Ambiguous() bool   { return len(m.Candidates) > 1 }
func (m MatchResult[S]) First() SymbolID {
	if len(m.Candidates) == 0 {
		return NoSymbolID
	}
	return m.Candidates[0]
}

func argsMatch(sig CallableSignature, argLabels []source.StringID, hasLabels []bool) bool {
	return sig.labelsMatch(argLabels, hasLabels)
}

// FindInitializer looks up an initializer in namespace matching the given
// call-site argument labels.
func (idx *Index[S]) FindInitializer(namespace []source.StringID, argLabels []source.StringID, hasLabels []bool) MatchResult[S] {
	var result MatchResult[S]
	for i, sym := range idx.symbols {
		if sym.Signature.Kind != KindInitializer {
			continue
		}
		if !NamespaceEqual(sym.Signature.Namespace, namespace) {
			continue
		}
		if !argsMatch(sym.Signature, argLabels, hasLabels) {
			continue
		}
		result.Candidates = append(result.Candidates, SymbolID(i+1))
	}
	return result
}

// FindMember looks up a member function named name in namespace matching
// the given call-site argument labels.
func (idx *Index[S]) FindMember(namespace []source.StringID, name source.StringID, argLabels []source.StringID, hasLabels []bool) MatchResult[S] {
	var result MatchResult[S]
	for i, sym := range idx.symbols {
		if sym.Signature.Kind != KindMemberFunction {
			continue
		}
		if sym.Signature.MemberName != name {
			continue
		}
		if !NamespaceEqual(sym.Signature.Namespace, namespace) {
			continue
		}
		if !argsMatch(sym.Signature, argLabels, hasLabels) {
			continue
		}
		result.Candidates = append(result.Candidates, SymbolID(i+1))
	}
	return result
}

// FindStaticOrFree looks up a static or free function named name in
// namespace matching the given call-site argument labels. Free functions
// live at the module root namespace; static functions live inside a
// type's namespace.
func (idx *Index[S]) FindStaticOrFree(namespace []source.StringID, name source.StringID, argLabels []source.StringID, hasLabels []bool) MatchResult[S] {
	var result MatchResult[S]
	for i, sym := range idx.symbols {
		if sym.Signature.Kind != KindStaticFunction {
			continue
		}
		if sym.Signature.StaticName != name {
			continue
		}
		if !NamespaceEqual(sym.Signature.Namespace, namespace) {
			continue
		}
		if !argsMatch(sym.Signature, argLabels, hasLabels) {
			continue
		}
		result.Candidates = append(result.Candidates, SymbolID(i+1))
	}
	return result
}

// SortedFailedInitializerKeys returns the recorded namespace keys in
// sorted order, for deterministic iteration in tests and diagnostics.
func (idx *Index[S]) SortedFailedInitializerKeys() []string {
	keys := make([]string, 0, len(idx.failedInitializerNotes))
	for k := range idx.failedInitializerNotes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
