package symtab

import (
	"testing"

	"implicits/internal/source"
)

func TestFindMemberExactMatch(t *testing.T) {
	idx := NewIndex[string]()
	strings := source.NewInterner()
	fetchName := strings.Intern("fetch")
	argLabel := strings.Intern("arg")

	idx.Declare(SymbolInfo[string]{Signature: CallableSignature{
		Kind:       KindMemberFunction,
		MemberName: fetchName,
		Parameters: []SignatureParam{{Label: argLabel, HasLabel: true}},
	}})

	got := idx.FindMember(nil, fetchName, []source.StringID{argLabel}, []bool{true})
	if !got.Resolved() {
		t.Fatalf("expected exactly one match, got %+v", got)
	}
}

func TestFindMemberArityMismatchIsUnresolved(t *testing.T) {
	idx := NewIndex[string]()
	strings := source.NewInterner()
	name := strings.Intern("fetch")

	idx.Declare(SymbolInfo[string]{Signature: CallableSignature{
		Kind:       KindMemberFunction,
		MemberName: name,
		Parameters: []SignatureParam{{HasLabel: false}},
	}})

	got := idx.FindMember(nil, name, nil, nil)
	if !got.Unresolved() {
		t.Fatalf("expected unresolved, got %+v", got)
	}
}

func TestFindMemberAmbiguous(t *testing.T) {
	idx := NewIndex[string]()
	strings := source.NewInterner()
	name := strings.Intern("load")

	sig := CallableSignature{Kind: KindMemberFunction, MemberName: name}
	idx.Declare(SymbolInfo[string]{Signature: sig})
	idx.Declare(SymbolInfo[string]{Signature: sig})

	got := idx.FindMember(nil, name, nil, nil)
	if !got.Ambiguous() || len(got.Candidates) != 2 {
		t.Fatalf("expected two ambiguous candidates, got %+v", got)
	}
}

func TestFindInitializerRespectsNamespace(t *testing.T) {
	idx := NewIndex[string]()
	strings := source.NewInterner()
	typeName := strings.Intern("Widget")

	idx.Declare(SymbolInfo[string]{Signature: CallableSignature{
		Kind:      KindInitializer,
		Namespace: []source.StringID{typeName},
	}})

	matchInside := idx.FindInitializer([]source.StringID{typeName}, nil, nil)
	if !matchInside.Resolved() {
		t.Fatalf("expected initializer to resolve in its own namespace, got %+v", matchInside)
	}

	matchOutside := idx.FindInitializer(nil, nil, nil)
	if !matchOutside.Unresolved() {
		t.Fatalf("expected no match at root namespace, got %+v", matchOutside)
	}
}

func TestDefaultsDoNotRelaxArityMatch(t *testing.T) {
	idx := NewIndex[string]()
	strings := source.NewInterner()
	name := strings.Intern("configure")
	labelA := strings.Intern("a")

	idx.Declare(SymbolInfo[string]{Signature: CallableSignature{
		Kind:       KindMemberFunction,
		MemberName: name,
		Parameters: []SignatureParam{
			{Label: labelA, HasLabel: true, HasDefault: true},
		},
	}})

	got := idx.FindMember(nil, name, nil, nil)
	if !got.Unresolved() {
		t.Fatalf("expected call with fewer labels than parameters to stay unresolved despite a default, got %+v", got)
	}
}

func TestFailedInitializerNotesRoundTrip(t *testing.T) {
	idx := NewIndex[string]()
	idx.RecordFailedInitializerNotes("Widget", nil)
	if _, ok := idx.failedInitializerNotes["Widget"]; !ok {
		t.Fatal("expected namespace key to be recorded even with no notes")
	}
}
