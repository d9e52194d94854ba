package cond

import "testing"

func cond2(name string) *Expr {
	e := Ident(name)
	return &e
}

func TestFilterBranchesFirstTrueWins(t *testing.T) {
	cfg := NewStrictConfig(map[string]bool{"a": false, "b": true, "c": true})
	clauses := []Clause[string]{
		{Condition: cond2("a"), Body: "A"},
		{Condition: cond2("b"), Body: "B"},
		{Condition: cond2("c"), Body: "C"},
		{Condition: nil, Body: "ELSE"},
	}
	got := FilterBranches(clauses, cfg)
	if len(got) != 1 {
		t.Fatalf("expected exactly one retained clause, got %d: %+v", len(got), got)
	}
	if got[0].Body != "B" || got[0].Resolved != True {
		t.Fatalf("expected clause B resolved True, got %+v", got[0])
	}
}

func TestFilterBranchesAllFalseKeepsElse(t *testing.T) {
	cfg := NewStrictConfig(map[string]bool{"a": false, "b": false})
	clauses := []Clause[string]{
		{Condition: cond2("a"), Body: "A"},
		{Condition: cond2("b"), Body: "B"},
		{Condition: nil, Body: "ELSE"},
	}
	got := FilterBranches(clauses, cfg)
	if len(got) != 1 || got[0].Body != "ELSE" || got[0].Resolved != True {
		t.Fatalf("expected only ELSE retained, got %+v", got)
	}
}

func TestFilterBranchesUnknownRetainedVerbatim(t *testing.T) {
	cfg := NewStrictConfig(map[string]bool{"a": false})
	clauses := []Clause[string]{
		{Condition: cond2("a"), Body: "A"},
		{Condition: cond2("unknownFlag"), Body: "B"},
		{Condition: nil, Body: "ELSE"},
	}
	got := FilterBranches(clauses, cfg)
	if len(got) != 2 {
		t.Fatalf("expected B and ELSE retained, got %+v", got)
	}
	if got[0].Body != "B" || got[0].Resolved != Unknown {
		t.Fatalf("expected B retained as Unknown, got %+v", got[0])
	}
	if got[1].Body != "ELSE" || got[1].Resolved != True {
		t.Fatalf("expected ELSE retained as True, got %+v", got[1])
	}
}

func TestFilterBranchesTrueStopsChain(t *testing.T) {
	cfg := NewStrictConfig(map[string]bool{"a": true})
	clauses := []Clause[string]{
		{Condition: cond2("unknownFlag"), Body: "PRE"},
		{Condition: cond2("a"), Body: "A"},
		{Condition: cond2("unreachableFlag"), Body: "UNREACHABLE"},
		{Condition: nil, Body: "ELSE"},
	}
	got := FilterBranches(clauses, cfg)
	if len(got) != 2 {
		t.Fatalf("expected PRE (unknown) and A (true) retained, got %+v", got)
	}
	if got[0].Body != "PRE" || got[0].Resolved != Unknown {
		t.Fatalf("expected PRE retained unresolved, got %+v", got[0])
	}
	if got[1].Body != "A" || got[1].Resolved != True {
		t.Fatalf("expected A to settle the chain, got %+v", got[1])
	}
}

func TestFilterBranchesNoClausesMatch(t *testing.T) {
	cfg := NewEnabledConfig()
	clauses := []Clause[string]{
		{Condition: cond2("debug"), Body: "A"},
	}
	got := FilterBranches(clauses, cfg)
	if len(got) != 0 {
		t.Fatalf("expected no retained clauses, got %+v", got)
	}
}
