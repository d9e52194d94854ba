package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 15}
	got := a.Cover(b)
	want := Span{File: 1, Start: 5, End: 20}
	if got != want {
		t.Fatalf("Cover() = %+v, want %+v", got, want)
	}

	// different files: left operand returned unchanged
	c := Span{File: 2, Start: 0, End: 1}
	if got := a.Cover(c); got != a {
		t.Fatalf("Cover() across files = %+v, want %+v", got, a)
	}
}

func TestSpanEmptyLen(t *testing.T) {
	s := Span{File: 1, Start: 10, End: 10}
	if !s.Empty() {
		t.Fatal("expected empty span")
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}

	s2 := Span{File: 1, Start: 10, End: 15}
	if s2.Empty() {
		t.Fatal("expected non-empty span")
	}
	if s2.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", s2.Len())
	}
}

func TestSpanOrdering(t *testing.T) {
	a := Span{File: 1, Start: 0, End: 5}
	b := Span{File: 1, Start: 10, End: 20}
	if !a.IsLeftThan(b) {
		t.Fatal("expected a to be left of b")
	}
	if !b.IsRightThan(a) {
		t.Fatal("expected b to be right of a")
	}
	c := Span{File: 2, Start: 0, End: 1}
	if a.IsLeftThan(c) {
		t.Fatal("spans in different files are not ordered")
	}
}
