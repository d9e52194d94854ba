package syntax

import "testing"

func TestVisibilityOrdering(t *testing.T) {
	ordered := []Visibility{
		VisPrivate, VisFileprivate, VisDefault, VisInternal, VisPackage, VisPublic, VisOpen,
	}
	for i := 1; i < len(ordered); i++ {
		if !(ordered[i] > ordered[i-1]) {
			t.Fatalf("expected %v > %v", ordered[i], ordered[i-1])
		}
	}
}

func TestVisibilityMoreOrEqualVisible(t *testing.T) {
	if !VisPublic.MoreOrEqualVisible(VisInternal) {
		t.Fatal("expected public to be more visible than internal")
	}
	if VisInternal.MoreOrEqualVisible(VisPublic) {
		t.Fatal("did not expect internal to be more visible than public")
	}
	if !VisPackage.MoreOrEqualVisible(VisPackage) {
		t.Fatal("expected a visibility to be more-or-equal-visible than itself")
	}
}

func TestVisibilityLessOrEqualVisible(t *testing.T) {
	if !VisFileprivate.LessOrEqualVisible(VisInternal) {
		t.Fatal("expected fileprivate to be less visible than internal")
	}
	if VisOpen.LessOrEqualVisible(VisPublic) {
		t.Fatal("did not expect open to be less-or-equal-visible than public")
	}
}

func TestVisibilityString(t *testing.T) {
	cases := map[Visibility]string{
		VisPrivate:     "private",
		VisFileprivate: "fileprivate",
		VisDefault:     "default",
		VisInternal:    "internal",
		VisPackage:     "package",
		VisPublic:      "public",
		VisOpen:        "open",
	}
	for v, want := range cases {
		if got := v.String(); got != want {
			t.Errorf("Visibility(%d).String() = %q, want %q", v, got, want)
		}
	}
}
