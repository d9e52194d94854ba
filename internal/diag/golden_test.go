package diag

import (
	"testing"

	"implicits/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/testdata/golden/sample.sg", []byte("a\nb\n"), 0)
	otherFile := fs.Add("/workspace/testdata/golden/helper.sg", []byte("x\n"), 0)

	diags := []*Diagnostic{
		{
			Severity: SevError,
			Code:     StructExcessScopeParam,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: otherFile, Start: 0, End: 0}, Msg: "first declared here"},
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     WarnScopeOverride,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
	}

	expected := "note STRUCT1000 testdata/golden/helper.sg:1:1 first declared here\n" +
		"error STRUCT1000 testdata/golden/sample.sg:1:1 first line second\n" +
		"note STRUCT1000 testdata/golden/sample.sg:2:1 note line\n" +
		"warning WARN6000 testdata/golden/sample.sg:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatGoldenDiagnosticsNoNotes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")
	f := fs.Add("/workspace/testdata/golden/sample.sg", []byte("a\nb\n"), 0)

	diags := []*Diagnostic{
		{
			Severity: SevError,
			Code:     ResolveUnresolvedSymbol,
			Message:  "unresolved",
			Primary:  source.Span{File: f, Start: 0, End: 1},
			Notes:    []Note{{Span: source.Span{File: f, Start: 2, End: 3}, Msg: "dropped"}},
		},
	}

	expected := "error RESOLVE2000 testdata/golden/sample.sg:1:1 unresolved"
	if got := FormatGoldenDiagnostics(diags, fs, false); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatGoldenDiagnosticsEmpty(t *testing.T) {
	fs := source.NewFileSet()
	if got := FormatGoldenDiagnostics(nil, fs, true); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
