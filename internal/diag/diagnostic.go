package diag

import "implicits/internal/source"

// Note provides auxiliary context for a diagnostic — typically a pointer at
// a competing candidate (ambiguous use) or the first declaration in a
// "already declared" pair.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic captures a single issue produced by the analyzer, attributed to
// the narrowest syntax span known at the point of failure (§7).
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// WithNote appends a note and returns the updated diagnostic.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// New builds a diagnostic with no notes attached.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

// NewError is a shortcut for New(SevError, ...).
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// NewWarning is a shortcut for New(SevWarning, ...).
func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}
