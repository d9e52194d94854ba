package syntax

import "implicits/internal/source"

// Import is a top-level import declaration. ModulePath holds the
// dot-separated path components (e.g. ["Foundation"] or ["Foo", "Bar"]).
type Import struct {
	Syntax     Syntax
	Span       source.Span
	ModulePath []source.StringID
	Exported   bool
}
