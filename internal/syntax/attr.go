package syntax

import "implicits/internal/source"

// Attr is an attribute attached to a declaration, binding, or extension
// (e.g. the exported-SPI marker or a custom macro attribute).
type Attr struct {
	Syntax Syntax
	Span   source.Span
	Name   source.StringID
	Args   []ExprID
}
