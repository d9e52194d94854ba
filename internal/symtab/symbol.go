package symtab

// SymbolInfo pairs a CallableSignature with a syntax handle of type S, so
// the same shape serves two purposes: S = syntax.Syntax while a module is
// being analyzed (a live host-AST handle or span), and S = SourceLocation
// once a symbol has been read back out of a dependency's serialized
// module interface.
type SymbolInfo[S any] struct {
	Signature CallableSignature
	Syntax    S
}

// SourceLocation is the cross-module form of a syntax handle: just enough
// to report a diagnostic note pointing at a symbol defined in another
// module's interface.
type SourceLocation struct {
	File   string
	Line   int32
	Column int32
}
