// Package modiface is the module interface model and its binary
// serializer (§4.8, §6): the one artifact downstream modules consume, and
// the only boundary where this analyzer's internal node graphs turn into
// bytes on disk. The wire encoding is the fixed field order §6 specifies,
// built directly on internal/bytestream rather than a reflection-based
// codec — the format is a cross-process contract, not an internal cache,
// so it needs to be hand-specified the same way internal/bytestream's own
// doc comment explains for the interface binary in general.
package modiface

import (
	"io"

	"implicits/internal/bytestream"
	"implicits/internal/sema"
	"implicits/internal/symtab"
)

// Parameter is one entry of a symbol's parameter list.
type Parameter struct {
	Name       string
	Type       string
	HasDefault bool
}

// ReturnType is the failable description of a symbol's result type.
// Namespace is always empty today: internal/typerender renders a type
// expression to a single flat string and does not separately track a
// qualifying namespace, so there is nothing to populate this field from
// yet. Description and StrictDescription both come from the same
// rendered symtab.CallableSignature.ReturnType string, since the
// signature layer (unlike internal/typerender itself) only ever keeps
// one rendered form.
type ReturnType struct {
	Namespace         []string
	Description       string
	StrictDescription string
}

// SourceLocation is a resolved file/line/column triple, independent of
// any live syntax handle — the form every symbol carries once it leaves
// this module's own analysis.
type SourceLocation struct {
	File   string
	Line   int32
	Column int32
}

// SymbolInfo is a scope-taking function's identity, independent of its
// resolved implicit requirements.
type SymbolInfo struct {
	Kind           symtab.CallableKind
	Parameters     []Parameter
	Namespace      []string
	ReturnType     bytestream.Failable[ReturnType]
	SourceLocation SourceLocation
	File           string
}

// ImplicitKey is the wire form of sema.ImplicitKey: kind plus name, with
// an explicit tag mapping rather than sema.KeyKind's own iota values, the
// same discipline CallableKind's wire tag below requires — a data model
// enum's declaration order is an implementation detail, never a wire
// contract.
type ImplicitKey struct {
	Kind sema.KeyKind
	Name string
}

// Symbol pairs a SymbolInfo with its resolved requirement set. Requirements
// is optional: HasRequirements is false for a symbol whose requirements
// were never computed (e.g. an external symbol read back from a
// dependency interface that only ever reports its own already-resolved
// set, never recomputes one of its own).
type Symbol struct {
	Info            SymbolInfo
	HasRequirements bool
	Requirements    []ImplicitKey
}

// KeypathKey is one defined keyPath key from an ImplicitsKeys extension.
type KeypathKey struct {
	Name string
	Type string
}

// ModuleInterface is the full §4.8 output: the serializable contract one
// module publishes for every other module that depends on it.
type ModuleInterface struct {
	ModuleName         string
	Symbols            []Symbol
	TestableSymbols    []Symbol
	DefinedKeypathKeys []KeypathKey
	ReexportedModules  []string
}

// --- wire tags --------------------------------------------------------

// Wire tags for SymbolInfo.Kind, per §6: callAsFunction=0, initializer=1,
// memberFunction=2, staticFunction=3. symtab.CallableKind's own Go iota
// order (KindInitializer=0, KindMemberFunction=1, KindStaticFunction=2,
// KindCallAsFunction=3) does not match this, so every encode/decode goes
// through this explicit table rather than a bare uint8(kind) cast.
const (
	wireCallAsFunction uint8 = 0
	wireInitializer    uint8 = 1
	wireMemberFunction uint8 = 2
	wireStaticFunction uint8 = 3
)

func callableKindToWire(k symtab.CallableKind) uint8 {
	switch k {
	case symtab.KindInitializer:
		return wireInitializer
	case symtab.KindMemberFunction:
		return wireMemberFunction
	case symtab.KindStaticFunction:
		return wireStaticFunction
	default:
		return wireCallAsFunction
	}
}

func callableKindFromWire(tag uint8) symtab.CallableKind {
	switch tag {
	case wireInitializer:
		return symtab.KindInitializer
	case wireMemberFunction:
		return symtab.KindMemberFunction
	case wireStaticFunction:
		return symtab.KindStaticFunction
	default:
		return symtab.KindCallAsFunction
	}
}

// Wire tags for ImplicitKey.Kind: type=0, keyPath=1. sema.KeyKind's own
// iota order happens to agree, but this table is kept explicit anyway so
// a future reordering of sema.KeyKind can never silently change the wire
// format, the same lesson CallableKind's mismatch above already taught.
const (
	wireKeyType uint8 = 0
	wireKeyPath uint8 = 1
)

func keyKindToWire(k sema.KeyKind) uint8 {
	if k == sema.KeyPath {
		return wireKeyPath
	}
	return wireKeyType
}

func keyKindFromWire(tag uint8) sema.KeyKind {
	if tag == wireKeyPath {
		return sema.KeyPath
	}
	return sema.KeyType
}

// --- encode -------------------------------------------------------------

// Encode writes mi to w in the stable §6 field order: module name,
// symbols, testableSymbols, definedKeypathKeys, reexportedModules.
func Encode(w io.Writer, mi *ModuleInterface) error {
	bw := bytestream.NewWriter(w)
	if err := bw.WriteString(mi.ModuleName); err != nil {
		return err
	}
	if err := bytestream.WriteArray(bw, mi.Symbols, writeSymbol); err != nil {
		return err
	}
	if err := bytestream.WriteArray(bw, mi.TestableSymbols, writeSymbol); err != nil {
		return err
	}
	if err := bytestream.WriteArray(bw, mi.DefinedKeypathKeys, writeKeypathKey); err != nil {
		return err
	}
	return bytestream.WriteArray(bw, mi.ReexportedModules, func(w *bytestream.Writer, s string) error {
		return w.WriteString(s)
	})
}

func writeParameter(w *bytestream.Writer, p Parameter) error {
	if err := w.WriteString(p.Name); err != nil {
		return err
	}
	if err := w.WriteString(p.Type); err != nil {
		return err
	}
	return w.WriteBool(p.HasDefault)
}

func writeReturnType(w *bytestream.Writer, rt bytestream.Failable[ReturnType]) error {
	return bytestream.WriteFailable(w, rt, func(w *bytestream.Writer, v ReturnType) error {
		if err := bytestream.WriteArray(w, v.Namespace, func(w *bytestream.Writer, s string) error {
			return w.WriteString(s)
		}); err != nil {
			return err
		}
		if err := w.WriteString(v.Description); err != nil {
			return err
		}
		return w.WriteString(v.StrictDescription)
	})
}

func writeSourceLocation(w *bytestream.Writer, loc SourceLocation) error {
	if err := w.WriteString(loc.File); err != nil {
		return err
	}
	if err := w.WriteI32(loc.Line); err != nil {
		return err
	}
	return w.WriteI32(loc.Column)
}

func writeSymbolInfo(w *bytestream.Writer, info SymbolInfo) error {
	if err := w.WriteU8(callableKindToWire(info.Kind)); err != nil {
		return err
	}
	if err := bytestream.WriteArray(w, info.Parameters, writeParameter); err != nil {
		return err
	}
	if err := bytestream.WriteArray(w, info.Namespace, func(w *bytestream.Writer, s string) error {
		return w.WriteString(s)
	}); err != nil {
		return err
	}
	if err := writeReturnType(w, info.ReturnType); err != nil {
		return err
	}
	if err := writeSourceLocation(w, info.SourceLocation); err != nil {
		return err
	}
	return w.WriteString(info.File)
}

func writeImplicitKey(w *bytestream.Writer, k ImplicitKey) error {
	if err := w.WriteU8(keyKindToWire(k.Kind)); err != nil {
		return err
	}
	return w.WriteString(k.Name)
}

func writeSymbol(w *bytestream.Writer, s Symbol) error {
	if err := writeSymbolInfo(w, s.Info); err != nil {
		return err
	}
	if err := w.WriteBool(s.HasRequirements); err != nil {
		return err
	}
	if !s.HasRequirements {
		return nil
	}
	return bytestream.WriteArray(w, s.Requirements, writeImplicitKey)
}

func writeKeypathKey(w *bytestream.Writer, k KeypathKey) error {
	if err := w.WriteString(k.Name); err != nil {
		return err
	}
	return w.WriteString(k.Type)
}

// --- decode ---------------------------------------------------------------

// Decode reads a ModuleInterface previously written by Encode.
func Decode(r io.Reader) (*ModuleInterface, error) {
	br := bytestream.NewReader(r)
	name, err := br.ReadString()
	if err != nil {
		return nil, err
	}
	symbols, err := bytestream.ReadArray(br, readSymbol)
	if err != nil {
		return nil, err
	}
	testable, err := bytestream.ReadArray(br, readSymbol)
	if err != nil {
		return nil, err
	}
	keys, err := bytestream.ReadArray(br, readKeypathKey)
	if err != nil {
		return nil, err
	}
	reexports, err := bytestream.ReadArray(br, func(r *bytestream.Reader) (string, error) {
		return r.ReadString()
	})
	if err != nil {
		return nil, err
	}
	return &ModuleInterface{
		ModuleName:         name,
		Symbols:            symbols,
		TestableSymbols:    testable,
		DefinedKeypathKeys: keys,
		ReexportedModules:  reexports,
	}, nil
}

func readParameter(r *bytestream.Reader) (Parameter, error) {
	name, err := r.ReadString()
	if err != nil {
		return Parameter{}, err
	}
	typ, err := r.ReadString()
	if err != nil {
		return Parameter{}, err
	}
	hasDefault, err := r.ReadBool()
	if err != nil {
		return Parameter{}, err
	}
	return Parameter{Name: name, Type: typ, HasDefault: hasDefault}, nil
}

func readReturnType(r *bytestream.Reader) (bytestream.Failable[ReturnType], error) {
	return bytestream.ReadFailable(r, func(r *bytestream.Reader) (ReturnType, error) {
		ns, err := bytestream.ReadArray(r, func(r *bytestream.Reader) (string, error) {
			return r.ReadString()
		})
		if err != nil {
			return ReturnType{}, err
		}
		desc, err := r.ReadString()
		if err != nil {
			return ReturnType{}, err
		}
		strict, err := r.ReadString()
		if err != nil {
			return ReturnType{}, err
		}
		return ReturnType{Namespace: ns, Description: desc, StrictDescription: strict}, nil
	})
}

func readSourceLocation(r *bytestream.Reader) (SourceLocation, error) {
	file, err := r.ReadString()
	if err != nil {
		return SourceLocation{}, err
	}
	line, err := r.ReadI32()
	if err != nil {
		return SourceLocation{}, err
	}
	col, err := r.ReadI32()
	if err != nil {
		return SourceLocation{}, err
	}
	return SourceLocation{File: file, Line: line, Column: col}, nil
}

func readSymbolInfo(r *bytestream.Reader) (SymbolInfo, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return SymbolInfo{}, err
	}
	params, err := bytestream.ReadArray(r, readParameter)
	if err != nil {
		return SymbolInfo{}, err
	}
	ns, err := bytestream.ReadArray(r, func(r *bytestream.Reader) (string, error) {
		return r.ReadString()
	})
	if err != nil {
		return SymbolInfo{}, err
	}
	rt, err := readReturnType(r)
	if err != nil {
		return SymbolInfo{}, err
	}
	loc, err := readSourceLocation(r)
	if err != nil {
		return SymbolInfo{}, err
	}
	file, err := r.ReadString()
	if err != nil {
		return SymbolInfo{}, err
	}
	return SymbolInfo{
		Kind:           callableKindFromWire(tag),
		Parameters:     params,
		Namespace:      ns,
		ReturnType:     rt,
		SourceLocation: loc,
		File:           file,
	}, nil
}

func readImplicitKey(r *bytestream.Reader) (ImplicitKey, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return ImplicitKey{}, err
	}
	name, err := r.ReadString()
	if err != nil {
		return ImplicitKey{}, err
	}
	return ImplicitKey{Kind: keyKindFromWire(tag), Name: name}, nil
}

func readSymbol(r *bytestream.Reader) (Symbol, error) {
	info, err := readSymbolInfo(r)
	if err != nil {
		return Symbol{}, err
	}
	has, err := r.ReadBool()
	if err != nil {
		return Symbol{}, err
	}
	if !has {
		return Symbol{Info: info}, nil
	}
	reqs, err := bytestream.ReadArray(r, readImplicitKey)
	if err != nil {
		return Symbol{}, err
	}
	return Symbol{Info: info, HasRequirements: true, Requirements: reqs}, nil
}

func readKeypathKey(r *bytestream.Reader) (KeypathKey, error) {
	name, err := r.ReadString()
	if err != nil {
		return KeypathKey{}, err
	}
	typ, err := r.ReadString()
	if err != nil {
		return KeypathKey{}, err
	}
	return KeypathKey{Name: name, Type: typ}, nil
}
