package typerender

import (
	"strings"

	"implicits/internal/source"
	"implicits/internal/syntax"
)

// Renderer turns syntax.TypeExprID values into strings, resolving names
// through a shared string interner.
type Renderer struct {
	Strings *source.Interner
	Types   *syntax.Arena[syntax.TypeExpr]
}

// NewRenderer builds a Renderer over the given tree's type arena.
func NewRenderer(strings *source.Interner, tree *syntax.Tree) *Renderer {
	return &Renderer{Strings: strings, Types: tree.Types}
}

func (r *Renderer) name(id source.StringID) string {
	s, ok := r.Strings.Lookup(id)
	if !ok {
		return "<unknown>"
	}
	return s
}

// Canonical renders the stable, compact form of a type expression used to
// key a "type" ImplicitKey: it has no whitespace except the single space
// after a "some", "any" or "each" prefix. Two type expressions denote the
// same key iff their canonical forms are equal strings.
func (r *Renderer) Canonical(id syntax.TypeExprID) string {
	var b strings.Builder
	r.writeCanonical(&b, id)
	return b.String()
}

func (r *Renderer) writeCanonical(b *strings.Builder, id syntax.TypeExprID) {
	if !id.IsValid() {
		b.WriteString("_")
		return
	}
	t := r.Types.Get(uint32(id))
	if t == nil {
		b.WriteString("_")
		return
	}
	switch t.Kind {
	case syntax.TypeIdentifier, syntax.TypeNamedOpaqueReturn:
		b.WriteString(r.name(t.Name))
	case syntax.TypeGeneric:
		b.WriteString(r.name(t.Name))
		b.WriteString("<")
		r.writeCanonicalList(b, t.GenericArgs)
		b.WriteString(">")
	case syntax.TypeOptional:
		r.writeCanonical(b, t.Base)
		b.WriteString("?")
	case syntax.TypeUnwrappedOptional:
		r.writeCanonical(b, t.Base)
		b.WriteString("!")
	case syntax.TypeTuple:
		b.WriteString("(")
		r.writeCanonicalList(b, t.Elements)
		b.WriteString(")")
	case syntax.TypeMember:
		r.writeCanonical(b, t.Base)
		b.WriteString(".")
		b.WriteString(r.name(t.Name))
	case syntax.TypeArray:
		b.WriteString("[")
		r.writeCanonical(b, t.Base)
		b.WriteString("]")
	case syntax.TypeAttributed:
		r.writeCanonical(b, t.Base)
	case syntax.TypeClassRestriction:
		b.WriteString("AnyObject")
	case syntax.TypeComposition:
		for i, el := range t.Elements {
			if i > 0 {
				b.WriteString("&")
			}
			r.writeCanonical(b, el)
		}
	case syntax.TypeDictionary:
		b.WriteString("[")
		r.writeCanonical(b, t.KeyType)
		b.WriteString(":")
		r.writeCanonical(b, t.ValueType)
		b.WriteString("]")
	case syntax.TypeFunction:
		b.WriteString("(")
		r.writeCanonicalList(b, t.Params)
		b.WriteString(")")
		if t.Effects.IsAsync {
			b.WriteString("async")
		}
		switch t.Effects.Throws {
		case syntax.ThrowsRethrows:
			b.WriteString("rethrows")
		case syntax.ThrowsTyped:
			b.WriteString("throws(")
			r.writeCanonical(b, t.Effects.ThrownType)
			b.WriteString(")")
		}
		b.WriteString("->")
		r.writeCanonical(b, t.Result)
	case syntax.TypeMetatype:
		r.writeCanonical(b, t.Base)
		b.WriteString(".Type")
	case syntax.TypeMissing:
		b.WriteString("<missing>")
	case syntax.TypePackElement, syntax.TypePackExpansion:
		b.WriteString("each ")
		r.writeCanonical(b, t.Base)
	case syntax.TypeSomeOrAny:
		if t.SomeOrAnyIsAny {
			b.WriteString("any ")
		} else {
			b.WriteString("some ")
		}
		r.writeCanonical(b, t.Base)
	case syntax.TypeSuppressed:
		b.WriteString("~")
		r.writeCanonical(b, t.Base)
	default:
		b.WriteString("<unsupported>")
	}
}

func (r *Renderer) writeCanonicalList(b *strings.Builder, ids []syntax.TypeExprID) {
	for i, id := range ids {
		if i > 0 {
			b.WriteString(",")
		}
		r.writeCanonical(b, id)
	}
}

// UnrenderableError is recorded by Strict when it hits a subtree it cannot
// turn into a definite string; rendering still produces a placeholder so
// the caller can keep going instead of aborting.
type UnrenderableError struct {
	TypeExprID syntax.TypeExprID
	Reason     string
}

func (e UnrenderableError) Error() string {
	return e.Reason
}

// Strict renders the human-facing description used in the module
// interface's returnType field. It is the same shape as Canonical but
// with whitespace for readability, and it records a diagnosable error
// instead of panicking when it meets TypeMissing or an unsupported kind,
// emitting "<unrenderable>" in its place so the overall render stays
// total.
func (r *Renderer) Strict(id syntax.TypeExprID) (string, []UnrenderableError) {
	var b strings.Builder
	var errs []UnrenderableError
	r.writeStrict(&b, id, &errs)
	return b.String(), errs
}

func (r *Renderer) writeStrict(b *strings.Builder, id syntax.TypeExprID, errs *[]UnrenderableError) {
	if !id.IsValid() {
		b.WriteString("_")
		return
	}
	t := r.Types.Get(uint32(id))
	if t == nil {
		b.WriteString("_")
		return
	}
	if t.Kind == syntax.TypeMissing {
		*errs = append(*errs, UnrenderableError{TypeExprID: id, Reason: "type expression is missing"})
		b.WriteString("<unrenderable>")
		return
	}
	switch t.Kind {
	case syntax.TypeIdentifier, syntax.TypeNamedOpaqueReturn:
		b.WriteString(r.name(t.Name))
	case syntax.TypeGeneric:
		b.WriteString(r.name(t.Name))
		b.WriteString("<")
		r.writeStrictList(b, t.GenericArgs, errs)
		b.WriteString(">")
	case syntax.TypeOptional:
		r.writeStrict(b, t.Base, errs)
		b.WriteString("?")
	case syntax.TypeUnwrappedOptional:
		r.writeStrict(b, t.Base, errs)
		b.WriteString("!")
	case syntax.TypeTuple:
		b.WriteString("(")
		r.writeStrictList(b, t.Elements, errs)
		b.WriteString(")")
	case syntax.TypeMember:
		r.writeStrict(b, t.Base, errs)
		b.WriteString(".")
		b.WriteString(r.name(t.Name))
	case syntax.TypeArray:
		b.WriteString("[")
		r.writeStrict(b, t.Base, errs)
		b.WriteString("]")
	case syntax.TypeAttributed:
		r.writeStrict(b, t.Base, errs)
	case syntax.TypeClassRestriction:
		b.WriteString("AnyObject")
	case syntax.TypeComposition:
		for i, el := range t.Elements {
			if i > 0 {
				b.WriteString(" & ")
			}
			r.writeStrict(b, el, errs)
		}
	case syntax.TypeDictionary:
		b.WriteString("[")
		r.writeStrict(b, t.KeyType, errs)
		b.WriteString(": ")
		r.writeStrict(b, t.ValueType, errs)
		b.WriteString("]")
	case syntax.TypeFunction:
		b.WriteString("(")
		r.writeStrictList(b, t.Params, errs)
		b.WriteString(") ")
		if t.Effects.IsAsync {
			b.WriteString("async ")
		}
		switch t.Effects.Throws {
		case syntax.ThrowsRethrows:
			b.WriteString("rethrows ")
		case syntax.ThrowsTyped:
			b.WriteString("throws(")
			r.writeStrict(b, t.Effects.ThrownType, errs)
			b.WriteString(") ")
		}
		b.WriteString("-> ")
		r.writeStrict(b, t.Result, errs)
	case syntax.TypeMetatype:
		r.writeStrict(b, t.Base, errs)
		b.WriteString(".Type")
	case syntax.TypePackElement, syntax.TypePackExpansion:
		b.WriteString("each ")
		r.writeStrict(b, t.Base, errs)
	case syntax.TypeSomeOrAny:
		if t.SomeOrAnyIsAny {
			b.WriteString("any ")
		} else {
			b.WriteString("some ")
		}
		r.writeStrict(b, t.Base, errs)
	case syntax.TypeSuppressed:
		b.WriteString("~")
		r.writeStrict(b, t.Base, errs)
	default:
		*errs = append(*errs, UnrenderableError{TypeExprID: id, Reason: "unsupported type expression kind"})
		b.WriteString("<unrenderable>")
	}
}

func (r *Renderer) writeStrictList(b *strings.Builder, ids []syntax.TypeExprID, errs *[]UnrenderableError) {
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		r.writeStrict(b, id, errs)
	}
}
