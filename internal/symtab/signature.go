package symtab

import "implicits/internal/source"

// CallableKind discriminates the four callable shapes a symbol can be.
type CallableKind uint8

const (
	KindInitializer CallableKind = iota
	KindMemberFunction
	KindStaticFunction
	KindCallAsFunction
)

// SignatureParam is a single parameter as it participates in overload
// matching: label plus arity/default-ness, never a full type comparison.
type SignatureParam struct {
	Label      source.StringID
	HasLabel   bool // false means "_" (unnamed)
	Type       string // canonical rendering, informational only
	HasDefault bool
}

// CallableSignature is the identity a symbol is looked up and compared
// by. Equality ignores ReturnType, File, and source location — it is the
// arity+label shape that drives matching, never the result type.
type CallableSignature struct {
	Kind              CallableKind
	InitializerFails  bool // KindInitializer: true for a `init?` failable initializer
	MemberName        source.StringID
	StaticName        source.StringID
	Namespace         []source.StringID
	Parameters        []SignatureParam
	ReturnType        string
	File              source.FileID
}

// Name returns the identifier used for member/static lookup; zero value
// for initializer and callAsFunction kinds, which aren't looked up by
// name.
func (s CallableSignature) Name() source.StringID {
	switch s.Kind {
	case KindMemberFunction:
		return s.MemberName
	case KindStaticFunction:
		return s.StaticName
	default:
		return source.NoStringID
	}
}

// Arity returns the parameter count.
func (s CallableSignature) Arity() int { return len(s.Parameters) }

// labelsMatch reports whether the call-site argument labels match this
// signature's parameter labels exactly: same arity, and each position
// either both unnamed or both named identically. Defaults never relax
// this — a call with fewer labels than parameters is simply not arity-
// matched.
func (s CallableSignature) labelsMatch(argLabels []source.StringID, hasLabels []bool) bool {
	if len(argLabels) != len(s.Parameters) {
		return false
	}
	for i, p := range s.Parameters {
		if hasLabels[i] != p.HasLabel {
			return false
		}
		if p.HasLabel && argLabels[i] != p.Label {
			return false
		}
	}
	return true
}
