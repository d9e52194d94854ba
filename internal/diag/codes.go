package diag

import "fmt"

// Code is a compact numeric diagnostic identifier, grouped into ranges by
// the §7 error-kind taxonomy. Adding a code is backward compatible; codes
// are never renumbered once released, since they appear in golden fixtures.
type Code uint16

const (
	UnknownCode Code = 0

	// Structural errors (1000s) — recorded, analysis continues with the
	// offending node elided or kept opaque.
	StructExcessScopeParam        Code = 1000
	StructBadScopeParamName       Code = 1001
	StructNonStaticDispatch       Code = 1002
	StructProtocolScopeMember     Code = 1003
	StructPublicWithoutSPI        Code = 1004
	StructRedundantImplicitMarker Code = 1005
	StructAnnotationNotOutermost  Code = 1006
	StructUnableToInferKey        Code = 1007
	StructUnableToInferType       Code = 1008
	StructScopeVarNotConstant     Code = 1009
	StructStoredImplicitInit      Code = 1010
	StructImplicitInExtension     Code = 1011
	StructInvalidBagVariableName  Code = 1012
	StructNestedFnWithScope       Code = 1013
	StructDeferIllegalStatement   Code = 1014
	StructDeferNestedScopeEnd     Code = 1015
	StructMapArgumentShape        Code = 1016
	StructIfConfigIllegalScope    Code = 1017

	// Resolution errors (2000s) — the node is emitted without an outgoing
	// edge; downstream requirement sets become conservative.
	ResolveUnresolvedSymbol Code = 2000
	ResolveAmbiguousUse     Code = 2001
	ResolveMissingKey       Code = 2002

	// Scope-usage errors (3000s) — the node remains in the graph, its
	// requirements still propagate.
	ScopeMissing              Code = 3000
	ScopeWriteToInherited     Code = 3001
	ScopeNestingForbidden     Code = 3002
	ScopeMultipleLocal        Code = 3003
	ScopeUnreachableEnd       Code = 3004
	ScopeEndWrongNestingLevel Code = 3005
	ScopeEndUnpaired          Code = 3006
	ScopeNestedWithBag        Code = 3007
	ScopeUnusedBag            Code = 3008
	ScopeBagMissing           Code = 3009

	// Unresolved-requirement errors (4000s) — aggregated at the entry-point
	// node after fixpoint propagation.
	ReqUnresolved Code = 4000

	// Interface I/O errors (5000s) — fail fast, bubble to the driver.
	IOStreamTruncated   Code = 5000
	IOStreamShortWrite  Code = 5001
	IOSerializeFailed   Code = 5002
	IODeserializeFailed Code = 5003
	IOBugKeysIndex      Code = 5004

	// Warnings (6000s) — no effect on outputs.
	WarnScopeOverride      Code = 6000
	WarnAnonymousInitValue Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                   "unknown",
	StructExcessScopeParam:        "more than one ImplicitScope parameter",
	StructBadScopeParamName:       "scope parameter second name must be 'scope' or '_'",
	StructNonStaticDispatch:       "scope-taking function must be statically dispatched",
	StructProtocolScopeMember:     "protocol members may not have an ImplicitScope parameter",
	StructPublicWithoutSPI:        "public scope-taking function exported without the SPI attribute",
	StructRedundantImplicitMarker: "redundant implicit annotation, marker must be outermost",
	StructAnnotationNotOutermost:  "implicit marker must be the first attribute",
	StructUnableToInferKey:        "unable to infer implicit key",
	StructUnableToInferType:       "unable to infer type",
	StructScopeVarNotConstant:     "'scope' must be declared with a constant binding",
	StructStoredImplicitInit:      "stored implicit property cannot have an initial value",
	StructImplicitInExtension:     "implicit used in an extension of a complex type",
	StructInvalidBagVariableName:  "invalid bag variable name",
	StructNestedFnWithScope:       "nested functions with a scope parameter are not supported",
	StructDeferIllegalStatement:   "only scope.end() is allowed in a defer body",
	StructDeferNestedScopeEnd:     "nested scope.end() must be at the topmost level of the defer body",
	StructMapArgumentShape:        "Implicit.map arguments must each be a key-path literal or T.self",
	StructIfConfigIllegalScope:    "scope mutation is not allowed inside an unresolved #if branch",
	ResolveUnresolvedSymbol:       "unresolved symbol",
	ResolveAmbiguousUse:           "ambiguous use",
	ResolveMissingKey:             "no module declares this key",
	ScopeMissing:                  "missing scope",
	ScopeWriteToInherited:         "writing to implicit scope without local 'ImplicitScope'",
	ScopeNestingForbidden:         "nesting scope is forbidden here",
	ScopeMultipleLocal:            "multiple local implicit scopes",
	ScopeUnreachableEnd:           "unreachable scope.end()",
	ScopeEndWrongNestingLevel:     "scope.end() must be at the topmost nesting level",
	ScopeEndUnpaired:              "scope.end() without a matching local scope",
	ScopeNestedWithBag:            "nested scopes with bags are not supported",
	ScopeUnusedBag:                "unused bag",
	ScopeBagMissing:               "scope requires a bag that was never captured",
	ReqUnresolved:                 "unresolved requirement(s)",
	IOStreamTruncated:             "unexpected end of stream",
	IOStreamShortWrite:            "short write to stream",
	IOSerializeFailed:             "failed to serialize value",
	IODeserializeFailed:           "failed to deserialize value",
	IOBugKeysIndex:                "[BUG IN IMPLICITS] module keys index should always be populated",
	WarnScopeOverride:             "implicitly overriding existing scope",
	WarnAnonymousInitValue:        "anonymous implicit will not be saved",
}

// ID returns the stable string form of the code, e.g. "SCOPE3001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("STRUCT%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("RESOLVE%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SCOPE%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("REQ%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("WARN%04d", ic)
	default:
		return "E0000"
	}
}

// Title returns the human-readable description registered for the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
