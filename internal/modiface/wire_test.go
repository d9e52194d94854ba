package modiface

import (
	"bytes"
	"testing"

	"implicits/internal/bytestream"
	"implicits/internal/sema"
	"implicits/internal/symtab"
)

func sampleInterface() *ModuleInterface {
	return &ModuleInterface{
		ModuleName: "Widgets",
		Symbols: []Symbol{
			{
				Info: SymbolInfo{
					Kind:       symtab.KindStaticFunction,
					Parameters: []Parameter{{Name: "count", Type: "Int", HasDefault: false}},
					Namespace:  []string{"Widgets", "Factory"},
					ReturnType: bytestream.Success(ReturnType{Description: "Widget", StrictDescription: "Widget"}),
					SourceLocation: SourceLocation{
						File: "factory.impl", Line: 12, Column: 3,
					},
					File: "factory.impl",
				},
				HasRequirements: true,
				Requirements: []ImplicitKey{
					{Kind: sema.KeyType, Name: "Logger"},
					{Kind: sema.KeyPath, Name: "theme.accent"},
				},
			},
		},
		TestableSymbols: nil,
		DefinedKeypathKeys: []KeypathKey{
			{Name: "accent", Type: "Color"},
		},
		ReexportedModules: []string{"Core"},
	}
}

func TestRoundTrip(t *testing.T) {
	want := sampleInterface()

	var buf bytes.Buffer
	if err := Encode(&buf, want); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.ModuleName != want.ModuleName {
		t.Fatalf("ModuleName = %q, want %q", got.ModuleName, want.ModuleName)
	}
	if len(got.Symbols) != 1 {
		t.Fatalf("expected one symbol, got %d", len(got.Symbols))
	}
	gs := got.Symbols[0]
	ws := want.Symbols[0]
	if gs.Info.Kind != ws.Info.Kind {
		t.Fatalf("Kind = %v, want %v", gs.Info.Kind, ws.Info.Kind)
	}
	if len(gs.Info.Parameters) != 1 || gs.Info.Parameters[0] != ws.Info.Parameters[0] {
		t.Fatalf("Parameters = %+v, want %+v", gs.Info.Parameters, ws.Info.Parameters)
	}
	if gs.Info.ReturnType.Value.Description != "Widget" || !gs.Info.ReturnType.Ok {
		t.Fatalf("ReturnType round-trip failed: %+v", gs.Info.ReturnType)
	}
	if gs.Info.SourceLocation != ws.Info.SourceLocation {
		t.Fatalf("SourceLocation = %+v, want %+v", gs.Info.SourceLocation, ws.Info.SourceLocation)
	}
	if !gs.HasRequirements || len(gs.Requirements) != 2 {
		t.Fatalf("Requirements round-trip failed: %+v", gs.Requirements)
	}
	if gs.Requirements[0] != ws.Requirements[0] || gs.Requirements[1] != ws.Requirements[1] {
		t.Fatalf("Requirements = %+v, want %+v", gs.Requirements, ws.Requirements)
	}
	if len(got.DefinedKeypathKeys) != 1 || got.DefinedKeypathKeys[0] != want.DefinedKeypathKeys[0] {
		t.Fatalf("DefinedKeypathKeys = %+v, want %+v", got.DefinedKeypathKeys, want.DefinedKeypathKeys)
	}
	if len(got.ReexportedModules) != 1 || got.ReexportedModules[0] != "Core" {
		t.Fatalf("ReexportedModules = %+v", got.ReexportedModules)
	}
}

// A symbol with no computed requirements round-trips its absence rather
// than an empty-but-present array.
func TestRoundTripNoRequirements(t *testing.T) {
	mi := &ModuleInterface{
		ModuleName: "Empty",
		Symbols: []Symbol{
			{
				Info: SymbolInfo{
					Kind:       symtab.KindCallAsFunction,
					ReturnType: bytestream.Success(ReturnType{}),
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, mi); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Symbols[0].HasRequirements {
		t.Fatalf("expected HasRequirements false, got true with %+v", got.Symbols[0].Requirements)
	}
}

// A failed return-type render round-trips its error list rather than a
// zero-value success.
func TestRoundTripFailedReturnType(t *testing.T) {
	mi := &ModuleInterface{
		ModuleName: "M",
		Symbols: []Symbol{
			{
				Info: SymbolInfo{
					Kind:       symtab.KindInitializer,
					ReturnType: bytestream.Failure[ReturnType]("type expression is missing"),
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, mi); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rt := got.Symbols[0].Info.ReturnType
	if rt.Ok {
		t.Fatalf("expected a failed ReturnType, got ok: %+v", rt)
	}
	if len(rt.Errors) != 1 || rt.Errors[0] != "type expression is missing" {
		t.Fatalf("Errors = %+v", rt.Errors)
	}
}

// The CallableKind wire tag table need not match Go's own iota order —
// this pins the §6 tag values directly so a future reordering of
// symtab.CallableKind can't silently change the wire format.
func TestCallableKindWireTags(t *testing.T) {
	cases := []struct {
		kind symtab.CallableKind
		tag  uint8
	}{
		{symtab.KindCallAsFunction, 0},
		{symtab.KindInitializer, 1},
		{symtab.KindMemberFunction, 2},
		{symtab.KindStaticFunction, 3},
	}
	for _, c := range cases {
		if got := callableKindToWire(c.kind); got != c.tag {
			t.Errorf("callableKindToWire(%v) = %d, want %d", c.kind, got, c.tag)
		}
		if got := callableKindFromWire(c.tag); got != c.kind {
			t.Errorf("callableKindFromWire(%d) = %v, want %v", c.tag, got, c.kind)
		}
	}
}
