package sema

import "implicits/internal/source"

// wellKnownNames interns the handful of identifiers the lowering rules
// recognize by literal spelling (the language has no keyword for any of
// these — they are ordinary identifiers with conventional meaning).
type wellKnownNames struct {
	implicitScope  source.StringID // "ImplicitScope"
	scope          source.StringID // "scope"
	wildcard       source.StringID // "_"
	implicits      source.StringID // "implicits"
	nested         source.StringID // "nested"
	nestingLabel   source.StringID // "nesting"
	with           source.StringID // "with"
	end            source.StringID // "end"
	implicitMarker source.StringID // "Implicit"
	mapMember      source.StringID // "map"
	selfIdent      source.StringID // "self"
	selfMember     source.StringID // "self" (T.self expression member name)
	spiAttr        source.StringID // "_spi"
	withScopeName  source.StringID // "withScope"
	open           source.StringID // "open"
	override       source.StringID // "override"
	final          source.StringID // "final"
}

func internWellKnownNames(strings *source.Interner) wellKnownNames {
	return wellKnownNames{
		implicitScope:  strings.Intern("ImplicitScope"),
		scope:          strings.Intern("scope"),
		wildcard:       strings.Intern("_"),
		implicits:      strings.Intern("implicits"),
		nested:         strings.Intern("nested"),
		nestingLabel:   strings.Intern("nesting"),
		with:           strings.Intern("with"),
		end:            strings.Intern("end"),
		implicitMarker: strings.Intern("Implicit"),
		mapMember:      strings.Intern("map"),
		selfIdent:      strings.Intern("self"),
		selfMember:     strings.Intern("self"),
		spiAttr:        strings.Intern("_spi"),
		withScopeName:  strings.Intern("withScope"),
		open:           strings.Intern("open"),
		override:       strings.Intern("override"),
		final:          strings.Intern("final"),
	}
}
