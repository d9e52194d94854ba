package supportfile

import (
	"strings"
	"unicode"

	"implicits/internal/sema"
)

// paramName implements §4.9's injected-parameter naming rule: a key-path
// key's injected parameter is named after the key itself, a type key's
// after the rendered type converted to a lowerCamelCase identifier.
func paramName(key sema.ImplicitKey) string {
	if key.Kind == sema.KeyPath {
		return key.Name
	}
	return lowerCamelCaseIdentifier(key.Name)
}

// lowerCamelCaseIdentifier turns a rendered type expression such as
// "Logging.Logger" or "[Int]" into a legal lowerCamelCase parameter name:
// every run of non-alphanumeric runes becomes a word boundary, and the
// very first letter is lowercased.
func lowerCamelCaseIdentifier(s string) string {
	var b strings.Builder
	upperNext := false
	first := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upperNext = true
			continue
		}
		switch {
		case first:
			b.WriteRune(unicode.ToLower(r))
			first = false
		case upperNext:
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// tagTypeName implements the §6 key-tag naming rule: "_<KeyNameCapitalised>Tag".
func tagTypeName(keyName string) string {
	if keyName == "" {
		return "_Tag"
	}
	r := []rune(keyName)
	return "_" + string(unicode.ToUpper(r[0])) + string(r[1:]) + "Tag"
}
