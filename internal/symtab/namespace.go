package symtab

import "implicits/internal/source"

// NamespaceEqual reports structural equality between two namespace paths.
// An empty namespace denotes the module root and equals only another
// empty namespace.
func NamespaceEqual(a, b []source.StringID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
