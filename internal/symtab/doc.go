// Package symtab forward-declares every callable in a module — top-level
// functions, extension members, type members, protocol requirements — and
// answers the three lookups the sema-tree builder needs while resolving
// calls: initializer lookup, member lookup, and static-or-free lookup, all
// keyed on namespace plus argument labels.
//
// Adapted from internal/symbols' scope-arena shape, trimmed down: there is
// no lexical-scope resolution here, only a flat forward-declaration index
// keyed by namespace and callable kind, because the analyzer never needs
// to resolve a local variable through this package (internal/sema tracks
// locals itself).
package symtab
