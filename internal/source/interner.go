package source

import (
	"slices"
	"sync"
)

// StringID is an interned-string handle used throughout the syntax and
// symbol-table layers so identifiers and namespace segments can be compared
// by value equality instead of string comparison.
type StringID uint32

// NoStringID is the handle for the empty string, always present at index 0.
const NoStringID StringID = 0

// Interner deduplicates strings behind small integer handles. Safe for
// concurrent use; multiple files can be interned by concurrent builder
// goroutines within a driver batch (§5).
type Interner struct {
	mu    sync.RWMutex
	byID  []string // index -> string; byID[0] == "" for NoStringID
	index map[string]StringID
}

// NewInterner creates an Interner pre-seeded with the empty string.
func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern inserts a string and returns its ID, reusing the ID of an equal
// string already present.
func (i *Interner) Intern(s string) StringID {
	i.mu.RLock()
	if id, ok := i.index[s]; ok {
		i.mu.RUnlock()
		return id
	}
	i.mu.RUnlock()

	// Copy so the interner does not keep the caller's backing array alive.
	cpy := string([]byte(s))

	i.mu.Lock()
	defer i.mu.Unlock()
	// Re-check: another goroutine may have interned the same string between
	// the RUnlock above and this Lock.
	if id, ok := i.index[cpy]; ok {
		return id
	}
	id := StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternBytes interns the string form of b.
func (i *Interner) InternBytes(b []byte) StringID {
	return i.Intern(string(b))
}

// Lookup returns the string for id, or ("", false) if id is out of range.
func (i *Interner) Lookup(id StringID) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if int(id) < 0 || int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup returns the string for id, panicking if id is invalid.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Has reports whether id is a valid handle.
func (i *Interner) Has(id StringID) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return int(id) >= 0 && int(id) < len(i.byID)
}

// Len returns the number of interned strings, including NoStringID; never
// less than 1.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}

// Snapshot returns a copy of every interned string, indexed by StringID.
func (i *Interner) Snapshot() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.byID)
}
