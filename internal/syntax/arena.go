package syntax

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena is a generic typed arena: elements are appended once and never
// removed, and are addressed by a 1-based index so the zero value of an ID
// type means "absent" without a separate validity flag.
type Arena[T any] struct {
	data []*T
}

// NewArena creates an Arena with capacity capHint.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{data: make([]*T, 0, capHint)}
}

// Allocate appends value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	elem := new(T)
	*elem = value
	a.data = append(a.data, elem)
	return a.Len()
}

// Get returns a pointer to the element at the given 1-based index, or nil
// for index 0.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 {
		return nil
	}
	return a.data[index-1]
}

// Len returns the number of allocated elements.
func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("syntax: arena length overflow: %w", err))
	}
	return n
}

// Slice returns a copy of every allocated element in allocation order.
func (a *Arena[T]) Slice() []T {
	out := make([]T, len(a.data))
	for i, p := range a.data {
		out[i] = *p
	}
	return out
}
