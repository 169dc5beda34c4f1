// Package segmented provides a 2-dimensional indexed append-only array type.
package segmented

import (
	"github.com/SashaG-T/chash/pkg/container/chmap"
)

// Segment defines the logical index and
// the start and end indexes of a segment.
type Segment struct{ Index, Start, End int }

// Array is a 2D indexed append-only array
// where each segment is indexed by a key.
type Array[K chmap.KeyInterface, T any] struct {
	index        *chmap.Table[K, Segment]
	hasher       *chmap.HasherXXH3[K]
	keys         []K
	lastSegStart int
	indexCounter int
	data         []T
}

// New allocates a new instance of an indexed 2D append-only array.
func New[K chmap.KeyInterface, T any]() *Array[K, T] {
	h := new(chmap.HasherXXH3[K])
	return &Array[K, T]{
		index:  chmap.New[K, Segment](1024, chmap.EqualBytes[K], h, nil),
		hasher: h,
	}
}

// Len returns the number of stored segments.
func (a *Array[K, T]) Len() int {
	return a.index.Len()
}

// Reset removes all stored segments.
func (a *Array[K, T]) Reset() {
	a.index.Destroy()
	a.index.Init(chmap.EqualBytes[K], a.hasher, nil)
	a.keys = a.keys[:0]
	a.lastSegStart, a.indexCounter, a.data = 0, 0, a.data[:0]
}

// GetSegment returns the segment.
func (a *Array[K, T]) GetSegment(s Segment) []T {
	return a.data[s.Start:s.End]
}

// Append appends onto the last uncommited segment.
func (a *Array[K, T]) Append(t ...T) {
	a.data = append(a.data, t...)
}

// Cut commits the pending segment under key and
// returns the segment identifier.
// Returns Segment{Index: -1} if the key already exists.
func (a *Array[K, T]) Cut(key K) Segment {
	before := a.index.Len()
	p := a.index.At(key)
	if a.index.Len() == before {
		// Already exists
		return Segment{Index: -1}
	}
	*p = Segment{
		Index: a.indexCounter,
		Start: a.lastSegStart,
		End:   len(a.data),
	}
	a.keys = append(a.keys, key)
	a.lastSegStart = len(a.data)
	a.indexCounter++
	return *p
}

// Get returns the segment by key.
// Returns Segment{Index: -1} if key doesn't exist.
func (a *Array[K, T]) Get(key K) Segment {
	if s := a.index.Lookup(key); s != nil {
		return *s
	}
	return Segment{Index: -1}
}

// GetItems returns the segment items by key.
// Returns nil if key doesn't exist.
func (a *Array[K, T]) GetItems(key K) []T {
	s := a.index.Lookup(key)
	if s == nil {
		return nil
	}
	return a.data[s.Start:s.End]
}

// VisitAll calls fn for every stored segment in order of insertion.
func (a *Array[K, T]) VisitAll(fn func(key K, s Segment)) {
	for _, k := range a.keys {
		fn(k, *a.index.Lookup(k))
	}
}
