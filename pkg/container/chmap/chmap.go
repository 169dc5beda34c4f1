// package chmap provides a generic chained hash table with a fixed
// bucket count and pluggable key equality, hashing and release
// strategies. Unlike Go's native map it hands out stable pointers to
// value slots: a pointer returned by At or Lookup stays valid for the
// life of the table because chain nodes are never moved or reallocated.
// Entries can never be removed individually; the whole table is torn
// down at once by Destroy, which runs an optional release callback for
// every entry.
package chmap

import (
	"errors"

	"github.com/google/go-cmp/cmp"
)

// DefaultNumBuckets is used whenever a table is initialized
// with a bucket count below 1.
const DefaultNumBuckets = 101

var (
	// ErrNotReady is the panic value of data operations
	// on an uninitialized or destroyed table.
	ErrNotReady = errors.New("chmap: table not initialized")

	// ErrNoEqual is the panic value of Init
	// when the equality strategy is nil.
	ErrNoEqual = errors.New("chmap: nil equality function")

	// ErrNoHasher is the panic value of Init
	// when the hash strategy is nil.
	ErrNoHasher = errors.New("chmap: nil hasher")
)

// Hasher maps a key to a 64-bit hash value.
// The hash must be deterministic for the life of the table.
type Hasher[K any] interface{ Hash(K) uint64 }

// EqualFunc reports whether two keys denote the same logical entry.
type EqualFunc[K any] func(a, b K) bool

// ReleaseFunc is invoked for every entry during Destroy,
// receiving the entry's key and a pointer to its value slot.
type ReleaseFunc[K, V any] func(key K, value *V)

type node[K, V any] struct {
	key   K
	value V
	next  *node[K, V]
}

// Table is a chained hash table over a fixed-size bucket array.
//
// The zero value is a valid uninitialized table:
// it must be initialized through Init before use.
// A Table must not be used concurrently without external locking.
//
// WARNING: In case of []byte typed keys the keys will
// be aliased and must remain immutable until the table is destroyed!
type Table[K, V any] struct {
	buckets    []*node[K, V]
	equal      EqualFunc[K]
	hasher     Hasher[K]
	release    ReleaseFunc[K, V]
	size       int
	numBuckets int
}

// New allocates a new table instance with numBuckets buckets
// (DefaultNumBuckets if numBuckets < 1) and initializes it.
func New[K, V any](
	numBuckets int,
	equal EqualFunc[K],
	hasher Hasher[K],
	release ReleaseFunc[K, V],
) *Table[K, V] {
	t := &Table[K, V]{numBuckets: numBuckets}
	return t.Init(equal, hasher, release)
}

// Init initializes or reinitializes the table, allocating an empty
// bucket array and recording the given strategies. equal and hasher
// are required, release may be nil if no per-entry cleanup is needed.
// Init panics with ErrNoEqual or ErrNoHasher on missing strategies.
// Returns t for chaining.
func (t *Table[K, V]) Init(
	equal EqualFunc[K],
	hasher Hasher[K],
	release ReleaseFunc[K, V],
) *Table[K, V] {
	if equal == nil {
		panic(ErrNoEqual)
	}
	if hasher == nil {
		panic(ErrNoHasher)
	}
	if t.numBuckets < 1 {
		t.numBuckets = DefaultNumBuckets
	}
	t.buckets = make([]*node[K, V], t.numBuckets)
	t.equal, t.hasher, t.release = equal, hasher, release
	t.size = 0
	return t
}

// Ready reports whether the table was initialized and not yet
// destroyed. It is safe to call on a nil receiver.
func (t *Table[K, V]) Ready() bool {
	return t != nil && t.hasher != nil
}

// Len returns the number of stored entries.
func (t *Table[K, V]) Len() int { return t.size }

// NumBuckets returns the fixed bucket count of the table.
func (t *Table[K, V]) NumBuckets() int { return t.numBuckets }

// Lookup returns a pointer to the value slot of key,
// or nil if no entry with an equal key exists.
// The pointer stays valid for the life of the table.
// Lookup panics with ErrNotReady if the table isn't ready.
func (t *Table[K, V]) Lookup(key K) *V {
	if !t.Ready() {
		panic(ErrNotReady)
	}
	for n := t.buckets[t.index(key)]; n != nil; n = n.next {
		if t.equal(key, n.key) {
			return &n.value
		}
	}
	return nil
}

// Get returns (value, true) if key exists,
// otherwise returns (zeroValue, false).
func (t *Table[K, V]) Get(key K) (value V, ok bool) {
	if p := t.Lookup(key); p != nil {
		return *p, true
	}
	return value, false
}

// At returns a pointer to the value slot of key, appending a new entry
// with a zero value at the tail of the chain if the key doesn't exist
// yet. The search and the insertion point share a single chain
// traversal. The returned pointer stays valid for the life of the
// table; callers are expected to write the desired value through it.
// At panics with ErrNotReady if the table isn't ready.
func (t *Table[K, V]) At(key K) *V {
	if !t.Ready() {
		panic(ErrNotReady)
	}
	i := t.index(key)
	n := t.buckets[i]
	if n == nil {
		n = &node[K, V]{key: key}
		t.buckets[i] = n
		t.size++
		return &n.value
	}
	for {
		if t.equal(key, n.key) {
			return &n.value
		}
		if n.next == nil {
			n.next = &node[K, V]{key: key}
			t.size++
			return &n.next.value
		}
		n = n.next
	}
}

// Destroy tears the table down: for every entry, in bucket order and
// chain order within a bucket, the release strategy (if any) is called
// with the entry's key and value slot, then the chains and the bucket
// array are dropped and the table becomes not ready. Destroy is a
// no-op on a table that isn't ready, including the zero value.
// A destroyed table may be reused only through a new Init call.
func (t *Table[K, V]) Destroy() {
	if !t.Ready() {
		return
	}
	if t.release != nil {
		for _, n := range t.buckets {
			for ; n != nil; n = n.next {
				t.release(n.key, &n.value)
			}
		}
	}
	t.buckets, t.hasher, t.size = nil, nil, 0
}

// Equal reports whether t and u hold equal entry sets,
// comparing values using github.com/google/go-cmp/cmp.
// Two non-ready tables are equal.
func (t *Table[K, V]) Equal(u *Table[K, V]) bool {
	if t.Ready() != u.Ready() {
		return false
	}
	if !t.Ready() {
		return true
	}
	if t.size != u.size {
		return false
	}
	for _, n := range t.buckets {
		for ; n != nil; n = n.next {
			p := u.Lookup(n.key)
			if p == nil || !cmp.Equal(n.value, *p) {
				return false
			}
		}
	}
	return true
}

func (t *Table[K, V]) index(key K) uint64 {
	return t.hasher.Hash(key) % uint64(len(t.buckets))
}
