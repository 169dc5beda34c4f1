// Package container defines the shared contract of the keyed table
// implementations living in its subpackages.
package container

type KeyInterface interface {
	string | []byte
}

// Tabler is a keyed table handing out stable pointers to value slots.
// Entries are created on first access by key and live until Destroy
// tears the whole table down; individual entries can not be removed.
type Tabler[K KeyInterface, V any] interface {
	// At returns the value slot of key,
	// inserting a zero-value entry if the key is new.
	At(K) *V
	// Lookup returns the value slot of key or nil.
	Lookup(K) *V
	// Get returns (value, true) if key exists.
	Get(K) (v V, ok bool)
	// Len returns the number of stored entries.
	Len() int
	// Destroy releases every entry and renders the table unusable.
	Destroy()
}
