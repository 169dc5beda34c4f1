package store

import (
	"sync"

	"github.com/SashaG-T/chash/pkg/config"
	"github.com/SashaG-T/chash/pkg/container/chmap"
	"github.com/SashaG-T/chash/pkg/statistics"
)

// Namespace is a named key-value table guarded by a lock.
type Namespace struct {
	id      string
	lock    sync.RWMutex
	table   *chmap.Table[string, []byte]
	equal   chmap.EqualFunc[string]
	hasher  chmap.Hasher[string]
	stats   *statistics.NamespaceSync
	relseen int
}

func newNamespace(c *config.Namespace) *Namespace {
	n := &Namespace{
		id:     c.ID,
		equal:  chmap.EqualComparable[string],
		hasher: newHasher(c),
		stats:  statistics.NewNamespaceSync(),
	}
	n.table = chmap.New[string, []byte](
		c.Buckets, n.equal, n.hasher, n.release,
	)
	return n
}

func newHasher(c *config.Namespace) chmap.Hasher[string] {
	switch c.Hasher {
	case config.HasherXX64:
		return &chmap.HasherXX64[string]{Seed: c.Seed}
	case config.HasherSHA3:
		return new(chmap.HasherSHA3[string])
	default:
		return &chmap.HasherXXH3[string]{Seed: c.Seed}
	}
}

// release is invoked for every entry of the table while
// it's being destroyed. Must only run while lock is held.
func (n *Namespace) release(key string, value *[]byte) {
	n.relseen++
	*value = nil
}

// ID returns the namespace identifier.
func (n *Namespace) ID() string { return n.id }

// Stats returns the namespace statistics counters.
func (n *Namespace) Stats() *statistics.NamespaceSync { return n.stats }

// Get returns the value stored under key.
// The returned slice must not be modified by the caller.
func (n *Namespace) Get(key string) ([]byte, bool) {
	n.lock.RLock()
	v, ok := n.table.Get(key)
	n.lock.RUnlock()
	n.stats.UpdateRead(ok)
	if !ok {
		return nil, false
	}
	return v, true
}

// Set stores a copy of value under key and
// reports whether a new entry was created.
func (n *Namespace) Set(key string, value []byte) (created bool) {
	n.lock.Lock()
	before := n.table.Len()
	p := n.table.At(key)
	created = n.table.Len() > before
	delta := len(value) - len(*p)
	*p = append([]byte(nil), value...)
	n.lock.Unlock()
	n.stats.UpdateWrite(created, delta)
	return created
}

// Flush releases all entries of the namespace and
// reinitializes its table empty.
// Returns the number of entries released.
func (n *Namespace) Flush() (released int) {
	n.lock.Lock()
	n.relseen = 0
	n.table.Destroy()
	released = n.relseen
	n.table.Init(n.equal, n.hasher, n.release)
	n.lock.Unlock()
	n.stats.UpdateFlush(released)
	return released
}

// Len returns the number of entries stored in the namespace.
func (n *Namespace) Len() int {
	n.lock.RLock()
	defer n.lock.RUnlock()
	return n.table.Len()
}
