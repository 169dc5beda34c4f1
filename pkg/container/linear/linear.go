// package linear provides a container.Tabler implementation
// backed by a slice and linear search for conformance and benchmark
// reference. Nodes are allocated individually so that slot pointers
// survive the growth of the backing slice.
package linear

type KeyInterface interface {
	string | []byte
}

type node[K KeyInterface, V any] struct {
	Key   K
	Value V
}

type Linear[K KeyInterface, V any] struct {
	d       []*node[K, V]
	release func(K, *V)
}

func New[K KeyInterface, V any](
	capacity int,
	release func(K, *V),
) *Linear[K, V] {
	return &Linear[K, V]{
		d:       make([]*node[K, V], 0, capacity),
		release: release,
	}
}

func (m *Linear[K, V]) At(key K) *V {
	for i := 0; i < len(m.d); i++ {
		if string(m.d[i].Key) == string(key) {
			return &m.d[i].Value
		}
	}
	n := &node[K, V]{Key: key}
	m.d = append(m.d, n)
	return &n.Value
}

func (m *Linear[K, V]) Lookup(key K) *V {
	for i := 0; i < len(m.d); i++ {
		if string(m.d[i].Key) == string(key) {
			return &m.d[i].Value
		}
	}
	return nil
}

func (m *Linear[K, V]) Get(key K) (v V, ok bool) {
	for i := 0; i < len(m.d); i++ {
		if string(m.d[i].Key) == string(key) {
			return m.d[i].Value, true
		}
	}
	return v, false
}

func (m *Linear[K, V]) Len() int {
	return len(m.d)
}

func (m *Linear[K, V]) Destroy() {
	if m.release != nil {
		for i := 0; i < len(m.d); i++ {
			m.release(m.d[i].Key, &m.d[i].Value)
		}
	}
	m.d = nil
}
