// package gomap provides a container.Tabler implementation
// backed by Go's native map for conformance and benchmark reference.
// Values are boxed behind pointers so that slot pointers stay stable
// across later insertions.
package gomap

type KeyInterface interface {
	string | []byte
}

type Gomap[K KeyInterface, V any] struct {
	m       map[string]*V
	release func(K, *V)
}

func New[K KeyInterface, V any](
	capacity int,
	release func(K, *V),
) *Gomap[K, V] {
	return &Gomap[K, V]{
		m:       make(map[string]*V, capacity),
		release: release,
	}
}

func (m *Gomap[K, V]) At(key K) *V {
	if p, ok := m.m[string(key)]; ok {
		return p
	}
	p := new(V)
	m.m[string(key)] = p
	return p
}

func (m *Gomap[K, V]) Lookup(key K) *V {
	return m.m[string(key)]
}

func (m *Gomap[K, V]) Get(key K) (v V, ok bool) {
	if p, found := m.m[string(key)]; found {
		return *p, true
	}
	return v, false
}

func (m *Gomap[K, V]) Len() int {
	return len(m.m)
}

func (m *Gomap[K, V]) Destroy() {
	if m.release != nil {
		for k, p := range m.m {
			m.release(K(k), p)
		}
	}
	m.m = nil
}
