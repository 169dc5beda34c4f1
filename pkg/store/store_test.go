package store_test

import (
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/SashaG-T/chash/pkg/config"
	"github.com/SashaG-T/chash/pkg/segmented"
	"github.com/SashaG-T/chash/pkg/store"

	plog "github.com/phuslu/log"
	"github.com/stretchr/testify/require"
)

func TestNamespace(t *testing.T) {
	s := newStore(&config.Config{
		Host: "localhost:8080",
		Namespaces: []*config.Namespace{
			{ID: "sessions", Buckets: 64, Hasher: config.HasherXXH3},
			{ID: "blobs", Buckets: 101, Hasher: config.HasherXX64, Seed: 42},
			{ID: "digests", Buckets: 8, Hasher: config.HasherSHA3},
		},
	})

	require.Equal(t, 3, s.Len())
	require.NotNil(t, s.Namespace("sessions"))
	require.NotNil(t, s.Namespace("blobs"))
	require.NotNil(t, s.Namespace("digests"))
	require.Nil(t, s.Namespace("nonexistent"))
	require.Equal(t, "sessions", s.Namespace("sessions").ID())

	var visited []string
	s.Namespaces(func(n *store.Namespace) {
		visited = append(visited, n.ID())
	})
	require.Equal(t, []string{"sessions", "blobs", "digests"}, visited)
}

func TestGetSet(t *testing.T) {
	n := newStore(testConf()).Namespace("sessions")

	v, ok := n.Get("k1")
	require.False(t, ok)
	require.Nil(t, v)

	require.True(t, n.Set("k1", []byte("first")))
	v, ok = n.Get("k1")
	require.True(t, ok)
	require.Equal(t, []byte("first"), v)
	require.Equal(t, 1, n.Len())

	require.False(t, n.Set("k1", []byte("second")))
	v, ok = n.Get("k1")
	require.True(t, ok)
	require.Equal(t, []byte("second"), v)
	require.Equal(t, 1, n.Len())

	require.True(t, n.Set("k2", []byte("third")))
	require.Equal(t, 2, n.Len())
}

func TestSetValueCopied(t *testing.T) {
	n := newStore(testConf()).Namespace("sessions")

	buf := []byte("original")
	n.Set("k", buf)
	copy(buf, "MUTATED!")

	v, ok := n.Get("k")
	require.True(t, ok)
	require.Equal(t, []byte("original"), v)
}

func TestFlush(t *testing.T) {
	n := newStore(testConf()).Namespace("sessions")

	n.Set("k1", []byte("v1"))
	n.Set("k2", []byte("v2"))
	n.Set("k3", []byte("v3"))
	require.Equal(t, 3, n.Len())

	require.Equal(t, 3, n.Flush())
	require.Equal(t, 0, n.Len())

	_, ok := n.Get("k1")
	require.False(t, ok)

	// The namespace must be usable again after a flush.
	require.True(t, n.Set("k1", []byte("fresh")))
	v, ok := n.Get("k1")
	require.True(t, ok)
	require.Equal(t, []byte("fresh"), v)
	require.Equal(t, 1, n.Len())

	require.Equal(t, 1, n.Flush())
	require.Equal(t, 0, n.Len())
}

func TestWarmup(t *testing.T) {
	w := segmented.New[string, byte]()
	w.Append([]byte("v1")...)
	w.Cut("k1")
	w.Append([]byte("value2")...)
	w.Cut("k2")

	s := newStore(&config.Config{
		Host: "localhost:8080",
		Namespaces: []*config.Namespace{
			{ID: "warmed", Buckets: 64, Hasher: config.HasherXXH3, Warmup: w},
			{ID: "cold", Buckets: 64, Hasher: config.HasherXXH3},
		},
	})

	n := s.Namespace("warmed")
	require.Equal(t, 2, n.Len())
	v, ok := n.Get("k1")
	require.True(t, ok)
	require.Equal(t, []byte("v1"), v)
	v, ok = n.Get("k2")
	require.True(t, ok)
	require.Equal(t, []byte("value2"), v)

	require.Equal(t, 0, s.Namespace("cold").Len())
}

func TestConcurrentAccess(t *testing.T) {
	n := newStore(testConf()).Namespace("sessions")
	n.Set("shared", []byte("s"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("w%d-k%d", worker, j)
				n.Set(key, []byte(key))
				if v, ok := n.Get(key); !ok || string(v) != key {
					t.Errorf("reading %q back: ok: %t; value: %q", key, ok, v)
					return
				}
				n.Get("shared")
				n.Set("shared", []byte("s"))
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 8*100+1, n.Len())
	v, ok := n.Get("shared")
	require.True(t, ok)
	require.Equal(t, []byte("s"), v)
}

func TestStats(t *testing.T) {
	n := newStore(testConf()).Namespace("sessions")

	n.Set("a", []byte("xyz"))
	n.Get("a")
	n.Get("nonexistent")

	st := n.Stats()
	require.Equal(t, int64(2), st.GetReads())
	require.Equal(t, int64(1), st.GetHits())
	require.Equal(t, int64(1), st.GetMisses())
	require.Equal(t, int64(1), st.GetWrites())
	require.Equal(t, int64(1), st.GetInsertions())
	require.Equal(t, int64(3), st.GetStoredBytes())

	n.Set("a", []byte("x"))
	require.Equal(t, int64(2), st.GetWrites())
	require.Equal(t, int64(1), st.GetInsertions())
	require.Equal(t, int64(1), st.GetStoredBytes())

	n.Flush()
	require.Equal(t, int64(1), st.GetFlushes())
	require.Equal(t, int64(1), st.GetEntriesReleased())
	require.Zero(t, st.GetStoredBytes())
}

func testConf() *config.Config {
	return &config.Config{
		Host: "localhost:8080",
		Namespaces: []*config.Namespace{
			{ID: "sessions", Buckets: 64, Hasher: config.HasherXXH3},
		},
	}
}

func newStore(conf *config.Config) *store.Store {
	return store.New(conf, plog.Logger{
		Writer: &plog.IOWriter{Writer: io.Discard},
	})
}
