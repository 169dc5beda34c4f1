package chmap_test

import (
	"fmt"
	"testing"

	"github.com/SashaG-T/chash/pkg/container/chmap"

	"github.com/pierrec/xxHash/xxHash64"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"
)

// TestHasherXX64 makes sure the strategy and the streaming
// implementation of xxHash64 produce the same results.
func TestHasherXX64(t *testing.T) {
	for _, seed := range []uint64{
		0, 1, 5134, 2598712366, 936583347421323,
	} {
		t.Run(fmt.Sprintf("%d", seed), func(t *testing.T) {
			h := &chmap.HasherXX64[string]{Seed: seed}
			for _, in := range []string{"", "foo", "bar", "\x00\x01"} {
				oh := xxHash64.New(seed)
				n, err := oh.Write([]byte(in))
				require.NoError(t, err)
				require.Equal(t, len(in), n)
				require.Equal(t, oh.Sum64(), h.Hash(in))
			}
		})
	}
}

func TestHasherXXH3(t *testing.T) {
	h := &chmap.HasherXXH3[string]{}
	require.Equal(t, xxh3.Hash([]byte("foo")), h.Hash("foo"))

	hs := &chmap.HasherXXH3[string]{Seed: 42}
	require.Equal(t, xxh3.HashSeed([]byte("foo"), 42), hs.Hash("foo"))
}

func TestHasherDeterminism(t *testing.T) {
	for _, x := range []struct {
		name   string
		hasher chmap.Hasher[string]
	}{
		{"xxh3", &chmap.HasherXXH3[string]{}},
		{"xx64", &chmap.HasherXX64[string]{}},
		{"sha3", &chmap.HasherSHA3[string]{}},
	} {
		t.Run(x.name, func(t *testing.T) {
			for _, in := range []string{"", "k", "some longer key value"} {
				require.Equal(t, x.hasher.Hash(in), x.hasher.Hash(in))
			}
		})
	}
}

// TestHasherKeyTypes makes sure the string and []byte instantiations
// of a hasher agree on identical key bytes.
func TestHasherKeyTypes(t *testing.T) {
	key := "some key"

	t.Run("xxh3", func(t *testing.T) {
		s := &chmap.HasherXXH3[string]{Seed: 7}
		b := &chmap.HasherXXH3[[]byte]{Seed: 7}
		require.Equal(t, s.Hash(key), b.Hash([]byte(key)))
	})
	t.Run("xx64", func(t *testing.T) {
		s := &chmap.HasherXX64[string]{Seed: 7}
		b := &chmap.HasherXX64[[]byte]{Seed: 7}
		require.Equal(t, s.Hash(key), b.Hash([]byte(key)))
	})
	t.Run("sha3", func(t *testing.T) {
		s := &chmap.HasherSHA3[string]{}
		b := &chmap.HasherSHA3[[]byte]{}
		require.Equal(t, s.Hash(key), b.Hash([]byte(key)))
	})
}

func TestHasherSeed(t *testing.T) {
	t.Run("xxh3", func(t *testing.T) {
		a := &chmap.HasherXXH3[string]{Seed: 1}
		b := &chmap.HasherXXH3[string]{Seed: 2}
		require.NotEqual(t, a.Hash("key"), b.Hash("key"))
	})
	t.Run("xx64", func(t *testing.T) {
		a := &chmap.HasherXX64[string]{Seed: 1}
		b := &chmap.HasherXX64[string]{Seed: 2}
		require.NotEqual(t, a.Hash("key"), b.Hash("key"))
	})
}

func TestHasherIdentity(t *testing.T) {
	h := &chmap.HasherIdentity[int]{}
	require.Equal(t, uint64(0), h.Hash(0))
	require.Equal(t, uint64(42), h.Hash(42))

	hu := &chmap.HasherIdentity[uint16]{}
	require.Equal(t, uint64(65535), hu.Hash(65535))
}

func TestEqualBytes(t *testing.T) {
	require.True(t, chmap.EqualBytes("a", "a"))
	require.False(t, chmap.EqualBytes("a", "b"))
	require.True(t, chmap.EqualBytes([]byte("a"), []byte("a")))
	require.False(t, chmap.EqualBytes([]byte("a"), []byte("ab")))
}

func TestEqualComparable(t *testing.T) {
	require.True(t, chmap.EqualComparable(42, 42))
	require.False(t, chmap.EqualComparable(42, 7))
}
