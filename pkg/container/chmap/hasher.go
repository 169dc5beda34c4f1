package chmap

import (
	"encoding/binary"

	"github.com/pierrec/xxHash/xxHash64"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/sha3"
	"golang.org/x/exp/constraints"
)

// KeyInterface constrains the key types
// accepted by the byte-based hashers and EqualBytes.
type KeyInterface interface{ string | []byte }

// HasherXXH3 hashes keys using XXH3.
// Custom seeds can be provided during initialization.
type HasherXXH3[K KeyInterface] struct {
	Seed uint64
}

// Hash hashes k to a 64-bit hash value.
func (h *HasherXXH3[K]) Hash(k K) uint64 {
	return xxh3.HashSeed([]byte(k), h.Seed)
}

// HasherXX64 hashes keys using xxHash64.
// Custom seeds can be provided during initialization.
type HasherXX64[K KeyInterface] struct {
	Seed uint64
}

// Hash hashes k to a 64-bit hash value.
func (h *HasherXX64[K]) Hash(k K) uint64 {
	return xxHash64.Checksum([]byte(k), h.Seed)
}

// HasherSHA3 hashes keys using the first 8 bytes of SHA3-256.
// It is significantly slower than HasherXXH3 and HasherXX64 and is
// meant for buckets that must stay balanced under adversarial keys.
type HasherSHA3[K KeyInterface] struct{}

// Hash hashes k to a 64-bit hash value.
func (h *HasherSHA3[K]) Hash(k K) uint64 {
	s := sha3.Sum256([]byte(k))
	return binary.LittleEndian.Uint64(s[:8])
}

// HasherIdentity hashes integer keys to themselves.
type HasherIdentity[K constraints.Integer] struct{}

// Hash hashes k to a 64-bit hash value.
func (h *HasherIdentity[K]) Hash(k K) uint64 { return uint64(k) }

// EqualBytes is an equality strategy comparing keys byte-wise.
func EqualBytes[K KeyInterface](a, b K) bool {
	return string(a) == string(b)
}

// EqualComparable is an equality strategy for comparable key types.
func EqualComparable[K comparable](a, b K) bool { return a == b }
