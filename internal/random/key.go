// Package random implements splittable, counter-based PRNG keys.
//
// A Key is an immutable value. Drawing from a key never changes it, so
// drawing twice from the same key returns the same numbers. To get fresh
// randomness, split the key and use one of the children:
//
//	key := random.NewKey(42)
//	key, sub := random.Split(key)
//	eps := random.Normal32(sub, 15)
//
// Bits are produced by the Threefry-2x32 block cipher applied to a counter,
// using the same key layout as JAX PRNG keys. Because every output word
// depends only on (key, counter), generation is split across goroutines
// without affecting the result.
package random

import "fmt"

// Key is a PRNG key: two 32-bit words.
type Key [2]uint32

// NewKey derives a key from a seed. The high word holds the upper 32 bits
// of the seed and the low word the lower 32 bits, so NewKey(42) is {0, 42}.
func NewKey(seed int64) Key {
	u := uint64(seed) //nolint:gosec // G115: two's complement bits are the key material
	return Key{uint32(u >> 32), uint32(u)}
}

// Split derives two new, independent keys from key. The conventional use
// keeps the first as the carried state and consumes the second:
//
//	key, sub = random.Split(key)
func Split(key Key) (Key, Key) {
	keys := SplitN(key, 2)
	return keys[0], keys[1]
}

// SplitN derives n independent keys from key.
func SplitN(key Key, n int) []Key {
	if n < 0 {
		panic(fmt.Sprintf("random: SplitN count must be >= 0, got %d", n))
	}
	words := hashCounters(key, 2*n, defaultParallel)
	keys := make([]Key, n)
	for i := range keys {
		keys[i] = Key{words[2*i], words[2*i+1]}
	}
	return keys
}

// FoldIn mixes data into key, producing a new key. Useful for deriving
// per-name or per-step keys without threading Split results.
func FoldIn(key Key, data uint32) Key {
	y0, y1 := Threefry2x32(key, 0, data)
	return Key{y0, y1}
}

// String formats the key as its two words in hex.
func (k Key) String() string {
	return fmt.Sprintf("Key(0x%08x, 0x%08x)", k[0], k[1])
}
