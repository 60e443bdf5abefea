package random

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/born-ml/reparam/internal/parallel"
)

const threefryParity = 0x1BD11BDA

var threefryRotations = [2][4]int{
	{13, 15, 26, 6},
	{17, 29, 16, 24},
}

// defaultParallel chunks large counter ranges across CPUs.
var defaultParallel = parallel.DefaultConfig()

// Threefry2x32 applies the 20-round Threefry-2x32 block function to the
// counter pair (x0, x1) under key.
func Threefry2x32(key Key, x0, x1 uint32) (uint32, uint32) {
	ks := [3]uint32{key[0], key[1], key[0] ^ key[1] ^ threefryParity}

	x0 += ks[0]
	x1 += ks[1]
	for i := range 5 {
		for _, r := range threefryRotations[i%2] {
			x0 += x1
			x1 = bits.RotateLeft32(x1, r)
			x1 ^= x0
		}
		x0 += ks[(i+1)%3]
		x1 += ks[(i+2)%3] + uint32(i+1) //nolint:gosec // G115: i < 5
	}
	return x0, x1
}

// hashCounters hashes the counters 0..n-1 under key. The counter list is
// zero-padded to even length and split into halves; pair i is
// (i, i+half), and the outputs are written back in the same two halves.
func hashCounters(key Key, n int, cfg parallel.Config) []uint32 {
	if n < 0 || uint64(n) > math.MaxUint32 {
		panic(fmt.Sprintf("random: cannot draw %d words from a single key", n))
	}
	half := (n + 1) / 2
	out := make([]uint32, 2*half)

	parallel.ForRange(half, func(start, end int) {
		for i := start; i < end; i++ {
			c0 := uint32(i) //nolint:gosec // G115: bounded by the check above
			var c1 uint32
			if i+half < n {
				c1 = uint32(i + half) //nolint:gosec // G115: bounded by the check above
			}
			out[i], out[i+half] = Threefry2x32(key, c0, c1)
		}
	}, cfg)

	return out[:n]
}

// Bits returns n pseudo-random 32-bit words derived from key.
func Bits(key Key, n int) []uint32 {
	return hashCounters(key, n, defaultParallel)
}
