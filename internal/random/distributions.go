package random

import (
	"math"

	"github.com/born-ml/reparam/internal/parallel"
)

// FillUniform32 fills dst with draws from U[lo, hi).
func FillUniform32(key Key, dst []float32, lo, hi float32) {
	fillUniform32(key, dst, lo, hi, defaultParallel)
}

// FillUniform64 fills dst with draws from U[lo, hi).
func FillUniform64(key Key, dst []float64, lo, hi float64) {
	fillUniform64(key, dst, lo, hi, defaultParallel)
}

// FillNormal32 fills dst with independent N(0, 1) draws.
func FillNormal32(key Key, dst []float32) {
	fillNormal32(key, dst, defaultParallel)
}

// FillNormal64 fills dst with independent N(0, 1) draws.
func FillNormal64(key Key, dst []float64) {
	fillNormal64(key, dst, defaultParallel)
}

// Normal32 returns n independent N(0, 1) draws.
func Normal32(key Key, n int) []float32 {
	out := make([]float32, n)
	FillNormal32(key, out)
	return out
}

// Normal64 returns n independent N(0, 1) draws.
func Normal64(key Key, n int) []float64 {
	out := make([]float64, n)
	FillNormal64(key, out)
	return out
}

// unitFloat32 maps the top 23 bits of w into [0, 1).
func unitFloat32(w uint32) float32 {
	return math.Float32frombits(w>>9|0x3F800000) - 1
}

// unitFloat64 maps the top 52 bits of w into [0, 1).
func unitFloat64(w uint64) float64 {
	return math.Float64frombits(w>>12|0x3FF0000000000000) - 1
}

func fillUniform32(key Key, dst []float32, lo, hi float32, cfg parallel.Config) {
	words := hashCounters(key, len(dst), cfg)
	span := hi - lo
	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = max(lo, unitFloat32(words[i])*span+lo)
		}
	}, cfg)
}

// fillUniform64 combines the two halves of a 2n-word draw into n 64-bit
// words: first half high, second half low.
func fillUniform64(key Key, dst []float64, lo, hi float64, cfg parallel.Config) {
	n := len(dst)
	words := hashCounters(key, 2*n, cfg)
	span := hi - lo
	parallel.ForRange(n, func(start, end int) {
		for i := start; i < end; i++ {
			w := uint64(words[i])<<32 | uint64(words[n+i])
			dst[i] = max(lo, unitFloat64(w)*span+lo)
		}
	}, cfg)
}

// fillNormal32 uses the inverse-CDF method: u ~ U(-1, 1), z = sqrt(2)·erfinv(u).
func fillNormal32(key Key, dst []float32, cfg parallel.Config) {
	lo := math.Nextafter32(-1, 0)
	upper := math.Nextafter32(1, 0)
	fillUniform32(key, dst, lo, 1, cfg)
	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			u := min(dst[i], upper)
			dst[i] = float32(math.Sqrt2 * math.Erfinv(float64(u)))
		}
	}, cfg)
}

func fillNormal64(key Key, dst []float64, cfg parallel.Config) {
	lo := math.Nextafter(-1, 0)
	upper := math.Nextafter(1, 0)
	fillUniform64(key, dst, lo, 1, cfg)
	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			u := min(dst[i], upper)
			dst[i] = math.Sqrt2 * math.Erfinv(u)
		}
	}, cfg)
}
