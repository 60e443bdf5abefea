// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package random provides splittable, counter-based PRNG keys.
//
// A Key never changes: drawing twice from the same key gives the same
// numbers. Split a key to get fresh, independent ones:
//
//	key := random.NewKey(42)
//	key, sub := random.Split(key)
//	eps := random.Normal32(sub, 15)
//
// Keys use the JAX key layout and Threefry-2x32 hashing, so NewKey(42)
// is {0, 42}.
package random

import "github.com/born-ml/reparam/internal/random"

// Key is a PRNG key: two 32-bit words.
type Key = random.Key

// NewKey derives a key from a seed.
func NewKey(seed int64) Key {
	return random.NewKey(seed)
}

// Split derives two independent keys from key.
func Split(key Key) (Key, Key) {
	return random.Split(key)
}

// SplitN derives n independent keys from key.
func SplitN(key Key, n int) []Key {
	return random.SplitN(key, n)
}

// FoldIn mixes data into key, producing a new key.
func FoldIn(key Key, data uint32) Key {
	return random.FoldIn(key, data)
}

// Bits returns n pseudo-random 32-bit words determined by key.
func Bits(key Key, n int) []uint32 {
	return random.Bits(key, n)
}

// Normal32 returns n standard-normal float32 draws.
func Normal32(key Key, n int) []float32 {
	return random.Normal32(key, n)
}

// Normal64 returns n standard-normal float64 draws.
func Normal64(key Key, n int) []float64 {
	return random.Normal64(key, n)
}

// FillUniform32 fills dst with draws uniform in [lo, hi).
func FillUniform32(key Key, dst []float32, lo, hi float32) {
	random.FillUniform32(key, dst, lo, hi)
}

// FillUniform64 fills dst with draws uniform in [lo, hi).
func FillUniform64(key Key, dst []float64, lo, hi float64) {
	random.FillUniform64(key, dst, lo, hi)
}
