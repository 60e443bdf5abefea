// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensors for reparameterized sampling.
//
// # Overview
//
// This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting, including zero-length dimensions
//   - Reference-counted, copy-on-write storage
//   - Noise tensors drawn from splittable PRNG keys
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/reparam/backend/cpu"
//	    "github.com/born-ml/reparam/random"
//	    "github.com/born-ml/reparam/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    mu := tensor.Ones[float32](tensor.Shape{3}, backend)
//	    eps := tensor.RandomNormal[float32](random.NewKey(42), tensor.Shape{5, 3}, backend)
//
//	    // (5, 3) + (3,) broadcasts along the leading axis
//	    z := eps.Add(mu)
//	    fmt.Println(z.Shape()) // (5, 3)
//	}
//
// # Broadcasting
//
// Shapes are compared from the right. Two dimensions are compatible when
// they are equal or one of them is 1; missing leading dimensions count as 1:
//
//	(5, 3)    + (3,)   -> (5, 3)
//	(3, 4, 6) * (4, 6) -> (3, 4, 6)
//	(0, 3)    + (3,)   -> (0, 3)
//
// # Memory
//
// Tensors share buffers by reference count. Backends may write an
// operation's result into its first operand when that operand holds the
// only reference, so keep a Clone of a tensor you still need unchanged.
package tensor
