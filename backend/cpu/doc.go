// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float32, Float64, Int32 and Int64 support
//   - NumPy-compatible broadcasting
//   - Large kernels split across goroutines
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/reparam/backend/cpu"
//	    "github.com/born-ml/reparam/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{5, 3}, backend)
//	    mu := tensor.Ones[float32](tensor.Shape{3}, backend)
//	    y := x.Add(mu) // (5, 3)
//	}
//
// # Parallelism
//
// Element-wise kernels over large tensors run in chunks on all CPUs.
// Results never depend on the number of workers. Use NewSequential to
// keep every kernel on the calling goroutine.
package cpu
