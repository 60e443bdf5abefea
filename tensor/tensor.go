// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/reparam/internal/tensor"
	"github.com/born-ml/reparam/random"
)

// DType is a constraint for tensor data types.
// Supported types: float32, float64, int32, int64.
type DType = tensor.DType

// Float is the constraint for element types that can hold Gaussian samples.
type Float = tensor.Float

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
)

// ParseDataType maps "float32", "float64", "int32" or "int64" to a DataType.
func ParseDataType(name string) (DataType, bool) {
	return tensor.ParseDataType(name)
}

// Device represents the device where tensor data resides.
type Device = tensor.Device

// CPU is the only device tensors live on.
const CPU Device = tensor.CPU

// Shape represents the dimensions of a tensor.
// Example: Shape{5, 3} holds five samples of a 3-dimensional vector.
type Shape = tensor.Shape

// Tensor is a generic type-safe tensor.
//
// T is the element type, B the backend that executes operations.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{3}, backend)
//	z := x.Add(y) // (2, 3)
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// BroadcastShapes returns the shape two operands broadcast to and whether
// any broadcasting is needed.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// Creation functions

// New wraps a RawTensor for backend b.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// FromSlice creates a tensor holding a copy of data.
//
// Example:
//
//	mu, err := tensor.FromSlice([]float32{2, -1, 0.5}, tensor.Shape{3}, backend)
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice(data, shape, b)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T, B](shape, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	std := tensor.Full[float32](tensor.Shape{4, 6}, 0.5, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full(shape, value, b)
}

// RandomNormal creates a tensor of standard-normal draws determined by key.
//
// Example:
//
//	eps := tensor.RandomNormal[float32](random.NewKey(42), tensor.Shape{5, 3}, backend)
func RandomNormal[T Float, B Backend](key random.Key, shape Shape, b B) *Tensor[T, B] {
	return tensor.RandomNormal[T, B](key, shape, b)
}

// RandomUniform creates a tensor of draws uniform in [0, 1) determined by key.
func RandomUniform[T Float, B Backend](key random.Key, shape Shape, b B) *Tensor[T, B] {
	return tensor.RandomUniform[T, B](key, shape, b)
}
