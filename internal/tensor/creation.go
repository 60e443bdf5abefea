package tensor

import "github.com/born-ml/reparam/internal/random"

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype, b.Device())
	if err != nil {
		panic(err)
	}

	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
//
// Example:
//
//	mu := tensor.Ones[float32](Shape{4, 6}, backend)
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, 1, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	std := tensor.Full[float32](Shape{4, 6}, 0.5, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// RandomNormal creates a tensor of independent standard-normal draws
// (mean=0, std=1) derived from key.
//
// The values depend only on key, shape and T: the same key always yields
// the same tensor. Use random.Split to obtain a fresh key for every draw.
//
// Example:
//
//	key := random.NewKey(42)
//	eps := tensor.RandomNormal[float32](key, Shape{5, 3}, backend)
func RandomNormal[T Float, B Backend](key random.Key, shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	switch data := any(t.Data()).(type) {
	case []float32:
		random.FillNormal32(key, data)
	case []float64:
		random.FillNormal64(key, data)
	default:
		panic("RandomNormal only supports float32 and float64 types")
	}
	return t
}

// RandomUniform creates a tensor of draws uniformly distributed in [0, 1).
func RandomUniform[T Float, B Backend](key random.Key, shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	switch data := any(t.Data()).(type) {
	case []float32:
		random.FillUniform32(key, data, 0, 1)
	case []float64:
		random.FillUniform64(key, data, 0, 1)
	default:
		panic("RandomUniform only supports float32 and float64 types")
	}
	return t
}
