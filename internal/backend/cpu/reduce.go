package cpu

import (
	"fmt"

	"github.com/born-ml/reparam/internal/tensor"
)

// SumDim sums tensor elements along the specified dimension.
//
// Parameters:
//   - dim: dimension to reduce (supports negative indexing: -1 = last dim)
//   - keepDim: if true, keep the reduced dimension with size 1; if false, remove it
//
// Example:
//
//	z := ... // shape: (5, 3)
//	y := backend.SumDim(z, 0, true)   // shape: (1, 3)
//	s := backend.SumDim(z, 0, false)  // shape: (3,)
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim("sumdim", dim, len(shape))

	outShape := reducedShape(shape, dim, keepDim)
	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sumdim: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		sumDim(x.AsFloat32(), result.AsFloat32(), shape, dim)
	case tensor.Float64:
		sumDim(x.AsFloat64(), result.AsFloat64(), shape, dim)
	case tensor.Int32:
		sumDim(x.AsInt32(), result.AsInt32(), shape, dim)
	case tensor.Int64:
		sumDim(x.AsInt64(), result.AsInt64(), shape, dim)
	default:
		panic(fmt.Sprintf("sumdim: unsupported dtype %s", x.DType()))
	}

	return result
}

// MeanDim computes the mean along a dimension. Reducing a zero-length
// dimension yields NaN.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	sumResult := cpu.SumDim(x, dim, keepDim)

	dim = normalizeDim("meandim", dim, len(x.Shape()))
	divisor := float64(x.Shape()[dim])

	switch sumResult.DType() {
	case tensor.Float32:
		data := sumResult.AsFloat32()
		divisorF32 := float32(divisor)
		for i := range data {
			data[i] /= divisorF32
		}
	case tensor.Float64:
		data := sumResult.AsFloat64()
		for i := range data {
			data[i] /= divisor
		}
	default:
		panic(fmt.Sprintf("meandim: unsupported dtype %s (only float32/float64 supported)", sumResult.DType()))
	}

	return sumResult
}

func normalizeDim(op string, dim, ndim int) int {
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("%s: dimension %d out of range for %dD tensor", op, dim, ndim))
	}
	return dim
}

func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for i, d := range shape {
		if i != dim {
			out = append(out, d)
		}
	}
	return out
}

// sumDim walks the input once, accumulating into the output cell whose
// coordinate along dim is 0.
func sumDim[T tensor.DType](data, result []T, shape tensor.Shape, dim int) {
	for i := range result {
		result[i] = 0
	}

	strides := shape.ComputeStrides()
	outShape := shape.Clone()
	outShape[dim] = 1
	outStrides := outShape.ComputeStrides()

	for i := range data {
		outIdx := 0
		temp := i
		for d := 0; d < len(shape); d++ {
			coord := temp / strides[d]
			temp %= strides[d]
			if d != dim {
				outIdx += coord * outStrides[d]
			}
		}
		result[outIdx] += data[i]
	}
}
