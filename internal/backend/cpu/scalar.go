package cpu

import (
	"fmt"

	"github.com/born-ml/reparam/internal/tensor"
)

// MulScalar multiplies each element of the tensor by a scalar value.
// The scalar's Go type must match the tensor dtype.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(opMul, x, scalar)
}

func (cpu *CPUBackend) scalarOp(op binaryOp, x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%sScalar: failed to create result tensor: %v", op, err))
	}

	switch x.DType() {
	case tensor.Float32:
		scalarKernel(binaryFunc[float32](op), result.AsFloat32(), x.AsFloat32(), scalarAs[float32](op, scalar))
	case tensor.Float64:
		scalarKernel(binaryFunc[float64](op), result.AsFloat64(), x.AsFloat64(), scalarAs[float64](op, scalar))
	case tensor.Int32:
		scalarKernel(binaryFunc[int32](op), result.AsInt32(), x.AsInt32(), scalarAs[int32](op, scalar))
	case tensor.Int64:
		scalarKernel(binaryFunc[int64](op), result.AsInt64(), x.AsInt64(), scalarAs[int64](op, scalar))
	default:
		panic(fmt.Sprintf("%sScalar: unsupported dtype %v", op, x.DType()))
	}

	return result
}

func scalarAs[T tensor.DType](op binaryOp, scalar any) T {
	s, ok := scalar.(T)
	if !ok {
		var want T
		panic(fmt.Sprintf("%sScalar: scalar type %T does not match tensor element type %T", op, scalar, want))
	}
	return s
}

func scalarKernel[T tensor.DType](f func(x, y T) T, dst, x []T, s T) {
	for i := range dst {
		dst[i] = f(x[i], s)
	}
}
