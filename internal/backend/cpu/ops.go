package cpu

import (
	"fmt"

	"github.com/born-ml/reparam/internal/parallel"
	"github.com/born-ml/reparam/internal/tensor"
)

type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
	opMul
	opDiv
)

func (op binaryOp) String() string {
	switch op {
	case opAdd:
		return "add"
	case opSub:
		return "sub"
	case opMul:
		return "mul"
	case opDiv:
		return "div"
	default:
		return "unknown"
	}
}

func binaryFunc[T tensor.DType](op binaryOp) func(x, y T) T {
	switch op {
	case opAdd:
		return func(x, y T) T { return x + y }
	case opSub:
		return func(x, y T) T { return x - y }
	case opMul:
		return func(x, y T) T { return x * y }
	case opDiv:
		return func(x, y T) T { return x / y }
	default:
		panic(fmt.Sprintf("unknown binary op %d", op))
	}
}

// binaryDispatch selects the typed kernel for result = op(a, b).
// result may alias a (inplace path).
func binaryDispatch(op binaryOp, result, a, b *tensor.RawTensor, outShape tensor.Shape, broadcast bool, cfg parallel.Config) {
	switch a.DType() {
	case tensor.Float32:
		binaryKernel(binaryFunc[float32](op), result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, broadcast, cfg)
	case tensor.Float64:
		binaryKernel(binaryFunc[float64](op), result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, broadcast, cfg)
	case tensor.Int32:
		binaryKernel(binaryFunc[int32](op), result.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, broadcast, cfg)
	case tensor.Int64:
		binaryKernel(binaryFunc[int64](op), result.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape, broadcast, cfg)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}
}

func binaryKernel[T tensor.DType](f func(x, y T) T, dst, a, b []T, aShape, bShape, outShape tensor.Shape, broadcast bool, cfg parallel.Config) {
	if !broadcast {
		parallel.ForRange(len(dst), func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = f(a[i], b[i])
			}
		}, cfg)
		return
	}

	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)

	parallel.ForRange(outShape.NumElements(), func(start, end int) {
		for i := start; i < end; i++ {
			aIdx := sourceIndex(i, outStrides, aStrides)
			bIdx := sourceIndex(i, outStrides, bStrides)
			dst[i] = f(a[aIdx], b[bIdx])
		}
	}, cfg)
}
