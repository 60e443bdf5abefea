package tensor

import (
	"fmt"
	"math"
)

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a naive reference backend for testing.
// Everything is computed in float64 and converted back.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Add performs element-wise addition with broadcasting.
func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (m *MockBackend) Sub(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (m *MockBackend) Div(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x / y })
}

// MulScalar multiplies by a scalar.
func (m *MockBackend) MulScalar(x *RawTensor, scalar any) *RawTensor {
	s := toFloat64(scalar)
	return m.unary(x, func(v float64) float64 { return v * s })
}

// Exp computes the element-wise exponential.
func (m *MockBackend) Exp(x *RawTensor) *RawTensor {
	return m.unary(x, math.Exp)
}

// Sqrt computes the element-wise square root.
func (m *MockBackend) Sqrt(x *RawTensor) *RawTensor {
	return m.unary(x, math.Sqrt)
}

// SumDim sums along a dimension.
func (m *MockBackend) SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor {
	return m.reduceDim(x, dim, keepDim, false)
}

// MeanDim averages along a dimension.
func (m *MockBackend) MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor {
	return m.reduceDim(x, dim, keepDim, true)
}

func (m *MockBackend) elementWise(a, b *RawTensor, op func(float64, float64) float64) *RawTensor {
	outShape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}

	result, err := NewRaw(outShape, a.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	aData := m.toFloat64Slice(a)
	bData := m.toFloat64Slice(b)
	resultData := make([]float64, outShape.NumElements())

	for i := range resultData {
		aIdx := m.broadcastIndex(i, outShape, a.Shape())
		bIdx := m.broadcastIndex(i, outShape, b.Shape())
		resultData[i] = op(aData[aIdx], bData[bIdx])
	}

	m.fromFloat64Slice(resultData, result)
	return result
}

func (m *MockBackend) unary(x *RawTensor, op func(float64) float64) *RawTensor {
	result, err := NewRaw(x.Shape(), x.DType(), m.Device())
	if err != nil {
		panic(err)
	}
	src := m.toFloat64Slice(x)
	dst := make([]float64, len(src))
	for i, v := range src {
		dst[i] = op(v)
	}
	m.fromFloat64Slice(dst, result)
	return result
}

func (m *MockBackend) reduceDim(x *RawTensor, dim int, keepDim, mean bool) *RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("reduce: dim %d out of range for shape %v", dim, shape))
	}

	kept := shape.Clone()
	kept[dim] = 1
	acc := make([]float64, kept.NumElements())

	src := m.toFloat64Slice(x)
	for i, v := range src {
		acc[m.broadcastIndex(i, shape, kept)] += v
	}
	if mean {
		for i := range acc {
			acc[i] /= float64(shape[dim])
		}
	}

	outShape := kept
	if !keepDim {
		outShape = append(shape[:dim:dim], shape[dim+1:]...)
	}
	result, err := NewRaw(outShape, x.DType(), m.Device())
	if err != nil {
		panic(err)
	}
	m.fromFloat64Slice(acc, result)
	return result
}

func toFloat64(v any) float64 {
	switch s := v.(type) {
	case float32:
		return float64(s)
	case float64:
		return s
	case int32:
		return float64(s)
	case int64:
		return float64(s)
	default:
		panic(fmt.Sprintf("unsupported scalar type %T", v))
	}
}

func (m *MockBackend) toFloat64Slice(t *RawTensor) []float64 {
	switch t.DType() {
	case Float32:
		return widen(t.AsFloat32())
	case Float64:
		return t.AsFloat64()
	case Int32:
		return widen(t.AsInt32())
	case Int64:
		return widen(t.AsInt64())
	default:
		panic(fmt.Sprintf("unsupported dtype: %s", t.DType()))
	}
}

func widen[T DType](src []T) []float64 {
	dst := make([]float64, len(src))
	for i, v := range src {
		dst[i] = float64(v)
	}
	return dst
}

func (m *MockBackend) fromFloat64Slice(src []float64, t *RawTensor) {
	switch t.DType() {
	case Float32:
		dst := t.AsFloat32()
		for i, v := range src {
			dst[i] = float32(v)
		}
	case Float64:
		copy(t.AsFloat64(), src)
	case Int32:
		dst := t.AsInt32()
		for i, v := range src {
			dst[i] = int32(v)
		}
	case Int64:
		dst := t.AsInt64()
		for i, v := range src {
			dst[i] = int64(v)
		}
	}
}

// broadcastIndex maps a flat index in outShape to the flat index in inShape.
func (m *MockBackend) broadcastIndex(flatIdx int, outShape, inShape Shape) int {
	outStrides := outShape.ComputeStrides()
	indices := make([]int, len(outShape))

	temp := flatIdx
	for i := 0; i < len(outShape); i++ {
		if outStrides[i] == 0 {
			continue
		}
		indices[i] = temp / outStrides[i]
		temp %= outStrides[i]
	}

	inStrides := inShape.ComputeStrides()
	inIdx := 0

	offset := len(outShape) - len(inShape)
	for i := 0; i < len(inShape); i++ {
		outDimIdx := indices[offset+i]
		if inShape[i] == 1 {
			outDimIdx = 0
		}
		inIdx += outDimIdx * inStrides[i]
	}

	return inIdx
}
