package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - CPU: Pure Go (internal/backend/cpu)
//   - Mock: naive reference implementation for tests (mock.go)
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar any) *RawTensor // multiply by scalar

	// Math operations (element-wise)
	Exp(x *RawTensor) *RawTensor  // exponential
	Sqrt(x *RawTensor) *RawTensor // square root

	// Reduction operations
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // sum along dimension
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor // mean along dimension

	// Metadata
	Name() string
	Device() Device
}
