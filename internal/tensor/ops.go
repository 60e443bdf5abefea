package tensor

// Add performs element-wise addition with broadcasting.
//
// Example:
//
//	eps := tensor.Zeros[float32](Shape{5, 3}, backend)
//	mu := tensor.Ones[float32](Shape{3}, backend)
//	z := eps.Add(mu) // Shape: (5, 3) (broadcasted)
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.Add(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.Sub(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.Mul(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// Div performs element-wise division with broadcasting.
func (t *Tensor[T, B]) Div(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.Div(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// MulScalar multiplies every element by s.
func (t *Tensor[T, B]) MulScalar(s T) *Tensor[T, B] {
	result := t.backend.MulScalar(t.raw, s)
	return New[T, B](result, t.backend)
}

// Exp computes e^x for each element.
//
// Example:
//
//	sigma := logVar.MulScalar(0.5).Exp() // std from log-variance
func (t *Tensor[T, B]) Exp() *Tensor[T, B] {
	result := t.backend.Exp(t.raw)
	return New[T, B](result, t.backend)
}

// Sqrt computes the element-wise square root.
func (t *Tensor[T, B]) Sqrt() *Tensor[T, B] {
	result := t.backend.Sqrt(t.raw)
	return New[T, B](result, t.backend)
}

// MeanDim averages along dim. Negative dims count from the end.
//
// Example:
//
//	z := ... // Shape: (5, 3)
//	m := z.MeanDim(0, false) // Shape: (3,)
func (t *Tensor[T, B]) MeanDim(dim int, keepDim bool) *Tensor[T, B] {
	result := t.backend.MeanDim(t.raw, dim, keepDim)
	return New[T, B](result, t.backend)
}

// SumDim sums along dim. Negative dims count from the end.
func (t *Tensor[T, B]) SumDim(dim int, keepDim bool) *Tensor[T, B] {
	result := t.backend.SumDim(t.raw, dim, keepDim)
	return New[T, B](result, t.backend)
}
