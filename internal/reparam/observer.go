package reparam

import "github.com/born-ml/reparam/internal/tensor"

// Observer is told about each step of a draw as it happens. It sees shapes
// only; the numbers themselves are never passed out.
type Observer interface {
	// Inputs is called first, before any validation.
	Inputs(mean, std tensor.Shape, k int)
	// SampleShape reports the shape built by prepending k to the event shape.
	SampleShape(k int, event, sample tensor.Shape)
	// Noise reports the requested and the produced noise shape.
	Noise(requested, noise tensor.Shape)
	// Reparameterized reports the operand shapes of z = mean + noise*std
	// and the shape of z.
	Reparameterized(mean, noise, std, z tensor.Shape)
}

// NopObserver ignores every step.
type NopObserver struct{}

func (NopObserver) Inputs(tensor.Shape, tensor.Shape, int)                                 {}
func (NopObserver) SampleShape(int, tensor.Shape, tensor.Shape)                            {}
func (NopObserver) Noise(tensor.Shape, tensor.Shape)                                       {}
func (NopObserver) Reparameterized(tensor.Shape, tensor.Shape, tensor.Shape, tensor.Shape) {}
