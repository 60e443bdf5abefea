// Package reparam draws samples from diagonal Gaussians with the
// reparameterization trick: z = mean + eps*std with eps ~ N(0, I).
//
// The noise has shape (K,) + mean.shape; mean and std broadcast along the
// leading sample axis, so z[i] is the i-th sample.
package reparam

import (
	"fmt"

	"github.com/born-ml/reparam/internal/random"
	"github.com/born-ml/reparam/internal/tensor"
)

type options struct {
	observer     Observer
	broadcastStd bool
}

// Option configures Sample.
type Option func(*options)

// WithObserver reports every intermediate shape to o.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

// WithBroadcastStd accepts any std shape that broadcasts to mean's shape,
// such as a scalar std shared by every element. Without it, std must have
// exactly mean's shape.
func WithBroadcastStd() Option {
	return func(opts *options) {
		opts.broadcastStd = true
	}
}

// Sample draws k independent samples from N(mean, std²) using key.
//
// The result has shape (k,) + mean.Shape() and result[i] = mean + eps[i]*std.
// k == 0 yields an empty leading axis. mean and std are never modified.
// The same key, inputs and element type always give the same result; split
// the key before drawing again.
//
// Example:
//
//	backend := cpu.New()
//	mu, _ := tensor.FromSlice([]float32{2, -1, 0.5}, tensor.Shape{3}, backend)
//	sigma, _ := tensor.FromSlice([]float32{1, 0.5, 2}, tensor.Shape{3}, backend)
//	z, err := reparam.Sample(random.NewKey(42), mu, sigma, 5) // shape (5, 3)
func Sample[T tensor.Float, B tensor.Backend](key random.Key, mean, std *tensor.Tensor[T, B], k int, opts ...Option) (*tensor.Tensor[T, B], error) {
	o := options{observer: NopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}

	o.observer.Inputs(mean.Shape(), std.Shape(), k)

	if k < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleCount, k)
	}
	if err := checkShapes(mean.Shape(), std.Shape(), o.broadcastStd); err != nil {
		return nil, err
	}

	event := mean.Shape()
	sampleShape := event.Prepend(k)
	o.observer.SampleShape(k, event, sampleShape)

	eps := tensor.RandomNormal[T](key, sampleShape, mean.Backend())
	o.observer.Noise(sampleShape, eps.Shape())

	// Backends may write into a uniquely held operand; pin the caller's tensors.
	defer mean.Raw().ForceNonUnique()()
	defer std.Raw().ForceNonUnique()()

	z := eps.Mul(std).Add(mean)
	o.observer.Reparameterized(mean.Shape(), eps.Shape(), std.Shape(), z.Shape())

	return z, nil
}

func checkShapes(mean, std tensor.Shape, broadcast bool) error {
	if mean.Equal(std) {
		return nil
	}
	if !broadcast {
		return fmt.Errorf("%w: mean %v, std %v", ErrShapeMismatch, mean, std)
	}

	out, _, err := tensor.BroadcastShapes(mean, std)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	if !out.Equal(mean) {
		return fmt.Errorf("%w: std %v would widen the event shape %v to %v", ErrShapeMismatch, std, mean, out)
	}
	return nil
}

// Moments returns the per-element empirical mean and (population) standard
// deviation of z along the sample axis. z must have at least one sample.
func Moments[T tensor.Float, B tensor.Backend](z *tensor.Tensor[T, B]) (mean, std *tensor.Tensor[T, B], err error) {
	shape := z.Shape()
	if len(shape) == 0 || shape[0] == 0 {
		return nil, nil, fmt.Errorf("%w: sample shape %v", ErrEmptySample, shape)
	}
	defer z.Raw().ForceNonUnique()()

	mean = z.MeanDim(0, false)
	centered := z.Sub(mean)
	std = centered.Mul(centered).MeanDim(0, false).Sqrt()

	return mean, std, nil
}
