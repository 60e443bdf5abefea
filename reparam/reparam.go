// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package reparam draws samples from diagonal Gaussians with the
// reparameterization trick, z = mean + eps*std with eps ~ N(0, I).
//
// # Shapes
//
// For K samples of a mean with shape S the noise has shape (K,) + S and
// mean and std broadcast along the leading axis:
//
//	mean (3,)     std (3,)     K=5  ->  z (5, 3)
//	mean (4, 6)   std (4, 6)   K=3  ->  z (3, 4, 6)
//
// # Basic Usage
//
//	backend := cpu.New()
//	mu, _ := tensor.FromSlice([]float32{2, -1, 0.5}, tensor.Shape{3}, backend)
//	sigma, _ := tensor.FromSlice([]float32{1, 0.5, 2}, tensor.Shape{3}, backend)
//
//	key := random.NewKey(42)
//	z, err := reparam.Sample(key, mu, sigma, 5)
//	if err != nil {
//	    return err
//	}
//	mean, std, _ := reparam.Moments(z) // empirical, per element
package reparam

import (
	"github.com/born-ml/reparam/internal/reparam"
	"github.com/born-ml/reparam/random"
	"github.com/born-ml/reparam/tensor"
)

// Sampling errors; match with errors.Is.
var (
	ErrShapeMismatch      = reparam.ErrShapeMismatch
	ErrInvalidSampleCount = reparam.ErrInvalidSampleCount
	ErrEmptySample        = reparam.ErrEmptySample
)

// Observer is told the shape of every intermediate tensor of a draw.
type Observer = reparam.Observer

// NopObserver ignores every step.
type NopObserver = reparam.NopObserver

// Option configures Sample.
type Option = reparam.Option

// WithObserver reports every intermediate shape to o.
func WithObserver(o Observer) Option {
	return reparam.WithObserver(o)
}

// WithBroadcastStd accepts any std that broadcasts to mean's shape.
func WithBroadcastStd() Option {
	return reparam.WithBroadcastStd()
}

// Sample draws k samples from N(mean, std²); the result has shape
// (k,) + mean.Shape(). mean and std are left unchanged.
func Sample[T tensor.Float, B tensor.Backend](key random.Key, mean, std *tensor.Tensor[T, B], k int, opts ...Option) (*tensor.Tensor[T, B], error) {
	return reparam.Sample(key, mean, std, k, opts...)
}

// Moments returns the empirical mean and population standard deviation of
// z along its sample axis.
func Moments[T tensor.Float, B tensor.Backend](z *tensor.Tensor[T, B]) (mean, std *tensor.Tensor[T, B], err error) {
	return reparam.Moments(z)
}
