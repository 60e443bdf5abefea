// Package scenario defines the list of draws a run performs and loads it
// from YAML.
//
// A config file looks like:
//
//	seed: 42
//	dtype: float32
//	visual: true
//	scenarios:
//	  - name: latent-1d
//	    title: 1D latent space
//	    k: 5
//	    mean: {values: [2.0, -1.0, 0.5]}
//	    std:  {values: [1.0, 0.5, 2.0]}
//
// Fields left out of the file keep their Default values.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/born-ml/reparam/internal/tensor"
	"gopkg.in/yaml.v3"
)

// Config is a complete run description.
type Config struct {
	// Seed of the root key. Scenario 0 samples with it; later scenarios
	// split a fresh subkey off it.
	Seed int64 `yaml:"seed"`

	// DType is the element type of every tensor: float32 or float64.
	DType string `yaml:"dtype"`

	// Visual enables the symbolic picture after the scenarios.
	Visual bool `yaml:"visual"`

	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario is one reparameterized draw.
type Scenario struct {
	Name  string     `yaml:"name"`
	Title string     `yaml:"title"`
	K     int        `yaml:"k"`
	Mean  TensorSpec `yaml:"mean"`
	Std   TensorSpec `yaml:"std"`

	// BroadcastStd accepts a std whose shape only broadcasts to mean's.
	BroadcastStd bool `yaml:"broadcast_std,omitempty"`
}

// TensorSpec describes a tensor either by its values (row-major, with an
// optional shape) or by a shape filled with one value.
type TensorSpec struct {
	Shape  []int     `yaml:"shape,omitempty"`
	Values []float64 `yaml:"values,omitempty"`
	Fill   *float64  `yaml:"fill,omitempty"`
}

// Default returns the two draws of the reference walkthrough: five samples
// of a 3-dimensional latent vector and three samples of a 4x6 feature map.
func Default() *Config {
	return &Config{
		Seed:   42,
		DType:  "float32",
		Visual: true,
		Scenarios: []Scenario{
			{
				Name:  "latent-1d",
				Title: "1D latent space",
				K:     5,
				Mean:  TensorSpec{Values: []float64{2.0, -1.0, 0.5}},
				Std:   TensorSpec{Values: []float64{1.0, 0.5, 2.0}},
			},
			{
				Name:  "latent-2d",
				Title: "2D latent space (like image features)",
				K:     3,
				Mean:  Filled([]int{4, 6}, 1.0),
				Std:   Filled([]int{4, 6}, 0.5),
			},
		},
	}
}

// Filled returns a spec of the given shape with every element set to v.
func Filled(shape []int, v float64) TensorSpec {
	return TensorSpec{Shape: shape, Fill: &v}
}

// Load reads and validates a YAML config. An empty path returns Default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes cfg as YAML.
func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return enc.Close()
}

// Save writes cfg to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// DataType returns the parsed element type. Call after Validate.
func (c *Config) DataType() tensor.DataType {
	dt, _ := tensor.ParseDataType(c.DType)
	return dt
}

// Validate checks every field and returns the first problem as a
// *ValidationError.
func (c *Config) Validate() error {
	switch dt, ok := tensor.ParseDataType(c.DType); {
	case !ok:
		return &ValidationError{Field: "dtype", Details: fmt.Sprintf("unknown dtype %q", c.DType)}
	case dt != tensor.Float32 && dt != tensor.Float64:
		return &ValidationError{Field: "dtype", Details: fmt.Sprintf("%s cannot hold Gaussian samples (use float32 or float64)", dt)}
	}

	if len(c.Scenarios) == 0 {
		return &ValidationError{Field: "scenarios", Details: "at least one scenario is required"}
	}

	seen := make(map[string]bool, len(c.Scenarios))
	for i := range c.Scenarios {
		s := &c.Scenarios[i]
		if s.Name == "" {
			return &ValidationError{Field: fmt.Sprintf("scenarios[%d].name", i), Details: "must not be empty"}
		}
		if seen[s.Name] {
			return &ValidationError{Scenario: s.Name, Field: "name", Details: "duplicate scenario name"}
		}
		seen[s.Name] = true

		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a single scenario.
func (s *Scenario) Validate() error {
	if strings.ContainsAny(s.Name, `/\`) || s.Name == "." || s.Name == ".." {
		return &ValidationError{Scenario: s.Name, Field: "name", Details: "must be usable as a file name"}
	}
	if s.K < 0 {
		return &ValidationError{Scenario: s.Name, Field: "k", Details: fmt.Sprintf("must be >= 0, got %d", s.K)}
	}

	mean, err := s.Mean.shape()
	if err != nil {
		return &ValidationError{Scenario: s.Name, Field: "mean", Details: err.Error()}
	}
	std, err := s.Std.shape()
	if err != nil {
		return &ValidationError{Scenario: s.Name, Field: "std", Details: err.Error()}
	}

	if !s.BroadcastStd && !mean.Equal(std) {
		return &ValidationError{
			Scenario: s.Name,
			Field:    "std.shape",
			Details:  fmt.Sprintf("%v does not match mean shape %v (set broadcast_std to allow broadcasting)", std, mean),
		}
	}
	return nil
}

// DisplayTitle returns the title, falling back to the name.
func (s *Scenario) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

// shape resolves the tensor shape described by the spec.
func (t TensorSpec) shape() (tensor.Shape, error) {
	switch {
	case t.Values != nil && t.Fill != nil:
		return nil, fmt.Errorf("values and fill are mutually exclusive")
	case t.Values == nil && t.Fill == nil:
		return nil, fmt.Errorf("either values or shape with fill is required")
	}

	if t.Values != nil && t.Shape == nil {
		return tensor.Shape{len(t.Values)}, nil
	}

	shape := tensor.Shape(t.Shape).Clone()
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if t.Values != nil && shape.NumElements() != len(t.Values) {
		return nil, fmt.Errorf("shape %v needs %d values, got %d", shape, shape.NumElements(), len(t.Values))
	}
	return shape, nil
}

// Build materializes the spec as a tensor on backend b.
func Build[T tensor.Float, B tensor.Backend](spec TensorSpec, b B) (*tensor.Tensor[T, B], error) {
	shape, err := spec.shape()
	if err != nil {
		return nil, err
	}

	if spec.Fill != nil {
		return tensor.Full[T](shape, T(*spec.Fill), b), nil
	}

	data := make([]T, len(spec.Values))
	for i, v := range spec.Values {
		data[i] = T(v)
	}
	return tensor.FromSlice(data, shape, b)
}
