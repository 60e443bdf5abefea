package cpu

import (
	"math"
	"testing"

	"github.com/born-ml/reparam/internal/tensor"
)

func TestSumDim_1D(t *testing.T) {
	backend := New()
	x := newFloat32(t, tensor.Shape{4}, 1, 2, 3, 4)

	// keepDim=true -> (1,)
	result := backend.SumDim(x, 0, true)
	if !result.Shape().Equal(tensor.Shape{1}) {
		t.Errorf("Expected shape (1,), got %v", result.Shape())
	}
	if result.AsFloat32()[0] != 10 {
		t.Errorf("Expected 10, got %v", result.AsFloat32()[0])
	}

	// keepDim=false -> ()
	result = backend.SumDim(x, 0, false)
	if len(result.Shape()) != 0 {
		t.Errorf("Expected shape (), got %v", result.Shape())
	}
	if result.AsFloat32()[0] != 10 {
		t.Errorf("Expected 10, got %v", result.AsFloat32()[0])
	}
}

func TestSumDim_2D_LastDim(t *testing.T) {
	backend := New()
	// Row 0: [1, 2, 3]
	// Row 1: [4, 5, 6]
	x := newFloat32(t, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)

	result := backend.SumDim(x, -1, true)
	if !result.Shape().Equal(tensor.Shape{2, 1}) {
		t.Errorf("Expected shape (2, 1), got %v", result.Shape())
	}
	if !float32SliceEqual(result.AsFloat32(), []float32{6, 15}) {
		t.Errorf("got %v", result.AsFloat32())
	}
}

func TestMeanDim_SampleAxis(t *testing.T) {
	backend := New()
	// Three samples of a (2, 2) event.
	x := newFloat32(t, tensor.Shape{3, 2, 2},
		1, 2, 3, 4,
		3, 4, 5, 6,
		5, 6, 7, 8,
	)

	result := backend.MeanDim(x, 0, false)
	if !result.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("Expected shape (2, 2), got %v", result.Shape())
	}
	if !float32SliceEqual(result.AsFloat32(), []float32{3, 4, 5, 6}) {
		t.Errorf("got %v", result.AsFloat32())
	}
}

func TestMeanDim_EmptyAxisIsNaN(t *testing.T) {
	backend := New()
	x, _ := tensor.NewRaw(tensor.Shape{0, 2}, tensor.Float64, tensor.CPU)

	result := backend.MeanDim(x, 0, false)
	if !result.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("Expected shape (2,), got %v", result.Shape())
	}
	for i, v := range result.AsFloat64() {
		if !math.IsNaN(v) {
			t.Errorf("mean[%d] = %v, want NaN", i, v)
		}
	}
}

func TestSumDim_OutOfRangePanics(t *testing.T) {
	backend := New()
	x := newFloat32(t, tensor.Shape{2})

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for out-of-range dim")
		}
	}()
	backend.SumDim(x, 1, false)
}
