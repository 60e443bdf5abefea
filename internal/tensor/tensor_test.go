package tensor

import (
	"math"
	"testing"
)

// Test helpers

func assertEqualFloat32(t *testing.T, expected, actual float32, msg string) {
	t.Helper()
	if math.Abs(float64(expected-actual)) > 1e-6 {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

func assertEqualShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

// DType Tests

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
		{Int64, 8},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestParseDataType(t *testing.T) {
	tests := []struct {
		name string
		want DataType
		ok   bool
	}{
		{"float32", Float32, true},
		{"f64", Float64, true},
		{"int64", Int64, true},
		{"bfloat16", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseDataType(tt.name)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseDataType(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

// Tensor Tests

func TestFromSlice(t *testing.T) {
	backend := NewMockBackend()

	mu, err := FromSlice([]float32{2.0, -1.0, 0.5}, Shape{3}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	assertEqualShape(t, Shape{3}, mu.Shape(), "FromSlice shape")
	assertEqualFloat32(t, -1.0, mu.At(1), "FromSlice value")

	if _, err := FromSlice([]float32{1, 2}, Shape{3}, backend); err == nil {
		t.Error("FromSlice should reject element count mismatch")
	}
}

func TestTensorAtSet(t *testing.T) {
	backend := NewMockBackend()
	x := Zeros[float64](Shape{4, 6}, backend)

	x.Set(3.5, 2, 5)
	if got := x.At(2, 5); got != 3.5 {
		t.Errorf("At(2, 5) = %v, want 3.5", got)
	}
	if got := x.Data()[2*6+5]; got != 3.5 {
		t.Errorf("flat index = %v, want 3.5", got)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("At with out-of-range index should panic")
		}
	}()
	x.At(4, 0)
}

func TestTensorItem(t *testing.T) {
	backend := NewMockBackend()
	s := Full[int32](Shape{}, 7, backend)
	if s.Item() != 7 {
		t.Errorf("Item() = %v, want 7", s.Item())
	}
}

func TestTensorString(t *testing.T) {
	backend := NewMockBackend()
	x := Zeros[float32](Shape{5, 3}, backend)
	if got, want := x.String(), "Tensor[float32](5, 3) on CPU"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestTensorClone_SharesCopyOnWrite(t *testing.T) {
	backend := NewMockBackend()
	x := Ones[float32](Shape{3}, backend)

	if !x.Raw().IsUnique() {
		t.Fatal("fresh tensor should be unique")
	}
	y := x.Clone()
	if x.Raw().IsUnique() || y.Raw().IsUnique() {
		t.Error("clone should share the buffer")
	}
}

func TestTensorOps_Broadcast(t *testing.T) {
	backend := NewMockBackend()
	eps, _ := FromSlice([]float32{1, 0, -1, 2, 1, 0}, Shape{2, 3}, backend)
	std, _ := FromSlice([]float32{1, 0.5, 2}, Shape{3}, backend)
	mu, _ := FromSlice([]float32{2, -1, 0.5}, Shape{3}, backend)

	z := eps.Mul(std).Add(mu)

	assertEqualShape(t, Shape{2, 3}, z.Shape(), "z shape")
	expected := []float32{3, -1, -1.5, 4, -0.5, 0.5}
	for i, v := range z.Data() {
		assertEqualFloat32(t, expected[i], v, "z value")
	}

	diff := z.Sub(z)
	for _, v := range diff.Data() {
		assertEqualFloat32(t, 0, v, "z - z")
	}
}

func TestTensorOps_ScalarAndReduce(t *testing.T) {
	backend := NewMockBackend()
	x, _ := FromSlice([]float64{1, 4, 9, 16}, Shape{2, 2}, backend)

	sq := x.Sqrt()
	if got := sq.At(1, 1); got != 4 {
		t.Errorf("Sqrt At(1,1) = %v, want 4", got)
	}

	mean := x.MeanDim(0, false)
	assertEqualShape(t, Shape{2}, mean.Shape(), "MeanDim shape")
	if mean.At(0) != 5 || mean.At(1) != 10 {
		t.Errorf("MeanDim = %v, want [5 10]", mean.Data())
	}

	sum := x.SumDim(-1, true)
	assertEqualShape(t, Shape{2, 1}, sum.Shape(), "SumDim shape")

	scaled := x.MulScalar(0.5)
	if scaled.At(0, 1) != 2 {
		t.Errorf("MulScalar At(0,1) = %v, want 2", scaled.At(0, 1))
	}

	ones := x.MulScalar(0).Exp()
	assertEqualShape(t, Shape{2, 2}, ones.Shape(), "Exp shape")
	for _, v := range ones.Data() {
		if v != 1 {
			t.Errorf("Exp(0) = %v, want 1", v)
		}
	}
}
