package scenario

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/reparam/internal/backend/cpu"
	"github.com/born-ml/reparam/internal/tensor"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, tensor.Float32, cfg.DataType())
	assert.True(t, cfg.Visual)
	require.Len(t, cfg.Scenarios, 2)

	assert.Equal(t, "latent-1d", cfg.Scenarios[0].Name)
	assert.Equal(t, 5, cfg.Scenarios[0].K)
	assert.Equal(t, "latent-2d", cfg.Scenarios[1].Name)
	assert.Equal(t, 3, cfg.Scenarios[1].K)

	mean, err := cfg.Scenarios[1].Mean.shape()
	require.NoError(t, err)
	if diff := cmp.Diff(tensor.Shape{4, 6}, mean); diff != "" {
		t.Errorf("latent-2d mean shape (-want +got):\n%s", diff)
	}
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(\"\") (-want +got):\n%s", diff)
	}
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
seed: 7
dtype: float64
scenarios:
  - name: scalar
    k: 4
    mean: {shape: [], fill: 3}
    std: {shape: [], fill: 2}
  - name: grid
    title: A grid
    k: 0
    mean: {shape: [2, 2], values: [1, 2, 3, 4]}
    std: {shape: [2], fill: 1}
    broadcast_std: true
`))
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, tensor.Float64, cfg.DataType())
	assert.True(t, cfg.Visual, "visual keeps its default")
	require.Len(t, cfg.Scenarios, 2)
	assert.Equal(t, "scalar", cfg.Scenarios[0].DisplayTitle())
	assert.Equal(t, "A grid", cfg.Scenarios[1].DisplayTitle())
	assert.True(t, cfg.Scenarios[1].BroadcastStd)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Len(t, cfg.Scenarios, 2)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("seeed: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		scenario string
		field    string
	}{
		{"bad dtype", "dtype: float16\n", "", "dtype"},
		{"integer dtype", "dtype: int32\n", "", "dtype"},
		{"no scenarios", "scenarios: []\n", "", "scenarios"},
		{"missing name", "scenarios:\n  - k: 1\n    mean: {values: [1]}\n    std: {values: [1]}\n", "", "scenarios[0].name"},
		{"duplicate name", "scenarios:\n  - {name: a, k: 1, mean: {values: [1]}, std: {values: [1]}}\n  - {name: a, k: 1, mean: {values: [1]}, std: {values: [1]}}\n", "a", "name"},
		{"path in name", "scenarios:\n  - {name: ../x, k: 1, mean: {values: [1]}, std: {values: [1]}}\n", "../x", "name"},
		{"negative k", "scenarios:\n  - {name: a, k: -2, mean: {values: [1]}, std: {values: [1]}}\n", "a", "k"},
		{"mean missing", "scenarios:\n  - {name: a, k: 1, std: {values: [1]}}\n", "a", "mean"},
		{"values and fill", "scenarios:\n  - {name: a, k: 1, mean: {values: [1], fill: 2}, std: {values: [1]}}\n", "a", "mean"},
		{"count mismatch", "scenarios:\n  - {name: a, k: 1, mean: {shape: [2, 2], values: [1, 2, 3]}, std: {values: [1]}}\n", "a", "mean"},
		{"negative dim", "scenarios:\n  - {name: a, k: 1, mean: {values: [1]}, std: {shape: [-1], fill: 1}}\n", "a", "std"},
		{"shape mismatch", "scenarios:\n  - {name: a, k: 1, mean: {values: [1, 2]}, std: {values: [1]}}\n", "a", "std.shape"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %T: %v", err, err)
			assert.Equal(t, tt.scenario, verr.Scenario)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Scenario: "latent-1d", Field: "k", Details: "must be >= 0, got -1"}
	assert.Equal(t, `scenario "latent-1d": k: must be >= 0, got -1`, err.Error())

	err = &ValidationError{Field: "dtype", Details: `unknown dtype "x"`}
	assert.Equal(t, `dtype: unknown dtype "x"`, err.Error())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reparam.yaml")
	require.NoError(t, Default().Save(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Encode(&buf))
	assert.Contains(t, buf.String(), "name: latent-1d")
	assert.Contains(t, buf.String(), "fill: 0.5")
}

func TestBuild(t *testing.T) {
	b := cpu.New()

	x, err := Build[float32](TensorSpec{Values: []float64{2, -1, 0.5}}, b)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3}, x.Shape())
	assert.Equal(t, []float32{2, -1, 0.5}, x.Data())

	y, err := Build[float64](Filled([]int{4, 6}, 0.5), b)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{4, 6}, y.Shape())
	for _, v := range y.Data() {
		assert.Equal(t, 0.5, v)
	}

	s, err := Build[float32](Filled(nil, 3), b)
	require.NoError(t, err)
	assert.Equal(t, float32(3), s.Item())

	_, err = Build[float32](TensorSpec{}, b)
	assert.Error(t, err)
}
