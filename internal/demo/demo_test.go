package demo

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/born-ml/reparam/internal/backend/cpu"
	"github.com/born-ml/reparam/internal/export"
	"github.com/born-ml/reparam/internal/logger"
	"github.com/born-ml/reparam/internal/metrics"
	"github.com/born-ml/reparam/internal/random"
	"github.com/born-ml/reparam/internal/reparam"
	"github.com/born-ml/reparam/internal/scenario"
	"github.com/born-ml/reparam/internal/tensor"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietOptions(out *bytes.Buffer) Options {
	return Options{
		Out:    out,
		Logger: logger.New(&bytes.Buffer{}, "error", "json"),
	}
}

func TestRun_Default(t *testing.T) {
	var out bytes.Buffer
	report, err := Run(context.Background(), scenario.Default(), quietOptions(&out))
	require.NoError(t, err)

	require.Len(t, report.Draws, 2)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, tensor.Shape{5, 3}, report.Draws[0].Shape)
	assert.Equal(t, tensor.Shape{3, 4, 6}, report.Draws[1].Shape)

	text := out.String()
	for _, want := range []string{
		"EXAMPLE 1: 1D latent space",
		"EXAMPLE 2: 2D latent space (like image features)",
		"  sample_shape = (K,) + mu.shape = (5, 3)",
		"  sample_shape = (K,) + mu.shape = (3, 4, 6)",
		"  Interpretation: 5 samples of 3-dimensional latent vectors",
		"  Interpretation: 3 samples of (4, 6) latent feature maps",
		"VISUAL REPRESENTATION",
		"[μ₁+ε₅₁σ₁, μ₂+ε₅₂σ₂, μ₃+ε₅₃σ₃]]  <- sample 5",
	} {
		assert.Contains(t, text, want)
	}
	assert.Less(t, strings.Index(text, "EXAMPLE 2"), strings.Index(text, "VISUAL REPRESENTATION"))
}

func TestRun_KeyThreading(t *testing.T) {
	root := random.NewKey(42)
	_, sub := random.Split(root)

	report, err := Run(context.Background(), scenario.Default(), quietOptions(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.Equal(t, root, report.Draws[0].Key)
	assert.Equal(t, sub, report.Draws[1].Key)
}

func TestRun_Reproducible(t *testing.T) {
	dir1, dir2 := t.TempDir(), t.TempDir()

	opts := quietOptions(&bytes.Buffer{})
	opts.SafeTensorsDir = dir1
	_, err := Run(context.Background(), scenario.Default(), opts)
	require.NoError(t, err)

	opts.SafeTensorsDir = dir2
	_, err = Run(context.Background(), scenario.Default(), opts)
	require.NoError(t, err)

	for _, name := range []string{"latent-1d.safetensors", "latent-2d.safetensors"} {
		a, err := os.ReadFile(filepath.Join(dir1, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dir2, name))
		require.NoError(t, err)
		assert.Equal(t, a, b, name)
	}
}

func TestRun_ExportMatchesSample(t *testing.T) {
	dir := t.TempDir()
	opts := quietOptions(&bytes.Buffer{})
	opts.SafeTensorsDir = dir
	opts.ArrowDir = dir

	report, err := Run(context.Background(), scenario.Default(), opts)
	require.NoError(t, err)
	require.Len(t, report.Draws[0].Files, 2)
	assert.FileExists(t, filepath.Join(dir, "latent-1d.arrow"))
	assert.FileExists(t, filepath.Join(dir, "latent-2d.arrow"))

	f, err := os.Open(filepath.Join(dir, "latent-1d.safetensors"))
	require.NoError(t, err)
	defer f.Close()
	tensors, meta, err := export.ReadSafeTensors(f)
	require.NoError(t, err)
	assert.Equal(t, "42", meta["seed"])

	b := cpu.New()
	mean, err := tensor.FromSlice([]float32{2, -1, 0.5}, tensor.Shape{3}, b)
	require.NoError(t, err)
	std, err := tensor.FromSlice([]float32{1, 0.5, 2}, tensor.Shape{3}, b)
	require.NoError(t, err)
	z, err := reparam.Sample(random.NewKey(42), mean, std, 5)
	require.NoError(t, err)

	assert.Equal(t, z.Data(), tensors["z"].AsFloat32())
}

func TestRun_ExportEmptyEvent(t *testing.T) {
	cfg := scenario.Default()
	cfg.Visual = false
	cfg.Scenarios = []scenario.Scenario{{
		Name: "empty",
		K:    2,
		Mean: scenario.Filled([]int{2, 0}, 1),
		Std:  scenario.Filled([]int{2, 0}, 1),
	}}

	dir := t.TempDir()
	opts := quietOptions(&bytes.Buffer{})
	opts.SafeTensorsDir = dir
	opts.ArrowDir = dir

	report, err := Run(context.Background(), cfg, opts)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2, 0}, report.Draws[0].Shape)
	assert.FileExists(t, filepath.Join(dir, "empty.safetensors"))
	assert.FileExists(t, filepath.Join(dir, "empty.arrow"))
}

func TestRun_StatsAndMetrics(t *testing.T) {
	var out bytes.Buffer
	opts := quietOptions(&out)
	opts.Stats = true
	opts.Metrics = metrics.NewRecorder()

	_, err := Run(context.Background(), scenario.Default(), opts)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out.String(), "Empirical moments over"))
	assert.Equal(t, 5.0, testutil.ToFloat64(opts.Metrics.SamplesTotal.WithLabelValues("latent-1d")))
	assert.Equal(t, 3.0, testutil.ToFloat64(opts.Metrics.SamplesTotal.WithLabelValues("latent-2d")))
	assert.Equal(t, float64(15+72), testutil.ToFloat64(opts.Metrics.NoiseElementsTotal))
}

func TestRun_Float64ZeroSamplesNoVisual(t *testing.T) {
	cfg, err := scenario.Parse([]byte(`
dtype: float64
visual: false
scenarios:
  - name: none
    k: 0
    mean: {values: [1, 2]}
    std: {values: [1, 1]}
  - name: scalar
    k: 4
    mean: {shape: [], fill: 3}
    std: {shape: [], fill: 0}
`))
	require.NoError(t, err)

	var out bytes.Buffer
	opts := quietOptions(&out)
	opts.Stats = true
	report, err := Run(context.Background(), cfg, opts)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{0, 2}, report.Draws[0].Shape)
	assert.Equal(t, tensor.Shape{4}, report.Draws[1].Shape)
	assert.Contains(t, out.String(), "4 samples of scalar latents")
	assert.Contains(t, out.String(), "mean: [3.0000]")
	assert.Contains(t, out.String(), "std:  [0.0000]")
	assert.NotContains(t, out.String(), "VISUAL REPRESENTATION")
}

func TestRun_SamplingErrorCounted(t *testing.T) {
	cfg := scenario.Default()
	cfg.Scenarios[1].BroadcastStd = true
	cfg.Scenarios[1].Std = scenario.Filled([]int{5}, 1)

	opts := quietOptions(&bytes.Buffer{})
	opts.Metrics = metrics.NewRecorder()
	report, err := Run(context.Background(), cfg, opts)
	require.ErrorIs(t, err, reparam.ErrShapeMismatch)
	assert.Contains(t, err.Error(), "latent-2d")

	require.Len(t, report.Draws, 1, "draws before the failure are reported")
	assert.Equal(t, 1.0, testutil.ToFloat64(opts.Metrics.ErrorsTotal.WithLabelValues("shape_mismatch")))
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := scenario.Default()
	cfg.DType = "int32"

	_, err := Run(context.Background(), cfg, quietOptions(&bytes.Buffer{}))
	assert.ErrorIs(t, err, scenario.ErrInvalidConfig)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	report, err := Run(ctx, scenario.Default(), quietOptions(&out))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Draws)
	assert.Empty(t, out.String())
}

func TestRun_LogsRunID(t *testing.T) {
	var logs bytes.Buffer
	opts := Options{Logger: logger.New(&logs, "debug", "json")}

	report, err := Run(context.Background(), scenario.Default(), opts)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Contains(t, line, `"run_id":"`+report.RunID+`"`)
	}
	assert.Contains(t, logs.String(), `"message":"sampled"`)
}
