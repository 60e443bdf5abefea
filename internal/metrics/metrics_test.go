package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDraw(t *testing.T) {
	r := NewRecorder()

	r.RecordDraw("latent-1d", 5, 15, 2*time.Millisecond)
	r.RecordDraw("latent-2d", 3, 72, time.Millisecond)
	r.RecordDraw("latent-1d", 5, 15, time.Millisecond)

	assert.Equal(t, 10.0, testutil.ToFloat64(r.SamplesTotal.WithLabelValues("latent-1d")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.SamplesTotal.WithLabelValues("latent-2d")))
	assert.Equal(t, 102.0, testutil.ToFloat64(r.NoiseElementsTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(r.SampleDuration))
}

func TestRecordError(t *testing.T) {
	r := NewRecorder()
	r.RecordError("shape_mismatch")
	r.RecordError("shape_mismatch")
	r.RecordError("export")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ErrorsTotal.WithLabelValues("shape_mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ErrorsTotal.WithLabelValues("export")))
}

func TestRecordersAreIsolated(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.RecordDraw("x", 4, 4, 0)

	assert.Equal(t, 4.0, testutil.ToFloat64(a.NoiseElementsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.NoiseElementsTotal))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.RecordDraw("latent-1d", 5, 15, time.Millisecond)

	path := filepath.Join(t.TempDir(), "reparam.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `reparam_samples_total{scenario="latent-1d"} 5`)
	assert.Contains(t, out, "reparam_noise_elements_total 15")
	assert.Contains(t, out, "reparam_sample_duration_seconds_count 1")
}

func TestWriteTextfile_BadPath(t *testing.T) {
	r := NewRecorder()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "reparam.prom"))
	assert.Error(t, err)
}
