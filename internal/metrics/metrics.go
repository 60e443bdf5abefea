// Package metrics counts draws with Prometheus collectors.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder owns a private registry so several runs (and tests) never share
// counters.
type Recorder struct {
	registry *prometheus.Registry

	SamplesTotal       *prometheus.CounterVec
	NoiseElementsTotal prometheus.Counter
	SampleDuration     prometheus.Histogram
	ErrorsTotal        *prometheus.CounterVec
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		SamplesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reparam_samples_total",
			Help: "Total number of samples drawn",
		}, []string{"scenario"}),

		NoiseElementsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "reparam_noise_elements_total",
			Help: "Total number of standard-normal noise elements generated",
		}),

		SampleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reparam_sample_duration_seconds",
			Help:    "Duration of a single reparameterized draw",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),

		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reparam_errors_total",
			Help: "Total number of failed draws by reason",
		}, []string{"reason"}),
	}
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordDraw counts k samples of a scenario and the noise generated for them.
func (r *Recorder) RecordDraw(scenario string, k, noiseElements int, d time.Duration) {
	r.SamplesTotal.WithLabelValues(scenario).Add(float64(k))
	r.NoiseElementsTotal.Add(float64(noiseElements))
	r.SampleDuration.Observe(d.Seconds())
}

// RecordError counts a failure.
func (r *Recorder) RecordError(reason string) {
	r.ErrorsTotal.WithLabelValues(reason).Inc()
}

// WriteTextfile writes every collector in the text exposition format, the
// layout node_exporter's textfile collector reads.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
