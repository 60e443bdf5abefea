// Package demo runs a list of scenarios end to end: it threads the PRNG
// key, draws each scenario with the narrator attached and then prints
// statistics, exports files and records metrics as configured.
package demo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/born-ml/reparam/internal/backend/cpu"
	"github.com/born-ml/reparam/internal/export"
	"github.com/born-ml/reparam/internal/logger"
	"github.com/born-ml/reparam/internal/metrics"
	"github.com/born-ml/reparam/internal/narrate"
	"github.com/born-ml/reparam/internal/random"
	"github.com/born-ml/reparam/internal/reparam"
	"github.com/born-ml/reparam/internal/scenario"
	"github.com/born-ml/reparam/internal/tensor"
	"github.com/google/uuid"
)

// Options controls the side outputs of a run.
type Options struct {
	// Out receives the narration. Nil discards it.
	Out io.Writer

	// Logger defaults to logger.Log.
	Logger *logger.Logger

	// Metrics defaults to a fresh Recorder that is dropped after the run.
	Metrics *metrics.Recorder

	// Stats prints the empirical mean and std of every scenario.
	Stats bool

	// SafeTensorsDir and ArrowDir, when set, receive one file per scenario.
	SafeTensorsDir string
	ArrowDir       string
}

// Report summarizes a completed run.
type Report struct {
	RunID string
	Draws []DrawResult
}

// DrawResult describes one scenario's draw.
type DrawResult struct {
	Scenario string
	Key      random.Key
	K        int
	Shape    tensor.Shape
	Duration time.Duration
	Files    []string
}

type runner struct {
	cfg     *scenario.Config
	opts    Options
	log     *logger.Logger
	metrics *metrics.Recorder
	narr    *narrate.Narrator
	backend *cpu.CPUBackend
}

// Run executes every scenario of cfg in order. The first scenario samples
// with the root key built from cfg.Seed; each later one splits the carried
// key and samples with the new subkey.
//
// Run stops at the first failing scenario and returns the draws completed
// so far together with the error. ctx is checked between scenarios.
func Run(ctx context.Context, cfg *scenario.Config, opts Options) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	report := &Report{RunID: uuid.NewString()}

	r := &runner{
		cfg:     cfg,
		opts:    opts,
		log:     opts.Logger,
		metrics: opts.Metrics,
		backend: cpu.New(),
	}
	if r.log == nil {
		r.log = logger.Log
	}
	r.log = r.log.With("run_id", report.RunID)
	if r.metrics == nil {
		r.metrics = metrics.NewRecorder()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	r.narr = narrate.New(out)

	r.log.Info("run started", "seed", cfg.Seed, "dtype", cfg.DType, "scenarios", len(cfg.Scenarios))

	key := random.NewKey(cfg.Seed)
	visual := -1
	for i := range cfg.Scenarios {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		sc := &cfg.Scenarios[i]
		drawKey := key
		if i > 0 {
			key, drawKey = random.Split(key)
		}

		r.narr.Example(i+1, sc.DisplayTitle())

		var (
			res DrawResult
			err error
		)
		switch cfg.DataType() {
		case tensor.Float64:
			res, err = runScenario[float64](r, drawKey, sc)
		default:
			res, err = runScenario[float32](r, drawKey, sc)
		}
		if err != nil {
			r.log.Error("scenario failed", "scenario", sc.Name, "error", err)
			return report, err
		}
		report.Draws = append(report.Draws, res)

		if visual < 0 && len(res.Shape) == 2 {
			visual = len(report.Draws) - 1
		}
	}

	if cfg.Visual && visual >= 0 {
		d := report.Draws[visual]
		r.narr.Visual(d.K, d.Shape[1])
	}

	if err := r.narr.Err(); err != nil {
		return report, fmt.Errorf("failed to write narration: %w", err)
	}

	r.log.Info("run finished", "draws", len(report.Draws))
	return report, nil
}

func runScenario[T tensor.Float](r *runner, key random.Key, sc *scenario.Scenario) (DrawResult, error) {
	res := DrawResult{Scenario: sc.Name, Key: key, K: sc.K}

	mean, err := scenario.Build[T](sc.Mean, r.backend)
	if err != nil {
		r.metrics.RecordError("config")
		return res, fmt.Errorf("scenario %q: mean: %w", sc.Name, err)
	}
	std, err := scenario.Build[T](sc.Std, r.backend)
	if err != nil {
		r.metrics.RecordError("config")
		return res, fmt.Errorf("scenario %q: std: %w", sc.Name, err)
	}

	opts := []reparam.Option{reparam.WithObserver(r.narr)}
	if sc.BroadcastStd {
		opts = append(opts, reparam.WithBroadcastStd())
	}

	start := time.Now()
	z, err := reparam.Sample(key, mean, std, sc.K, opts...)
	res.Duration = time.Since(start)
	if err != nil {
		r.metrics.RecordError(reason(err))
		return res, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	res.Shape = z.Shape()

	r.metrics.RecordDraw(sc.Name, sc.K, z.NumElements(), res.Duration)
	r.log.Debug("sampled", "scenario", sc.Name, "key", key, "shape", res.Shape, "elapsed", res.Duration)

	r.narr.Result(sc.K, mean.Shape(), z.Shape())

	if r.opts.Stats {
		if err := printStats(r, sc, z); err != nil {
			return res, err
		}
	}

	res.Files, err = r.export(export.Draw{
		Scenario: sc.Name,
		Seed:     r.cfg.Seed,
		Mean:     mean.Raw(),
		Std:      std.Raw(),
		Z:        z.Raw(),
	})
	if err != nil {
		r.metrics.RecordError("export")
		return res, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	return res, nil
}

func printStats[T tensor.Float](r *runner, sc *scenario.Scenario, z *tensor.Tensor[T, *cpu.CPUBackend]) error {
	if sc.K == 0 {
		r.log.Warn("no samples to summarize", "scenario", sc.Name)
		return nil
	}

	mean, std, err := reparam.Moments(z)
	if err != nil {
		return fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	r.narr.Moments(sc.K, widen(mean.Data()), widen(std.Data()))
	return nil
}

func widen[T tensor.Float](src []T) []float64 {
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = float64(v)
	}
	return out
}

func (r *runner) export(d export.Draw) ([]string, error) {
	var files []string
	if dir := r.opts.SafeTensorsDir; dir != "" {
		path, err := export.SafeTensorsFile(dir, d)
		if err != nil {
			return files, err
		}
		r.log.Info("wrote safetensors", "scenario", d.Scenario, "path", path)
		files = append(files, path)
	}
	if dir := r.opts.ArrowDir; dir != "" {
		path, err := export.ArrowFile(dir, d)
		if err != nil {
			return files, err
		}
		r.log.Info("wrote arrow", "scenario", d.Scenario, "path", path)
		files = append(files, path)
	}
	return files, nil
}

// reason labels a sampling error for the errors metric.
func reason(err error) string {
	switch {
	case errors.Is(err, reparam.ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, reparam.ErrInvalidSampleCount):
		return "invalid_sample_count"
	case errors.Is(err, reparam.ErrEmptySample):
		return "empty_sample"
	default:
		return "other"
	}
}
