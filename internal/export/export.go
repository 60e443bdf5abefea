// Package export writes the tensors of a draw to files other tools can
// read: SafeTensors for the inputs and the samples, Arrow IPC for the
// samples as a table with one row per draw.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/born-ml/reparam/internal/tensor"
)

// Draw is one scenario's result prepared for export.
type Draw struct {
	Scenario string
	Seed     int64
	Mean     *tensor.RawTensor
	Std      *tensor.RawTensor
	Z        *tensor.RawTensor // shape (K,) + Mean.Shape()
}

// K returns the number of samples in Z.
func (d Draw) K() int {
	return d.Z.Shape()[0]
}

// EventShape returns the shape of a single sample.
func (d Draw) EventShape() tensor.Shape {
	return d.Z.Shape()[1:]
}

func (d Draw) metadata() map[string]string {
	return map[string]string{
		"scenario": d.Scenario,
		"k":        strconv.Itoa(d.K()),
		"seed":     strconv.FormatInt(d.Seed, 10),
	}
}

func (d Draw) validate() error {
	if d.Mean == nil || d.Std == nil || d.Z == nil {
		return fmt.Errorf("draw %q: mean, std and z are required", d.Scenario)
	}
	if len(d.Z.Shape()) == 0 {
		return fmt.Errorf("draw %q: z must have a sample axis, got shape %v", d.Scenario, d.Z.Shape())
	}
	return nil
}

// createIn creates dir/<scenario><ext>, creating dir as needed.
func createIn(dir, scenario, ext string) (*os.File, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, scenario+ext)
	//nolint:gosec // G304: export path comes from the operator
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file: %w", err)
	}
	return f, path, nil
}
