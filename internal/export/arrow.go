package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/born-ml/reparam/internal/tensor"
)

// Arrow column names.
const (
	ColumnSample = "sample"
	ColumnZ      = "z"
)

// ArrowSchema returns the table layout for samples of the given event shape
// and element type: an int64 sample index and a fixed-size list holding the
// flattened sample. Events with no elements use a variable-size list, since
// Arrow has no zero-width fixed-size list.
func ArrowSchema(d Draw) (*arrow.Schema, error) {
	var elem arrow.DataType
	switch d.Z.DType() {
	case tensor.Float32:
		elem = arrow.PrimitiveTypes.Float32
	case tensor.Float64:
		elem = arrow.PrimitiveTypes.Float64
	default:
		return nil, fmt.Errorf("arrow export: unsupported dtype %s", d.Z.DType())
	}

	event := d.EventShape()
	md := arrow.NewMetadata(
		[]string{"scenario", "event_shape", "k", "seed"},
		[]string{d.Scenario, event.String(), fmt.Sprint(d.K()), fmt.Sprint(d.Seed)},
	)

	var zType arrow.DataType = arrow.ListOf(elem)
	if n := event.NumElements(); n > 0 {
		zType = arrow.FixedSizeListOf(int32(n), elem)
	}

	return arrow.NewSchema([]arrow.Field{
		{Name: ColumnSample, Type: arrow.PrimitiveTypes.Int64},
		{Name: ColumnZ, Type: zType},
	}, &md), nil
}

// ArrowFile writes d to dir/<scenario>.arrow and returns the path.
func ArrowFile(dir string, d Draw) (string, error) {
	if err := d.validate(); err != nil {
		return "", err
	}

	f, path, err := createIn(dir, d.Scenario, ".arrow")
	if err != nil {
		return "", err
	}
	if err := WriteArrow(f, d, memory.NewGoAllocator()); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// WriteArrow writes the samples of d as a single record batch in the Arrow
// IPC file format.
func WriteArrow(w io.Writer, d Draw, mem memory.Allocator) error {
	if err := d.validate(); err != nil {
		return err
	}

	schema, err := ArrowSchema(d)
	if err != nil {
		return err
	}

	bldr := array.NewRecordBuilder(mem, schema)
	defer bldr.Release()

	samples := bldr.Field(0).(*array.Int64Builder)
	lists, ok := bldr.Field(1).(listBuilder)
	if !ok {
		return fmt.Errorf("arrow export: unexpected list builder %T", bldr.Field(1))
	}

	k, n := d.K(), d.EventShape().NumElements()
	samples.Reserve(k)
	lists.Reserve(k)
	for i := range k {
		samples.Append(int64(i))
	}

	switch values := lists.ValueBuilder().(type) {
	case *array.Float32Builder:
		appendRows(lists, values.AppendValues, d.Z.AsFloat32(), k, n)
	case *array.Float64Builder:
		appendRows(lists, values.AppendValues, d.Z.AsFloat64(), k, n)
	default:
		return fmt.Errorf("arrow export: unexpected value builder %T", values)
	}

	rec := bldr.NewRecord()
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("failed to create arrow writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("failed to close arrow writer: %w", err)
	}
	return nil
}

// listBuilder covers the fixed-size and variable-size list builders.
type listBuilder interface {
	Append(valid bool)
	Reserve(n int)
	ValueBuilder() array.Builder
}

func appendRows[T float32 | float64](lists listBuilder, appendValues func([]T, []bool), data []T, k, n int) {
	for i := range k {
		lists.Append(true)
		appendValues(data[i*n:(i+1)*n], nil)
	}
}
