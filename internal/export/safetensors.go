package export

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"

	"github.com/born-ml/reparam/internal/tensor"
)

// Limits applied by ReadSafeTensors to untrusted headers.
const (
	maxHeaderSize = 100 << 20
	maxDataSize   = 4 << 30
)

// ErrInvalidSafeTensors is returned for malformed SafeTensors input.
var ErrInvalidSafeTensors = errors.New("invalid safetensors data")

// SafeTensorHeader represents a tensor in the SafeTensors header.
type SafeTensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// SafeTensorsFile writes d to dir/<scenario>.safetensors with tensors
// "mean", "std" and "z" and returns the path. The metadata carries the
// SHA-256 of z under "z.sha256".
func SafeTensorsFile(dir string, d Draw) (string, error) {
	if err := d.validate(); err != nil {
		return "", err
	}

	f, path, err := createIn(dir, d.Scenario, ".safetensors")
	if err != nil {
		return "", err
	}

	tensors := map[string]*tensor.RawTensor{"mean": d.Mean, "std": d.Std, "z": d.Z}
	metadata := d.metadata()
	metadata[checksumKey("z")] = checksum(d.Z.Data())
	if err := WriteSafeTensors(f, tensors, metadata); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// WriteSafeTensors writes tensors in SafeTensors format.
//
// Format:
// [8 bytes: header_size (uint64 LE)]
// [header_size bytes: JSON header]
// [tensor data: raw bytes]
//
// Tensors are written in alphabetical order by name.
func WriteSafeTensors(w io.Writer, tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]any, len(names)+1)
	if len(metadata) > 0 {
		header["__metadata__"] = metadata
	}

	var offset int64
	for _, name := range names {
		raw := tensors[name]
		dtype, err := dtypeToSafeTensors(raw.DType())
		if err != nil {
			return fmt.Errorf("tensor %s: %w", name, err)
		}

		shape := make([]int64, len(raw.Shape()))
		for i, dim := range raw.Shape() {
			shape[i] = int64(dim)
		}

		size := int64(raw.ByteSize())
		header[name] = SafeTensorHeader{
			DType:       dtype,
			Shape:       shape,
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, name := range names {
		if _, err := w.Write(tensors[name].Data()); err != nil {
			return fmt.Errorf("failed to write tensor %s: %w", name, err)
		}
	}
	return nil
}

// ReadSafeTensors reads a file written by WriteSafeTensors back into CPU
// tensors, returning them with the header metadata. Tensors with a
// "<name>.sha256" metadata entry are verified against it.
func ReadSafeTensors(r io.Reader) (map[string]*tensor.RawTensor, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > maxHeaderSize {
		return nil, nil, fmt.Errorf("%w: header size %d exceeds %d", ErrInvalidSafeTensors, headerSize, maxHeaderSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &entries); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidSafeTensors, err)
	}

	var metadata map[string]string
	if raw, ok := entries["__metadata__"]; ok {
		if err := json.Unmarshal(raw, &metadata); err != nil {
			return nil, nil, fmt.Errorf("%w: metadata: %w", ErrInvalidSafeTensors, err)
		}
		delete(entries, "__metadata__")
	}

	headers := make(map[string]SafeTensorHeader, len(entries))
	var dataSize int64
	for name, raw := range entries {
		var h SafeTensorHeader
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, nil, fmt.Errorf("%w: tensor %s: %w", ErrInvalidSafeTensors, name, err)
		}
		if h.DataOffsets[0] < 0 || h.DataOffsets[1] < h.DataOffsets[0] {
			return nil, nil, fmt.Errorf("%w: tensor %s: bad offsets %v", ErrInvalidSafeTensors, name, h.DataOffsets)
		}
		if h.DataOffsets[1] > maxDataSize {
			return nil, nil, fmt.Errorf("%w: tensor %s: data end %d exceeds %d",
				ErrInvalidSafeTensors, name, h.DataOffsets[1], int64(maxDataSize))
		}
		headers[name] = h
		dataSize = max(dataSize, h.DataOffsets[1])
	}

	data := make([]byte, dataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, nil, fmt.Errorf("failed to read tensor data: %w", err)
	}

	tensors := make(map[string]*tensor.RawTensor, len(headers))
	for name, h := range headers {
		raw, err := decodeTensor(h, data)
		if err != nil {
			return nil, nil, fmt.Errorf("tensor %s: %w", name, err)
		}
		tensors[name] = raw
	}

	if err := verifyChecksums(tensors, metadata); err != nil {
		return nil, nil, err
	}
	return tensors, metadata, nil
}

func decodeTensor(h SafeTensorHeader, data []byte) (*tensor.RawTensor, error) {
	dtype, err := dtypeFromSafeTensors(h.DType)
	if err != nil {
		return nil, err
	}

	span := h.DataOffsets[1] - h.DataOffsets[0]
	shape := make(tensor.Shape, len(h.Shape))
	size := int64(dtype.Size())
	if slices.Contains(h.Shape, 0) {
		size = 0
	}
	for i, dim := range h.Shape {
		if dim < 0 || (size > 0 && size > maxDataSize/dim) {
			return nil, fmt.Errorf("%w: shape %v %s is negative or too large", ErrInvalidSafeTensors, h.Shape, dtype)
		}
		size *= dim
		shape[i] = int(dim)
	}
	if size != span {
		return nil, fmt.Errorf("%w: %d bytes for shape %v %s", ErrInvalidSafeTensors, span, shape, dtype)
	}

	raw, err := tensor.NewRaw(shape, dtype, tensor.CPU)
	if err != nil {
		return nil, err
	}
	copy(raw.Data(), data[h.DataOffsets[0]:h.DataOffsets[1]])
	return raw, nil
}

// dtypeToSafeTensors converts tensor.DataType to SafeTensors dtype string.
func dtypeToSafeTensors(dt tensor.DataType) (string, error) {
	switch dt {
	case tensor.Float32:
		return "F32", nil
	case tensor.Float64:
		return "F64", nil
	case tensor.Int32:
		return "I32", nil
	case tensor.Int64:
		return "I64", nil
	default:
		return "", fmt.Errorf("unsupported dtype %s", dt)
	}
}

func dtypeFromSafeTensors(s string) (tensor.DataType, error) {
	switch s {
	case "F32":
		return tensor.Float32, nil
	case "F64":
		return tensor.Float64, nil
	case "I32":
		return tensor.Int32, nil
	case "I64":
		return tensor.Int64, nil
	default:
		return 0, fmt.Errorf("%w: unsupported dtype %q", ErrInvalidSafeTensors, s)
	}
}
