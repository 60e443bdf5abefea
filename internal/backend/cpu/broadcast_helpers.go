package cpu

import (
	"github.com/born-ml/reparam/internal/tensor"
)

// broadcastStrides returns strides that walk in as if it had outShape.
// Missing leading axes and size-1 axes get stride 0, so the same element is
// re-read along them.
func broadcastStrides(in, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	own := in.ComputeStrides()
	lead := len(outShape) - len(in)

	for i := lead; i < len(outShape); i++ {
		if in[i-lead] != 1 {
			strides[i] = own[i-lead]
		}
	}
	return strides
}

// sourceIndex maps a flat output index to the flat index of the operand
// whose broadcast strides are inStrides.
func sourceIndex(outIdx int, outStrides, inStrides []int) int {
	idx := 0
	for i, s := range outStrides {
		if s == 0 {
			continue
		}
		idx += (outIdx / s) * inStrides[i]
		outIdx %= s
	}
	return idx
}
