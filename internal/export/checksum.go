package export

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/born-ml/reparam/internal/tensor"
)

// ErrChecksumMismatch is returned when tensor bytes do not match the digest
// stored in the file metadata.
var ErrChecksumMismatch = errors.New("checksum mismatch: file may be corrupted")

// checksumKey is the metadata key holding the digest of tensor name.
func checksumKey(name string) string {
	return name + ".sha256"
}

// checksum returns the hex SHA-256 digest of data.
func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// verifyChecksums checks every tensor that has a digest in metadata.
func verifyChecksums(tensors map[string]*tensor.RawTensor, metadata map[string]string) error {
	for name, raw := range tensors {
		want, ok := metadata[checksumKey(name)]
		if !ok {
			continue
		}
		if got := checksum(raw.Data()); got != want {
			return fmt.Errorf("%w: tensor %s", ErrChecksumMismatch, name)
		}
	}
	return nil
}
