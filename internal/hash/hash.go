// Package hash computes content digests used for duplicate detection.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// blockSize is the read chunk size. Files are streamed so arbitrarily
// large inputs never load fully into memory.
const blockSize = 8 * 1024

// SHA256Hasher streams file contents through SHA-256 and returns the
// digest as a lowercase hex string.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file for hashing: %w", err)
	}
	defer f.Close()

	// An explicit read loop rather than io.Copy: *os.File implements
	// io.WriterTo, which would bypass the fixed block size.
	h := sha256.New()
	buf := make([]byte, blockSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("hashing %s: %w", path, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
