// Package integrity computes BLAKE2b-256 digests over transferred
// bytes, for end-to-end verification of uploads and downloads.
package integrity

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/blake2b"
)

// Digester accumulates a digest of everything written through it
type Digester struct {
	h hash.Hash
}

// New creates an empty digester
func New() *Digester {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails with a key, and we pass none.
		panic(err)
	}
	return &Digester{h: h}
}

// Write feeds p into the digest
func (d *Digester) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Sum returns the hex digest of all bytes written so far
func (d *Digester) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

// Verify checks the accumulated digest against an expected hex value
func (d *Digester) Verify(expected string) error {
	actual := d.Sum()
	if actual != expected {
		return fmt.Errorf("digest mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}

// Tee returns a writer that forwards to w while digesting
func (d *Digester) Tee(w io.Writer) io.Writer {
	return io.MultiWriter(w, d)
}

// SumBytes returns the hex BLAKE2b-256 digest of data
func SumBytes(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
