// Package compress provides streaming zstd coding for transfers, so
// compressed uploads flow straight into an upload sink and downloads
// decompress as chunks arrive.
package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// DefaultLevel is a balanced zstd compression level
const DefaultLevel = 3

// NewWriter wraps w in a zstd encoder at the given level (1-19). The
// returned writer must be closed to flush the final frame.
func NewWriter(w io.Writer, level int) (io.WriteCloser, error) {
	if level < 1 || level > 19 {
		return nil, fmt.Errorf("compression level out of range: %d", level)
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	return enc, nil
}

// NewReader wraps r in a zstd decoder
func NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &decoderCloser{dec}, nil
}

// decoderCloser adapts zstd.Decoder's Close (no error) to io.ReadCloser
type decoderCloser struct {
	*zstd.Decoder
}

func (d *decoderCloser) Close() error {
	d.Decoder.Close()
	return nil
}
