package stream

import "io"

// ChunkReader adapts a GetObjectStream to io.Reader, so downloads
// compose with io.Copy, decompressors and digest writers. The reader
// owns the stream: closing the reader closes the stream.
type ChunkReader struct {
	s   *GetObjectStream
	buf []byte
}

// NewChunkReader wraps a get stream in an io.ReadCloser
func NewChunkReader(s *GetObjectStream) *ChunkReader {
	return &ChunkReader{s: s}
}

// Read fills p from the current chunk, pulling the next chunk when the
// current one is drained. Returns io.EOF at end of object.
func (r *ChunkReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		if !r.s.Next() {
			if err := r.s.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		r.buf = r.s.Chunk()
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

// Close closes the underlying stream
func (r *ChunkReader) Close() error {
	return r.s.Close()
}
