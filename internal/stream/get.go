package stream

import (
	"context"
	"sync"
)

// Chunk carries one byte chunk, or the error that ended the download,
// from the engine-side producer to the consuming stream.
type Chunk struct {
	Data []byte
	Err  error
}

// DefaultChunkBuffer bounds how far the engine-side producer may run
// ahead of a slow consumer.
const DefaultChunkBuffer = 8

// GetObjectStream is a finite, non-restartable sequence of byte chunks in
// ascending object-offset order. The producer goroutine feeds a bounded
// channel; the channel's capacity is the backpressure window. The producer
// must close the channel after the final chunk or after delivering an
// error, and must stop promptly once the stream's context is cancelled.
//
// Usage follows the scanner pattern:
//
//	for s.Next() {
//		process(s.Chunk())
//	}
//	if err := s.Err(); err != nil { ... }
type GetObjectStream struct {
	mu     sync.Mutex
	state  State
	busy   bool
	chunks <-chan Chunk
	cancel context.CancelFunc
	chunk  []byte
	err    error
}

// NewGetObjectStream wraps a producer channel. cancel stops the
// engine-side request when the stream is closed early.
func NewGetObjectStream(chunks <-chan Chunk, cancel context.CancelFunc) *GetObjectStream {
	return &GetObjectStream{
		state:  StateCreated,
		chunks: chunks,
		cancel: cancel,
	}
}

// Next blocks until the next chunk is available and reports whether one
// was received. It returns false at end of object, on error, or after
// Close; Err distinguishes the cases. Any per-object failure (missing
// key, access denied) surfaces here, at the pull that needed the data,
// never at stream construction.
func (s *GetObjectStream) Next() bool {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return false
	}
	if s.busy {
		s.state = StateErrored
		s.err = ErrConcurrentUse
		s.mu.Unlock()
		return false
	}
	s.state = StateActive
	s.busy = true
	s.mu.Unlock()

	// Wait without holding the stream lock.
	res, ok := <-s.chunks

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if s.state == StateCancelled {
		// Closed while we were waiting; drop whatever arrived.
		return false
	}
	if !ok {
		s.state = StateExhausted
		return false
	}
	if res.Err != nil {
		s.state = StateErrored
		s.err = res.Err
		return false
	}
	s.chunk = res.Data
	s.state = StateYielding
	return true
}

// Chunk returns the chunk received by the last successful Next
func (s *GetObjectStream) Chunk() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chunk
}

// Err returns the error that terminated the stream, if any. A normally
// exhausted or closed stream reports nil.
func (s *GetObjectStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// State returns the stream's current lifecycle state
func (s *GetObjectStream) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close cancels the in-flight engine request if the stream has not
// finished. Closing is idempotent and never reports cancellation as a
// failure; it is safe to defer unconditionally.
func (s *GetObjectStream) Close() error {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return nil
	}
	s.state = StateCancelled
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	return nil
}
