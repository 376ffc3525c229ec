package stream

import (
	"context"
	"sync"

	"github.com/s3bridge/s3bridge/pkg/models"
)

// Uploader is the engine-side sink a PutObjectStream drives. Write
// forwards one buffer to the engine's part-upload machinery, Complete
// commits the object and returns its identity, Abort abandons the
// upload. Implementations may defer contacting the engine until the
// first Write (or Complete, for an empty object).
type Uploader interface {
	Write(ctx context.Context, p []byte) error
	Complete(ctx context.Context) (*models.UploadResult, error)
	Abort(ctx context.Context) error
}

// PutObjectStream is an ordered, single-writer upload sink. Buffers are
// committed in write order; nothing becomes visible until Finalize
// returns. A stream abandoned via Close before Finalize aborts the
// upload best-effort: cancellation racing engine-side completion may
// still leave the object visible, which is a documented boundary
// limitation of this layer.
type PutObjectStream struct {
	mu     sync.Mutex
	state  State
	busy   bool
	up     Uploader
	ctx    context.Context
	cancel context.CancelFunc
	result *models.UploadResult
	err    error
}

// NewPutObjectStream wraps an engine-side uploader
func NewPutObjectStream(up Uploader) *PutObjectStream {
	ctx, cancel := context.WithCancel(context.Background())
	return &PutObjectStream{
		state:  StateCreated,
		up:     up,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Write appends p to the pending upload. It blocks until the engine has
// accepted the buffer, releasing the stream lock for the wait.
// Implements io.Writer so encoders can wrap the sink directly.
func (s *PutObjectStream) Write(p []byte) (int, error) {
	s.mu.Lock()
	switch {
	case s.state == StateExhausted:
		s.mu.Unlock()
		return 0, ErrFinalized
	case s.state == StateCancelled:
		s.mu.Unlock()
		return 0, ErrClosed
	case s.state == StateErrored:
		err := s.err
		s.mu.Unlock()
		return 0, err
	case s.busy:
		s.mu.Unlock()
		return 0, ErrConcurrentUse
	}
	s.state = StateActive
	s.busy = true
	ctx := s.ctx
	s.mu.Unlock()

	err := s.up.Write(ctx, p)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.state == StateCancelled {
		return 0, ErrClosed
	}
	if err != nil {
		s.state = StateErrored
		s.err = err
		return 0, err
	}
	return len(p), nil
}

// Finalize commits the upload and returns the stored object's identity.
// It blocks until the engine confirms the object is fully committed.
// Finalizing twice, or after a failed write, is a contract violation.
func (s *PutObjectStream) Finalize() (*models.UploadResult, error) {
	s.mu.Lock()
	switch {
	case s.state == StateExhausted:
		s.mu.Unlock()
		return nil, ErrFinalized
	case s.state == StateCancelled:
		s.mu.Unlock()
		return nil, ErrClosed
	case s.state == StateErrored:
		err := s.err
		s.mu.Unlock()
		return nil, err
	case s.busy:
		s.mu.Unlock()
		return nil, ErrConcurrentUse
	}
	s.state = StateActive
	s.busy = true
	ctx := s.ctx
	s.mu.Unlock()

	result, err := s.up.Complete(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.state == StateCancelled {
		return nil, ErrClosed
	}
	if err != nil {
		s.state = StateErrored
		s.err = err
		return nil, err
	}
	s.state = StateExhausted
	s.result = result
	return result, nil
}

// Result returns the upload result after a successful Finalize
func (s *PutObjectStream) Result() *models.UploadResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// State returns the stream's current lifecycle state
func (s *PutObjectStream) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close aborts the upload if it was not finalized. No object should
// become visible at the key from the abandoned attempt. Closing an
// already finalized or errored stream is a no-op; Close never reports
// cancellation as a failure.
func (s *PutObjectStream) Close() error {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return nil
	}
	s.state = StateCancelled
	s.mu.Unlock()

	s.cancel()
	// Fresh context: the stream's own context is already cancelled.
	_ = s.up.Abort(context.Background())
	return nil
}
