package stream

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/s3bridge/s3bridge/pkg/models"
)

// fakeUploader records sink calls for inspection
type fakeUploader struct {
	buf         bytes.Buffer
	completed   bool
	aborted     bool
	writeErr    error
	completeErr error
}

func (u *fakeUploader) Write(ctx context.Context, p []byte) error {
	if u.writeErr != nil {
		return u.writeErr
	}
	u.buf.Write(p)
	return nil
}

func (u *fakeUploader) Complete(ctx context.Context) (*models.UploadResult, error) {
	if u.completeErr != nil {
		return nil, u.completeErr
	}
	u.completed = true
	return &models.UploadResult{Bucket: "b", Key: "k", ETag: `"tag"`}, nil
}

func (u *fakeUploader) Abort(ctx context.Context) error {
	u.aborted = true
	return nil
}

func TestPutObjectStream_WriteOrderAndFinalize(t *testing.T) {
	up := &fakeUploader{}
	s := NewPutObjectStream(up)

	for _, chunk := range []string{"a", "b", "c"} {
		if _, err := s.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write(%q) error = %v", chunk, err)
		}
	}
	result, err := s.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if got := up.buf.String(); got != "abc" {
		t.Errorf("committed bytes = %q, want %q", got, "abc")
	}
	if !up.completed {
		t.Error("uploader was not completed")
	}
	if result.ETag != `"tag"` {
		t.Errorf("result etag = %q", result.ETag)
	}
	if s.State() != StateExhausted {
		t.Errorf("state = %v, want exhausted", s.State())
	}
}

func TestPutObjectStream_EmptyUpload(t *testing.T) {
	up := &fakeUploader{}
	s := NewPutObjectStream(up)

	if _, err := s.Finalize(); err != nil {
		t.Fatalf("Finalize() with no writes error = %v", err)
	}
	if !up.completed {
		t.Error("uploader was not completed")
	}
}

func TestPutObjectStream_ContractViolations(t *testing.T) {
	tests := []struct {
		name    string
		run     func(s *PutObjectStream) error
		wantErr error
	}{
		{
			name: "write after finalize",
			run: func(s *PutObjectStream) error {
				if _, err := s.Finalize(); err != nil {
					return err
				}
				_, err := s.Write([]byte("late"))
				return err
			},
			wantErr: ErrFinalized,
		},
		{
			name: "double finalize",
			run: func(s *PutObjectStream) error {
				if _, err := s.Finalize(); err != nil {
					return err
				}
				_, err := s.Finalize()
				return err
			},
			wantErr: ErrFinalized,
		},
		{
			name: "write after close",
			run: func(s *PutObjectStream) error {
				if err := s.Close(); err != nil {
					return err
				}
				_, err := s.Write([]byte("late"))
				return err
			},
			wantErr: ErrClosed,
		},
		{
			name: "finalize after close",
			run: func(s *PutObjectStream) error {
				if err := s.Close(); err != nil {
					return err
				}
				_, err := s.Finalize()
				return err
			},
			wantErr: ErrClosed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewPutObjectStream(&fakeUploader{})
			err := tc.run(s)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestPutObjectStream_CloseAborts(t *testing.T) {
	up := &fakeUploader{}
	s := NewPutObjectStream(up)

	if _, err := s.Write([]byte("partial")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}

	if !up.aborted {
		t.Error("uploader was not aborted")
	}
	if up.completed {
		t.Error("uploader was completed despite abort")
	}
	if s.State() != StateCancelled {
		t.Errorf("state = %v, want cancelled", s.State())
	}
}

func TestPutObjectStream_CloseAfterFinalizeIsNoop(t *testing.T) {
	up := &fakeUploader{}
	s := NewPutObjectStream(up)

	if _, err := s.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if up.aborted {
		t.Error("Close after Finalize aborted the upload")
	}
}

func TestPutObjectStream_WriteErrorSticks(t *testing.T) {
	wantErr := errors.New("part rejected")
	s := NewPutObjectStream(&fakeUploader{writeErr: wantErr})

	if _, err := s.Write([]byte("x")); !errors.Is(err, wantErr) {
		t.Fatalf("Write() error = %v, want %v", err, wantErr)
	}
	if s.State() != StateErrored {
		t.Errorf("state = %v, want errored", s.State())
	}
	// Subsequent finalize reports the same failure.
	if _, err := s.Finalize(); !errors.Is(err, wantErr) {
		t.Errorf("Finalize() error = %v, want %v", err, wantErr)
	}
}
