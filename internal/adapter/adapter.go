// Package adapter hides the storage engine's concrete request and result
// types behind the ClientAdapter interface, translating engine errors
// into one caller-facing error kind. Two implementations exist: S3Adapter
// over the AWS SDK, and MemoryAdapter for tests and offline use.
package adapter

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"

	"github.com/s3bridge/s3bridge/internal/stream"
	"github.com/s3bridge/s3bridge/pkg/models"
)

// ClientAdapter produces the three stream kinds without blocking beyond
// issuing the request. Per-object failures are deferred to the first
// consumption point of the returned stream, never raised here. The
// adapter and its engine connections are shared read-only by every
// stream it spawns.
type ClientAdapter interface {
	// GetObject starts a download and returns its chunk stream
	GetObject(bucket, key string) *stream.GetObjectStream

	// PutObject returns an upload sink. The engine is not contacted
	// until the first write (or finalize, for an empty object).
	PutObject(bucket, key string, params models.PutObjectParams) *stream.PutObjectStream

	// ListObjects returns a lazy page stream over the bucket listing.
	// maxKeys bounds page size; a non-empty delimiter groups keys
	// sharing a prefix up to the delimiter into common prefixes.
	ListObjects(bucket, prefix, delimiter string, maxKeys int) *stream.ListObjectStream

	// Close releases engine resources
	Close() error
}

// Well-known error codes carried by RequestError
const (
	CodeNoSuchKey          = "NoSuchKey"
	CodeNoSuchBucket       = "NoSuchBucket"
	CodeAccessDenied       = "AccessDenied"
	CodePreconditionFailed = "PreconditionFailed"
)

// RequestError is the single error kind surfaced for per-operation
// failures. It carries the operation, target and engine error code so
// callers can classify failures without seeing engine-internal types.
type RequestError struct {
	Op     string
	Bucket string
	Key    string
	Code   string
	Err    error
}

func (e *RequestError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s s3://%s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	return fmt.Sprintf("%s s3://%s: %v", e.Op, e.Bucket, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a missing-object or missing-bucket failure
func IsNotFound(err error) bool {
	var re *RequestError
	if !errors.As(err, &re) {
		return false
	}
	return re.Code == CodeNoSuchKey || re.Code == CodeNoSuchBucket || re.Code == "NotFound"
}

// IsAccessDenied reports whether err is an authorization failure
func IsAccessDenied(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Code == CodeAccessDenied
}

// translateError wraps an engine error into a RequestError, lifting the
// API error code when the engine exposes one
func translateError(op, bucket, key string, err error) *RequestError {
	code := ""
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.ErrorCode()
	}
	return &RequestError{Op: op, Bucket: bucket, Key: key, Code: code, Err: err}
}
