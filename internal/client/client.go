// Package client exposes the caller-facing handle over the storage
// engine. A Client owns one immutable configuration and one
// ClientAdapter shared read-only by every stream it creates.
package client

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/s3bridge/s3bridge/internal/adapter"
	"github.com/s3bridge/s3bridge/internal/config"
	"github.com/s3bridge/s3bridge/internal/stream"
	"github.com/s3bridge/s3bridge/pkg/models"
)

// Client is the caller-facing entry point. Construct once per session;
// never mutated afterwards.
type Client struct {
	cfg     config.Config
	adapter adapter.ClientAdapter
}

// authMode is the resolved credential strategy
type authMode int

const (
	authDefault authMode = iota
	authProfile
	authAnonymous
)

// resolveAuthMode applies the credential precedence:
// anonymous > profile > ambient default resolution
func resolveAuthMode(cfg *config.Config) authMode {
	switch {
	case cfg.Anonymous:
		return authAnonymous
	case cfg.Profile != "":
		return authProfile
	default:
		return authDefault
	}
}

// New validates cfg, builds the production S3 adapter and returns a
// handle. Credential and engine setup failures surface here,
// synchronously, as a ConstructionError; per-object failures never do.
func New(cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &ConstructionError{Reason: "invalid configuration", Err: err}
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	switch resolveAuthMode(cfg) {
	case authAnonymous:
		opts = append(opts, awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}))
	case authProfile:
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, &ConstructionError{Reason: "failed to load AWS config", Err: err}
	}

	engine := s3.NewFromConfig(awsCfg)
	return &Client{
		cfg:     *cfg,
		adapter: adapter.NewS3Adapter(engine, cfg.PartSize),
	}, nil
}

// NewWithAdapter builds a handle over a caller-supplied adapter. Used
// by tests and offline tooling to swap the engine out.
func NewWithAdapter(cfg *config.Config, ad adapter.ClientAdapter) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &ConstructionError{Reason: "invalid configuration", Err: err}
	}
	return &Client{cfg: *cfg, adapter: ad}, nil
}

// FromTuple reconstructs a handle from the flat configuration tuple.
// The tuple is the handle's complete state; no other inputs are needed.
func FromTuple(t config.Tuple) (*Client, error) {
	cfg, err := config.FromTuple(t)
	if err != nil {
		return nil, &ConstructionError{Reason: "invalid configuration tuple", Err: err}
	}
	return New(cfg)
}

// Config returns a copy of the handle's configuration
func (c *Client) Config() config.Config {
	return c.cfg
}

// Tuple returns the handle's flat, serializable form
func (c *Client) Tuple() config.Tuple {
	return c.cfg.Tuple()
}

// GetObject starts a download and returns its chunk stream. Per-object
// errors (missing key, access denied) are deferred to the first pull.
func (c *Client) GetObject(bucket, key string) (*stream.GetObjectStream, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}
	return c.adapter.GetObject(bucket, key), nil
}

// PutObject returns an upload sink for the key. The engine is not
// contacted until the first write.
func (c *Client) PutObject(bucket, key string, params models.PutObjectParams) (*stream.PutObjectStream, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}
	return c.adapter.PutObject(bucket, key, params), nil
}

// ListObjects returns a lazy page stream. An empty delimiter disables
// common-prefix grouping; maxKeys <= 0 selects the default page bound.
func (c *Client) ListObjects(bucket, prefix, delimiter string, maxKeys int) (*stream.ListObjectStream, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if maxKeys <= 0 {
		maxKeys = config.DefaultMaxKeys
	}
	return c.adapter.ListObjects(bucket, prefix, delimiter, maxKeys), nil
}

// Close releases the underlying adapter
func (c *Client) Close() error {
	return c.adapter.Close()
}
