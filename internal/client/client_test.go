package client

import (
	"errors"
	"testing"

	"github.com/s3bridge/s3bridge/internal/adapter"
	"github.com/s3bridge/s3bridge/internal/config"
	"github.com/s3bridge/s3bridge/pkg/models"
)

func testClient(t *testing.T) (*Client, *adapter.MemoryAdapter) {
	t.Helper()
	m := adapter.NewMemoryAdapter(4)
	m.CreateBucket("bucket")
	c, err := NewWithAdapter(&config.Config{Region: "us-east-1"}, m)
	if err != nil {
		t.Fatalf("NewWithAdapter() error = %v", err)
	}
	return c, m
}

func TestResolveAuthMode_Precedence(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want authMode
	}{
		{
			name: "ambient default",
			cfg:  config.Config{Region: "us-east-1"},
			want: authDefault,
		},
		{
			name: "profile",
			cfg:  config.Config{Region: "us-east-1", Profile: "work"},
			want: authProfile,
		},
		{
			name: "anonymous",
			cfg:  config.Config{Region: "us-east-1", Anonymous: true},
			want: authAnonymous,
		},
		{
			name: "anonymous wins over profile",
			cfg:  config.Config{Region: "us-east-1", Profile: "work", Anonymous: true},
			want: authAnonymous,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveAuthMode(&tc.cfg); got != tc.want {
				t.Errorf("resolveAuthMode() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(&config.Config{})
	if err == nil {
		t.Fatal("New() with empty region expected error")
	}
	var ce *ConstructionError
	if !errors.As(err, &ce) {
		t.Errorf("error type = %T, want *ConstructionError", err)
	}
}

func TestTupleRoundTrip(t *testing.T) {
	cfg := &config.Config{
		Region:               "eu-west-1",
		ThroughputTargetGbps: 25.0,
		PartSize:             16 * 1024 * 1024,
		Profile:              "work",
	}
	c, err := NewWithAdapter(cfg, adapter.NewMemoryAdapter(cfg.PartSize))
	if err != nil {
		t.Fatalf("NewWithAdapter() error = %v", err)
	}

	rebuilt, err := config.FromTuple(c.Tuple())
	if err != nil {
		t.Fatalf("FromTuple() error = %v", err)
	}
	if *rebuilt != c.Config() {
		t.Errorf("round trip = %+v, want %+v", *rebuilt, c.Config())
	}
}

func TestArgumentValidation(t *testing.T) {
	c, _ := testClient(t)

	tests := []struct {
		name string
		call func() error
	}{
		{
			name: "get empty bucket",
			call: func() error { _, err := c.GetObject("", "k"); return err },
		},
		{
			name: "get empty key",
			call: func() error { _, err := c.GetObject("bucket", ""); return err },
		},
		{
			name: "put empty bucket",
			call: func() error { _, err := c.PutObject("", "k", models.PutObjectParams{}); return err },
		},
		{
			name: "put empty key",
			call: func() error { _, err := c.PutObject("bucket", "", models.PutObjectParams{}); return err },
		},
		{
			name: "list empty bucket",
			call: func() error { _, err := c.ListObjects("", "", "", 10); return err },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestPutThenGet(t *testing.T) {
	c, _ := testClient(t)

	put, err := c.PutObject("bucket", "greeting", models.PutObjectParams{})
	if err != nil {
		t.Fatalf("PutObject() error = %v", err)
	}
	if _, err := put.Write([]byte("hello")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := put.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	get, err := c.GetObject("bucket", "greeting")
	if err != nil {
		t.Fatalf("GetObject() error = %v", err)
	}
	var got []byte
	for get.Next() {
		got = append(got, get.Chunk()...)
	}
	if err := get.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("content = %q, want %q", got, "hello")
	}
}

func TestListDefaultsMaxKeys(t *testing.T) {
	c, m := testClient(t)
	m.PutObjectDirect("bucket", "a", []byte("1"))

	s, err := c.ListObjects("bucket", "", "", 0)
	if err != nil {
		t.Fatalf("ListObjects() error = %v", err)
	}
	if !s.Next() {
		t.Fatal("Next() = false, want one page")
	}
	if got := s.Page().Keys(); len(got) != 1 || got[0] != "a" {
		t.Errorf("keys = %v, want [a]", got)
	}
}
