package config

import (
	"path/filepath"
	"testing"
)

func TestValidate_Table(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid with explicit values",
			cfg:  Config{Region: "us-east-1", ThroughputTargetGbps: 5.0, PartSize: 1024},
		},
		{
			name: "zero optionals take defaults",
			cfg:  Config{Region: "eu-west-1"},
		},
		{
			name:    "missing region",
			cfg:     Config{ThroughputTargetGbps: 5.0, PartSize: 1024},
			wantErr: true,
		},
		{
			name:    "negative throughput",
			cfg:     Config{Region: "us-east-1", ThroughputTargetGbps: -1.0, PartSize: 1024},
			wantErr: true,
		},
		{
			name:    "negative part size",
			cfg:     Config{Region: "us-east-1", ThroughputTargetGbps: 5.0, PartSize: -8},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidate_Defaults(t *testing.T) {
	cfg := Config{Region: "us-east-1"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.ThroughputTargetGbps != DefaultThroughputTargetGbps {
		t.Errorf("throughput = %v, want %v", cfg.ThroughputTargetGbps, DefaultThroughputTargetGbps)
	}
	if cfg.PartSize != DefaultPartSize {
		t.Errorf("part size = %d, want %d", cfg.PartSize, DefaultPartSize)
	}
}

func TestTupleRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "defaults only",
			cfg:  Config{Region: "us-east-1", ThroughputTargetGbps: 10.0, PartSize: 8 * 1024 * 1024},
		},
		{
			name: "profile set",
			cfg:  Config{Region: "eu-central-1", ThroughputTargetGbps: 25.0, PartSize: 16 * 1024 * 1024, Profile: "work"},
		},
		{
			name: "anonymous",
			cfg:  Config{Region: "ap-southeast-2", ThroughputTargetGbps: 1.5, PartSize: 1024, Anonymous: true},
		},
		{
			name: "anonymous and profile both set",
			cfg:  Config{Region: "us-west-2", ThroughputTargetGbps: 10.0, PartSize: 8 * 1024 * 1024, Profile: "work", Anonymous: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rebuilt, err := FromTuple(tc.cfg.Tuple())
			if err != nil {
				t.Fatalf("FromTuple() error = %v", err)
			}
			if *rebuilt != tc.cfg {
				t.Errorf("round trip = %+v, want %+v", *rebuilt, tc.cfg)
			}
		})
	}
}

func TestFromTuple_Invalid(t *testing.T) {
	_, err := FromTuple(Tuple{Region: "", ThroughputTargetGbps: 10.0, PartSize: 1024})
	if err == nil {
		t.Fatal("FromTuple() with empty region expected error")
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()

	for _, ext := range []string{".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "config"+ext)
			cfg := &Config{
				Region:               "us-east-1",
				ThroughputTargetGbps: 12.5,
				PartSize:             4 * 1024 * 1024,
				Profile:              "staging",
			}

			if err := cfg.Save(path); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if *loaded != *cfg {
				t.Errorf("loaded = %+v, want %+v", *loaded, *cfg)
			}
		})
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	cfg := &Config{Region: "us-east-1", PartSize: DefaultPartSize, ThroughputTargetGbps: 10}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Rewrite with a broken part size.
	broken := &Config{Region: "us-east-1", PartSize: -1, ThroughputTargetGbps: 10}
	if err := broken.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() with negative part_size expected error")
	}
}
