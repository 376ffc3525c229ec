package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/s3bridge/s3bridge/internal/compress"
	"github.com/s3bridge/s3bridge/internal/integrity"
	"github.com/s3bridge/s3bridge/pkg/models"
)

func putCmd() *cobra.Command {
	var (
		storageClass  string
		compressFlag  bool
		compressLevel int
		showDigest    bool
	)

	cmd := &cobra.Command{
		Use:   "put <file> <bucket> <key>",
		Short: "Upload a file",
		Long:  "Streams a file into an object. Nothing becomes visible at the key until the upload commits.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPut(args[0], args[1], args[2], storageClass, compressFlag, compressLevel, showDigest)
		},
	}

	cmd.Flags().StringVar(&storageClass, "storage-class", "", "Storage class for the object (e.g. STANDARD_IA)")
	cmd.Flags().BoolVarP(&compressFlag, "compress", "z", false, "Compress with zstd while uploading")
	cmd.Flags().IntVar(&compressLevel, "level", compress.DefaultLevel, "Compression level (1-19)")
	cmd.Flags().BoolVar(&showDigest, "digest", false, "Print the BLAKE2b-256 digest of the stored bytes")

	return cmd
}

func runPut(path, bucket, key, storageClass string, compressFlag bool, level int, showDigest bool) error {
	c, err := buildClient()
	if err != nil {
		return err
	}
	defer c.Close()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	s, err := c.PutObject(bucket, key, models.PutObjectParams{
		StorageClass: models.StorageClass(storageClass),
	})
	if err != nil {
		return err
	}
	// Abandoning before Finalize aborts the upload.
	defer s.Close()

	digester := integrity.New()
	var sink io.Writer = digester.Tee(s)

	var enc io.WriteCloser
	if compressFlag {
		enc, err = compress.NewWriter(sink, level)
		if err != nil {
			return err
		}
		sink = enc
	}

	if _, err := io.Copy(sink, f); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush compressed frame: %w", err)
		}
	}

	result, err := s.Finalize()
	if err != nil {
		return fmt.Errorf("failed to commit upload: %w", err)
	}

	fmt.Printf("Uploaded %s to s3://%s/%s\n", path, result.Bucket, result.Key)
	if result.ETag != "" {
		fmt.Printf("ETag:    %s\n", result.ETag)
	}
	if result.VersionID != "" {
		fmt.Printf("Version: %s\n", result.VersionID)
	}
	if showDigest {
		fmt.Printf("Digest:  %s\n", digester.Sum())
	}
	return nil
}
