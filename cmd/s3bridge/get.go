package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/s3bridge/s3bridge/internal/compress"
	"github.com/s3bridge/s3bridge/internal/integrity"
	"github.com/s3bridge/s3bridge/internal/stream"
)

func getCmd() *cobra.Command {
	var (
		decompress bool
		verify     string
	)

	cmd := &cobra.Command{
		Use:   "get <bucket> <key> [dest]",
		Short: "Download an object",
		Long:  "Streams an object to a file, or to stdout when no destination is given.",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, key := args[0], args[1]
			dest := ""
			if len(args) == 3 {
				dest = args[2]
			}
			return runGet(bucket, key, dest, decompress, verify)
		},
	}

	cmd.Flags().BoolVarP(&decompress, "decompress", "d", false, "Decompress zstd content while downloading")
	cmd.Flags().StringVar(&verify, "verify", "", "Expected BLAKE2b-256 digest of the stored bytes")

	return cmd
}

func runGet(bucket, key, dest string, decompress bool, verify string) error {
	c, err := buildClient()
	if err != nil {
		return err
	}
	defer c.Close()

	s, err := c.GetObject(bucket, key)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if dest != "" {
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", dest, err)
		}
		defer f.Close()
		out = f
	}

	var body io.ReadCloser = stream.NewChunkReader(s)
	defer body.Close()

	// Digest the stored bytes, before any decompression.
	digester := integrity.New()
	if verify != "" {
		body = readThrough(body, digester)
	}

	if decompress {
		dec, err := compress.NewReader(body)
		if err != nil {
			return err
		}
		defer dec.Close()
		body = dec
	}

	n, err := io.Copy(out, body)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	if verify != "" {
		if err := digester.Verify(verify); err != nil {
			return fmt.Errorf("verification failed for s3://%s/%s: %w", bucket, key, err)
		}
	}

	if dest != "" {
		fmt.Printf("Downloaded s3://%s/%s to %s (%s)\n", bucket, key, dest, formatBytes(n))
	}
	return nil
}

// readThrough tees everything read from r into w
func readThrough(r io.ReadCloser, w io.Writer) io.ReadCloser {
	return &teeReadCloser{r: io.TeeReader(r, w), c: r}
}

type teeReadCloser struct {
	r io.Reader
	c io.Closer
}

func (t *teeReadCloser) Read(p []byte) (int, error) { return t.r.Read(p) }
func (t *teeReadCloser) Close() error               { return t.c.Close() }
