package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func lsCmd() *cobra.Command {
	var (
		prefix    string
		delimiter string
		maxKeys   int
		long      bool
	)

	cmd := &cobra.Command{
		Use:   "ls <bucket>",
		Short: "List objects in a bucket",
		Long:  "Lists objects page by page in lexicographic key order. A delimiter groups keys into common prefixes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(args[0], prefix, delimiter, maxKeys, long)
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Only list keys with this prefix")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "Group keys sharing a prefix up to this delimiter")
	cmd.Flags().IntVar(&maxKeys, "max-keys", 0, "Page size bound (default 1000)")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show sizes and etags")

	return cmd
}

func runList(bucket, prefix, delimiter string, maxKeys int, long bool) error {
	c, err := buildClient()
	if err != nil {
		return err
	}
	defer c.Close()

	s, err := c.ListObjects(bucket, prefix, delimiter, maxKeys)
	if err != nil {
		return err
	}
	defer s.Close()

	total := 0
	for s.Next() {
		page := s.Page()
		for _, cp := range page.CommonPrefixes {
			fmt.Printf("%27s  %s\n", "PRE", cp)
		}
		for _, obj := range page.Objects {
			if long {
				fmt.Printf("%10s  %-34s  %s\n", formatBytes(obj.Size), obj.ETag, obj.Key)
			} else {
				fmt.Println(obj.Key)
			}
			total++
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("failed to list s3://%s: %w", bucket, err)
	}

	if long {
		fmt.Printf("\nTotal: %d objects\n", total)
	}
	return nil
}
