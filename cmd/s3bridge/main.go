package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s3bridge/s3bridge/internal/client"
	"github.com/s3bridge/s3bridge/internal/config"
)

var (
	version = "1.0.0"

	// Global flags
	configPath string
	region     string
	profile    string
	anonymous  bool
	partSize   int
	throughput float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "s3bridge",
		Short: "s3bridge — streaming object storage transfers",
		Long: `s3bridge streams objects to and from S3-compatible storage:
  • Lazy chunked downloads with bounded memory
  • Ordered streaming uploads with explicit commit
  • Paginated bucket listings with prefix grouping
  • Optional zstd transfer compression and BLAKE2b verification`,
		Version: version,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&region, "region", "r", "", "Storage backend region")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Named credential profile")
	rootCmd.PersistentFlags().BoolVar(&anonymous, "anonymous", false, "Force unsigned requests")
	rootCmd.PersistentFlags().IntVar(&partSize, "part-size", 0, "Engine transfer chunk size hint in bytes")
	rootCmd.PersistentFlags().Float64Var(&throughput, "throughput", 0, "Engine throughput budget hint in Gbps")

	// Add commands
	rootCmd.AddCommand(getCmd())
	rootCmd.AddCommand(putCmd())
	rootCmd.AddCommand(lsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildClient assembles a client from the config file and flag overrides
func buildClient() (*client.Client, error) {
	cfg := config.DefaultConfig()

	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if region != "" {
		cfg.Region = region
	}
	if profile != "" {
		cfg.Profile = profile
	}
	if anonymous {
		cfg.Anonymous = true
	}
	if partSize > 0 {
		cfg.PartSize = partSize
	}
	if throughput > 0 {
		cfg.ThroughputTargetGbps = throughput
	}

	if cfg.Region == "" {
		return nil, fmt.Errorf("region required (use --region or a config file)")
	}

	return client.New(cfg)
}

// formatBytes renders a byte count in human units
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
