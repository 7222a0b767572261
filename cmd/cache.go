package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/codescore/internal/cache"
	"github.com/dotcommander/codescore/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show result cache configuration",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCacheInfo(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}

func runCacheInfo() error {
	cfg, err := config.Load(rootPath)
	if err != nil {
		return err
	}

	stats := cache.New(cfg.CacheCapacity).Stats()
	fmt.Printf("Result cache\n")
	fmt.Printf("  capacity:          %d entries\n", stats.Capacity)
	fmt.Printf("  default capacity:  %d entries\n", cache.DefaultCapacity)
	fmt.Printf("  estimated memory:  %d KB at capacity\n",
		int64(stats.Capacity)*cache.EstimatedBytesPerEntry/1024)
	fmt.Printf("  key:               xxhash64 of path, language, and contents\n")
	return nil
}
