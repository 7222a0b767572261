package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/codescore/internal/analyzer"
	"github.com/dotcommander/codescore/internal/cache"
	"github.com/dotcommander/codescore/internal/config"
	"github.com/dotcommander/codescore/internal/output"
)

var fileCmd = &cobra.Command{
	Use:   "file <path>...",
	Short: "Score individual files",
	Long: `Analyzes each named file independently and prints its complexity
metrics, quality score, and grade. Files are processed concurrently up
to the configured limit; a failure in one file does not stop the rest.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFiles(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(fileCmd)
}

func runFiles(paths []string) error {
	cfg, err := config.Load(rootPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	a := analyzer.New(cache.New(cfg.CacheCapacity), log)
	results, err := a.AnalyzeMany(paths, cfg.Concurrency)
	if err != nil {
		return err
	}

	w, closeFn, err := reportWriter(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	formatter, err := output.New(cfg.Format, cfg.Verbose)
	if err != nil {
		return err
	}
	if err := formatter.FormatFiles(w, results); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}

	if cfg.FailOnBlock {
		for _, r := range results {
			if r.Err == nil && r.Result.Quality.ShouldBlock {
				log.Error().Str("file", r.Path).Strs("reasons", r.Result.Quality.BlockReasons).Msg("blocking file")
				os.Exit(1)
			}
		}
	}
	return nil
}
