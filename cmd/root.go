// Package cmd wires the codescore commands together.
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/codescore/internal/analyzer"
	"github.com/dotcommander/codescore/internal/cache"
	"github.com/dotcommander/codescore/internal/config"
	"github.com/dotcommander/codescore/internal/discovery"
	"github.com/dotcommander/codescore/internal/edges"
	"github.com/dotcommander/codescore/internal/output"
)

var (
	rootPath     string
	quiet        bool
	verbose      bool
	outputFormat string
	outputFile   string
	concurrency  int
	failOnBlock  bool
	edgesFile    string
)

var rootCmd = &cobra.Command{
	Use:   "codescore [root]",
	Short: "codescore - static complexity, dependency, and quality scoring",
	Long: `Codescore analyzes a project tree and reports per-category scores
(structure, dependencies, maintainability, quality, security) plus an
overall letter grade. Use the file subcommand to score individual files.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			rootPath = args[0]
		}
		if err := runProject(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var projectCmd = &cobra.Command{
	Use:   "project [root]",
	Short: "Score a whole project tree (same as the bare command)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			rootPath = args[0]
		}
		if err := runProject(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(projectCmd)

	rootCmd.PersistentFlags().StringVarP(&rootPath, "root", "r", "", "Project root directory")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "console", "Output format (console|json|markdown)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Write the report to a file instead of stdout")
	rootCmd.PersistentFlags().IntVarP(&concurrency, "concurrency", "c", 8, "Maximum files analyzed at once")
	rootCmd.PersistentFlags().BoolVar(&failOnBlock, "fail-on-block", false, "Exit non-zero when any file should block")
	rootCmd.PersistentFlags().StringVar(&edgesFile, "edges", "", "YAML file of dependency edges (overrides source scanning)")

	viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))
	viper.BindPFlag("failonblock", rootCmd.PersistentFlags().Lookup("fail-on-block"))
	viper.BindPFlag("edgesfile", rootCmd.PersistentFlags().Lookup("edges"))
}

// newLogger builds the CLI logger. Quiet wins over verbose.
func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case cfg.Quiet:
		level = zerolog.ErrorLevel
	case cfg.Verbose:
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// reportWriter resolves the report destination; the caller closes it.
func reportWriter(cfg *config.Config) (io.Writer, func() error, error) {
	if cfg.Output == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating output file: %w", err)
	}
	return f, f.Close, nil
}

func runProject() error {
	cfg, err := config.Load(rootPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	disc := discovery.NewFileDiscovery(cfg.Root, cfg.MaxFileSize, cfg.Exclude)
	found, err := disc.DiscoverFiles()
	if err != nil {
		return fmt.Errorf("error discovering files: %w", err)
	}
	log.Debug().Int("files", len(found)).Str("root", cfg.Root).Msg("discovery complete")

	files := make([]analyzer.File, 0, len(found))
	for _, f := range found {
		files = append(files, analyzer.File{Path: f.RelPath, Language: f.Language, Text: f.Contents})
	}

	var edgeMap map[string][]string
	if cfg.EdgesFile != "" {
		edgeMap, err = edges.LoadEdgeFile(cfg.EdgesFile)
		if err != nil {
			return fmt.Errorf("error loading edges file: %w", err)
		}
	} else {
		edgeMap = edges.BuildEdgeMap(found)
	}

	a := analyzer.New(cache.New(cfg.CacheCapacity), log)
	result := a.AnalyzeProject(files, edgeMap)
	log.Info().Int("score", result.OverallScore).Str("grade", result.Grade).Msg("project analyzed")

	w, closeFn, err := reportWriter(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	formatter, err := output.New(cfg.Format, cfg.Verbose)
	if err != nil {
		return err
	}
	if err := formatter.FormatProject(w, result); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}

	if cfg.FailOnBlock {
		for _, fr := range result.Files {
			if fr.Quality.ShouldBlock {
				log.Error().Str("file", fr.Path).Strs("reasons", fr.Quality.BlockReasons).Msg("blocking file")
				os.Exit(1)
			}
		}
	}
	return nil
}
