package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/docview/internal/config"
	"github.com/aretw0/docview/internal/platform"
)

var (
	verbose    bool
	configPath string

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docview",
	Short: "Ordered query results and minimal change lists over documents",
	Long: `docview keeps the result of a query over a document collection in order
and explains every new result as an ordered list of added, removed,
modified and metadata changes.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		path := configPath
		if path == "" {
			// A config file is optional.
			path, _ = platform.FindConfig(".")
		}

		var err error
		cfg, err = config.Load(path)
		if err != nil {
			fatal("Failed to load config", err)
		}

		level, _ := cfg.Logging.SlogLevel()
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
		if strings.EqualFold(cfg.Logging.Format, "json") {
			handler = slog.NewJSONHandler(os.Stderr, opts)
		}
		logger := slog.New(handler)
		slog.SetDefault(logger)

		if path != "" {
			logger.Debug("config loaded", "path", path)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: nearest .docview.{toml,yaml,yml,json})")
}
