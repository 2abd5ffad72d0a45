package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	ghdb "github.com/ga-ut/gh-db"
	"github.com/ga-ut/gh-db/internal/platform"
	"github.com/ga-ut/gh-db/internal/telemetry"
	"github.com/ga-ut/gh-db/pkg/core"
)

var (
	verbose    bool
	traceFlag  bool
	owner      string
	repoName   string
	configPath string
	baseURL    string

	fileCfg  *platform.FileConfig
	provider *telemetry.Provider
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ghdb",
	Short: "A document store backed by GitHub issues",
	Long: `ghdb stores flat JSON records as issues of a GitHub repository.
The issue title is the collection, labels are tags and the body is the payload.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		cfg, err := loadFileConfig()
		if err != nil {
			return err
		}
		fileCfg = cfg

		provider, err = telemetry.Init(cmd.Context(), telemetry.Config{
			Enabled:  traceFlag || cfg.Telemetry.Enabled,
			Exporter: cfg.Telemetry.Exporter,
			Version:  ghdb.Version,
		})
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if provider == nil {
			return nil
		}
		return provider.Shutdown(context.WithoutCancel(cmd.Context()))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "Print OpenTelemetry spans to stderr")
	rootCmd.PersistentFlags().StringVar(&owner, "owner", "", "Repository owner (overrides config)")
	rootCmd.PersistentFlags().StringVar(&repoName, "repo", "", "Repository name (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to "+platform.ConfigFileName+" (default: searched upwards)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL (overrides config)")
}

// loadFileConfig reads --config, or the nearest config file. A missing file
// is not an error unless it was named explicitly.
func loadFileConfig() (*platform.FileConfig, error) {
	path := configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if found, err := platform.FindConfig(wd); err == nil {
			path = found
		}
	}
	if path == "" {
		return &platform.FileConfig{TokenEnv: platform.DefaultTokenEnv}, nil
	}
	slog.Debug("using config", "path", path)
	return platform.LoadConfig(path)
}

// openService builds the service from config file values and flag overrides.
func openService(extra ...ghdb.Option) (*core.Service, error) {
	cfg := *fileCfg
	if owner != "" {
		cfg.Owner = owner
	}
	if repoName != "" {
		cfg.Repo = repoName
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, errors.New("repository not configured: use --owner/--repo or " + platform.ConfigFileName)
	}

	opts := append(cfg.Options(), ghdb.WithLogger(slog.Default()))
	if provider != nil {
		opts = append(opts, ghdb.WithTracer(provider.Tracer), ghdb.WithMeter(provider.Meter))
	}
	return ghdb.New(cfg.URI(), append(opts, extra...)...)
}
