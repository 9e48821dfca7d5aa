package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/platformsettings/internal/config"
	"github.com/yanizio/platformsettings/internal/logger"
	"github.com/yanizio/platformsettings/internal/metrics"
	"github.com/yanizio/platformsettings/internal/platform"
	"github.com/yanizio/platformsettings/internal/settings"
)

// deps is built once by the root pre-run hook and shared by sub-commands.
type deps struct {
	cfg *config.Config
	log *zap.SugaredLogger
	env *platform.Config
}

var (
	app deps

	configPath  string
	fixturePath string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:           "platformsettings",
	Short:         "Derive application settings from the hosting platform environment",
	Long:          `platformsettings turns the platform's relationships, routes, and variables into application settings.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if fixturePath != "" {
			cfg.Platform.Fixture = fixturePath
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}

		log, err := logger.New(logger.Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level})
		if err != nil {
			return fmt.Errorf("start logger: %w", err)
		}

		app = deps{cfg: cfg, log: log, env: loadEnvironment(cfg, log)}
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file (default <root>/"+config.DefaultFile+")")
	rootCmd.PersistentFlags().StringVar(&fixturePath, "fixture", "", "read the environment description from a JSONC fixture")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn, or error")

	rootCmd.AddCommand(siteURLCmd, renderCmd, checkCmd)
}

// loadEnvironment builds the accessor.  An unreadable description is logged
// and treated as off-platform so every rule degrades to a no-op.
func loadEnvironment(cfg *config.Config, log *zap.SugaredLogger) *platform.Config {
	var (
		env *platform.Config
		err error
	)
	if cfg.Platform.Fixture != "" {
		env, err = platform.FromFile(cfg.Platform.Fixture)
	} else {
		env, err = platform.FromEnv(cfg.Platform.Prefix)
	}
	if err != nil {
		log.Warnw("environment description unreadable, continuing off-platform", "err", err)
	}
	log.Debugw("environment loaded",
		"valid", env.IsValidPlatform(),
		"runtime", env.InRuntime(),
		"application", env.ApplicationName(),
	)
	return env
}

// engineOptions maps CLI configuration onto engine options.
func engineOptions(cfg *config.Config, log *zap.Logger) []settings.Option {
	return []settings.Option{
		settings.WithDatabase(cfg.Database.Relationship, cfg.Database.Key),
		settings.WithCache(cfg.Cache.Relationship, capabilities(cfg)),
		settings.WithAppEnvVar(cfg.App.EnvVar),
		settings.WithLogger(log),
	}
}

func capabilities(cfg *config.Config) settings.Capabilities {
	return settings.Capabilities{
		Installing:     cfg.Cache.Installing,
		RedisExtension: cfg.Cache.RedisExtension,
		FactoryClass:   cfg.Cache.FactoryClass,
	}
}

// instrument wraps a command body with run metrics and the optional
// textfile export.
func instrument(name string, run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		metrics.RecordRun(name, err)
		if path := app.cfg.Metrics.Textfile; path != "" {
			if werr := metrics.WriteTextfile(path); werr != nil {
				app.log.Warnw("metrics textfile write failed", "file", path, "err", werr)
			}
		}
		return err
	}
}
