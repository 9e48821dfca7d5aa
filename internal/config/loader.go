// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last), applied on top of Default():

  1. Optional `.env` file at `<root>/.env`.
  2. Optional YAML file: the explicit path, else `<root>/.platformsettings.yaml`.
  3. Environment variables prefixed `PLATFORMSETTINGS_`, where `__` maps to
     "." (e.g., `PLATFORMSETTINGS_DRUSH__FORMAT → drush.format`).

After merging, the tree is unmarshalled into strongly-typed structs,
validated, enriched with the runtime root path, and cached in an
`atomic.Pointer` for lock-free reads.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read, env overlay.
  • ERROR spans — YAML parse, env overlay, unmarshal, validation failures.
  • Logs use the global *sugared* logger (`zap.S()`) so early issues surface
    even before the configured logger is installed.

Notes
-----
  • An explicit YAML path that does not exist is an error.  The implicit one
    is optional, so the CLI runs with zero files on disk.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "PLATFORMSETTINGS_"

// DefaultFile is the implicit YAML file name under the root.
const DefaultFile = ".platformsettings.yaml"

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves PLATFORMSETTINGS_ROOT, then the platform's application
// directory, then the working directory.
func rootDir() string {
	if r := os.Getenv(EnvPrefix + "ROOT"); r != "" {
		return r
	}
	if r := os.Getenv("PLATFORM_APP_DIR"); r != "" {
		return r
	}
	wd, _ := os.Getwd()
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, validates, and caches Config.
// path selects an explicit YAML file; empty uses the implicit one.
func Load(path string) (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, ".env"))

	k := koanf.New(".")

	yamlPath := path
	if yamlPath == "" {
		yamlPath = filepath.Join(root, DefaultFile)
		if _, err := os.Stat(yamlPath); errors.Is(err, os.ErrNotExist) {
			yamlPath = ""
		}
	}
	if yamlPath != "" {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, fmt.Errorf("config %s: %w", yamlPath, err)
		}
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	// Env overrides: PLATFORMSETTINGS_DRUSH__FORMAT → drush.format
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, EnvPrefix), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if cfg.Drush.File != "" && !filepath.IsAbs(cfg.Drush.File) {
		cfg.Drush.File = filepath.Join(root, cfg.Drush.File)
	}
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Debugw("config loaded",
		"root", cfg.Paths.Root,
		"prefix", cfg.Platform.Prefix,
		"drush_file", cfg.Drush.File,
	)
	return &cfg, nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config { return current.Load() }
