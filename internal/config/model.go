// internal/config/model.go
//
// Typed configuration model for the platformsettings CLI.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                                  – dotenv values,
//   • optional `.platformsettings.yaml`                – static file,
//   • `PLATFORMSETTINGS_`-prefixed environment overrides – highest precedence.
//
// The CLI configuration only tunes how the engine is driven (which
// relationships to read, where to write the drush file, logging).  It never
// carries platform data; that comes from the environment accessor.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Defaults live in Default(); the loader unmarshals on top of them.

package config

import "time"

//
// Platform section
//

// Platform selects where the environment description is read from.
type Platform struct {
	Prefix  string `koanf:"prefix"  validate:"required,envprefix"`
	Fixture string `koanf:"fixture"` // JSONC file; empty reads the process env
}

//
// App section
//

// App holds application-level knobs.
type App struct {
	Name   string `koanf:"name"`                                // upstream app; empty uses the platform's own
	EnvVar string `koanf:"env_var" validate:"required,envname"` // exported environment type
}

//
// Database section
//

// Database names the relationship mapped to the database block.
type Database struct {
	Relationship string `koanf:"relationship" validate:"required"`
	Key          string `koanf:"key"          validate:"required"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns int    `koanf:"max_idle_conns" validate:"min=0"`
}

//
// Cache section
//

// Cache names the cache relationship and the external capability facts.
type Cache struct {
	Relationship   string `koanf:"relationship" validate:"required"`
	RedisExtension bool   `koanf:"redis_extension"`
	Installing     bool   `koanf:"installing"`
	FactoryClass   string `koanf:"factory_class"`
}

//
// Drush section
//

// Drush controls the site-URL file written by `site-url`.
type Drush struct {
	File   string `koanf:"file"   validate:"required"`
	Format string `koanf:"format" validate:"oneof=yaml env"`
}

//
// Log section
//

// Log controls the zap logger.  Dir empty means console only.
type Log struct {
	Dir   string `koanf:"dir"`
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

//
// Metrics section
//

// Metrics controls the Prometheus textfile export.
type Metrics struct {
	Textfile string `koanf:"textfile"`
}

//
// Check section
//

// Check tunes the connectivity probe.
type Check struct {
	Timeout      time.Duration `koanf:"timeout"       validate:"gt=0"`
	Retries      int           `koanf:"retries"       validate:"min=0"`
	RetryBackoff time.Duration `koanf:"retry_backoff" validate:"min=0"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime.
type Paths struct {
	Root string // PLATFORMSETTINGS_ROOT, PLATFORM_APP_DIR, or cwd
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	Platform Platform `koanf:"platform"`
	App      App      `koanf:"app"`
	Database Database `koanf:"database"`
	Cache    Cache    `koanf:"cache"`
	Drush    Drush    `koanf:"drush"`
	Log      Log      `koanf:"log"`
	Metrics  Metrics  `koanf:"metrics"`
	Check    Check    `koanf:"check"`
	Paths    Paths    `koanf:"-"`
}

// Default returns the baseline every layer overrides.
func Default() Config {
	return Config{
		Platform: Platform{Prefix: "PLATFORM_"},
		App:      App{EnvVar: "APP_ENV"},
		Database: Database{Relationship: "database", Key: "default", MaxOpenConns: 2, MaxIdleConns: 1},
		Cache:    Cache{Relationship: "redis", RedisExtension: true},
		Drush:    Drush{File: ".drush/drush.yml", Format: "yaml"},
		Log:      Log{Level: "info"},
		Check:    Check{Timeout: 5 * time.Second, Retries: 2, RetryBackoff: 500 * time.Millisecond},
	}
}
