// internal/settings/defaults.go
//
// Rule orchestration.
//
/*
Context
--------
`ApplyDefaults` runs every rule once, in a fixed order, against two
caller-owned trees:

  1. database             6. php storage (reads 5's output)
  2. cache backend        7. hash salt
  3. error level          8. deployment identifier
  4. app environment      9. trusted hosts
  5. file paths          10. variable expansion

Off-platform every rule is a strict no-op and both trees come back
untouched.  The same settings file therefore runs unchanged on and off the
platform.

The trees are mutated in place and handed back to the caller on return.
The engine keeps no reference to them.
*/
package settings

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yanizio/platformsettings/internal/platform"
)

// Rule names reported in Report.Applied.
const (
	RuleDatabase             = "database"
	RuleCache                = "cache"
	RuleErrorLevel           = "error_level"
	RuleAppEnvironment       = "app_environment"
	RuleFilePaths            = "file_paths"
	RulePhpStorage           = "php_storage"
	RuleHashSalt             = "hash_salt"
	RuleDeploymentIdentifier = "deployment_identifier"
	RuleTrustedHosts         = "trusted_hosts"
	RuleVariables            = "variables"
)

// Defaults for the relationship-backed rules.
const (
	DefaultDatabaseRelationship = "database"
	DefaultDatabaseKey          = "default"
	DefaultCacheRelationship    = "redis"
)

// Report summarises one ApplyDefaults pass.
type Report struct {
	Applied []string // rule names that wrote output, in run order
	Skipped error    // wraps platform.ErrNotApplicable when nothing ran
}

type options struct {
	dbRelationship    string
	dbKey             string
	cacheRelationship string
	caps              Capabilities
	environ           Environ
	appEnvVar         string
	log               *zap.Logger
}

// Option tunes ApplyDefaults.
type Option func(*options)

// WithDatabase selects the database relationship and the connection key it
// is stored under.
func WithDatabase(relationship, key string) Option {
	return func(o *options) {
		o.dbRelationship = relationship
		o.dbKey = key
	}
}

// WithCache selects the cache relationship and the external capabilities
// the cache rule depends on.
func WithCache(relationship string, caps Capabilities) Option {
	return func(o *options) {
		o.cacheRelationship = relationship
		o.caps = caps
	}
}

// WithEnviron replaces the process environment used by the application
// environment rule.
func WithEnviron(e Environ) Option {
	return func(o *options) { o.environ = e }
}

// WithAppEnvVar renames the exported application environment variable.
func WithAppEnvVar(name string) Option {
	return func(o *options) { o.appEnvVar = name }
}

// WithLogger sets the debug logger.  Defaults to zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// ApplyDefaults derives every settings facet from env into settings and
// config.
func ApplyDefaults(env Environment, settings, config Tree, opts ...Option) Report {
	o := options{
		dbRelationship:    DefaultDatabaseRelationship,
		dbKey:             DefaultDatabaseKey,
		cacheRelationship: DefaultCacheRelationship,
		environ:           osEnviron{},
		appEnvVar:         DefaultAppEnvVar,
		log:               zap.L(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}

	var rep Report
	if !env.IsValidPlatform() {
		rep.Skipped = fmt.Errorf("apply defaults: %w", platform.ErrNotApplicable)
		o.log.Debug("not running on the platform, settings left untouched")
		return rep
	}

	record := func(rule string, applied bool) {
		if applied {
			rep.Applied = append(rep.Applied, rule)
			o.log.Debug("settings rule applied", zap.String("rule", rule))
		}
	}

	if db, ok := mapDatabase(env, o.dbRelationship, o.log); ok {
		databases := child(settings, "databases")
		child(databases, o.dbKey)["default"] = db.Tree()
		record(RuleDatabase, true)
	}

	if cache, ok := mapCacheBackend(env, o.cacheRelationship, o.caps, o.log); ok {
		cache.Apply(settings)
		record(RuleCache, true)
	}

	record(RuleErrorLevel, ApplyErrorLevel(env, config))
	record(RuleAppEnvironment, ApplyAppEnvironment(env, o.environ, o.appEnvVar))
	record(RuleFilePaths, ApplyFilePaths(env, settings))
	record(RulePhpStorage, ApplyPhpStorage(env, settings))
	record(RuleHashSalt, ApplyHashSalt(env, settings))
	record(RuleDeploymentIdentifier, ApplyDeploymentIdentifier(env, settings))
	record(RuleTrustedHosts, ApplyTrustedHosts(settings))

	expanded := false
	for _, v := range env.Variables() {
		if expandOne(v.Name, v.Value, settings, config) {
			expanded = true
		}
	}
	record(RuleVariables, expanded)

	return rep
}
