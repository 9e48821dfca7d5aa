// internal/platform/config.go
//
// Environment accessor.
//
/*
Context
--------
`Config` is the single read-only view over the platform's environment
description.  It is constructed once at process start and handed to the
settings engine by reference; there is no package-level singleton.

Construction paths:

  1. `FromEnv(prefix)` — reads every `<prefix>*` process variable through
     the koanf env provider (production path).
  2. `New(values)`     — explicit map keyed by the lowercased suffix
     (`"branch"`, `"relationships"`, …); used by tests and `FromFile`.
  3. `FromFile(path)`  — JSONC fixture for local dry runs (see fixture.go).

Phases
------
  • Build:   application name set, environment name unset.
  • Runtime: both set.  Relationships, routes, and branch are runtime-only.
  • Off-platform: application name unset.  Every predicate is false.

Notes
-----
  • A malformed payload never panics.  Constructors return an off-platform
    accessor plus the decode error so callers can log and carry on.
*/
package platform

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	koanf "github.com/knadh/koanf/v2"
)

// DefaultPrefix is the prefix the platform uses for injected variables.
const DefaultPrefix = "PLATFORM_"

// Value keys, relative to the prefix and lowercased.
const (
	keyApplicationName = "application_name"
	keyEnvironment     = "environment"
	keyEnvironmentType = "environment_type"
	keyBranch          = "branch"
	keyMode            = "mode"
	keyAppDir          = "app_dir"
	keyProjectEntropy  = "project_entropy"
	keyTreeID          = "tree_id"
	keyProject         = "project"
	keyRelationships   = "relationships"
	keyRoutes          = "routes"
	keyVariables       = "variables"
)

// Config is safe for concurrent reads.  Zero value behaves as off-platform.
type Config struct {
	values        map[string]string
	relationships map[string][]Credentials
	routes        []Route
	variables     []Variable
}

/*─────────────────────────────── constructors ─────────────────────────────*/

// New decodes values into a Config.  Keys are the lowercased variable names
// without prefix.  On a decode error it returns an off-platform Config and
// the error.
func New(values map[string]string) (*Config, error) {
	c := &Config{values: make(map[string]string, len(values))}
	for k, v := range values {
		c.values[strings.ToLower(k)] = v
	}

	if err := c.decode(); err != nil {
		return &Config{}, err
	}
	return c, nil
}

// FromEnv reads `<prefix>*` variables from the process environment.  An
// empty prefix selects DefaultPrefix.
func FromEnv(prefix string) (*Config, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, prefix))
	}), nil); err != nil {
		return &Config{}, fmt.Errorf("platform env: %w", err)
	}

	values := make(map[string]string)
	for key := range k.All() {
		values[key] = k.String(key)
	}
	return New(values)
}

func (c *Config) decode() error {
	raw, err := decodeBase64JSON(c.values[keyRelationships])
	if err != nil {
		return fmt.Errorf("relationships: %w", err)
	}
	if c.relationships, err = decodeRelationships(raw); err != nil {
		return fmt.Errorf("relationships: %w", err)
	}

	if raw, err = decodeBase64JSON(c.values[keyRoutes]); err != nil {
		return fmt.Errorf("routes: %w", err)
	}
	if c.routes, err = decodeRoutes(raw); err != nil {
		return fmt.Errorf("routes: %w", err)
	}

	if raw, err = decodeBase64JSON(c.values[keyVariables]); err != nil {
		return fmt.Errorf("variables: %w", err)
	}
	if c.variables, err = decodeVariables(raw); err != nil {
		return fmt.Errorf("variables: %w", err)
	}
	return nil
}

/*──────────────────────────────── predicates ──────────────────────────────*/

// IsValidPlatform reports whether the process runs as a platform application
// at all (build or runtime).
func (c *Config) IsValidPlatform() bool {
	return c.values[keyApplicationName] != ""
}

// InBuild reports whether the process runs during the build phase.
func (c *Config) InBuild() bool {
	return c.IsValidPlatform() && c.values[keyEnvironment] == ""
}

// InRuntime reports whether the process runs in a deployed environment.
func (c *Config) InRuntime() bool {
	return c.IsValidPlatform() && c.values[keyEnvironment] != ""
}

// OnDedicated reports whether the project runs on dedicated hardware.
func (c *Config) OnDedicated() bool {
	return c.IsValidPlatform() && c.values[keyMode] == "enterprise"
}

// OnProduction reports whether the current environment is production.  The
// environment-type signal wins; older projects without it fall back to the
// production branch name (`production` on dedicated, `master` otherwise).
func (c *Config) OnProduction() bool {
	if !c.InRuntime() {
		return false
	}
	if t := c.values[keyEnvironmentType]; t != "" {
		return t == "production"
	}
	prodBranch := "master"
	if c.OnDedicated() {
		prodBranch = "production"
	}
	return c.values[keyBranch] == prodBranch
}

/*────────────────────────────────── scalars ───────────────────────────────*/

// Branch returns the git branch of the runtime environment.
func (c *Config) Branch() (string, bool) {
	b := c.values[keyBranch]
	return b, c.InRuntime() && b != ""
}

func (c *Config) ApplicationName() string { return c.values[keyApplicationName] }
func (c *Config) EnvironmentType() string { return c.values[keyEnvironmentType] }
func (c *Config) AppDir() string          { return c.values[keyAppDir] }
func (c *Config) ProjectEntropy() string  { return c.values[keyProjectEntropy] }
func (c *Config) TreeID() string          { return c.values[keyTreeID] }
func (c *Config) Project() string         { return c.values[keyProject] }

/*─────────────────────────────── relationships ────────────────────────────*/

// HasRelationship reports whether a relationship by that name exists.
func (c *Config) HasRelationship(name string) bool {
	if !c.InRuntime() {
		return false
	}
	_, ok := c.relationships[name]
	return ok
}

// Credentials returns instance index of relationship name.
func (c *Config) Credentials(name string, index int) (Credentials, error) {
	if !c.InRuntime() {
		return Credentials{}, fmt.Errorf("credentials %q: %w", name, ErrNotApplicable)
	}
	instances, ok := c.relationships[name]
	if !ok || index < 0 || index >= len(instances) {
		return Credentials{}, fmt.Errorf("credentials %s[%d]: %w", name, index, ErrNotFound)
	}
	return instances[index], nil
}

/*────────────────────────────────── routes ────────────────────────────────*/

// Routes returns every route in payload order.  Nil outside runtime.
func (c *Config) Routes() []Route {
	if !c.InRuntime() {
		return nil
	}
	out := make([]Route, len(c.routes))
	copy(out, c.routes)
	return out
}

// UpstreamRoutes returns the upstream routes that point at app.  The
// upstream field carries a ":http" style suffix which is ignored.
func (c *Config) UpstreamRoutes(app string) []Route {
	var out []Route
	for _, r := range c.Routes() {
		if r.Type != "upstream" {
			continue
		}
		name, _, _ := strings.Cut(r.Upstream, ":")
		if name == app {
			out = append(out, r)
		}
	}
	return out
}

// PrimaryRoute returns the route flagged primary.
func (c *Config) PrimaryRoute() (Route, error) {
	for _, r := range c.Routes() {
		if r.Primary {
			return r, nil
		}
	}
	return Route{}, fmt.Errorf("primary route: %w", ErrNotFound)
}

/*───────────────────────────────── variables ──────────────────────────────*/

// Variables returns the deployment variables in payload order.
func (c *Config) Variables() []Variable {
	out := make([]Variable, len(c.variables))
	copy(out, c.variables)
	return out
}

// Variable returns the value of one deployment variable, or def when unset.
// The last occurrence wins if a payload repeats a name.
func (c *Config) Variable(name string, def any) any {
	for i := len(c.variables) - 1; i >= 0; i-- {
		if c.variables[i].Name == name {
			return c.variables[i].Value
		}
	}
	return def
}
