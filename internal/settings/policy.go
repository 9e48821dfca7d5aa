// internal/settings/policy.go
//
// Fixed-policy rules.
//
// Context
// -------
// Each rule owns a small set of keys and either writes them fully or not at
// all.  Most are set-if-absent so a settings file can pin a value before the
// engine runs.  Trusted hosts is the exception and always overwrites.
package settings

import "path"

// DefaultAppEnvVar is the process variable the application reads its
// environment type from.
const DefaultAppEnvVar = "APP_ENV"

// TrustedHostAll matches any Host header.
const TrustedHostAll = ".*"

// ApplyErrorLevel hides error details on production-class environments and
// shows them everywhere else.  Without a branch it does nothing.
func ApplyErrorLevel(env Environment, config Tree) bool {
	if _, ok := env.Branch(); !ok {
		return false
	}
	level := "verbose"
	if env.OnProduction() || env.OnDedicated() {
		level = "hide"
	}
	child(config, "system.logging")["error_level"] = level
	return true
}

// ApplyAppEnvironment exports the platform's environment type as name,
// unless the process already carries a value for it.
func ApplyAppEnvironment(env Environment, environ Environ, name string) bool {
	if !env.InRuntime() {
		return false
	}
	if _, ok := environ.LookupEnv(name); ok {
		return false
	}
	t := env.EnvironmentType()
	if t == "" {
		return false
	}
	return environ.Setenv(name, t) == nil
}

// ApplyFilePaths sets the private and temporary file directories under the
// application root when unset.
func ApplyFilePaths(env Environment, settings Tree) bool {
	if !env.InRuntime() {
		return false
	}
	applied := false
	if !isSet(settings, "file_private_path") {
		settings["file_private_path"] = path.Join(env.AppDir(), "private")
		applied = true
	}
	if !isSet(settings, "file_temp_path") {
		settings["file_temp_path"] = path.Join(env.AppDir(), "tmp")
		applied = true
	}
	return applied
}

// ApplyPhpStorage points the compiled-code storages at the private file
// path.  Run it after ApplyFilePaths.
func ApplyPhpStorage(env Environment, settings Tree) bool {
	if !env.InRuntime() || !isSet(settings, "file_private_path") {
		return false
	}
	private := settings["file_private_path"]

	storage := child(settings, "php_storage")
	applied := false
	for _, bin := range []string{"default", "twig"} {
		if isSet(storage, bin) {
			continue
		}
		storage[bin] = map[string]any{"directory": private}
		applied = true
	}
	return applied
}

// ApplyHashSalt copies the project entropy when hash_salt is empty.
func ApplyHashSalt(env Environment, settings Tree) bool {
	if !env.InRuntime() || truthy(settings["hash_salt"]) {
		return false
	}
	settings["hash_salt"] = env.ProjectEntropy()
	return true
}

// ApplyDeploymentIdentifier sets deployment_identifier from the tree id
// unless the caller already set one.
func ApplyDeploymentIdentifier(env Environment, settings Tree) bool {
	if !env.InRuntime() || isSet(settings, "deployment_identifier") {
		return false
	}
	settings["deployment_identifier"] = env.TreeID()
	return true
}

// ApplyTrustedHosts replaces trusted_host_patterns with a match-all
// pattern.  The platform router validates the Host header before a request
// reaches the application.
func ApplyTrustedHosts(settings Tree) bool {
	settings["trusted_host_patterns"] = []string{TrustedHostAll}
	return true
}
