// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch aborts the command before the engine runs, so a typo such as
// `drush.format: yml` surfaces as a one-line error instead of a silently
// ignored setting.
//
// Custom rules
// ------------
//   • envname  – a POSIX environment variable name (`APP_ENV`).
//   • envprefix – an envname that ends in "_" (`PLATFORM_`).

package config

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var envName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("envname", func(fl validator.FieldLevel) bool {
		return envName.MatchString(fl.Field().String())
	})
	_ = val.RegisterValidation("envprefix", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return envName.MatchString(s) && strings.HasSuffix(s, "_")
	})
	return val
}

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
