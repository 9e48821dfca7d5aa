// internal/platform/model.go
//
// Typed view of the platform's environment payloads.
//
// Context
// -------
// The platform injects three base64-encoded JSON payloads (relationships,
// routes, and variables) next to a handful of plain string variables.  The
// structs below are what the accessor decodes those payloads into.  They are
// inert values; nothing here talks to the network or the filesystem.
//
// Notes
// -----
//   - Struct tags use `mapstructure:"…"` for relationships because the
//     payload is decoded from a loose map with weak typing (port may arrive
//     as a number or a string).
package platform

// Credentials holds the connection parameters for one relationship instance.
type Credentials struct {
	Scheme   string         `mapstructure:"scheme"`
	Host     string         `mapstructure:"host"`
	Port     int            `mapstructure:"port"`
	Path     string         `mapstructure:"path"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Query    map[string]any `mapstructure:"query"`

	Service  string `mapstructure:"service"`
	Cluster  string `mapstructure:"cluster"`
	Hostname string `mapstructure:"hostname"`
	Rel      string `mapstructure:"rel"`
	Type     string `mapstructure:"type"`
	IP       string `mapstructure:"ip"`
	Public   bool   `mapstructure:"public"`
}

// Route is one externally reachable address of the deployment.
type Route struct {
	URL         string
	Primary     bool
	ID          string
	Type        string // "upstream" or "redirect"
	Upstream    string // "app:http"
	OriginalURL string // "https://{default}/"
}

// Variable is one deployment variable.  Name uses ":" as a hierarchy
// delimiter; Value is a string, number, bool, []any, or map[string]any.
type Variable struct {
	Name  string
	Value any
}
