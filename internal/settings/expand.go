// internal/settings/expand.go
//
// Deployment variable expansion.
//
// Context
// -------
// Variable names use ":" as a hierarchy delimiter.  The first segment picks
// the destination:
//
//   - `drupalsettings` or `drupal` — settings[parts[1]] = value, verbatim.
//     A one-segment name writes under the empty key.
//   - `drupalconfig` — config[parts[1]][parts[2]]…[parts[n]] = value.  A
//     name with no property segment (two parts or fewer) is skipped.
//   - anything else — ignored.
//
// Notes
// -----
//   - The two prefixes treat short names differently on purpose.  Existing
//     deployments name variables against both behaviours.
//   - Path creation wins over scalars already on the path; the last
//     variable to touch a path wins.
package settings

import (
	"strings"

	"github.com/yanizio/platformsettings/internal/platform"
)

const (
	prefixSettings      = "drupalsettings"
	prefixSettingsShort = "drupal"
	prefixConfig        = "drupalconfig"
)

// ExpandVariables copies prefixed variables into settings and config.
func ExpandVariables(vars []platform.Variable, settings, config Tree) {
	for _, v := range vars {
		expandOne(v.Name, v.Value, settings, config)
	}
}

func expandOne(name string, value any, settings, config Tree) bool {
	parts := strings.Split(name, ":")

	switch parts[0] {
	case prefixSettings, prefixSettingsShort:
		key := ""
		if len(parts) > 1 {
			key = parts[1]
		}
		settings[key] = value
		return true

	case prefixConfig:
		if len(parts) <= 2 {
			return false
		}
		setPath(config, parts[1:], value)
		return true
	}
	return false
}
