// internal/platform/fixture.go
//
// JSONC fixture loader for local dry runs.
//
// A fixture mirrors the injected variables, but the three payloads are
// plain JSON objects instead of base64 strings, and // comments plus
// trailing commas are allowed:
//
//	{
//	  "application_name": "app",
//	  "environment": "main-bvxea6i",
//	  "branch": "main",
//	  "relationships": {"database": [{"scheme": "mysql", "host": "db"}]},
//	  "routes": {"https://example.com/": {"primary": true, "type": "upstream"}},
//	  "variables": {"drupalconfig:system.site:name": "Example"},
//	}
package platform

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

var payloadKeys = map[string]bool{
	keyRelationships: true,
	keyRoutes:        true,
	keyVariables:     true,
}

// FromFile reads a JSONC fixture from disk.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Config{}, fmt.Errorf("fixture: %w", err)
	}
	return FromFixture(data)
}

// FromFixture parses fixture bytes.  Payload members are re-encoded the way
// the platform injects them so both paths share one decoder.
func FromFixture(data []byte) (*Config, error) {
	members, err := orderedMembers(jsonc.ToJSON(data))
	if err != nil {
		return &Config{}, fmt.Errorf("fixture: %w", err)
	}

	values := make(map[string]string, len(members))
	for _, m := range members {
		key := strings.ToLower(m.key)
		if payloadKeys[key] {
			values[key] = base64.StdEncoding.EncodeToString(m.raw)
			continue
		}

		var v any
		if err := json.Unmarshal(m.raw, &v); err != nil {
			return &Config{}, fmt.Errorf("fixture %s: %w", m.key, err)
		}
		switch s := v.(type) {
		case nil:
		case string:
			values[key] = s
		default:
			values[key] = strings.TrimSpace(string(m.raw))
		}
	}
	return New(values)
}
