// internal/platform/decode.go
//
// Payload decoders for relationships, routes, and variables.
//
// Context
// -------
// Each payload is base64-encoded JSON.  Routes and variables are JSON
// objects whose key order carries meaning for callers (route ties keep input
// order, later variables win over earlier ones), so they are walked with a
// streaming json.Decoder instead of being unmarshalled into a Go map.
package platform

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// member is one key/value pair of a JSON object, in document order.
type member struct {
	key string
	raw json.RawMessage
}

// orderedMembers returns the top-level members of a JSON object in the order
// they appear in data.
func orderedMembers(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var out []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		out = append(out, member{key: key, raw: raw})
	}

	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, err
	}
	return out, nil
}

// decodeBase64JSON undoes the platform's payload encoding.  An empty input
// yields nil, nil so optional payloads need no special casing.
func decodeBase64JSON(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}
	return data, nil
}

//
// relationships
//

func decodeRelationships(data []byte) (map[string][]Credentials, error) {
	if len(data) == 0 {
		return map[string][]Credentials{}, nil
	}

	var loose map[string][]map[string]any
	if err := json.Unmarshal(data, &loose); err != nil {
		return nil, err
	}

	out := make(map[string][]Credentials, len(loose))
	for name, instances := range loose {
		creds := make([]Credentials, 0, len(instances))
		for i, inst := range instances {
			var c Credentials
			dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				WeaklyTypedInput: true,
				Result:           &c,
			})
			if err != nil {
				return nil, err
			}
			if err := dec.Decode(inst); err != nil {
				return nil, fmt.Errorf("relationship %s[%d]: %w", name, i, err)
			}
			creds = append(creds, c)
		}
		out[name] = creds
	}
	return out, nil
}

//
// routes
//

type routeJSON struct {
	Primary     bool    `json:"primary"`
	ID          *string `json:"id"`
	Type        string  `json:"type"`
	Upstream    string  `json:"upstream"`
	OriginalURL string  `json:"original_url"`
}

func decodeRoutes(data []byte) ([]Route, error) {
	if len(data) == 0 {
		return nil, nil
	}
	members, err := orderedMembers(data)
	if err != nil {
		return nil, err
	}

	routes := make([]Route, 0, len(members))
	for _, m := range members {
		var rj routeJSON
		if err := json.Unmarshal(m.raw, &rj); err != nil {
			return nil, fmt.Errorf("route %s: %w", m.key, err)
		}
		r := Route{
			URL:         m.key,
			Primary:     rj.Primary,
			Type:        rj.Type,
			Upstream:    rj.Upstream,
			OriginalURL: rj.OriginalURL,
		}
		if rj.ID != nil {
			r.ID = *rj.ID
		}
		routes = append(routes, r)
	}
	return routes, nil
}

//
// variables
//

func decodeVariables(data []byte) ([]Variable, error) {
	if len(data) == 0 {
		return nil, nil
	}
	members, err := orderedMembers(data)
	if err != nil {
		return nil, err
	}

	vars := make([]Variable, 0, len(members))
	for _, m := range members {
		var v any
		if err := json.Unmarshal(m.raw, &v); err != nil {
			return nil, fmt.Errorf("variable %s: %w", m.key, err)
		}
		vars = append(vars, Variable{Name: m.key, Value: v})
	}
	return vars, nil
}
