// internal/settings/tree.go
//
// Settings trees.
//
// Context
// -------
// A Tree is the engine's output shape: an arbitrarily nested
// map[string]any.  Nested levels created by the engine are plain
// map[string]any so both YAML and JSON encoders render them without custom
// marshallers.  Caller-supplied levels may be either Tree or map[string]any;
// the helpers below accept both.
package settings

// Tree is one mutable settings or configuration tree.
type Tree map[string]any

// asMap unwraps v when it is a mapping level.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Tree:
		return m, m != nil
	case map[string]any:
		return m, m != nil
	}
	return nil, false
}

// child returns parent[key] as a mapping, creating it (or replacing a
// non-mapping value) when needed.
func child(parent map[string]any, key string) map[string]any {
	if m, ok := asMap(parent[key]); ok {
		return m
	}
	m := map[string]any{}
	parent[key] = m
	return m
}

// isSet mirrors an isset() check: present and not nil.
func isSet(m map[string]any, key string) bool {
	v, ok := m[key]
	return ok && v != nil
}

// setPath assigns value at path below root, creating intermediate levels.
// Existing non-mapping values along the path are replaced.
func setPath(root map[string]any, path []string, value any) {
	cur := root
	for _, seg := range path[:len(path)-1] {
		cur = child(cur, seg)
	}
	cur[path[len(path)-1]] = value
}

// truthy reports whether v would count as "not empty" in the platform's
// loosely typed payloads.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "0"
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case Tree:
		return len(t) > 0
	}
	return true
}
