package jsonapi

import "strings"

// toSnakeCase converts a camelCase wire key (e.g. "batteryLevelNull") into the
// snake_case form used by Go struct tags throughout internal/models
// ("battery_level_null"). The provider's JSON:API payloads are camelCase;
// everything downstream of the codec speaks snake_case.
func toSnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// toCamelCase converts a snake_case key back to camelCase for outbound
// command bodies and attribute writes.
func toCamelCase(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	b.Grow(len(s))
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// snakeCaseKeys returns a shallow copy of m with every top-level key
// converted from camelCase to snake_case. Nested maps/slices are left
// untouched since attribute values are opaque payloads, not nested resources.
func snakeCaseKeys(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[toSnakeCase(k)] = v
	}
	return out
}

// camelCaseKeys is the inverse of snakeCaseKeys, used when building an
// outbound command body from snake_case Go field names.
func camelCaseKeys(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[toCamelCase(k)] = v
	}
	return out
}
