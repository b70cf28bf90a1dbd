package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Truthy coerces a loosely-typed config value to a boolean. true, "true",
// "1", "yes", "on" and non-zero numbers are truthy; a nested object is
// truthy when its "enabled" or "value" member is.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "on", "y":
			return true
		}
		return false
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case map[string]any:
		return Truthy(t["enabled"]) || Truthy(t["value"])
	default:
		return false
	}
}

// RawConfig is the open configuration map of a step as received.
type RawConfig map[string]any

// Has reports whether key is present.
func (c RawConfig) Has(key string) bool {
	_, ok := c.lookup(key)
	return ok
}

// Bool returns Truthy(c[key]).
func (c RawConfig) Bool(key string) bool {
	v, _ := c.lookup(key)
	return Truthy(v)
}

// BoolDefault returns Truthy(c[key]), or def when key is absent.
func (c RawConfig) BoolDefault(key string, def bool) bool {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	return Truthy(v)
}

// String returns c[key] rendered as a string, or "".
func (c RawConfig) String(key string) string {
	v, ok := c.lookup(key)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Int returns c[key] as an int, or def.
func (c RawConfig) Int(key string, def int) int {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return def
}

// Strings returns c[key] as a list of strings. It accepts a list of
// strings, a list of objects carrying "value", "id" or "name", an object
// whose keys are the options, or a comma-separated string.
func (c RawConfig) Strings(key string) []string {
	v, ok := c.lookup(key)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s := optionValue(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	case map[string]any:
		out := make([]string, 0, len(t))
		for k, e := range t {
			if e == nil || Truthy(e) || isObject(e) {
				out = append(out, k)
			}
		}
		sort.Strings(out)
		return out
	case string:
		var out []string
		for _, p := range strings.Split(t, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

// StringMap returns c[key] as a string-to-string map.
func (c RawConfig) StringMap(key string) map[string]string {
	v, ok := c.lookup(key)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, e := range m {
		if s, ok := e.(string); ok {
			out[k] = s
		}
	}
	return out
}

// lookup finds key at the top level or one level down inside a nested
// "options" or "settings" object.
func (c RawConfig) lookup(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	if v, ok := c[key]; ok {
		return v, true
	}
	for _, group := range []string{"options", "settings"} {
		if m, ok := c[group].(map[string]any); ok {
			if v, ok := m[key]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

func optionValue(e any) string {
	switch t := e.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]any:
		for _, k := range []string{"value", "id", "name", "key"} {
			if s, ok := t[k].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}
