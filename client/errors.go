package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"
)

const maxPlainMessage = 200

// APIError is a non-2xx response from the order API.
type APIError struct {
	Operation string
	Status    int
	// Message is the backend error normalized into one display string.
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("orderflow/client: %s: status %d: %s", e.Operation, e.Status, e.Message)
}

// DisplayMessage returns a user-facing message for err. API errors show
// the backend's normalized message; anything else a generic one.
func DisplayMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "The order could not be sent. Check your connection and try again."
}

// NormalizeMessage turns the heterogeneous error bodies the backend
// returns into one display string. Recognized shapes are a bare JSON
// string, {"detail": "..."}, {"detail": [{"loc": [...], "msg": "..."}]},
// {"message": "..."}, {"error": "..."} and {"errors": {"field": ...}}.
// Other bodies are shown as trimmed text; an empty body falls back to the
// HTTP status text.
func NormalizeMessage(body []byte, status int) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return fallback(status)
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return truncate(text)
	}
	if msg := messageOf(v); msg != "" {
		return msg
	}
	return fallback(status)
}

func messageOf(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		return validationList(t)
	case map[string]any:
		for _, k := range []string{"detail", "message", "error", "msg"} {
			if inner, ok := t[k]; ok {
				if msg := messageOf(inner); msg != "" {
					return msg
				}
			}
		}
		if errs, ok := t["errors"]; ok {
			return fieldErrors(errs)
		}
	}
	return ""
}

// validationList renders [{"loc": ["body", "phone"], "msg": "required"}].
func validationList(items []any) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		switch e := it.(type) {
		case string:
			parts = append(parts, e)
		case map[string]any:
			msg, _ := e["msg"].(string)
			if msg == "" {
				msg, _ = e["message"].(string)
			}
			if msg == "" {
				continue
			}
			if field := locField(e["loc"]); field != "" {
				msg = field + ": " + msg
			}
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}

func locField(loc any) string {
	items, ok := loc.([]any)
	if !ok || len(items) == 0 {
		return ""
	}
	var path []string
	for _, p := range items {
		switch s := p.(type) {
		case string:
			if s == "body" || s == "query" || s == "path" {
				continue
			}
			path = append(path, s)
		case float64:
			path = append(path, fmt.Sprintf("%d", int(s)))
		}
	}
	return strings.Join(path, ".")
}

// fieldErrors renders {"phone": ["required"], "name": "too long"} sorted
// by field.
func fieldErrors(v any) string {
	switch t := v.(type) {
	case []any:
		return validationList(t)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			var msgs []string
			switch m := t[k].(type) {
			case string:
				msgs = []string{m}
			case []any:
				for _, e := range m {
					if s, ok := e.(string); ok {
						msgs = append(msgs, s)
					}
				}
			}
			if len(msgs) > 0 {
				parts = append(parts, k+": "+strings.Join(msgs, ", "))
			}
		}
		return strings.Join(parts, "; ")
	}
	return messageOf(v)
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxPlainMessage {
		return s
	}
	r := []rune(s)
	return string(r[:maxPlainMessage]) + "…"
}

func fallback(status int) string {
	if t := http.StatusText(status); t != "" {
		return t
	}
	return fmt.Sprintf("request failed with status %d", status)
}
