package marketapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is an identifier the API sends either as a JSON number or a string.
type ID string

// UnmarshalJSON accepts numbers, strings, and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric identifiers back as numbers.
func (id ID) MarshalJSON() ([]byte, error) {
	text := string(id)
	if _, err := strconv.ParseUint(text, 10, 64); err == nil && (text == "0" || text[0] != '0') {
		return []byte(text), nil
	}
	return json.Marshal(string(id))
}

// String returns the identifier text.
func (id ID) String() string {
	return string(id)
}

// Page carries Laravel-style pagination metadata when the API sends it.
type Page struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// HasNext reports whether another page exists.
func (p Page) HasNext() bool {
	return p.LastPage > 0 && p.CurrentPage < p.LastPage
}

// decodeOne unwraps a {data: {...}} envelope, or one of the named
// single-resource keys, before decoding into out.
func decodeOne(raw json.RawMessage, out any, keys ...string) error {
	inner := raw
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		for _, key := range append([]string{"data"}, keys...) {
			if data, ok := envelope[key]; ok && isObject(data) {
				inner = data
				break
			}
		}
	}
	return json.Unmarshal(inner, out)
}

// decodeList accepts a bare array, {data: [...]}, or a paginated
// {data: {data: [...], current_page, ...}} envelope. keys name extra
// collection fields tried after data, e.g. "bids".
func decodeList[T any](raw json.RawMessage, keys ...string) ([]T, Page, error) {
	var page Page
	raw = json.RawMessage(bytes.TrimSpace(raw))
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, page, nil
	}
	for depth := 0; depth < 3; depth++ {
		if bytes.Equal(raw, []byte("null")) {
			return []T{}, page, nil
		}
		if isArray(raw) {
			var items []T
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, page, err
			}
			if items == nil {
				items = []T{}
			}
			return items, page, nil
		}
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, page, fmt.Errorf("list envelope: %w", err)
		}
		if _, ok := envelope["current_page"]; ok {
			_ = json.Unmarshal(raw, &page)
		}
		if meta, ok := envelope["meta"]; ok && isObject(meta) {
			_ = json.Unmarshal(meta, &page)
		}
		var data json.RawMessage
		for _, key := range append([]string{"data"}, keys...) {
			if value, ok := envelope[key]; ok {
				data = value
				break
			}
		}
		if data == nil {
			return nil, page, fmt.Errorf("list envelope: missing data")
		}
		raw = json.RawMessage(bytes.TrimSpace(data))
	}
	return nil, page, fmt.Errorf("list envelope: nested too deeply")
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// firstString returns the first non-blank value.
func firstString(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// flexInt decodes counts sent as numbers or numeric strings.
type flexInt struct {
	Value int
	Set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	text := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil
	}
	f.Value, f.Set = n, true
	return nil
}

// flexBool decodes booleans sent as true/false, 0/1, or "0"/"1".
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(string(data)), `"`)) {
	case "true", "1", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}
