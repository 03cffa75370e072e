package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// listPaths are probed in order after the bare-list check.
var listPaths = [][]string{
	{"data"},
	{"items"},
	{"content"},
	{"data", "items"},
	{"data", "content"},
}

// DecodeList extracts a list from any of the envelope shapes the backend uses.
// A payload matching none of them yields an empty list.
func DecodeList[T any](raw json.RawMessage) ([]T, error) {
	list, ok := probeList(raw)
	if !ok {
		return []T{}, nil
	}
	out := make([]T, 0)
	if err := json.Unmarshal(list, &out); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return out, nil
}

// DecodeObject decodes a single record.
func DecodeObject[T any](raw json.RawMessage) (*T, error) {
	if !isObject(raw) {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	return &out, nil
}

func probeList(raw json.RawMessage) (json.RawMessage, bool) {
	if isArray(raw) {
		return raw, true
	}
	for _, path := range listPaths {
		if v, ok := lookup(raw, path); ok && isArray(v) {
			return v, true
		}
	}
	return nil, false
}

func lookup(raw json.RawMessage, path []string) (json.RawMessage, bool) {
	cur := raw
	for _, key := range path {
		if !isObject(cur) {
			return nil, false
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(cur, &obj); err != nil {
			return nil, false
		}
		next, ok := obj[key]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// unwrapResult strips the {code|status|success, message, data} wrapper.
func unwrapResult(raw json.RawMessage) (json.RawMessage, error) {
	if !isObject(raw) {
		return raw, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return raw, nil
	}

	data, hasData := obj["data"]
	success, hasSuccess := boolField(obj, "success")
	code, hasCode := numericField(obj, "code")
	if !hasCode {
		code, hasCode = numericField(obj, "status")
	}
	if !hasData && !hasSuccess && !hasCode {
		return raw, nil
	}
	// Without a status marker a top-level list outranks the one nested under data.
	if !hasSuccess && !hasCode && (isArray(obj["items"]) || isArray(obj["content"])) {
		return raw, nil
	}

	ok := true
	switch {
	case hasSuccess:
		ok = success
	case hasCode:
		ok = code >= 200 && code < 300
	}
	if !ok {
		status := 0
		if hasCode {
			status = int(code)
		}
		return nil, &APIError{Status: status, Message: stringField(obj, "message")}
	}
	if hasData {
		return data, nil
	}
	return raw, nil
}

func messageOf(payload []byte) string {
	if !isObject(payload) {
		return ""
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil {
		return ""
	}
	return stringField(obj, "message")
}

func boolField(obj map[string]json.RawMessage, key string) (bool, bool) {
	raw, ok := obj[key]
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

// numericField accepts JSON numbers and numeric strings; anything else is treated as absent.
func numericField(obj map[string]json.RawMessage, key string) (float64, bool) {
	raw, ok := obj[key]
	if !ok {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func stringField(obj map[string]json.RawMessage, key string) string {
	raw, ok := obj[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func isArray(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
