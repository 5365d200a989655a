// Package jsonutil provides shared helpers for JSON columns and payloads.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v interface{}, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// MarshalString marshals v to a JSON string, wrapping errors with context.
func MarshalString(v interface{}, context string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%s: %w", context, err)
	}
	return string(b), nil
}

// StringMap decodes a JSON object of strings. Empty input yields an empty map.
func StringMap(data string, context string) (map[string]string, error) {
	out := map[string]string{}
	if data == "" {
		return out, nil
	}
	if err := UnmarshalWithContext([]byte(data), &out, context); err != nil {
		return nil, err
	}
	return out, nil
}
