// Package enumutil holds helpers shared by the string-backed enums
// (build mode, ledger event kinds).
package enumutil

import (
	"fmt"
	"strings"
)

// StringEnum is a constraint for enum types that have a String() method.
type StringEnum interface {
	String() string
}

// MarshalEnumText marshals an enum value to its string representation.
// Used to implement encoding.TextMarshaler, which yaml.v3 and encoding/json both honor.
func MarshalEnumText[T StringEnum](v T) ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalEnumText parses text with parseFunc after trimming and lowercasing it.
func UnmarshalEnumText[T StringEnum](text []byte, parseFunc func(string) (T, error)) (T, error) {
	return parseFunc(strings.ToLower(strings.TrimSpace(string(text))))
}

// ParseEnumError creates a standardized error message for invalid enum string values.
func ParseEnumError(enumName, value string) error {
	return fmt.Errorf("unknown %s: %q", enumName, value)
}
