package config

import "mintdeck/internal/enumutil"

// Mode is the build configuration the shell is started with.
// It gates the debug tab and the diagnostic modules.
type Mode int

const (
	ModeProduction Mode = iota
	ModeDevelopment
)

func (m Mode) String() string {
	switch m {
	case ModeProduction:
		return "production"
	case ModeDevelopment:
		return "development"
	default:
		return "unknown"
	}
}

// IsDevelopment reports whether the development surface is enabled.
func (m Mode) IsDevelopment() bool {
	return m == ModeDevelopment
}

// ParseMode parses a mode name. "dev" and "prod" are accepted as short forms.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "production", "prod":
		return ModeProduction, nil
	case "development", "dev":
		return ModeDevelopment, nil
	}
	return ModeProduction, enumutil.ParseEnumError("mode", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return enumutil.MarshalEnumText(m)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := enumutil.UnmarshalEnumText(text, ParseMode)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
