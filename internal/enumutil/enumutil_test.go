package enumutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color int

const (
	red color = iota
	blue
)

func (c color) String() string {
	switch c {
	case red:
		return "red"
	case blue:
		return "blue"
	default:
		return "unknown"
	}
}

func parseColor(s string) (color, error) {
	switch s {
	case "red":
		return red, nil
	case "blue":
		return blue, nil
	}
	return 0, ParseEnumError("color", s)
}

func TestMarshalEnumText(t *testing.T) {
	b, err := MarshalEnumText(blue)
	require.NoError(t, err)
	assert.Equal(t, "blue", string(b))
}

func TestUnmarshalEnumText_TrimsAndLowercases(t *testing.T) {
	c, err := UnmarshalEnumText([]byte("  BLUE \n"), parseColor)
	require.NoError(t, err)
	assert.Equal(t, blue, c)
}

func TestUnmarshalEnumText_Unknown(t *testing.T) {
	_, err := UnmarshalEnumText([]byte("green"), parseColor)
	require.Error(t, err)
	assert.Equal(t, `unknown color: "green"`, err.Error())
}
