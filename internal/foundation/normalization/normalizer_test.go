package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type format string

const (
	formatText format = "text"
	formatJSON format = "json"
)

func newFormatNormalizer() *Normalizer[format] {
	return NewNormalizer("log format", map[string]format{
		"text": formatText,
		"json": formatJSON,
	}, formatText)
}

func TestNormalize(t *testing.T) {
	n := newFormatNormalizer()

	tests := []struct {
		name  string
		input string
		want  format
	}{
		{"exact", "json", formatJSON},
		{"case insensitive", "JSON", formatJSON},
		{"trimmed", "  text ", formatText},
		{"unknown falls back", "xml", formatText},
		{"empty falls back", "", formatText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalizeWithError(t *testing.T) {
	n := newFormatNormalizer()

	got, err := n.NormalizeWithError(" Json ")
	require.NoError(t, err)
	assert.Equal(t, formatJSON, got)

	got, err = n.NormalizeWithError("")
	require.NoError(t, err)
	assert.Equal(t, formatText, got)

	_, err = n.NormalizeWithError("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log format "xml"`)
	assert.Contains(t, err.Error(), "json, text")
}

func TestValidKeysIsCopy(t *testing.T) {
	n := newFormatNormalizer()
	keys := n.ValidKeys()
	require.Equal(t, []string{"json", "text"}, keys)
	keys[0] = "mutated"
	assert.Equal(t, []string{"json", "text"}, n.ValidKeys())
}
