package model

import (
	"encoding/json"
	"testing"

	"github.com/glorpus-work/pack/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileContentDecode(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		kind     ContentKind
		expected []byte
	}{
		{"text", `"console.log(1)"`, ContentText, []byte("console.log(1)")},
		{"text mentioning data later", `"var data: 1"`, ContentText, []byte("var data: 1")},
		{"binary array", `[0, 1, 254, 255]`, ContentBinary, []byte{0, 1, 254, 255}},
		{"data uri", `"data:application/octet-stream;base64,AAH+/w=="`, ContentDataURI, []byte{0, 1, 254, 255}},
		{"data uri without padding", `"data:text/plain;base64,aGk"`, ContentDataURI, []byte("hi")},
		{"data uri with padding", `"data:text/plain;base64,aGVsbG8="`, ContentDataURI, []byte("hello")},
		{"null", `null`, ContentText, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c FileContent
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &c))
			assert.Equal(t, tt.kind, c.Kind())

			b, err := c.Bytes()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, b)
		})
	}
}

func TestFileContentInvalid(t *testing.T) {
	var c FileContent
	assert.Error(t, json.Unmarshal([]byte(`[256]`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &c))

	_, err := TextContent("data:text/plain;base64").Bytes()
	assert.ErrorIs(t, err, errors.ErrInvalidDataURI)

	_, err = TextContent("data:text/plain;base64,!!!").Bytes()
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestFileContentKeepsRepresentation(t *testing.T) {
	for _, raw := range []string{`"plain"`, `[1,2,3]`, `"data:image/png;base64,iVBORw0KGgo="`} {
		var c FileContent
		require.NoError(t, json.Unmarshal([]byte(raw), &c))
		out, err := json.Marshal(c)
		require.NoError(t, err)
		assert.JSONEq(t, raw, string(out))
	}
}

func TestDataURIContent(t *testing.T) {
	original := []byte{0x89, 'P', 'N', 'G', 0, 0xff}
	c := DataURIContent("image/png", original)

	assert.Equal(t, ContentDataURI, c.Kind())
	assert.Equal(t, "data:image/png;base64", c.Header())

	decoded, err := c.Bytes()
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}
