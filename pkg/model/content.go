package model

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/glorpus-work/pack/pkg/errors"
)

// DataURIPrefix marks a text value as an inline base64 data URI.
const DataURIPrefix = "data:"

// ContentKind tells how a FileContent value was encoded by the registry.
type ContentKind int

const (
	// ContentText is a plain UTF-8 string.
	ContentText ContentKind = iota
	// ContentBinary is a JSON array of byte values.
	ContentBinary
	// ContentDataURI is a string of the form "data:<mime>;base64,<payload>".
	ContentDataURI
)

func (k ContentKind) String() string {
	switch k {
	case ContentText:
		return "text"
	case ContentBinary:
		return "binary"
	case ContentDataURI:
		return "data-uri"
	default:
		return fmt.Sprintf("ContentKind(%d)", int(k))
	}
}

// FileContent is the payload of one file in a descriptor. The kind is decided
// when decoding and the original representation is kept, so encoding a
// FileContent back to JSON yields what the registry sent.
type FileContent struct {
	kind ContentKind
	text string
	data []byte
}

// TextContent returns a text file content. Strings starting with "data:" are
// classified as data URIs.
func TextContent(s string) FileContent {
	if strings.HasPrefix(s, DataURIPrefix) {
		return FileContent{kind: ContentDataURI, text: s}
	}
	return FileContent{kind: ContentText, text: s}
}

// BinaryContent returns a raw byte file content.
func BinaryContent(b []byte) FileContent {
	return FileContent{kind: ContentBinary, data: b}
}

// DataURIContent encodes b as a base64 data URI with the given media type.
func DataURIContent(mediaType string, b []byte) FileContent {
	return FileContent{
		kind: ContentDataURI,
		text: DataURIPrefix + mediaType + ";base64," + base64.StdEncoding.EncodeToString(b),
	}
}

// Kind returns the content kind.
func (c FileContent) Kind() ContentKind { return c.kind }

// Header returns the part of a data URI before the first comma.
func (c FileContent) Header() string {
	if c.kind != ContentDataURI {
		return ""
	}
	header, _, _ := strings.Cut(c.text, ",")
	return header
}

// Bytes returns the bytes that belong on disk: UTF-8 for text, the bytes
// verbatim for binary and the decoded payload for data URIs.
func (c FileContent) Bytes() ([]byte, error) {
	switch c.kind {
	case ContentBinary:
		return c.data, nil
	case ContentDataURI:
		_, payload, ok := strings.Cut(c.text, ",")
		if !ok {
			return nil, errors.ErrInvalidDataURI
		}
		return decodeBase64(payload)
	default:
		return []byte(c.text), nil
	}
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.Join(strings.Fields(payload), "")
	b, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return b, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); rawErr == nil {
		return raw, nil
	}
	return nil, fmt.Errorf("%w: %w", errors.ErrInvalidDataURI, err)
}

// MarshalJSON implements json.Marshaler.
func (c FileContent) MarshalJSON() ([]byte, error) {
	if c.kind != ContentBinary {
		return json.Marshal(c.text)
	}
	values := make([]int, len(c.data))
	for i, b := range c.data {
		values[i] = int(b)
	}
	return json.Marshal(values)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *FileContent) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*c = TextContent("")
		return nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		var values []int
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return fmt.Errorf("invalid binary file content: %w", err)
		}
		buf := make([]byte, len(values))
		for i, v := range values {
			if v < 0 || v > 255 {
				return fmt.Errorf("invalid binary file content: byte value %d out of range", v)
			}
			buf[i] = byte(v)
		}
		*c = BinaryContent(buf)
		return nil
	default:
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("invalid file content: %w", err)
		}
		*c = TextContent(s)
		return nil
	}
}
