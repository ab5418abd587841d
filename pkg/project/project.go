// Package project reads and updates the package.json of the working
// directory. Fields this package does not touch are written back unchanged
// and in their original order.
package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glorpus-work/pack/pkg/errors"
	"github.com/glorpus-work/pack/pkg/fsutil"
	"github.com/tidwall/jsonc"
)

// FileName is the project manifest file name.
const FileName = "package.json"

// Section is a dependency map inside package.json.
type Section string

// Dependency sections.
const (
	Dependencies    Section = "dependencies"
	DevDependencies Section = "devDependencies"
)

// Manifest is a parsed package.json.
type Manifest struct {
	path   string
	fields *object
}

// Exists reports whether dir contains a package.json.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil && !info.IsDir()
}

// Load reads dir/package.json. A missing file is ErrProjectFileNotFound.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrProjectFileNotFound, "%s", dir)
		}
		return nil, errors.IOError(err, "failed to read %s", path)
	}

	fields, err := decodeObject(jsonc.ToJSON(data))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrValidation, "invalid %s: %v", path, err)
	}
	return &Manifest{path: path, fields: fields}, nil
}

// Path returns the file the manifest was loaded from.
func (m *Manifest) Path() string { return m.path }

// Name returns the "name" field.
func (m *Manifest) Name() string { return m.stringField("name") }

// Version returns the "version" field.
func (m *Manifest) Version() string { return m.stringField("version") }

// Description returns the "description" field.
func (m *Manifest) Description() string { return m.stringField("description") }

// Type returns the "type" field.
func (m *Manifest) Type() string { return m.stringField("type") }

func (m *Manifest) stringField(key string) string {
	raw, ok := m.fields.get(key)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// SetDependency records name with the given version range in section,
// creating the section when absent. A new section is appended after the
// existing fields and a new entry after the existing entries.
func (m *Manifest) SetDependency(section Section, name, versionRange string) error {
	deps := newObject()
	if raw, ok := m.fields.get(string(section)); ok {
		decoded, err := decodeObject(raw)
		if err != nil {
			return errors.Wrapf(errors.ErrValidation, "%s in %s is not an object", section, m.path)
		}
		deps = decoded
	}

	value, err := json.Marshal(versionRange)
	if err != nil {
		return err
	}
	deps.set(name, value)

	encoded, err := json.Marshal(deps)
	if err != nil {
		return err
	}
	m.fields.set(string(section), encoded)
	return nil
}

// Dependency returns the version range recorded for name in section.
func (m *Manifest) Dependency(section Section, name string) (string, bool) {
	raw, ok := m.fields.get(string(section))
	if !ok {
		return "", false
	}
	var deps map[string]string
	if err := json.Unmarshal(raw, &deps); err != nil {
		return "", false
	}
	v, ok := deps[name]
	return v, ok
}

// Save rewrites the manifest with two-space indentation.
func (m *Manifest) Save() error {
	data, err := json.MarshalIndent(m.fields, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", m.path)
	}
	if err := fsutil.WriteFileAtomic(m.path, append(data, '\n'), fsutil.FileModeDefault); err != nil {
		return errors.IOError(err, "failed to write %s", m.path)
	}
	return nil
}

// object is a JSON object that remembers the order of its keys.
type object struct {
	keys   []string
	values map[string]json.RawMessage
}

func newObject() *object {
	return &object{values: map[string]json.RawMessage{}}
}

// decodeObject parses data as a JSON object. A bare null is an empty object.
func decodeObject(data []byte) (*object, error) {
	obj := newObject()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return obj, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		obj.set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func (o *object) get(key string) (json.RawMessage, bool) {
	v, ok := o.values[key]
	return v, ok
}

// set replaces the value of an existing key in place or appends a new key.
func (o *object) set(key string, value json.RawMessage) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// MarshalJSON implements json.Marshaler.
func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		if err := json.Compact(&buf, o.values[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
