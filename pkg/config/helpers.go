package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/glorpus-work/pack/pkg/errors"
)

// Set stores a value given on the command line and persists the
// configuration. "true"/"false" become booleans, all-digit strings become
// integers and anything else is kept as a string. The stored value is
// returned.
func (c *Config) Set(key, raw string) (any, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: configuration key cannot be empty", errors.ErrValidation)
	}
	value := Coerce(raw)
	c.values[key] = value
	c.persisted[key] = value
	if err := c.Save(c.path); err != nil {
		return nil, err
	}
	return value, nil
}

// Get returns the value stored under key.
func (c *Config) Get(key string) (any, error) {
	value, ok := c.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownConfigKey, key)
	}
	return value, nil
}

// Coerce converts a raw command-line value to its stored type.
func Coerce(raw string) any {
	if b, ok := parseBool(raw); ok {
		return b
	}
	if isDigits(raw) {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	return raw
}

// FormatValue renders a configuration value for display.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// normalize turns integral JSON numbers back into ints.
func normalize(value any) any {
	if f, ok := value.(float64); ok && f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
		return int(f)
	}
	return value
}

func (c *Config) stringValue(key, fallback string) string {
	switch v := c.values[key].(type) {
	case string:
		if v == "" {
			return fallback
		}
		return v
	case nil:
		return fallback
	default:
		return fmt.Sprint(v)
	}
}

func (c *Config) intValue(key string, fallback int) int {
	switch v := c.values[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
