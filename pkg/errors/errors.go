// Package errors defines the error taxonomy shared by every pack command.
//
// Failures fall into a small set of kinds (network, not found, already
// exists, auth, validation, cancelled, I/O). Each kind is a sentinel that
// callers match with errors.Is; richer failures such as NetworkError wrap
// their sentinel so the kind survives any amount of additional context.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Error kinds.
var (
	ErrNetwork       = fmt.Errorf("network error")
	ErrNotFound      = fmt.Errorf("not found")
	ErrAlreadyExists = fmt.Errorf("already exists")
	ErrAuth          = fmt.Errorf("authentication required")
	ErrValidation    = fmt.Errorf("validation failed")
	ErrCancelled     = fmt.Errorf("cancelled")
	ErrIO            = fmt.Errorf("i/o error")
)

// Config errors.
var (
	ErrEmptyConfigPath  = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse      = fmt.Errorf("failed to parse config")
	ErrConfigEncode     = fmt.Errorf("failed to encode config")
	ErrUnknownConfigKey = fmt.Errorf("%w: unknown configuration key", ErrNotFound)
)

// Cache errors.
var (
	ErrCacheDirectory = fmt.Errorf("cache directory cannot be empty")
	ErrCacheClear     = fmt.Errorf("failed to clear cache")
	ErrCacheInfo      = fmt.Errorf("failed to get cache info")
)

// Package errors.
var (
	ErrPackageNotFound      = fmt.Errorf("package %w", ErrNotFound)
	ErrMissingAPIKey        = fmt.Errorf("%w: API key required", ErrAuth)
	ErrProjectFileNotFound  = fmt.Errorf("package.json %w", ErrNotFound)
	ErrInvalidDataURI       = fmt.Errorf("%w: malformed data URI", ErrValidation)
	ErrDescriptorIDRequired = fmt.Errorf("%w: descriptor id is required", ErrValidation)
	ErrInvalidPackageName   = fmt.Errorf("%w: invalid package name", ErrValidation)
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }

// New returns an error that formats as the given text.
func New(text string) error { return stderrors.New(text) }

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IOError marks err as a filesystem failure while keeping it in the chain.
func IOError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), ErrIO, err)
}

// Reported reports whether err belongs to one of the expected failure kinds.
// The CLI prints these and still exits 0; anything else is unexpected.
func Reported(err error) bool {
	for _, kind := range []error{ErrNetwork, ErrNotFound, ErrAlreadyExists, ErrAuth, ErrValidation, ErrCancelled, ErrIO} {
		if stderrors.Is(err, kind) {
			return true
		}
	}
	return false
}

// RegistryError is the structured error object returned by the registry.
type RegistryError struct {
	Message string               `json:"message"`
	Code    string               `json:"code,omitempty"`
	Details RegistryErrorDetails `json:"details,omitempty"`
}

// RegistryErrorDetails carries hints the registry attaches to an error.
type RegistryErrorDetails struct {
	Suggestions   []string `json:"suggestions,omitempty"`
	RecoverySteps []string `json:"recoverySteps,omitempty"`
}

// UnmarshalJSON accepts either the structured error object or a bare message
// string.
func (e *RegistryError) UnmarshalJSON(data []byte) error {
	var message string
	if err := json.Unmarshal(data, &message); err == nil {
		*e = RegistryError{Message: message}
		return nil
	}
	type plain RegistryError
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = RegistryError(p)
	return nil
}

func (e *RegistryError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// NetworkError is returned for transport failures, non-2xx responses and
// unsuccessful registry replies.
type NetworkError struct {
	Op         string
	StatusCode int
	Registry   *RegistryError
	Body       string
	Err        error
}

// MaxErrorBodyLength bounds how much of a non-JSON error body is kept.
const MaxErrorBodyLength = 200

func (e *NetworkError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(" failed")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
	}
	switch {
	case e.Registry != nil && e.Registry.Message != "":
		b.WriteString(": ")
		b.WriteString(e.Registry.Error())
	case e.Err != nil:
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the network kind and the underlying cause.
func (e *NetworkError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrNetwork, e.Err}
	}
	return []error{ErrNetwork}
}

// NewNetworkError builds a NetworkError, truncating body to at most
// MaxErrorBodyLength bytes on a rune boundary.
func NewNetworkError(op string, status int, registry *RegistryError, body string, err error) *NetworkError {
	if len(body) > MaxErrorBodyLength {
		cut := MaxErrorBodyLength
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}
	return &NetworkError{Op: op, StatusCode: status, Registry: registry, Body: body, Err: err}
}

// PathTraversalError is returned when a descriptor file path escapes the
// install directory.
type PathTraversalError struct {
	Path string
}

func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("path traversal attempt detected: %s", e.Path)
}

// Unwrap classifies path traversal as a validation failure.
func (e *PathTraversalError) Unwrap() error { return ErrValidation }
