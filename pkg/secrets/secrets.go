// Package secrets resolves registry credentials from the environment.
package secrets

import (
	"fmt"
	"os"
)

// Secret holds a credential value. It redacts itself when formatted so a
// stray log line cannot leak a registry token; use Value to obtain the
// raw string for subprocess environment or stdin.
type Secret struct {
	value string
}

// NewSecret wraps a raw credential value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Value returns the raw credential.
func (s Secret) Value() string {
	return s.value
}

// IsZero reports whether the secret is empty.
func (s Secret) IsZero() bool {
	return s.value == ""
}

// String implements fmt.Stringer with redaction.
func (s Secret) String() string {
	if s.value == "" {
		return ""
	}
	return "[REDACTED]"
}

// Format implements fmt.Formatter so %v, %s and %q all redact.
func (s Secret) Format(f fmt.State, verb rune) {
	switch verb {
	case 'q':
		fmt.Fprintf(f, "%q", s.String())
	default:
		fmt.Fprint(f, s.String())
	}
}

// Store resolves named secrets. The default store reads the process
// environment; tests substitute a fixed map.
type Store struct {
	lookup func(string) (string, bool)
}

// NewStore creates a store backed by the process environment.
func NewStore() *Store {
	return &Store{lookup: os.LookupEnv}
}

// NewStoreFromMap creates a store backed by a fixed map, for tests.
func NewStoreFromMap(values map[string]string) *Store {
	return &Store{
		lookup: func(key string) (string, bool) {
			v, ok := values[key]
			return v, ok
		},
	}
}

// Get retrieves a secret by environment variable name.
func (s *Store) Get(name string) (Secret, error) {
	if name == "" {
		return Secret{}, fmt.Errorf("secret name is empty")
	}
	value, ok := s.lookup(name)
	if !ok || value == "" {
		return Secret{}, fmt.Errorf("secret %s is not set", name)
	}
	return NewSecret(value), nil
}
