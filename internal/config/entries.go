package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// Entry represents a single configuration entry.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	// Don't allow keys starting or ending with dots
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}

// Set overrides a single key at runtime and notifies OnChange callbacks.
// Overrides are not written back to the config file.
func (cm *Manager) Set(key string, value any) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	cm.v.Set(key, value)
	if err := cm.reload(); err != nil {
		return fmt.Errorf("failed to apply %q: %w", key, err)
	}
	return nil
}

// Lookup returns the effective value of a key, or nil when it is unset.
// Literal secrets are masked as in Entries.
func (cm *Manager) Lookup(key string) (*Entry, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if !cm.v.IsSet(key) {
		return nil, nil
	}
	e := &Entry{Key: key, Value: maskSecret(key, cm.v.Get(key))}
	if def := GetDefault(key); def != nil {
		e.Description = def.Description
	}
	return e, nil
}

// Entries returns every effective key, sorted. Literal secrets are masked;
// ${ENV_VAR} references are shown as written.
func (cm *Manager) Entries() []Entry {
	keys := cm.v.AllKeys()
	sort.Strings(keys)
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		e := Entry{Key: k, Value: maskSecret(k, cm.v.Get(k))}
		if def := GetDefault(k); def != nil {
			e.Description = def.Description
		}
		out = append(out, e)
	}
	return out
}

func maskSecret(key string, value any) any {
	if !strings.HasSuffix(key, "api_key") && !strings.HasSuffix(key, "secret_key") {
		return value
	}
	s, ok := value.(string)
	if !ok || s == "" || envRef.MatchString(s) {
		return value
	}
	return "****"
}
