// internal/apikey/keyset.go
//
// Accepted API keys.
//
// Context
// -------
// Settings is the bindable `api_keys` section:
//
//	api_keys:
//	  keys: [first-key, second-key]
//
// NewKeySet turns validated settings (or literal keys) into the immutable
// KeySet the Guard reads on every request.
package apikey

import (
	"strings"

	"github.com/AdeptTravel/adept-hostkit/internal/validation"
)

// Settings lists the accepted keys.
type Settings struct {
	Keys []string `koanf:"keys"`
}

// ApplyDefaults trims each key.  Comma-separated values from env or vault
// arrive split but untrimmed ("a, b" → "a", " b"), and header values never
// carry surrounding whitespace.
func (s *Settings) ApplyDefaults() {
	for i, k := range s.Keys {
		s.Keys[i] = strings.TrimSpace(k)
	}
}

func (s Settings) Validate() error {
	return validation.Check(
		validation.Field("Keys", s.Keys, validation.MinItems(1), validation.NoBlankItems()),
	)
}

// KeySet is an immutable, non-empty set of case-insensitive tokens.  The
// zero value is invalid.
type KeySet struct {
	keys []string
}

// NewKeySet copies and trims keys.  It fails with
// validation.ErrInvalidConfiguration when keys is empty or contains a blank
// entry.
func NewKeySet(keys ...string) (KeySet, error) {
	s := Settings{Keys: make([]string, len(keys))}
	copy(s.Keys, keys)
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return KeySet{}, err
	}
	return KeySet{keys: s.Keys}, nil
}

// Len reports the number of keys.
func (s KeySet) Len() int { return len(s.keys) }

// Contains reports whether candidate equals any key, ignoring case.
//
// The comparison is plain strings.EqualFold and is not constant-time.
func (s KeySet) Contains(candidate string) bool {
	for _, k := range s.keys {
		if strings.EqualFold(k, candidate) {
			return true
		}
	}
	return false
}
