// internal/validation/errors.go
//
// Error kinds shared by every settings value object.
//
// Context
// -------
// Startup code distinguishes two failure kinds:
//
//   - ErrArgumentMissing       – a required collaborator (store, logger,
//     settings) was nil.
//   - ErrInvalidConfiguration  – a value object failed its declared rules.
//
// Both are fatal during bootstrap.  Callers test with errors.Is.
package validation

import (
	"errors"
	"strings"
)

var (
	ErrArgumentMissing      = errors.New("argument missing")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Separator joins violations inside Error.Error.
const Separator = "; "

// Error aggregates every violation found by one Check call, in declaration
// order.  It matches ErrInvalidConfiguration through errors.Is.
type Error struct {
	Violations []string
}

func (e *Error) Error() string {
	return ErrInvalidConfiguration.Error() + ": " + strings.Join(e.Violations, Separator)
}

func (e *Error) Is(target error) bool { return target == ErrInvalidConfiguration }

// Missing reports a nil collaborator by name.
func Missing(name string) error {
	return &missingError{name: name}
}

type missingError struct{ name string }

func (e *missingError) Error() string        { return ErrArgumentMissing.Error() + ": " + e.name }
func (e *missingError) Is(target error) bool { return target == ErrArgumentMissing }

// Prefix qualifies each violation of a *Error with section.  Other errors
// and nil pass through.
func Prefix(section string, err error) error {
	var ve *Error
	if !errors.As(err, &ve) {
		return err
	}
	out := &Error{Violations: make([]string, len(ve.Violations))}
	for i, msg := range ve.Violations {
		out.Violations[i] = section + "." + msg
	}
	return out
}
