// internal/validation/rules.go
//
// Declarative per-field rules and the exhaustive Check runner.
//
// Context
// -------
// Each settings type lists its fields and the rules that apply to them:
//
//	func (s Settings) Validate() error {
//		return validation.Check(
//			validation.Field("Title", s.Title, validation.Required()),
//			validation.Field("Contact.Email", s.Contact.Email, validation.Email()),
//		)
//	}
//
// Check runs every rule of every field and never stops at the first failure,
// so one call reports the complete set of problems.  Shape rules (url,
// email, hostname_port) delegate to go-playground/validator on the single
// value.  No struct tags are scanned.
//
// Notes
// -----
//   - Shape rules skip zero values.  Pair them with Required when the field
//     is mandatory.
//   - Oxford commas, two spaces after periods.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// Rule inspects one value and returns a violation message, or "" when the
// value satisfies it.  The field name is prefixed by Check.
type Rule struct {
	Name  string
	check func(value any) string
}

// FieldCheck binds a field name and value to its rules.
type FieldCheck struct {
	name  string
	value any
	rules []Rule
}

// Field declares the rules for one field.
func Field(name string, value any, rules ...Rule) FieldCheck {
	return FieldCheck{name: name, value: value, rules: rules}
}

// Validatable is implemented by every settings value object.  Validation is
// always an explicit call; constructors never run it.
type Validatable interface {
	Validate() error
}

// Check evaluates all rules and returns *Error listing every violation, or
// nil.
func Check(fields ...FieldCheck) error {
	var violations []string
	for _, f := range fields {
		for _, r := range f.rules {
			if msg := r.check(f.value); msg != "" {
				violations = append(violations, f.name+": "+msg)
			}
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return &Error{Violations: violations}
}

// Join merges several validation results into one *Error.  Non-validation
// errors are kept as their message.
func Join(errs ...error) error {
	var violations []string
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ve *Error
		if errors.As(err, &ve) {
			violations = append(violations, ve.Violations...)
			continue
		}
		violations = append(violations, err.Error())
	}
	if len(violations) == 0 {
		return nil
	}
	return &Error{Violations: violations}
}

//
// Built-in rules
//

// Required rejects zero values, blank strings, and nil slices.
func Required() Rule {
	return Rule{Name: "required", check: func(value any) string {
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			return "is required"
		}
		if v.Var(value, "required") != nil {
			return "is required"
		}
		return ""
	}}
}

// URL requires an absolute URL with a scheme.
func URL() Rule {
	return tagRule("url", "url", "must be an absolute URL")
}

// Email requires a well-formed email address.
func Email() Rule {
	return tagRule("email", "email", "must be a valid email address")
}

// HostPort requires host:port (host may be empty, as in ":8080").
func HostPort() Rule {
	return Rule{Name: "hostname_port", check: func(value any) string {
		s, _ := value.(string)
		if s == "" {
			return ""
		}
		if v.Var(s, "hostname_port") != nil {
			return "must be host:port"
		}
		return ""
	}}
}

// Pattern requires the string to match re.  Empty strings are skipped.
func Pattern(re *regexp.Regexp) Rule {
	return Rule{Name: "pattern", check: func(value any) string {
		s, _ := value.(string)
		if s == "" || re.MatchString(s) {
			return ""
		}
		return fmt.Sprintf("must match pattern %s", re.String())
	}}
}

// Range requires an integer within [lo, hi].
func Range(lo, hi int) Rule {
	tag := fmt.Sprintf("gte=%d,lte=%d", lo, hi)
	return Rule{Name: "range", check: func(value any) string {
		if v.Var(value, tag) != nil {
			return fmt.Sprintf("must be between %d and %d", lo, hi)
		}
		return ""
	}}
}

// OneOf requires the string to equal one of allowed.  Empty strings are
// skipped.
func OneOf(allowed ...string) Rule {
	return tagRule("oneof", "oneof="+strings.Join(allowed, " "),
		"must be one of "+strings.Join(allowed, ", "))
}

// MinItems requires a slice with at least n entries.
func MinItems(n int) Rule {
	return Rule{Name: "min_items", check: func(value any) string {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice || rv.Len() < n {
			return fmt.Sprintf("must contain at least %d item(s)", n)
		}
		return ""
	}}
}

// NoBlankItems rejects string slices containing empty or whitespace entries.
func NoBlankItems() Rule {
	return Rule{Name: "no_blank_items", check: func(value any) string {
		items, _ := value.([]string)
		for i, s := range items {
			if strings.TrimSpace(s) == "" {
				return fmt.Sprintf("item %d must not be blank", i)
			}
		}
		return ""
	}}
}

// tagRule wraps a single validator tag.  Zero values pass.
func tagRule(name, tag, msg string) Rule {
	return Rule{Name: name, check: func(value any) string {
		if isZero(value) {
			return ""
		}
		if v.Var(value, tag) != nil {
			return msg
		}
		return ""
	}}
}

func isZero(value any) bool {
	if value == nil {
		return true
	}
	return reflect.ValueOf(value).IsZero()
}
