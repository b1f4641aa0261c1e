// internal/validation/rules_test.go
//
// Unit-tests for the declarative rule runner.
//
// Cases
// -----
//   • every violation is reported, in declaration order      → aggregated
//   • shape rules ignore empty optional values               → nil
//   • the aggregate error matches ErrInvalidConfiguration    → errors.Is

package validation

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_AggregatesAllViolations(t *testing.T) {
	err := Check(
		Field("Title", "", Required()),
		Field("Contact.Email", "nope", Email()),
		Field("VaultURL", "not a url", URL()),
	)
	require.Error(t, err)

	var ve *Error
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Violations, 3)
	assert.Equal(t, "Title: is required", ve.Violations[0])
	assert.True(t, strings.HasPrefix(ve.Violations[1], "Contact.Email:"))
	assert.True(t, strings.HasPrefix(ve.Violations[2], "VaultURL:"))
	assert.Equal(t, strings.Join(ve.Violations, Separator),
		strings.TrimPrefix(err.Error(), "invalid configuration: "))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestCheck_EmptyOptionalValuesPass(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z]+_$`)
	err := Check(
		Field("Email", "", Email()),
		Field("URL", "", URL()),
		Field("Prefix", "", Pattern(re)),
		Field("Level", "", OneOf("debug", "info")),
		Field("Addr", "", HostPort()),
	)
	assert.NoError(t, err)
}

func TestCheck_ValidValuesPass(t *testing.T) {
	err := Check(
		Field("Email", "ops@example.com", Required(), Email()),
		Field("URL", "https://vault.example.com:8200", Required(), URL()),
		Field("Level", "info", OneOf("debug", "info")),
		Field("Addr", ":8080", HostPort()),
		Field("Addr2", "127.0.0.1:9000", HostPort()),
		Field("Keys", []string{"a"}, MinItems(1), NoBlankItems()),
		Field("Days", 7, Range(1, 365)),
	)
	assert.NoError(t, err)
}

func TestRules_Failures(t *testing.T) {
	cases := []struct {
		name string
		rule Rule
		val  any
	}{
		{"required blank", Required(), "   "},
		{"required nil slice", Required(), []string(nil)},
		{"pattern", Pattern(regexp.MustCompile(`^x$`)), "y"},
		{"range low", Range(1, 10), 0},
		{"range high", Range(1, 10), 11},
		{"oneof", OneOf("a", "b"), "c"},
		{"min items", MinItems(1), []string{}},
		{"blank item", NoBlankItems(), []string{"ok", " "}},
		{"hostport", HostPort(), "no-port"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(Field("F", tc.val, tc.rule))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "F: ")
		})
	}
}

func TestJoin(t *testing.T) {
	assert.NoError(t, Join(nil, nil))

	err := Join(
		Check(Field("A", "", Required())),
		nil,
		errors.New("plain failure"),
		Check(Field("B", "", Required())),
	)
	var ve *Error
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"A: is required", "plain failure", "B: is required"}, ve.Violations)
}

func TestMissing(t *testing.T) {
	err := Missing("base")
	assert.ErrorIs(t, err, ErrArgumentMissing)
	assert.NotErrorIs(t, err, ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "base")
}

func TestPrefix(t *testing.T) {
	assert.NoError(t, Prefix("swagger", nil))

	plain := errors.New("boom")
	assert.Same(t, plain, Prefix("swagger", plain))

	err := Prefix("swagger", Check(Field("Title", "", Required())))
	var ve *Error
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"swagger.Title: is required"}, ve.Violations)
}
