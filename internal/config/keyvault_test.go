package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdeptTravel/adept-hostkit/internal/validation"
)

func TestKeyVaultSettings_Validate(t *testing.T) {
	valid := []KeyVaultSettings{
		{VaultURL: "https://vault.example.com"},
		{VaultURL: "https://vault.example.com", EnvironmentVariablePrefix: "MYAPP_"},
		{VaultURL: "http://127.0.0.1:8200", EnvironmentVariablePrefix: "My_App_", SecretPath: "kv/orders/prod"},
	}
	for _, s := range valid {
		assert.NoError(t, s.Validate(), "%+v", s)
	}
}

func TestKeyVaultSettings_BadURL(t *testing.T) {
	for _, u := range []string{"", "not a url", "vault.example.com", "/relative/path"} {
		err := KeyVaultSettings{VaultURL: u}.Validate()
		require.ErrorIs(t, err, validation.ErrInvalidConfiguration, "url %q", u)
		assert.Contains(t, err.Error(), "VaultURL")
	}
}

func TestKeyVaultSettings_BadPrefix(t *testing.T) {
	for _, p := range []string{"INVALID", "1APP_", "APP", "A_", "MY-APP_", "APP1_"} {
		err := KeyVaultSettings{VaultURL: "https://v.example.com", EnvironmentVariablePrefix: p}.Validate()
		require.ErrorIs(t, err, validation.ErrInvalidConfiguration, "prefix %q", p)
		assert.Contains(t, err.Error(), "EnvironmentVariablePrefix")
	}
}

func TestKeyVaultSettings_AllViolationsReported(t *testing.T) {
	err := KeyVaultSettings{VaultURL: "nope", EnvironmentVariablePrefix: "INVALID", SecretPath: "flat"}.Validate()

	var ve *validation.Error
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Violations, 3)
}

func TestKeyVaultSettings_Helpers(t *testing.T) {
	s := KeyVaultSettings{VaultURL: "https://v.example.com"}
	assert.False(t, s.HasPrefix())
	assert.Equal(t, DefaultSecretPath, s.Path())

	s.EnvironmentVariablePrefix = "APP_"
	s.SecretPath = "kv/app"
	assert.True(t, s.HasPrefix())
	assert.Equal(t, "kv/app", s.Path())
}
