// internal/config/keyvault.go
//
// KeyVaultSettings drives the layering stages.
//
// Context
// -------
// The struct is bound from the `key_vault` section of the base store and
// validated before Build runs:
//
//	key_vault:
//	  vault_url: https://vault.internal:8200
//	  environment_variable_prefix: ORDERS_
//	  secret_path: secret/orders
//
// An empty prefix means "not provided"; the environment stage is skipped.
package config

import (
	"regexp"

	"github.com/AdeptTravel/adept-hostkit/internal/validation"
)

// DefaultSecretPath is read when SecretPath is empty.
const DefaultSecretPath = "secret/app"

var (
	prefixPattern     = regexp.MustCompile(`^[a-zA-Z][a-zA-Z_]*[a-zA-Z]_$`)
	secretPathPattern = regexp.MustCompile(`^[^/\s]+/\S+$`)
)

// KeyVaultSettings names the vault and the optional environment prefix.
type KeyVaultSettings struct {
	VaultURL                  string `koanf:"vault_url"`
	EnvironmentVariablePrefix string `koanf:"environment_variable_prefix"`
	SecretPath                string `koanf:"secret_path"`
}

// Validate reports every rule violation at once.
func (s KeyVaultSettings) Validate() error {
	return validation.Check(
		validation.Field("VaultURL", s.VaultURL, validation.Required(), validation.URL()),
		validation.Field("EnvironmentVariablePrefix", s.EnvironmentVariablePrefix,
			validation.Pattern(prefixPattern)),
		validation.Field("SecretPath", s.SecretPath, validation.Pattern(secretPathPattern)),
	)
}

// HasPrefix reports whether the environment stage is enabled.
func (s KeyVaultSettings) HasPrefix() bool { return s.EnvironmentVariablePrefix != "" }

// Path returns SecretPath or DefaultSecretPath.
func (s KeyVaultSettings) Path() string {
	if s.SecretPath == "" {
		return DefaultSecretPath
	}
	return s.SecretPath
}
