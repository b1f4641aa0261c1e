// internal/config/model.go
//
// Typed configuration model for a host built on the kit.
//
// Context
// -------
// These structs define the shape of the tree that Load() binds from the
// merged store returned by Build():
//
//   • base `conf/global.yaml` plus `ADEPT_` env overrides,
//   • vault secret, prefixed env vars, and local secrets on top.
//
// Each section is its own value object with an explicit Validate.  Nothing
// validates on unmarshal.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • `Paths`, `Env`, and `Sources` are filled at runtime.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import (
	"github.com/AdeptTravel/adept-hostkit/internal/apikey"
	"github.com/AdeptTravel/adept-hostkit/internal/logger"
	"github.com/AdeptTravel/adept-hostkit/internal/swagger"
	"github.com/AdeptTravel/adept-hostkit/internal/validation"
	"github.com/AdeptTravel/adept-hostkit/internal/vault"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr"`
	ForceHTTPS bool   `koanf:"force_https"`
}

func (h HTTP) Validate() error {
	return validation.Check(
		validation.Field("ListenAddr", h.ListenAddr, validation.Required(), validation.HostPort()),
	)
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // ADEPT_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP             `koanf:"http"`
	Logging  logger.Options   `koanf:"logging"`
	KeyVault KeyVaultSettings `koanf:"key_vault"`
	APIKeys  apikey.Settings  `koanf:"api_keys"`
	Swagger  swagger.Settings `koanf:"swagger"`

	Paths   Paths       `koanf:"-"`
	Env     Environment `koanf:"-"`
	Sources []Source    `koanf:"-"`

	// Vault is the client that served the vault stage, kept so the host
	// can renew its token.  Nil when a SecretReader was injected.
	Vault *vault.Client `koanf:"-"`
}

// Validate checks every section and reports all violations together, each
// prefixed with its section key.
func (c *Config) Validate() error {
	return validation.Join(
		validation.Prefix("http", c.HTTP.Validate()),
		validation.Prefix("logging", c.Logging.Validate()),
		validation.Prefix("key_vault", c.KeyVault.Validate()),
		validation.Prefix("api_keys", c.APIKeys.Validate()),
		validation.Prefix("swagger", c.Swagger.Validate()),
	)
}
