// internal/config/layering.go
//
// Layered configuration resolution.
//
/*
Context
--------
`Build()` copies a base koanf store and stacks up to three optional sources
on top of it, in this order (highest precedence last):

  1. Vault       – one KV-v2 secret at KeyVaultSettings.Path(), always added.
  2. Environment – variables starting with EnvironmentVariablePrefix, only
     when the prefix is non-empty.  `ORDERS_Swagger__Title → swagger.title`.
  3. Secrets     – developer-local YAML file, only in Development.

A key resolves to the value from the last source that defines it, falling
through to the base store.  Every source loads eagerly; an unreachable vault
fails Build with no retry.  The base store is never mutated, so repeated
calls with identical inputs produce equivalent views.

Instrumentation
---------------
  • INFO span per stage added (`config stage added`, kind, priority).
  • `config_stages_added_total{kind}` counter.
*/
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/AdeptTravel/adept-hostkit/internal/metrics"
	"github.com/AdeptTravel/adept-hostkit/internal/validation"
	"github.com/AdeptTravel/adept-hostkit/internal/vault"
)

const delim = "."

/*──────────────────────────── sources ─────────────────────────────────────*/

// SourceKind names where a layer's values come from.
type SourceKind string

const (
	KindBase        SourceKind = "base"
	KindVault       SourceKind = "vault"
	KindEnvironment SourceKind = "environment"
	KindSecretsFile SourceKind = "secrets-file"
)

// Source describes one applied layer.  Higher Priority wins.
type Source struct {
	Kind     SourceKind
	Name     string
	Priority int
}

// Merged is the result of Build.
type Merged struct {
	k       *koanf.Koanf
	sources []Source
	vault   *vault.Client
}

// Store exposes the merged koanf tree for binding.
func (m *Merged) Store() *koanf.Koanf { return m.k }

// Sources lists the applied layers, lowest precedence first.
func (m *Merged) Sources() []Source {
	out := make([]Source, len(m.sources))
	copy(out, m.sources)
	return out
}

// Vault returns the client Build created for the vault stage, or nil when a
// SecretReader was supplied through WithSecretReader.
func (m *Merged) Vault() *vault.Client { return m.vault }

// Has reports whether a layer of kind was applied.
func (m *Merged) Has(kind SourceKind) bool {
	for _, s := range m.sources {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

// String resolves key against the merged view.
func (m *Merged) String(key string) string { return m.k.String(key) }

/*──────────────────────────── options ─────────────────────────────────────*/

type buildOptions struct {
	ctx         context.Context
	log         *zap.SugaredLogger
	secrets     vault.SecretReader
	userSecrets koanf.Provider
	userPath    string
}

// BuildOption tweaks Build.
type BuildOption func(*buildOptions)

// WithContext bounds the vault read.
func WithContext(ctx context.Context) BuildOption {
	return func(o *buildOptions) { o.ctx = ctx }
}

// WithLogger routes stage events to log instead of zap.S().
func WithLogger(log *zap.SugaredLogger) BuildOption {
	return func(o *buildOptions) { o.log = log }
}

// WithSecretReader replaces the vault client built from VaultURL.
func WithSecretReader(r vault.SecretReader) BuildOption {
	return func(o *buildOptions) { o.secrets = r }
}

// WithUserSecrets replaces the developer-local secrets file with any YAML
// provider.
func WithUserSecrets(p koanf.Provider) BuildOption {
	return func(o *buildOptions) { o.userSecrets = p }
}

// WithUserSecretsFile points the local secrets stage at path.
func WithUserSecretsFile(path string) BuildOption {
	return func(o *buildOptions) { o.userPath = path }
}

/*──────────────────────────── build ───────────────────────────────────────*/

// Build layers the vault, environment, and local secrets sources over base.
// settings must already pass Validate; Build refuses them otherwise.
func Build(base *koanf.Koanf, settings KeyVaultSettings, envKind Environment, opts ...BuildOption) (*Merged, error) {
	if base == nil {
		return nil, validation.Missing("base configuration")
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("key vault settings: %w", err)
	}

	o := buildOptions{ctx: context.Background(), log: zap.S()}
	for _, fn := range opts {
		fn(&o)
	}

	m := &Merged{
		k:       base.Copy(),
		sources: []Source{{Kind: KindBase, Name: "base", Priority: 0}},
	}

	// 1. Vault.
	reader := o.secrets
	if reader == nil {
		cli, err := vault.New(settings.VaultURL, o.log)
		if err != nil {
			return nil, fmt.Errorf("config vault stage: %w", err)
		}
		reader, m.vault = cli, cli
	}
	vp := vault.NewProvider(o.ctx, reader, settings.Path(), delim)
	if err := m.add(o.log, KindVault, settings.VaultURL+"/"+settings.Path(), vp, nil); err != nil {
		return nil, err
	}

	// 2. Environment.
	if settings.HasPrefix() {
		prefix := settings.EnvironmentVariablePrefix
		ep := env.Provider(prefix, delim, func(s string) string {
			return envKey(prefix, s)
		})
		if err := m.add(o.log, KindEnvironment, prefix+"*", ep, nil); err != nil {
			return nil, err
		}
	}

	// 3. Local secrets.
	if envKind.IsDevelopment() {
		p, name := o.userSecrets, "user secrets"
		if p == nil {
			path := o.userPath
			if path == "" {
				path = DefaultUserSecretsPath()
			}
			p, name = optionalFile(path), path
		}
		if err := m.add(o.log, KindSecretsFile, name, p, yaml.Parser()); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Merged) add(log *zap.SugaredLogger, kind SourceKind, name string, p koanf.Provider, pa koanf.Parser) error {
	if err := m.k.Load(p, pa); err != nil {
		log.Errorw("config stage failed", "kind", kind, "source", name, "err", err)
		return fmt.Errorf("config %s stage: %w", kind, err)
	}
	src := Source{Kind: kind, Name: name, Priority: len(m.sources)}
	m.sources = append(m.sources, src)

	metrics.ConfigStagesAdded.WithLabelValues(string(kind)).Inc()
	log.Infow("config stage added", "kind", kind, "source", name, "priority", src.Priority)
	return nil
}

// envKey strips prefix and maps "__" to the key delimiter:
// ORDERS_Swagger__Title → swagger.title.
func envKey(prefix, name string) string {
	name = strings.TrimPrefix(name, prefix)
	return strings.ToLower(strings.ReplaceAll(name, "__", delim))
}

/*──────────────────────────── local secrets ───────────────────────────────*/

// DefaultUserSecretsPath is <user config dir>/adept/<id>/secrets.yaml, where
// id comes from ADEPT_USER_SECRETS_ID (default "default").
func DefaultUserSecretsPath() string {
	id := os.Getenv("ADEPT_USER_SECRETS_ID")
	if id == "" {
		id = "default"
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "adept", id, "secrets.yaml")
}

// secretsFile reads a YAML file and treats a missing file as empty.
type secretsFile struct {
	path string
	f    *file.File
}

func optionalFile(path string) *secretsFile {
	return &secretsFile{path: path, f: file.Provider(path)}
}

func (s *secretsFile) ReadBytes() ([]byte, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return []byte("{}"), nil
	}
	return s.f.ReadBytes()
}

func (s *secretsFile) Read() (map[string]interface{}, error) {
	return nil, errors.New("secrets file provider does not support Read")
}
