// internal/vault/provider.go
//
// koanf.Provider backed by one KV-v2 secret.
//
// Field names use "--" (or "__") as the section separator, so a secret field
// "Database--Password" becomes the config key "database.password".  Keys are
// lowercased to line up with the YAML and env layers.
package vault

import (
	"context"
	"errors"
	"strings"

	"github.com/knadh/koanf/maps"
)

// SecretReader is the slice of Client the provider needs.
type SecretReader interface {
	ReadSecret(ctx context.Context, secretPath string) (map[string]string, error)
}

// Provider reads a secret once per Read call.  No results are cached.
type Provider struct {
	ctx    context.Context
	reader SecretReader
	path   string
	delim  string
}

// NewProvider returns a provider for secretPath that emits keys split on
// delim.
func NewProvider(ctx context.Context, r SecretReader, secretPath, delim string) *Provider {
	return &Provider{ctx: ctx, reader: r, path: secretPath, delim: delim}
}

// ReadBytes is not supported.  The provider returns a map directly.
func (p *Provider) ReadBytes() ([]byte, error) {
	return nil, errors.New("vault provider does not support ReadBytes")
}

// Read fetches the secret and returns it as a nested map.
func (p *Provider) Read() (map[string]interface{}, error) {
	kv, err := p.reader.ReadSecret(p.ctx, p.path)
	if err != nil {
		return nil, err
	}

	flat := make(map[string]interface{}, len(kv))
	for k, v := range kv {
		flat[KeyName(k, p.delim)] = v
	}
	return maps.Unflatten(flat, p.delim), nil
}

// KeyName maps a secret field name to a config key.
func KeyName(field, delim string) string {
	r := strings.NewReplacer("--", delim, "__", delim)
	return strings.ToLower(r.Replace(field))
}
