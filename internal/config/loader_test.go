package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AdeptTravel/adept-hostkit/internal/validation"
)

const globalYAML = `
http:
  listen_addr: ":8080"
logging:
  level: info
key_vault:
  vault_url: https://vault.example.com:8200
  environment_variable_prefix: HKLOAD_
  secret_path: secret/orders
swagger:
  title: Orders API
  description: Order intake.
`

func writeRoot(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(body), 0o644))
	return root
}

func TestResolve_FullStack(t *testing.T) {
	t.Setenv("HKLOAD_Swagger__Title", "Orders API (env)")

	base, err := LoadBase(writeRoot(t, globalYAML))
	require.NoError(t, err)

	v := fakeVault{data: map[string]string{"Api_Keys--Keys": "key-one,key-two"}}
	cfg, err := Resolve(context.Background(), base, Production,
		WithSecretReader(v), WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)

	assert.Equal(t, []string{"key-one", "key-two"}, cfg.APIKeys.Keys)
	assert.Equal(t, "Orders API (env)", cfg.Swagger.Title)
	assert.Equal(t, []string{"v1"}, cfg.Swagger.Versions)
	assert.Equal(t, "logs", cfg.Logging.Dir)
	assert.Equal(t, ":8080", cfg.HTTP.ListenAddr)
	assert.Equal(t, Production, cfg.Env)
	assert.Equal(t, "base,vault,environment", SourceNames(cfg.Sources))
}

func TestResolve_TrimsCommaSeparatedKeys(t *testing.T) {
	base, err := LoadBase(writeRoot(t, globalYAML))
	require.NoError(t, err)

	v := fakeVault{data: map[string]string{"Api_Keys--Keys": "key-one, key-two ,\tkey-three"}}
	cfg, err := Resolve(context.Background(), base, Production,
		WithSecretReader(v), WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)

	assert.Equal(t, []string{"key-one", "key-two", "key-three"}, cfg.APIKeys.Keys)
}

func TestResolve_InvalidKeyVaultStopsEarly(t *testing.T) {
	base, err := LoadBase(writeRoot(t, "key_vault:\n  vault_url: nope\n"))
	require.NoError(t, err)

	_, err = Resolve(context.Background(), base, Production, WithSecretReader(fakeVault{}))
	require.ErrorIs(t, err, validation.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "key_vault.VaultURL")
}

func TestResolve_AggregatesSectionErrors(t *testing.T) {
	base, err := LoadBase(writeRoot(t, "key_vault:\n  vault_url: https://v.example.com\n"))
	require.NoError(t, err)

	_, err = Resolve(context.Background(), base, Production, WithSecretReader(fakeVault{}))
	require.ErrorIs(t, err, validation.ErrInvalidConfiguration)
	for _, want := range []string{"http.ListenAddr", "api_keys.Keys", "swagger.Title", "swagger.Description"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoad_CachesConfig(t *testing.T) {
	root := writeRoot(t, globalYAML)
	t.Setenv("ADEPT_ROOT", root)
	t.Setenv("ADEPT_ENV", "Production")

	v := fakeVault{data: map[string]string{"Api_Keys--Keys": "k"}}
	cfg, err := Load(context.Background(), WithSecretReader(v), WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)
	assert.Equal(t, root, cfg.Paths.Root)
	assert.Same(t, cfg, Get())

	require.NoError(t, Reload(context.Background(), WithSecretReader(v), WithLogger(zap.NewNop().Sugar())))
	assert.NotSame(t, cfg, Get())
}

func TestLoadBase_MissingFile(t *testing.T) {
	_, err := LoadBase(t.TempDir())
	assert.Error(t, err)
}
