// internal/config/loader.go
//
// Configuration bootstrap.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct:

  1. Optional `<root>/conf/.env` file.
  2. `conf/global.yaml` plus `ADEPT_` environment overrides, where `__` maps
     to "." (`ADEPT_HTTP__LISTEN_ADDR → http.listen_addr`).  This is the base
     store.
  3. `key_vault` is bound from the base store and validated.
  4. `Build()` layers vault, prefixed env, and (Development only) local
     secrets over the base.
  5. The merged tree is unmarshalled and every section validated.

The result is cached in an `atomic.Pointer` for lock-free reads.

Instrumentation
---------------
  • DEBUG spans – root discovery, YAML read.
  • ERROR spans – YAML parse, env overlay, bind, and validation failures.
  • INFO  span  – final "config loaded" with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface before the file logger is installed.
*/
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/AdeptTravel/adept-hostkit/internal/options"
)

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves ADEPT_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("ADEPT_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// LoadBase reads conf/global.yaml under root and applies ADEPT_ overrides.
func LoadBase(root string) (*koanf.Koanf, error) {
	k := koanf.New(delim)

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	if err := k.Load(env.Provider("ADEPT_", delim, func(s string) string {
		return envKey("ADEPT_", s)
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}
	return k, nil
}

// Load resolves the root, builds the layered store, and caches Config.
func Load(ctx context.Context, opts ...BuildOption) (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	base, err := LoadBase(root)
	if err != nil {
		return nil, err
	}

	envKind := ParseEnvironment(os.Getenv("ADEPT_ENV"))
	cfg, err := Resolve(ctx, base, envKind, opts...)
	if err != nil {
		return nil, err
	}
	cfg.Paths.Root = root

	current.Store(cfg)
	zap.S().Infow("config loaded",
		"env", cfg.Env,
		"listen_addr", cfg.HTTP.ListenAddr,
		"sources", len(cfg.Sources),
		"root", cfg.Paths.Root,
	)
	return cfg, nil
}

// Resolve runs steps 3 through 5 against an already-loaded base store.
func Resolve(ctx context.Context, base *koanf.Koanf, envKind Environment, opts ...BuildOption) (*Config, error) {
	var kv KeyVaultSettings
	if err := options.Bind(base, "key_vault", &kv); err != nil {
		zap.S().Errorw("config key_vault invalid", "err", err)
		return nil, err
	}

	opts = append([]BuildOption{WithContext(ctx)}, opts...)
	merged, err := Build(base, kv, envKind, opts...)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := merged.Store().Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}
	cfg.Logging.ApplyDefaults()
	cfg.Swagger.ApplyDefaults()
	cfg.APIKeys.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	cfg.Env = envKind
	cfg.Sources = merged.Sources()
	cfg.Vault = merged.Vault()
	return &cfg, nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config { return current.Load() }

// Reload rebuilds Config and swaps the cached pointer.
func Reload(ctx context.Context, opts ...BuildOption) error {
	_, err := Load(ctx, opts...)
	return err
}

// SourceNames is a compact summary for logs.
func SourceNames(src []Source) string {
	names := make([]string, len(src))
	for i, s := range src {
		names[i] = string(s.Kind)
	}
	return strings.Join(names, ",")
}
