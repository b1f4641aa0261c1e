// internal/vault/vault.go
//
// Vault client wrapper for the configuration vault stage.
//
// Context
// -------
//   - Wraps the HashiCorp Vault Go SDK around one server address taken from
//     KeyVaultSettings.VaultURL rather than VAULT_ADDR.
//   - Reads whole KV-v2 secrets for the config layer.
//   - Token renewal is opt-in through StartRenewal.  Nothing runs in the
//     background unless the host asks for it.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(settings.VaultURL, log)   // during boot.
//  2. kv,  err := cli.ReadSecret(ctx, "secret/app")   // config stage.
//  3. cli.StartRenewal(ctx)                           // host, after boot.
//
// Notes
// -----
//   - Nothing is cached.  Every ReadSecret goes to the server.
//   - Oxford commas, two spaces after periods.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

//
// SECTION 1.  Public façade
//

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	api *vault.Client
	log *zap.SugaredLogger
}

// New constructs a client for addr.  The token comes from VAULT_TOKEN (or
// ~/.vault-token through the SDK's environment reader).
func New(addr string, log *zap.SugaredLogger) (*Client, error) {
	if addr == "" {
		return nil, errors.New("vault address must be non-empty")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}
	cfg.Address = addr

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}

	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	return &Client{
		api: apiCli,
		log: log,
	}, nil
}

// SetLogger swaps the logger, typically once the file logger replaces the
// bootstrap one.  Call it before StartRenewal.
func (c *Client) SetLogger(log *zap.SugaredLogger) {
	if log != nil {
		c.log = log
	}
}

// Address reports the server this client talks to.
func (c *Client) Address() string { return c.api.Address() }

// ReadSecret returns every string field of a KV-v2 secret.  Non-string
// values are formatted with %v.
func (c *Client) ReadSecret(ctx context.Context, secretPath string) (map[string]string, error) {
	mount, rel := splitMount(secretPath)
	if mount == "" || rel == "" {
		return nil, fmt.Errorf("secret path %q must be mount/path", secretPath)
	}

	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return nil, fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	out := make(map[string]string, len(sec.Data))
	for k, raw := range sec.Data {
		if s, ok := raw.(string); ok {
			out[k] = s
			continue
		}
		out[k] = fmt.Sprintf("%v", raw)
	}
	return out, nil
}

//
// SECTION 2.  Token renewal (opt-in)
//

// StartRenewal launches the token-renewal loop.  It stops when ctx is done.
func (c *Client) StartRenewal(ctx context.Context) {
	go c.renewLoop(ctx)
}

func (c *Client) renewLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		sec, err := c.api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			c.log.Warnw("vault token renew self failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}

		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			c.log.Infow("vault token is not renewable, sleeping", "for", time.Hour)
			backoff(ctx, time.Hour)
			continue
		}

		watcher, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{
			Secret: sec,
		})
		if err != nil {
			c.log.Warnw("vault lifetime watcher init failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}

		go watcher.Start()
		c.watch(ctx, watcher)
		if ctx.Err() != nil {
			return
		}
		backoff(ctx, 15*time.Second)
	}
}

func (c *Client) watch(ctx context.Context, w *vault.LifetimeWatcher) {
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				c.log.Warnw("vault token renewal stopped", "err", err)
			}
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				c.log.Debugw("vault token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

//
// SECTION 3.  Helpers
//

func splitMount(p string) (mount, rel string) {
	p = strings.Trim(p, "/")
	if p == "" {
		return "", ""
	}
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}

func backoff(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
