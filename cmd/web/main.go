// cmd/web/main.go
//
// Adept hostkit – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Bootstrap console logger so config errors are visible.
//
//  3. Build layered config: conf/global.yaml + ADEPT_ env as base, then
//     vault, prefixed env, and (Development only) local secrets.
//
//  4. Start the daily rotating logger from the `logging` section.
//
//  5. Build the X-ApiKey guard from `api_keys`.
//
//  6. Mount /healthz, /metrics, /swagger, and the guarded /api tree.
//
//  7. Serve until SIGINT or SIGTERM, then drain.
//
// Any failure before step 7 aborts start-up.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/AdeptTravel/adept-hostkit/internal/config"
	"github.com/AdeptTravel/adept-hostkit/internal/host"
	"github.com/AdeptTravel/adept-hostkit/internal/logger"
	"github.com/AdeptTravel/adept-hostkit/internal/server"
)

const serverEnvPath = "/usr/local/etc/adept-hostkit/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	boot := logger.Bootstrap()

	//
	// ── 1.  Layered configuration ───────────────────────────────────────
	//
	cfg, err := config.Load(ctx)
	if err != nil {
		boot.Fatalw("config load failed", "err", err)
	}

	if runningInTTY() {
		cfg.Logging.Console = true
	}
	logOut, err := logger.New(cfg.Paths.Root, cfg.Logging)
	if err != nil {
		boot.Fatalw("start logger", "err", err)
	}
	defer func() { _ = logOut.Sync() }()
	logOut.Infow("configuration sources", "env", cfg.Env, "sources", config.SourceNames(cfg.Sources))

	// Keep the vault token alive for the life of the process.
	if cfg.Vault != nil {
		cfg.Vault.SetLogger(logOut)
		cfg.Vault.StartRenewal(ctx)
	}

	//
	// ── 2.  API-key guard ───────────────────────────────────────────────
	//
	guard, err := host.NewGuard(cfg.APIKeys, logOut)
	if err != nil {
		logOut.Fatalw("api key guard", "err", err)
	}

	//
	// ── 3.  Router ──────────────────────────────────────────────────────
	//
	handler, err := host.NewRouter(cfg, guard, func(r chi.Router) {
		r.Get("/v1/ping", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("pong"))
		})
	}, logOut)
	if err != nil {
		logOut.Fatalw("router", "err", err)
	}

	//
	// ── 4.  Serve ───────────────────────────────────────────────────────
	//
	if err := server.Run(ctx, server.New(cfg.HTTP.ListenAddr, handler), logOut); err != nil {
		logOut.Fatalw("http server", "err", err)
	}
	logOut.Infow("shutdown complete")
}
