// internal/host/router.go
//
// Root handler for a service built on the kit.
//
// Route map
// ---------
//
//	GET /healthz                      – liveness, unguarded
//	GET /metrics                      – Prometheus, unguarded
//	GET /swagger/{version}/swagger.*  – OpenAPI documents, unguarded
//	    /api/*                        – X-ApiKey guard, then the caller's routes
//
// Every request passes through request logging, panic recovery, security
// headers, and (when configured) the HTTPS redirect.
package host

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AdeptTravel/adept-hostkit/internal/apikey"
	"github.com/AdeptTravel/adept-hostkit/internal/config"
	"github.com/AdeptTravel/adept-hostkit/internal/middleware"
	"github.com/AdeptTravel/adept-hostkit/internal/requestlog"
	"github.com/AdeptTravel/adept-hostkit/internal/swagger"
	"github.com/AdeptTravel/adept-hostkit/internal/validation"
)

// NewRouter wires the standard routes and mounts api under /api behind the
// guard.  api may be nil.
func NewRouter(cfg *config.Config, guard *apikey.Guard, api func(chi.Router), log *zap.SugaredLogger) (http.Handler, error) {
	if cfg == nil {
		return nil, validation.Missing("config")
	}
	if guard == nil {
		return nil, validation.Missing("api key guard")
	}
	if log == nil {
		log = zap.S()
	}

	r := chi.NewRouter()
	r.Use(requestlog.Middleware(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Security)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/swagger", swagger.Routes(cfg.Swagger, log))

	r.Route("/api", func(ar chi.Router) {
		ar.Use(guard.Middleware)
		if api != nil {
			api(ar)
		}
	})

	return middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS, r), nil
}

// NewGuard builds the guard from the validated api_keys section.
func NewGuard(s apikey.Settings, log *zap.SugaredLogger) (*apikey.Guard, error) {
	keys, err := apikey.NewKeySet(s.Keys...)
	if err != nil {
		return nil, err
	}
	return apikey.NewGuard(keys, log)
}
