// internal/requestlog/middleware.go
//
// One structured log event per request.
//
/*
Context
--------
This handler sits first in the chain, ahead of the API-key guard, so denied
requests are logged with their 401.  For every request it records:

  • method, path, and status
  • duration in milliseconds and bytes written
  • left-most client IP from X-Forwarded-For or X-Real-IP

and increments `http_requests_total{method,status}`.

Notes
-----
  • 5xx logs at ERROR, 4xx at WARN, everything else at DEBUG.
  • Oxford commas, two spaces after periods.  No em dash.
*/
package requestlog

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/AdeptTravel/adept-hostkit/internal/metrics"
)

/*──────────────────────────── middleware ───────────────────────────────────*/

// Middleware returns a wrapper that logs to log (zap.S() when nil).
func Middleware(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := log
			if l == nil {
				l = zap.S()
			}
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", ClientIP(r).String(),
			}
			switch {
			case status >= 500:
				l.Errorw("request", fields...)
			case status >= 400:
				l.Warnw("request", fields...)
			default:
				l.Debugw("request", fields...)
			}
		})
	}
}

/*──────────────────────────── client IP helper ─────────────────────────────*/

// ClientIP extracts the left-most address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func ClientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return nil
}
