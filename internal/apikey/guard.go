// internal/apikey/guard.go
//
// Header-based API-key authorization.
//
// Context
// -------
// Guard reads exactly one header, X-ApiKey, and sorts each request into one
// of three branches:
//
//   - Missing   – header absent or empty    → Deny
//   - Mismatch  – value matches no key       → Deny
//   - Match     – value equals a key (fold)  → Allow
//
// Missing and Mismatch look identical to the client: 401 with an empty body.
// They are only distinguished in logs and the apikey_decisions_total metric.
//
// Notes
// -----
//   - The key set is fixed at construction, so Guard is safe for concurrent
//     use without locking.
//   - No rate limiting, lockout, or audit trail.
package apikey

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/AdeptTravel/adept-hostkit/internal/metrics"
)

// HeaderName is the only header Guard inspects.
const HeaderName = "X-ApiKey"

// Decision is the per-request verdict.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Outcome records which branch produced the Decision.
type Outcome string

const (
	Missing  Outcome = "missing"
	Mismatch Outcome = "mismatch"
	Match    Outcome = "match"
)

// Guard authorizes requests against a KeySet.
type Guard struct {
	keys KeySet
	log  *zap.SugaredLogger
}

// NewGuard fails with validation.ErrInvalidConfiguration when keys is the
// zero value.  A nil log falls back to zap.S().
func NewGuard(keys KeySet, log *zap.SugaredLogger) (*Guard, error) {
	if keys.Len() == 0 {
		return nil, Settings{}.Validate()
	}
	if log == nil {
		log = zap.S()
	}
	return &Guard{keys: keys, log: log}, nil
}

// Authorize decides on the X-ApiKey header in h.  Every call logs one
// event and counts one apikey_decisions_total sample.
func (g *Guard) Authorize(h http.Header) (Decision, Outcome) {
	return g.authorize(h)
}

// authorize is Authorize with extra log fields.
func (g *Guard) authorize(h http.Header, fields ...any) (Decision, Outcome) {
	d, out := g.decide(h.Get(HeaderName))
	metrics.APIKeyDecisions.WithLabelValues(string(out)).Inc()

	switch out {
	case Missing:
		g.log.Warnw("api key missing", fields...)
	case Mismatch:
		g.log.Warnw("api key invalid", fields...)
	default:
		g.log.Debugw("api key valid", fields...)
	}
	return d, out
}

func (g *Guard) decide(got string) (Decision, Outcome) {
	switch {
	case got == "":
		return Deny, Missing
	case g.keys.Contains(got):
		return Allow, Match
	default:
		return Deny, Mismatch
	}
}

// Middleware wraps next.  Denied requests get 401 with no body; allowed
// requests pass through unmodified.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, _ := g.authorize(r.Header, "path", r.URL.Path, "remote", r.RemoteAddr)
		if d != Allow {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
