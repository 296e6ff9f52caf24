// Package httpx holds the HTTP middleware shared by the zodiac API and the
// MCP server: origin allowlisting, a global token bucket and optional API
// key checks.
package httpx

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	DefaultRPS   = 2
	DefaultBurst = 5
)

// Options configures Wrap.
type Options struct {
	// AllowedOrigins lists the Origin values that may call the handler.
	// "*" allows any origin. Requests without an Origin header are not
	// affected.
	AllowedOrigins []string
	RPS            float64
	Burst          int
	// APIKey, when set, must be sent as X-API-Key or a Bearer token.
	APIKey  string
	Methods string
	Headers string
}

func (o Options) withDefaults() Options {
	if o.RPS <= 0 {
		o.RPS = DefaultRPS
	}
	if o.Burst <= 0 {
		o.Burst = DefaultBurst
	}
	if o.Methods == "" {
		o.Methods = "GET, OPTIONS"
	}
	if o.Headers == "" {
		o.Headers = "Content-Type, Accept, Authorization, X-API-Key"
	}
	return o
}

// Wrap applies the origin check, rate limit and API key check, in that
// order, before calling next.
func Wrap(next http.Handler, opts Options) http.Handler {
	opts = opts.withDefaults()

	anyOrigin := false
	allowedOrigins := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, origin := range opts.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			anyOrigin = true
			continue
		}
		allowedOrigins[origin] = struct{}{}
	}

	limiter := newTokenBucket(opts.RPS, opts.Burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin != "" {
			if _, ok := allowedOrigins[origin]; !ok && !anyOrigin {
				http.Error(w, "origin not allowed", http.StatusForbidden)
				return
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", opts.Methods)
			w.Header().Set("Access-Control-Allow-Headers", opts.Headers)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		if !limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		if opts.APIKey != "" && !ValidAPIKey(r, opts.APIKey) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ValidAPIKey reports whether r carries expected in X-API-Key or in an
// "Authorization: Bearer" header.
func ValidAPIKey(r *http.Request, expected string) bool {
	if secureEqual(strings.TrimSpace(r.Header.Get("X-API-Key")), expected) {
		return true
	}
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return false
	}
	return secureEqual(parts[1], expected)
}

func secureEqual(a, b string) bool {
	if a == "" || len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

type tokenBucket struct {
	mu     sync.Mutex
	rps    float64
	burst  float64
	tokens float64
	last   time.Time
	now    func() time.Time
}

func newTokenBucket(rps float64, burst int) *tokenBucket {
	b := float64(burst)
	return &tokenBucket{
		rps:    rps,
		burst:  b,
		tokens: b,
		last:   time.Now(),
		now:    time.Now,
	}
}

func (b *tokenBucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.tokens += now.Sub(b.last).Seconds() * b.rps
	b.last = now
	if b.tokens > b.burst {
		b.tokens = b.burst
	}
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
