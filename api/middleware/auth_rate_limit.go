package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/api/responses"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const maxAuthBodyBytes = 64 << 10

// RateLimiterStore counts hits per key inside a TTL window.
type RateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy is one named window with independent per-IP and
// per-identifier ceilings. A zero limit disables that counter.
type AuthRateLimitPolicy struct {
	name            string
	window          time.Duration
	ipLimit         int
	identifierLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, identifierLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{name: name, window: window, ipLimit: ipLimit, identifierLimit: identifierLimit}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.identifierLimit > 0)
}

// rateCounter is a single key checked against a single limit.
type rateCounter struct {
	scope string
	key   string
	limit int
	// logged alongside a block; raw identifiers are never logged
	logField, logValue string
}

func (p AuthRateLimitPolicy) counters(ip string, body []byte) []rateCounter {
	var out []rateCounter
	if p.ipLimit > 0 && ip != "" {
		out = append(out, rateCounter{
			scope: "ip", key: fmt.Sprintf("rl:ip:%s:%s", p.name, ip), limit: p.ipLimit,
			logField: "ip", logValue: ip,
		})
	}
	if p.identifierLimit > 0 {
		if identifier := normalizeIdentifier(extractIdentifier(body)); identifier != "" {
			hash := hashValue(identifier)
			out = append(out, rateCounter{
				scope: "identifier", key: fmt.Sprintf("rl:identifier:%s:%s", p.name, hash), limit: p.identifierLimit,
				logField: "identifier_hash", logValue: hash,
			})
		}
	}
	return out
}

// AuthRateLimit throttles login and registration. The identifier counter
// keys on the login identifier, or the email or phone submitted on
// registration, hashed. The body is buffered and handed on unchanged.
func AuthRateLimit(policy AuthRateLimitPolicy, store RateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var body []byte
			if policy.identifierLimit > 0 && r.Body != nil {
				var err error
				body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxAuthBodyBytes))
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body too large or unreadable"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			for _, c := range policy.counters(clientIP(r), body) {
				count, err := store.IncrWithTTL(ctx, c.key, policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if count > int64(c.limit) {
					rejectRateLimited(ctx, logg, w, policy, c, count)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rejectRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy AuthRateLimitPolicy, c rateCounter, count int64) {
	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"policy":         policy.name,
			"scope":          c.scope,
			"attempts":       count,
			"limit":          c.limit,
			"window_seconds": int(policy.window.Seconds()),
			c.logField:       c.logValue,
		}), "auth.rate_limit.blocked")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(policy.window.Seconds())))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
}

// clientIP reads RemoteAddr. chi's RealIP middleware runs first in the
// router and has already applied X-Forwarded-For / X-Real-IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

func extractIdentifier(payload []byte) string {
	var body struct {
		Identifier string `json:"identifier"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
	}
	if json.Unmarshal(payload, &body) != nil {
		return ""
	}
	for _, candidate := range []string{body.Identifier, body.Email, body.Phone} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

func normalizeIdentifier(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
