package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/marketplace-backend/pkg/redis"
)

// maxThrottledBody bounds how much of a credential payload is buffered to find the email.
const maxThrottledBody = 64 << 10

// AttemptCounter counts attempts per scope in fixed windows.
type AttemptCounter interface {
	CountAttempt(ctx context.Context, scope string, limit int64, window time.Duration) (pkgredis.Window, error)
}

// ThrottlePolicy limits one credential endpoint. Attempts are counted per client address and per
// normalized email; a zero limit disables that dimension.
type ThrottlePolicy struct {
	Name     string
	Window   time.Duration
	PerIP    int
	PerEmail int
}

func (p ThrottlePolicy) active() bool {
	return p.Window > 0 && (p.PerIP > 0 || p.PerEmail > 0)
}

// AuthThrottle rejects credential attempts past the policy limits with RATE_LIMIT_EXCEEDED and a
// Retry-After header. Without a counter (no redis configured) it is a no-op.
func AuthThrottle(policy ThrottlePolicy, counter AttemptCounter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if counter == nil || !policy.active() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.PerIP > 0 {
				if ip := remoteHost(r); ip != "" {
					if !checkAttempt(ctx, w, counter, logg, policy, "ip", ip, policy.PerIP) {
						return
					}
				}
			}

			if policy.PerEmail > 0 {
				body, err := io.ReadAll(io.LimitReader(r.Body, maxThrottledBody))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := emailIn(body); email != "" {
					if !checkAttempt(ctx, w, counter, logg, policy, "email", digest(email), policy.PerEmail) {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// checkAttempt counts one attempt and writes the rejection itself when the caller must stop.
func checkAttempt(ctx context.Context, w http.ResponseWriter, counter AttemptCounter, logg *logger.Logger, policy ThrottlePolicy, dimension, subject string, limit int) bool {
	scope := policy.Name + ":" + dimension + ":" + subject
	window, err := counter.CountAttempt(ctx, scope, int64(limit), policy.Window)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count auth attempt"))
		return false
	}
	if window.Allowed() {
		return true
	}

	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"policy":    policy.Name,
			"dimension": dimension,
			"attempts":  window.Count,
			"limit":     limit,
			"reset_in":  window.ResetIn.String(),
		}), "auth.throttled")
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(window.ResetIn)))
	responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
	return false
}

func retryAfterSeconds(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	return int(math.Ceil(d.Seconds()))
}

// remoteHost relies on chi's RealIP having already rewritten RemoteAddr from proxy headers.
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func emailIn(body []byte) string {
	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	return users.NormalizeEmail(payload.Email)
}

// digest keeps raw emails out of redis keys and logs.
func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:12])
}
