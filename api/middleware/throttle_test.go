package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	pkgredis "github.com/angelmondragon/marketplace-backend/pkg/redis"
)

type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	scopes []string
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}}
}

func (f *fakeCounter) CountAttempt(_ context.Context, scope string, limit int64, window time.Duration) (pkgredis.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[scope]++
	f.scopes = append(f.scopes, scope)
	return pkgredis.Window{Count: f.counts[scope], Limit: limit, ResetIn: window - 500*time.Millisecond}, nil
}

func errorCodeOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Error.Code
}

func credentialRequest(path, ip, email string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"email":"`+email+`","password":"secret"}`))
	req.RemoteAddr = ip + ":51000"
	return req
}

func TestAuthThrottlePassesBodyThrough(t *testing.T) {
	policy := ThrottlePolicy{Name: "login", Window: time.Minute, PerIP: 2, PerEmail: 2}
	var seen string
	handler := AuthThrottle(policy, newFakeCounter(), testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = string(body)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, credentialRequest("/api/v1/auth/login", "1.2.3.4", "buyer@example.com"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, seen, `"email":"buyer@example.com"`)
}

func TestAuthThrottleBlocksByEmail(t *testing.T) {
	policy := ThrottlePolicy{Name: "login", Window: time.Minute, PerEmail: 2}
	handler := AuthThrottle(policy, newFakeCounter(), testLogger())(okHandler())

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for _, ip := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, credentialRequest("/api/v1/auth/login", ip, "vendor@example.com"))
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "60", last.Header().Get("Retry-After"))
	assert.Equal(t, string(pkgerrors.CodeRateLimit), errorCodeOf(t, last))
}

func TestAuthThrottleBlocksByAddress(t *testing.T) {
	policy := ThrottlePolicy{Name: "signup", Window: 5 * time.Minute, PerIP: 1}
	handler := AuthThrottle(policy, newFakeCounter(), testLogger())(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, credentialRequest("/api/v1/auth/signup", "5.6.7.8", "a@example.com"))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, credentialRequest("/api/v1/auth/signup", "5.6.7.8", "b@example.com"))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "300", second.Header().Get("Retry-After"))
}

func TestAuthThrottleNormalizesAndHidesEmail(t *testing.T) {
	counter := newFakeCounter()
	policy := ThrottlePolicy{Name: "login", Window: time.Minute, PerEmail: 1}
	handler := AuthThrottle(policy, counter, testLogger())(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, credentialRequest("/api/v1/auth/login", "1.1.1.1", "Case@Example.com"))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, credentialRequest("/api/v1/auth/login", "1.1.1.1", " case@example.com "))

	assert.Equal(t, http.StatusTooManyRequests, second.Code, "normalized emails share one counter")
	require.Len(t, counter.scopes, 2)
	assert.Equal(t, counter.scopes[0], counter.scopes[1])
	assert.NotContains(t, counter.scopes[0], "example.com")
}

func TestAuthThrottleDisabled(t *testing.T) {
	cases := map[string]struct {
		policy  ThrottlePolicy
		counter AttemptCounter
	}{
		"no counter":  {policy: ThrottlePolicy{Name: "login", Window: time.Minute, PerIP: 1}},
		"no window":   {policy: ThrottlePolicy{Name: "login", PerIP: 1}, counter: newFakeCounter()},
		"zero limits": {policy: ThrottlePolicy{Name: "login", Window: time.Minute}, counter: newFakeCounter()},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			handler := AuthThrottle(tc.policy, tc.counter, testLogger())(okHandler())
			for i := 0; i < 3; i++ {
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, credentialRequest("/api/v1/auth/login", "9.9.9.9", "a@example.com"))
				assert.Equal(t, http.StatusOK, rec.Code)
			}
		})
	}
}
