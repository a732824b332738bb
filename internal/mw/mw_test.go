package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"consult-booking-backend/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 2))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/ping", nil).Code)

	w := serve(r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RateLimited")
}

func TestIPRateLimiter_ReusesLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	a := l.GetLimiter("10.0.0.1")
	assert.Same(t, a, l.GetLimiter("10.0.0.1"))
	assert.NotSame(t, a, l.GetLimiter("10.0.0.2"))
}

func TestResponseCache(t *testing.T) {
	responses := NewResponseCache(time.Minute)
	calls := 0

	r := gin.New()
	r.Use(responses.Handler())
	r.GET("/slots", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})
	r.GET("/broken", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})

	missesBefore := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("/slots", "miss"))

	first := serve(r, http.MethodGet, "/slots", nil)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := serve(r, http.MethodGet, "/slots", nil)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))
	assert.Equal(t, 1, calls)
	assert.Equal(t, missesBefore+1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("/slots", "miss")))

	// Parameter order does not matter, values do.
	serve(r, http.MethodGet, "/slots?days=7&from=2026-10-19", nil)
	assert.Equal(t, 2, calls)
	w := serve(r, http.MethodGet, "/slots?from=2026-10-19&days=7", nil)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)

	responses.Flush()
	third := serve(r, http.MethodGet, "/slots", nil)
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"calls":3}`, third.Body.String())

	serve(r, http.MethodGet, "/broken", nil)
	serve(r, http.MethodGet, "/broken", nil)
	assert.Equal(t, 5, calls)
}

func TestRequireAdmin(t *testing.T) {
	secret := []byte("test-secret")

	r := gin.New()
	r.GET("/admin", RequireAdmin(secret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextAdminKey))
	})

	valid, expires, err := IssueAdminToken(secret, "admin@example.com", time.Hour, time.Now())
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	expired, _, err := IssueAdminToken(secret, "admin@example.com", time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	forged, _, err := IssueAdminToken([]byte("other-secret"), "admin@example.com", time.Hour, time.Now())
	require.NoError(t, err)

	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, http.StatusUnauthorized},
		{"no role", "Bearer " + noRole, http.StatusUnauthorized},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			header := http.Header{}
			if tc.header != "" {
				header.Set("Authorization", tc.header)
			}
			w := serve(r, http.MethodGet, "/admin", header)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "admin@example.com", w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"kind":"Unauthorized"`)
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "204"))
	serve(r, http.MethodGet, "/items/1", nil)
	serve(r, http.MethodGet, "/items/2", nil)
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "204"))
	assert.Equal(t, before+2, after)

	unmatched := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))
	serve(r, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, unmatched+1, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))
}
