package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-ticket-ledger/internal/config"
)

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBuildRateKey(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/v1/reservations")
	c.SetPath("/v1/reservations")

	tests := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:10.0.0.7"},
		{"route", "rl:route:POST /v1/reservations"},
		{"ip_route", "rl:ip:10.0.0.7:route:POST /v1/reservations"},
		{"", "rl:ip:10.0.0.7:route:POST /v1/reservations"},
	}
	for _, tt := range tests {
		cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: tt.strategy}
		assert.Equal(t, tt.want, buildRateKey(cfg, c), "strategy %q", tt.strategy)
	}
}

func TestCacheKeyFrom(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a, _ := newContext(http.MethodGet, "/v1/movies/Frozen%20II/showtimes")
	b, _ := newContext(http.MethodGet, "/v1/movies/Dune/showtimes")
	a2, _ := newContext(http.MethodGet, "/v1/movies/Frozen%20II/showtimes")

	ka, kb := cacheKeyFrom(cfg, a, 0), cacheKeyFrom(cfg, b, 0)
	assert.True(t, strings.HasPrefix(ka, "cache:0:"))
	assert.NotEqual(t, ka, kb)
	assert.Equal(t, ka, cacheKeyFrom(cfg, a2, 0))
	assert.NotEqual(t, ka, cacheKeyFrom(cfg, a2, 1), "a new write generation must change the key")
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`["Frozen II"]`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `["Frozen II"]`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 0})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok)
}

func TestCaptureWriter_Limit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("defg"))

	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, int64(7), cw.size)
	assert.Equal(t, "abcdefg", rec.Body.String())
}

func TestMiddleware_DisabledWithoutRedis(t *testing.T) {
	called := 0
	next := func(c echo.Context) error {
		called++
		return c.String(http.StatusOK, "ok")
	}

	for _, mw := range []echo.MiddlewareFunc{
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil),
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
	} {
		c, rec := newContext(http.MethodGet, "/v1/movies")
		require.NoError(t, mw(next)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, called)
}
