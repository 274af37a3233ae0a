package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/railway-seat-reservation/internal/config"
	"github.com/iliyamo/railway-seat-reservation/internal/utils"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/schedules/3/bookings", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/schedules/:id/bookings")

	tests := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:10.0.0.7"},
		{"route", "rl:route:POST /v1/schedules/:id/bookings"},
		{"ip_route", "rl:ip:10.0.0.7:route:POST /v1/schedules/:id/bookings"},
		{"something-else", "rl:ip:10.0.0.7:route:POST /v1/schedules/:id/bookings"},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			got := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: tt.strategy}, c)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	e := echo.New()
	called := 0
	h := func(c echo.Context) error {
		called++
		return c.String(http.StatusOK, "ok")
	}
	limited := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, quietLogger())(h)
	cached := NewRedisCache(config.CacheConfig{Enabled: true}, nil, quietLogger())(h)

	for _, fn := range []echo.HandlerFunc{limited, cached} {
		rec := httptest.NewRecorder()
		require.NoError(t, fn(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, called)
}

func TestCacheKeyStrategies(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/coach-types?x=1", nil), httptest.NewRecorder())
	c.SetPath("/v1/coach-types")

	withQuery := cacheKeyFrom(config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}, c)
	routeOnly := cacheKeyFrom(config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}, c)
	assert.True(t, strings.HasPrefix(withQuery, "cache:"))
	assert.NotEqual(t, withQuery, routeOnly)
	assert.Equal(t, withQuery, cacheKeyFrom(config.CacheConfig{Prefix: "cache"}, c))
}

func TestCaptureWriterOverflow(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	assert.False(t, cw.overflow)
	_, _ = cw.Write([]byte("def"))
	assert.True(t, cw.overflow)
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestCheckoutAuth(t *testing.T) {
	signer := utils.NewCheckoutSigner("secret", time.Minute)
	tok, err := signer.Issue(11, "PNR0011ABCDE")
	require.NoError(t, err)

	e := echo.New()
	var seen *utils.CheckoutClaims
	h := CheckoutAuth(signer)(func(c echo.Context) error {
		seen, _ = CheckoutClaimsFrom(c)
		return c.NoContent(http.StatusNoContent)
	})

	run := func(id, header, value string) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/bookings/"+id+"/pay", nil)
		if header != "" {
			req.Header.Set(header, value)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(id)
		require.NoError(t, h(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, run("11", "Authorization", "Bearer "+tok.Token))
	require.NotNil(t, seen)
	assert.Equal(t, "PNR0011ABCDE", seen.PNR)
	assert.Equal(t, http.StatusNoContent, run("11", CheckoutHeader, tok.Token))
	assert.Equal(t, http.StatusUnauthorized, run("12", CheckoutHeader, tok.Token))
	assert.Equal(t, http.StatusUnauthorized, run("11", CheckoutHeader, "garbage"))
	assert.Equal(t, http.StatusUnauthorized, run("11", "", ""))
}

func TestCheckoutAuthReadsTokenFromBody(t *testing.T) {
	signer := utils.NewCheckoutSigner("secret", time.Minute)
	tok, err := signer.Issue(11, "PNR0011ABCDE")
	require.NoError(t, err)

	e := echo.New()
	var card string
	h := CheckoutAuth(signer)(func(c echo.Context) error {
		var body struct {
			Card string `json:"card"`
		}
		if err := c.Bind(&body); err != nil {
			return err
		}
		card = body.Card
		return c.NoContent(http.StatusNoContent)
	})

	run := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/bookings/11/pay", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("11")
		require.NoError(t, h(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, run(`{"checkout_token":"`+tok.Token+`","card":"4242"}`))
	assert.Equal(t, "4242", card)
	assert.Equal(t, http.StatusUnauthorized, run(`{"checkout_token":"garbage","card":"4242"}`))
	assert.Equal(t, http.StatusUnauthorized, run(`{"card":"4242"}`))
}
