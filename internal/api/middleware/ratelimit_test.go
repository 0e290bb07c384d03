package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newLimitedEcho(max int) *echo.Echo {
	e := echo.New()
	e.Use(RateLimit(NewMemoryStore(max, 15*time.Minute)))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/api/hello", ok)
	e.GET("/health", ok)
	return e
}

func doGet(e *echo.Echo, path, ip string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimit_BlocksAfterMax(t *testing.T) {
	e := newLimitedEcho(3)

	for i := 0; i < 3; i++ {
		if code := doGet(e, "/api/hello", "10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
	if code := doGet(e, "/api/hello", "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if code := doGet(e, "/api/hello", "10.0.0.2"); code != http.StatusOK {
		t.Fatalf("other clients must not be limited, got %d", code)
	}
}

func TestRateLimit_SkipsHealth(t *testing.T) {
	e := newLimitedEcho(1)

	for i := 0; i < 5; i++ {
		if code := doGet(e, "/health", "10.0.0.1"); code != http.StatusOK {
			t.Fatalf("health check %d limited: %d", i+1, code)
		}
	}
}

func TestClientIP(t *testing.T) {
	_, proxies, _ := net.ParseCIDR("10.0.0.0/8")

	tests := []struct {
		name    string
		trusted []*net.IPNet
		peer    string
		xff     string
		want    string
	}{
		{name: "direct ignores forwarded header", peer: "203.0.113.7", xff: "1.2.3.4", want: "203.0.113.7"},
		{name: "trusted proxy forwards client", trusted: []*net.IPNet{proxies}, peer: "10.1.2.3", xff: "1.2.3.4", want: "1.2.3.4"},
		{name: "untrusted peer keeps its address", trusted: []*net.IPNet{proxies}, peer: "203.0.113.7", xff: "1.2.3.4", want: "203.0.113.7"},
		{name: "private peer is not trusted implicitly", trusted: []*net.IPNet{proxies}, peer: "192.168.1.5", xff: "1.2.3.4", want: "192.168.1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.peer + ":1234"
			req.Header.Set(echo.HeaderXForwardedFor, tt.xff)

			if got := ClientIP(tt.trusted)(req); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
