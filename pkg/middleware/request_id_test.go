package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRequestIDAssignsAndEchoes(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatalf("no request id assigned")
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-Id"); got != "req-123" {
		t.Fatalf("caller-supplied id not echoed: %s", got)
	}
}

func TestGetLoggerFallsBack(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if GetLogger(c) == nil {
		t.Fatalf("expected fallback logger")
	}
}
