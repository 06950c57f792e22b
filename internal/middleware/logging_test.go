package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	e.Use(RequestLogger(logger))
	e.POST("/fetch", func(c echo.Context) error {
		return c.String(http.StatusForbidden, "target host is not allowed")
	})

	req := httptest.NewRequest(http.MethodPost, "/fetch?url=x", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	line := buf.String()
	if !strings.Contains(line, "method=POST") {
		t.Errorf("log line missing method: %q", line)
	}
	if !strings.Contains(line, "path=/fetch") {
		t.Errorf("log line missing path: %q", line)
	}
	if !strings.Contains(line, "status=403") {
		t.Errorf("log line missing status: %q", line)
	}
}
