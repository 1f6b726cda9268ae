package httpadapter

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/summary-service/internal/config"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func accessLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry["msg"] == "summary_http_request" {
			return entry
		}
	}
	t.Fatalf("no access log line in %q", buf.String())
	return nil
}

func TestAccessLogCarriesSummaryIDAndRoute(t *testing.T) {
	env := newTestEnv(config.Config{})
	buf := captureLogs(t)

	req := httptest.NewRequest(http.MethodGet, "/get_summary/abc-123", nil)
	req.Header.Set(requestIDHeader, "req-7")
	env.handler.ServeHTTP(httptest.NewRecorder(), req)

	entry := accessLogLine(t, buf)
	if entry["summary_id"] != "abc-123" {
		t.Fatalf("expected summary_id, got %v", entry)
	}
	if entry["route"] != "GET /get_summary/{id}" {
		t.Fatalf("expected route pattern, got %v", entry["route"])
	}
	if entry["request_id"] != "req-7" || entry["status"] != float64(http.StatusNotFound) || entry["level"] != "WARN" {
		t.Fatalf("unexpected access log %v", entry)
	}
}

func TestAccessLogOmitsSummaryIDOnCollectionRoutes(t *testing.T) {
	env := newTestEnv(config.Config{})
	buf := captureLogs(t)

	env.handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	entry := accessLogLine(t, buf)
	if _, ok := entry["summary_id"]; ok {
		t.Fatalf("unexpected summary_id on healthz: %v", entry)
	}
	if entry["level"] != "INFO" {
		t.Fatalf("expected info level, got %v", entry["level"])
	}
}

func TestOversizedRequestIDIsReplaced(t *testing.T) {
	env := newTestEnv(config.Config{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	res := httptest.NewRecorder()
	env.handler.ServeHTTP(res, req)

	if got := res.Header().Get(requestIDHeader); len(got) != 36 {
		t.Fatalf("expected generated uuid, got %q", got)
	}
}
