package adapthttp

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	s := &Server{log: zerolog.New(&buf)}

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("OK"))
	})
	handler := s.loggingMiddleware(nextHandler)

	req := httptest.NewRequest("GET", "/test-path", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status %d, got %d", http.StatusTeapot, w.Code)
	}
	if got := w.Header().Get(requestIDHeader); got != "req-123" {
		t.Errorf("Expected request id to be echoed, got %q", got)
	}

	logOutput := buf.String()
	for _, want := range []string{`"method":"GET"`, `"path":"/test-path"`, `"status":418`, `"request_id":"req-123"`} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("Log output missing %s. Got: %s", want, logOutput)
		}
	}
}

func TestLoggingMiddleware_GeneratesRequestID(t *testing.T) {
	s := &Server{log: zerolog.Nop()}
	handler := s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if len(w.Header().Get(requestIDHeader)) != 36 {
		t.Errorf("Expected a uuid request id, got %q", w.Header().Get(requestIDHeader))
	}
}
