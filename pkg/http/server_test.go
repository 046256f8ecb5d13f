package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestServerExportsRequestMetrics(t *testing.T) {
	s := NewServer(nil)

	// first request gives the counters a sample
	first := httptest.NewRecorder()
	s.Echo().ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("metrics endpoint status = %d", first.Code)
	}

	second := httptest.NewRecorder()
	s.Echo().ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(second.Body.String(), "http_requests_total") {
		t.Fatalf("request counters not exported after serving a request")
	}
}
