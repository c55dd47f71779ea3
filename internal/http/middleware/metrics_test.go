package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestMetrics_CountsRequestsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api/v1/messages", func(c *gin.Context) { c.String(http.StatusOK, "[]") })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/messages?room=general", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("unexpected status %d", w.Code)
		}
	}

	// 404s fall back to the raw path label.
	w404 := httptest.NewRecorder()
	r.ServeHTTP(w404, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w404.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w404.Code)
	}

	scrape := httptest.NewRecorder()
	r.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := scrape.Body.String()

	if !strings.Contains(body, `http_requests_total{method="GET",path="/api/v1/messages",status="200"}`) {
		t.Fatalf("expected route-labelled counter in scrape output")
	}
	// Route label must be the registered pattern, never the raw query string.
	if strings.Contains(body, "room=general") {
		t.Fatalf("raw query leaked into metric labels")
	}
	if !strings.Contains(body, "http_request_duration_seconds") {
		t.Fatalf("expected latency histogram in scrape output")
	}
}
