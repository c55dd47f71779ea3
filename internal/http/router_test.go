package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bledchat/server/internal/config"
	"github.com/bledchat/server/internal/domain"
)

func testConfig() config.Config {
	return config.Config{
		Port:              "0",
		ReadTimeout:       time.Second,
		ReadHeaderTimeout: time.Second,
		WriteTimeout:      time.Second,
		IdleTimeout:       time.Second,
		MaxHeaderBytes:    1 << 20,
		GinMode:           "test",
		Chat: config.ChatConfig{
			RoomCap:         200,
			MaxMessageRunes: 4096,
			MaxFileBytes:    1 << 20,
		},
		RateRPS:   1000,
		RateBurst: 1000,
	}
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	r := gin.New()
	RegisterRoutes(r, NewStores(cfg), cfg)
	return r
}

func do(r *gin.Engine, method, path, body, contentType string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	r := newTestServer(t)
	w := do(r, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
}

func TestRouter_NoRouteAndNoMethod(t *testing.T) {
	r := newTestServer(t)

	w := do(r, http.MethodGet, "/nope", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("no-route status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_found") {
		t.Fatalf("expected not_found code, got %s", w.Body.String())
	}

	w = do(r, http.MethodDelete, "/api/v1/messages", "", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("no-method status = %d", w.Code)
	}
}

func TestRouter_MessageRoundTrip(t *testing.T) {
	r := newTestServer(t)

	body := `{"id":"m1","sender":"alice","room":"general","cipherText":"blob"}`
	w := do(r, http.MethodPost, "/api/v1/messages", body, "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d body=%s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/v1/messages?room=general", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var msgs []domain.Message
	if err := json.Unmarshal(w.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("list json: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != "m1" || msgs[0].CipherText != "blob" {
		t.Fatalf("unexpected history: %+v", msgs)
	}

	// Other rooms stay empty.
	w = do(r, http.MethodGet, "/api/v1/messages?room=random", "", "")
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}
}

func TestRouter_AuthFlow(t *testing.T) {
	r := newTestServer(t)

	w := do(r, http.MethodPost, "/api/v1/auth",
		`{"action":"signup","username":"alice","password":"hunter2"}`, "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("signup status = %d body=%s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/v1/auth",
		`{"action":"login","username":"alice","password":"wrong"}`, "application/json")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid password") {
		t.Fatalf("expected legacy error text, got %s", w.Body.String())
	}
}

func TestRouter_PresenceJoinBannerLandsInRoom(t *testing.T) {
	r := newTestServer(t)

	w := do(r, http.MethodPost, "/api/v1/presence",
		`{"username":"alice","action":"subscribe","room":"general"}`, "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("subscribe status = %d", w.Code)
	}

	w = do(r, http.MethodGet, "/api/v1/messages?room=general", "", "")
	var msgs []domain.Message
	if err := json.Unmarshal(w.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("list json: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Kind != domain.KindSystem {
		t.Fatalf("expected one system banner, got %+v", msgs)
	}
}

func TestRouter_RequestIDHeaderPresent(t *testing.T) {
	r := newTestServer(t)
	w := do(r, http.MethodGet, "/health", "", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID on every response")
	}
}
