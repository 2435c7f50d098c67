package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coverletter-backend/internal/shared/config"
)

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRouterPublicAndIdentityRoutes(t *testing.T) {
	r := NewRouter(RouterDeps{Config: config.Config{Env: "test"}})

	for _, path := range []string{"/health", "/api/v1/health", "/metrics"} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s expected 200, got %d", path, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("X-User-Id", "user-7")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"userId":"user-7"`) {
		t.Fatalf("unexpected /me response: %d %s", resp.Code, resp.Body.String())
	}
}

func TestRouterGenerationLimitDisabledByZeroRule(t *testing.T) {
	deps := RouterDeps{Config: config.Config{Env: "test"}}
	if generationLimit(deps) != nil {
		t.Fatalf("expected no limiter for a zero rule")
	}
	deps.Config.GenerationRateLimit.RPS = 1
	deps.Config.GenerationRateLimit.Burst = 1
	if generationLimit(deps) == nil {
		t.Fatalf("expected limiter for a positive rule")
	}
}
