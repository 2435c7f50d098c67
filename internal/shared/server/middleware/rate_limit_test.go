package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newLimitedRouter(limit gin.HandlerFunc, owner string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", owner)
		c.Next()
	})
	r.GET("/api/v1/cover-letters/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/api/v1/cover-letters", limit, func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	r.POST("/api/v1/cover-letters/:id/variants/:variantId/rewrite", limit, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRateLimitOnlyGenerativeRoutesAreLimited(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limit := RateLimit(RateLimitConfig{
		Rule:    RateLimitRule{Rate: 0.1, Burst: 2},
		Limiter: NewRateLimiter(func() time.Time { return now }),
	})
	r := newLimitedRouter(limit, "guest:test-guest")

	for i := 0; i < 5; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cover-letters/doc-1", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("read request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/cover-letters", nil))
	if resp.Code != http.StatusCreated {
		t.Fatalf("create expected 201, got %d", resp.Code)
	}
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/cover-letters/doc-1/variants/variant1/rewrite", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("rewrite expected 200, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/cover-letters", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("third generative request expected 429, got %d", resp.Code)
	}
}

func TestRateLimit429UsesErrorEnvelope(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limit := RateLimit(RateLimitConfig{
		Rule:    RateLimitRule{Rate: 0.5, Burst: 1},
		Limiter: NewRateLimiter(func() time.Time { return now }),
	})
	r := newLimitedRouter(limit, "user-7")

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/v1/cover-letters", nil))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected first request 201, got %d", first.Code)
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/cover-letters", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if got := resp.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("expected Retry-After 2, got %q", got)
	}

	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				RetryAfterMs int64 `json:"retryAfterMs"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error.Code != "rate_limited" {
		t.Fatalf("expected code rate_limited, got %q", payload.Error.Code)
	}
	if payload.Error.Details.RetryAfterMs != 2000 {
		t.Fatalf("expected retryAfterMs 2000, got %d", payload.Error.Details.RetryAfterMs)
	}
}

func TestRateLimitDisabledRuleAllowsAll(t *testing.T) {
	r := newLimitedRouter(RateLimit(RateLimitConfig{}), "user-1")
	for i := 0; i < 10; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/cover-letters", nil))
		if resp.Code != http.StatusCreated {
			t.Fatalf("request %d expected 201, got %d", i+1, resp.Code)
		}
	}
}

func TestRateLimiterBucketsArePerOwner(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if ok, _ := limiter.Allow(bucketKey(GenerationGroup, "user-1"), rule); !ok {
		t.Fatalf("expected user-1 allowed")
	}
	if ok, _ := limiter.Allow(bucketKey(GenerationGroup, "user-2"), rule); !ok {
		t.Fatalf("expected user-2 unaffected by user-1")
	}
	if ok, _ := limiter.Allow(bucketKey(GenerationGroup, "user-1"), rule); ok {
		t.Fatalf("expected user-1 denied")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected first call allowed")
	}
	ok, retry := limiter.Allow("k", rule)
	if ok || retry <= 0 {
		t.Fatalf("expected denial with retry, got ok=%v retry=%v", ok, retry)
	}
	now = now.Add(1500 * time.Millisecond)
	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected call allowed after refill")
	}
}

func TestRateLimiterPrunesRefilledBuckets(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	for i := 0; i < pruneThreshold; i++ {
		limiter.Allow(bucketKey(GenerationGroup, fmt.Sprintf("owner-%d", i)), rule)
	}
	if got := limiter.size(); got != pruneThreshold {
		t.Fatalf("expected %d buckets, got %d", pruneThreshold, got)
	}

	now = now.Add(time.Minute)
	limiter.Allow(bucketKey(GenerationGroup, "late-owner"), rule)
	if got := limiter.size(); got != 1 {
		t.Fatalf("expected idle buckets pruned, got %d", got)
	}
}
