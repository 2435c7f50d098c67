package middleware

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/server/respond"
	"coverletter-backend/internal/shared/telemetry"
)

// GenerationGroup is the bucket namespace shared by every route that calls the
// text generator: creating a cover letter and rewriting, shortening or
// expanding one of its variants draw from the same per-owner budget.
const GenerationGroup = "generation"

// pruneThreshold is the bucket count above which idle, refilled buckets are dropped.
const pruneThreshold = 4096

// RateLimitRule is a token bucket refilled at Rate tokens per second up to Burst.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

func (r RateLimitRule) enabled() bool {
	return r.Rate > 0 && r.Burst > 0
}

// RateLimitConfig configures RateLimit. Group defaults to GenerationGroup.
type RateLimitConfig struct {
	Group   string
	Rule    RateLimitRule
	Limiter *RateLimiter
}

// RateLimiter keeps one token bucket per owner and group.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
	rule   RateLimitRule
}

// NewRateLimiter constructs a limiter; now defaults to time.Now.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

// RateLimit rations requests per owner, as resolved by Identity, falling back
// to the client IP. A disabled rule lets every request through.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	group := strings.TrimSpace(cfg.Group)
	if group == "" {
		group = GenerationGroup
	}
	return func(c *gin.Context) {
		if !cfg.Rule.enabled() {
			c.Next()
			return
		}
		owner := strings.TrimSpace(UserIDFromContext(c))
		if owner == "" {
			owner = "ip:" + c.ClientIP()
		}
		allowed, retryAfter := cfg.Limiter.Allow(bucketKey(group, owner), cfg.Rule)
		if allowed {
			c.Next()
			return
		}
		telemetry.Warn("ratelimit.rejected", map[string]any{
			"user_id":        owner,
			"group":          group,
			"route":          c.FullPath(),
			"document_id":    c.Param("id"),
			"retry_after_ms": retryAfter.Milliseconds(),
		})
		respond.TooManyRequests(c, retryAfter)
	}
}

// Allow takes one token from the bucket at key and reports how long to wait
// when none is left.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || !rule.enabled() {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= pruneThreshold {
			l.pruneLocked(now)
		}
		bucket = &rateBucket{tokens: float64(rule.Burst), last: now}
		l.buckets[key] = bucket
	}
	bucket.rule = rule
	bucket.refill(now)

	if bucket.tokens >= 1 {
		bucket.tokens--
		return true, 0
	}
	waitSec := (1 - bucket.tokens) / rule.Rate
	return false, time.Duration(math.Ceil(waitSec*1000.0)) * time.Millisecond
}

func (b *rateBucket) refill(now time.Time) {
	elapsed := now.Sub(b.last).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens = math.Min(float64(b.rule.Burst), b.tokens+elapsed*b.rule.Rate)
	b.last = now
}

// pruneLocked drops buckets that have refilled completely; they behave exactly
// like a fresh bucket.
func (l *RateLimiter) pruneLocked(now time.Time) {
	for key, b := range l.buckets {
		b.refill(now)
		if b.tokens >= float64(b.rule.Burst) {
			delete(l.buckets, key)
		}
	}
}

func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func bucketKey(group, owner string) string {
	return group + "|" + owner
}
