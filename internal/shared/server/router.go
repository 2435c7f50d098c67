package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/coverletters"
	"coverletter-backend/internal/profiles"
	"coverletter-backend/internal/shared/config"
	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/server/respond"
)

// RouterDeps lists the handlers mounted by NewRouter.
type RouterDeps struct {
	Config             config.Config
	CoverLetterHandler *coverletters.Handler
	ProfileHandler     *profiles.Handler
	Limiter            *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", health)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", health)

	authed := api.Group("")
	authed.Use(middleware.Identity())
	registerMeRoutes(authed)

	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterRoutes(authed)
	}
	if deps.CoverLetterHandler != nil {
		deps.CoverLetterHandler.RegisterRoutes(authed, generationLimit(deps))
	}

	return r
}

func health(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{"ok": true})
}

func generationLimit(deps RouterDeps) gin.HandlerFunc {
	rule := middleware.RateLimitRule{
		Rate:  deps.Config.GenerationRateLimit.RPS,
		Burst: deps.Config.GenerationRateLimit.Burst,
	}
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return nil
	}
	return middleware.RateLimit(middleware.RateLimitConfig{
		Group:   middleware.GenerationGroup,
		Rule:    rule,
		Limiter: deps.Limiter,
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
