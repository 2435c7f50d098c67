package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/coverletters"
	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/llm/gemini"
	"coverletter-backend/internal/llm/openai"
	"coverletter-backend/internal/profiles"
	"coverletter-backend/internal/shared/config"
	"coverletter-backend/internal/shared/server"
	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/storage/db"
	"coverletter-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Generator          llm.Generator
	CoverLettersRepo   coverletters.Repo
	ProfilesRepo       profiles.Repo
	CoverLetterService *coverletters.Service
	ProfileService     *profiles.Service
	CoverLetterHandler *coverletters.Handler
	ProfileHandler     *profiles.Handler

	closers []io.Closer
}

// Option adjusts Build for tests and alternative entry points.
type Option func(*buildOptions)

type buildOptions struct {
	generator llm.Generator
}

// WithGenerator replaces the provider selected by LLM_PROVIDER.
func WithGenerator(gen llm.Generator) Option {
	return func(o *buildOptions) { o.generator = gen }
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	if sqlDB != nil {
		app.closers = append(app.closers, sqlDB)
	}

	gen := bo.generator
	if gen == nil {
		gen, err = buildGenerator(ctx, app, cfg)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
	}
	app.Generator = gen

	styles, err := buildStyles(cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	buildServices(app, styles)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             app.Config,
		CoverLetterHandler: app.CoverLetterHandler,
		ProfileHandler:     app.ProfileHandler,
		Limiter:            middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// Close releases the database pool and provider clients.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

func buildGenerator(ctx context.Context, app *App, cfg config.Config) (llm.Generator, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			if isDevLike(cfg.Env) {
				telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"provider": cfg.LLMProvider, "reason": "OPENAI_API_KEY empty"})
				return llm.PlaceholderGenerator{}, nil
			}
			return nil, fmt.Errorf("OPENAI_API_KEY is required for LLM_PROVIDER=openai")
		}
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.GenerationTimeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			if isDevLike(cfg.Env) {
				telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"provider": cfg.LLMProvider, "reason": "GEMINI_API_KEY empty"})
				return llm.PlaceholderGenerator{}, nil
			}
			return nil, fmt.Errorf("GEMINI_API_KEY is required for LLM_PROVIDER=gemini")
		}
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, client)
		return client, nil
	default:
		return llm.PlaceholderGenerator{}, nil
	}
}

func buildStyles(cfg config.Config) ([]coverletters.StyleSpec, error) {
	if cfg.StylesFile == "" {
		return coverletters.DefaultStyles(), nil
	}
	return coverletters.LoadStyles(cfg.StylesFile)
}

func buildServices(app *App, styles []coverletters.StyleSpec) {
	var (
		letterRepo  coverletters.Repo
		profileRepo profiles.Repo
	)
	if app.DB != nil {
		letterRepo = &coverletters.PGRepo{DB: app.DB}
		profileRepo = &profiles.PGRepo{DB: app.DB}
	} else {
		letterRepo = coverletters.NewMemoryRepo()
		profileRepo = profiles.NewMemoryRepo()
	}

	profileSvc := profiles.NewService(profileRepo)
	letterSvc := coverletters.NewService(letterRepo, app.Generator, profileSource{svc: profileSvc}, coverletters.Options{
		Timeout:     app.Config.GenerationTimeout,
		MaxParallel: app.Config.GenerationMaxParallel,
		Styles:      styles,
	})

	app.CoverLettersRepo = letterRepo
	app.ProfilesRepo = profileRepo
	app.ProfileService = profileSvc
	app.CoverLetterService = letterSvc
	app.ProfileHandler = profiles.NewHandler(profileSvc)
	app.CoverLetterHandler = coverletters.NewHandler(letterSvc)
}

// profileSource exposes stored profiles to cover letter generation.
type profileSource struct {
	svc *profiles.Service
}

func (p profileSource) SubjectProfile(ctx context.Context, ownerID string) (coverletters.SubjectProfile, error) {
	profile, err := p.svc.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return coverletters.SubjectProfile{}, coverletters.ErrProfileRequired
		}
		return coverletters.SubjectProfile{}, err
	}
	if !profile.Onboarded() {
		return coverletters.SubjectProfile{}, coverletters.ErrProfileRequired
	}
	return coverletters.SubjectProfile{
		Industry:        profile.Industry,
		ExperienceYears: profile.ExperienceYears,
		Skills:          profile.Skills,
		Bio:             profile.Bio,
		ResumeText:      profile.ResumeText,
	}, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
