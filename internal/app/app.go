package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/auth"
	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/config"
	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/delivery/httpd"
	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/repository"
	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/service"
	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/storage"
)

type App struct {
	server *http.Server
	logger zerolog.Logger
	config *config.Config
	db     *sql.DB
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	attachments, err := storage.NewAttachmentStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)

	userRepo := repository.NewUserRepository(db, log)
	courseRepo := repository.NewCourseRepository(db, log)
	taskRepo := repository.NewTaskRepository(db, log)

	authService := service.NewAuthService(userRepo, tokens, log)
	courseService := service.NewCourseService(courseRepo, log)
	taskService := service.NewTaskService(taskRepo, courseRepo, attachments, cfg.Upload.MaxFileSize, log)

	handler := httpd.NewHandler(
		authService,
		courseService,
		taskService,
		tokens,
		cfg.Upload.MaxFileSize,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server: server,
		logger: log,
		config: cfg,
		db:     db,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting EduNest backend on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down EduNest backend...")

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return a.server.Shutdown(ctx)
}
