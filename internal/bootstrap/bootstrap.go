package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/unionhq/union/internal/app/controllers"
	appMigrations "github.com/unionhq/union/internal/app/migrations"
	appRepos "github.com/unionhq/union/internal/app/repositories"
	appRoutes "github.com/unionhq/union/internal/app/routes"
	appServices "github.com/unionhq/union/internal/app/services"
	"github.com/unionhq/union/internal/config"
	"github.com/unionhq/union/internal/db"
	appMiddleware "github.com/unionhq/union/internal/middleware"
	pkgAuth "github.com/unionhq/union/internal/pkg/auth"
	"github.com/unionhq/union/internal/pkg/logger"
	"github.com/unionhq/union/internal/pkg/view"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         *appServices.AuthService
	AdmissionService    *appServices.AdmissionService
	SessionService      *appServices.SessionService
	AuthController      *appControllers.AuthController
	AdmissionController *appControllers.AdmissionController
	SessionMiddleware   *appMiddleware.SessionMiddleware
	Repos               *appRepos.Repositories
	ResetTokenService   *pkgAuth.ResetTokenService
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// BuildDependencies wires repositories, services, controllers and middleware.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	repos := appRepos.NewRepositories(dbPool)

	resetTokens := pkgAuth.NewResetTokenService(pkgAuth.ResetTokenConfig{
		SecretKey: cfg.Auth.ResetSecret,
		TTL:       cfg.ResetTokenTTL(),
		Issuer:    cfg.Auth.Issuer,
	})

	sessionService := appServices.NewSessionService(repos.SessionRepository, cfg.SessionTTL(), lgr)
	authService := appServices.NewAuthService(repos.UserRepository, repos.AdmissionRepository, resetTokens, lgr)
	admissionService := appServices.NewAdmissionService(repos.AdmissionRepository, lgr)

	sessionMiddleware := appMiddleware.NewSessionMiddleware(sessionService, lgr)
	authController := appControllers.NewAuthController(authService, sessionService, cfg.Session.CookieSecure, lgr)
	admissionController := appControllers.NewAdmissionController(admissionService, lgr)

	return &Dependencies{
		AuthService:         authService,
		AdmissionService:    admissionService,
		SessionService:      sessionService,
		AuthController:      authController,
		AdmissionController: admissionController,
		SessionMiddleware:   sessionMiddleware,
		Repos:               repos,
		ResetTokenService:   resetTokens,
		Logger:              lgr,
	}, nil
}

// SetupRouter creates the gin engine, loads views, and registers routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.SetHTMLTemplate(view.MustTemplates())

	appRoutes.SetupRouter(router, deps.AuthController, deps.AdmissionController, deps.SessionMiddleware)

	return router
}
