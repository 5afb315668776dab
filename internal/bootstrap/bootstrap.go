package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/coursehub/internal/app/controllers"
	appMigrations "github.com/yigit/coursehub/internal/app/migrations"
	appRepos "github.com/yigit/coursehub/internal/app/repositories"
	appRoutes "github.com/yigit/coursehub/internal/app/routes"
	appServices "github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/config"
	"github.com/yigit/coursehub/internal/db"
	appMiddleware "github.com/yigit/coursehub/internal/middleware"
	pkgAuth "github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/helpers"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/seed"
)

// DefaultConfigPath is used when CONFIG_PATH is not set.
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	EnrollmentService    *appServices.EnrollmentService
	ProgressService      *appServices.ProgressService
	EnrollmentController *appControllers.EnrollmentController
	ProgressController   *appControllers.ProgressController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	UnitOfWork           appRepos.UnitOfWorkFactory
	JWTService           *pkgAuth.JWTService
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(config.GetEnv("CONFIG_PATH", DefaultConfigPath))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := logger.Logger()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the database and applies migrations. Demo data is
// created afterwards when seeding is enabled.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.Database, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")
	database, err := db.Open(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Gorm, lgr).Run(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.Database, lgr zerolog.Logger) (*Dependencies, error) {
	if database == nil || database.Gorm == nil {
		return nil, fmt.Errorf("database is not initialized")
	}
	deps := &Dependencies{Logger: lgr}

	// Data access: one unit of work per service call
	deps.UnitOfWork = appRepos.NewUnitOfWorkFactory(database.Gorm)

	// Auth
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	// Services
	deps.EnrollmentService = appServices.NewEnrollmentService(deps.UnitOfWork, lgr.With().Str("service", "enrollment").Logger())
	deps.ProgressService = appServices.NewProgressService(deps.UnitOfWork, lgr.With().Str("service", "progress").Logger())

	// Middleware
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	// Controllers
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)
	deps.ProgressController = appControllers.NewProgressController(deps.ProgressService)

	return deps, nil
}

// SeedDefaultData creates demo data when enabled. Outside production it logs
// a ready-to-use bearer token for every demo user.
func SeedDefaultData(cfg *config.Config, database *db.Database, deps *Dependencies, lgr zerolog.Logger) {
	if !cfg.Seed.Enabled {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	users, err := seed.CreateDefaultData(ctx, database.Gorm, seed.Options{
		Password: cfg.Seed.DefaultPassword,
		HashCost: pkgAuth.BcryptCost,
	}, lgr)
	if err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	if cfg.IsProduction() {
		return
	}
	for i := range users {
		token, expiresAt, err := deps.JWTService.GenerateAccessToken(&users[i])
		if err != nil {
			lgr.Warn().Err(err).Str("email", users[i].Email).Msg("Failed to create demo token")
			continue
		}
		lgr.Info().
			Str("email", users[i].Email).
			Str("role", string(users[i].RoleType)).
			Time("expiresAt", expiresAt).
			Str("token", token).
			Msg("Demo access token")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()

	// Global middleware
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(),
		appMiddleware.CORS(cfg.Server.AllowedOrigins),
	)

	// Setup routes
	appRoutes.SetupRouter(router,
		deps.EnrollmentController,
		deps.ProgressController,
		deps.AuthMiddleware,
	)

	return router
}
