package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/registrar/internal/app/controllers"
	appMigrations "github.com/yigit/registrar/internal/app/migrations"
	appRepos "github.com/yigit/registrar/internal/app/repositories"
	appRoutes "github.com/yigit/registrar/internal/app/routes"
	appServices "github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/config"
	"github.com/yigit/registrar/internal/db"
	appMiddleware "github.com/yigit/registrar/internal/middleware"
	pkgAuth "github.com/yigit/registrar/internal/pkg/auth"
	"github.com/yigit/registrar/internal/pkg/helpers"
	"github.com/yigit/registrar/internal/pkg/logger"
	"github.com/yigit/registrar/internal/pkg/websocket"
	"github.com/yigit/registrar/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store               *appRepos.DataStore
	RegistrationService *appServices.RegistrationService
	AccessService       *appServices.AccessService
	JWTService          *pkgAuth.JWTService
	AuthMiddleware      *appMiddleware.AuthMiddleware
	EventHub            *websocket.Hub
	AuthController      *appControllers.AuthController
	SubjectController   *appControllers.SubjectController
	StudentController   *appControllers.StudentController
	AdminController     *appControllers.AdminController
	EventsHandler       *websocket.Handler
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	configPath = config.ResolvePath(configPath)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
		Output: os.Stderr,
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Strs("envOverrides", cfg.EnvOverrides).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the configured backend and loads the data store.
// The returned close function releases the backend's resources.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*appRepos.DataStore, func(), error) {
	noop := func() {}

	switch strings.ToLower(cfg.Storage.Driver) {
	case config.DriverPostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(ctx, cfg, logger.Component("db"))
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, noop, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		lgr.Info().Msg("Running database migrations...")
		if err := appMigrations.NewMigrator(database.Pool, logger.Component("migrations")).Migrate(ctx); err != nil {
			database.Close()
			return nil, noop, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		store, err := appRepos.NewDataStore(ctx, appRepos.NewPostgresBackend(database, logger.Component("postgres")), logger.Component("store"))
		if err != nil {
			database.Close()
			return nil, noop, err
		}
		return store, database.Close, nil

	default:
		if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
			return nil, noop, fmt.Errorf("failed to create data directory %s: %w", cfg.Storage.DataDir, err)
		}
		students, subjects, enrollments := cfg.StoragePaths()
		backend := appRepos.NewCSVBackend(students, subjects, enrollments, logger.Component("csv"))

		store, err := appRepos.NewDataStore(ctx, backend, logger.Component("store"))
		if err != nil {
			return nil, noop, err
		}
		lgr.Info().Str("dataDir", cfg.Storage.DataDir).Msg("CSV data store ready")
		return store, noop, nil
	}
}

// BuildServices creates the rule engine and the session layer over a loaded store
func BuildServices(ctx context.Context, cfg *config.Config, store *appRepos.DataStore, publisher appServices.EventPublisher, lgr zerolog.Logger) (*appServices.RegistrationService, *appServices.AccessService, error) {
	opts := []appServices.RegistrationOption{appServices.WithMinimumAge(cfg.Registration.MinimumAge)}
	if publisher != nil {
		opts = append(opts, appServices.WithEventPublisher(publisher))
	}

	registration := appServices.NewRegistrationService(appRepos.NewRepositories(store), logger.Component("registration"), opts...)
	access := appServices.NewAccessService(registration, logger.Component("access"))

	if cfg.Storage.Seed {
		if err := seed.CreateDefaultData(ctx, store, registration, lgr); err != nil {
			return nil, nil, fmt.Errorf("failed to create default data: %w", err)
		}
	}

	return registration, access, nil
}

// BuildDependencies initializes services, middleware and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, store *appRepos.DataStore, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Store: store}

	deps.EventHub = websocket.NewHub(logger.Component("events"))

	var err error
	deps.RegistrationService, deps.AccessService, err = BuildServices(ctx, cfg, store, deps.EventHub, lgr)
	if err != nil {
		return nil, err
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 8*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.JWTService.OnRevoke(deps.EventHub.CloseToken)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	controllerLogger := logger.Component("http")
	deps.AuthController = appControllers.NewAuthController(deps.AccessService, deps.JWTService, controllerLogger)
	deps.SubjectController = appControllers.NewSubjectController(deps.AccessService, controllerLogger)
	deps.StudentController = appControllers.NewStudentController(deps.AccessService, controllerLogger)
	deps.AdminController = appControllers.NewAdminController(deps.AccessService, controllerLogger)
	deps.EventsHandler = websocket.NewHandler(deps.EventHub, logger.Component("events"))

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(logger.Component("http")))

	appRoutes.SetupRouter(router, appRoutes.Controllers{
		Auth:    deps.AuthController,
		Subject: deps.SubjectController,
		Student: deps.StudentController,
		Admin:   deps.AdminController,
		Events:  deps.EventsHandler,
		AuthMW:  deps.AuthMiddleware,
	})

	return router
}
