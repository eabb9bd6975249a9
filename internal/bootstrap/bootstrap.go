package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/ozgur/courier/internal/app/controllers"
	appMigrations "github.com/ozgur/courier/internal/app/migrations"
	appRepos "github.com/ozgur/courier/internal/app/repositories"
	appRoutes "github.com/ozgur/courier/internal/app/routes"
	appServices "github.com/ozgur/courier/internal/app/services"
	"github.com/ozgur/courier/internal/config"
	"github.com/ozgur/courier/internal/db"
	appMiddleware "github.com/ozgur/courier/internal/middleware"
	pkgAuth "github.com/ozgur/courier/internal/pkg/auth"
	"github.com/ozgur/courier/internal/pkg/filestorage"
	"github.com/ozgur/courier/internal/pkg/logger"
	"github.com/ozgur/courier/internal/pkg/ws"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	Services          *appServices.Services
	JWTService        *pkgAuth.JWTService
	FileStorage       *filestorage.LocalStorage
	Hub               *ws.Hub
	WSHandler         *ws.Handler
	AuthController    *appControllers.AuthController
	UserController    *appControllers.UserController
	ChatController    *appControllers.ChatController
	MessageController *appControllers.MessageController
	FileController    *appControllers.FileController
	Logger            zerolog.Logger
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
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return database, nil
}

// BuildDependencies initializes repositories, services, controllers and the
// connection registry.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	// The storage base URL must match the static file serving path
	baseURL := "http://localhost:" + cfg.Server.Port
	fileStorageBaseURL := baseURL + "/uploads"
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenDuration(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Hub = ws.NewHub(cfg.Chat.SendBufferSize, lgr.With().Str("component", "hub").Logger())

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, deps.Hub, cfg, lgr)

	// The message service consumes inbound frames from live connections
	deps.WSHandler = ws.NewHandler(deps.Hub, deps.Services.MessageService,
		lgr.With().Str("component", "ws").Logger())

	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService)
	deps.UserController = appControllers.NewUserController(deps.Services.UserService)
	deps.ChatController = appControllers.NewChatController(deps.Services.ChatService)
	deps.MessageController = appControllers.NewMessageController(deps.Services.MessageService)
	deps.FileController = appControllers.NewFileController(deps.FileStorage, cfg.Chat.MaxFileSizeBytes)

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

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.ChatController,
		deps.MessageController,
		deps.FileController,
		deps.WSHandler,
		appMiddleware.JWTAuthMiddleware(deps.JWTService),
	)

	return router
}
