package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/johnquangdev/linerunner/docs"
	pkgvalidator "github.com/johnquangdev/linerunner/pkg/validator"

	"github.com/johnquangdev/linerunner/internal/adapter/handler"
	"github.com/johnquangdev/linerunner/internal/adapter/repository"
	"github.com/johnquangdev/linerunner/internal/infrastructure/cache"
	"github.com/johnquangdev/linerunner/internal/infrastructure/database"
	"github.com/johnquangdev/linerunner/internal/infrastructure/external/oauth"
	httpmw "github.com/johnquangdev/linerunner/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/linerunner/internal/infrastructure/localstore"
	"github.com/johnquangdev/linerunner/internal/infrastructure/storage"
	"github.com/johnquangdev/linerunner/internal/usecase/auth"
	"github.com/johnquangdev/linerunner/internal/usecase/project"
	"github.com/johnquangdev/linerunner/internal/usecase/script"
	"github.com/johnquangdev/linerunner/pkg/config"
	"github.com/johnquangdev/linerunner/pkg/jwt"
	"github.com/johnquangdev/linerunner/pkg/logger"
	pkgmw "github.com/johnquangdev/linerunner/pkg/middleware"
)

// @title           LineRunner API
// @version         1.0
// @description     Script rehearsal API: markdown import, project storage and line-by-line playback

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")
	ctx := context.Background()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, cfg.Database.Migrations); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; run them with sql-migrate in CI/CD/production")
	}

	// Initialize Redis, falling back to process memory for OAuth state
	var store cache.Store
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		store = redisClient
	} else {
		log.Println("⚠️  Redis disabled, OAuth state kept in memory (single instance only)")
		memoryStore := cache.NewMemoryStore()
		defer memoryStore.Close()
		store = memoryStore
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	// Initialize OAuth provider
	log.Println("🔐 Initializing OAuth provider...")
	googleProvider := oauth.NewGoogleProvider(
		cfg.OAuth.Google.ClientID,
		cfg.OAuth.Google.ClientSecret,
		cfg.OAuth.Google.RedirectURL,
	)

	// Initialize state manager for CSRF protection
	log.Println("🔒 Initializing state manager...")
	stateManager := oauth.NewStateManager(store)

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	log.Println("✨ Initializing OAuth service...")
	oauthService := auth.NewOAuthService(
		userRepo,
		sessionRepo,
		googleProvider,
		stateManager,
		jwtManager,
		cfg.OAuth.AdminEmails,
	)

	// Initialize object storage for imported markdown
	var objects project.ObjectStore
	if cfg.Storage.Enabled {
		log.Println("🗄️  Connecting to object storage...")
		minioClient, err := storage.NewMinIOClient(ctx, &cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		objects = minioClient
	} else {
		log.Println("⚠️  Object storage disabled, markdown sources will not be kept")
	}

	log.Println("📝 Initializing project service...")
	schema, err := project.NewSchemaValidator()
	if err != nil {
		log.Fatalf("Failed to compile project schema: %v", err)
	}
	parser := script.NewParser(nil, script.Options{SungMarker: cfg.Script.SungMarker})
	localProjects := localstore.New(cfg.Local.Dir)
	log.Printf("📂 Local projects: %s", localProjects.Dir())

	projectService := project.NewProjectService(
		projectRepo,
		projectRepo,
		userRepo,
		parser,
		schema,
		localProjects,
		objects,
		zapLogger,
	)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	authHandler := handler.NewAuth(oauthService, zapLogger, cfg.OAuth.Google.FrontendURL, cfg.IsProduction())
	projectHandler := handler.NewProjectHandler(projectService, zapLogger, cfg.Server.MaxUploadBytes)
	rehearsalHandler := handler.NewRehearsalHandler(projectService, zapLogger, cfg.Server.AllowedOrigins)
	log.Println("✅ Handlers initialized successfully")

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		cfg,
		authHandler,
		projectHandler,
		rehearsalHandler,
		httpmw.EchoAuth(oauthService),
		httpmw.EchoOptionalAuth(oauthService),
		pkgmw.RequireAdmin(),
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)
		log.Printf("📚 Swagger: http://%s/swagger/index.html", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	zapLogger.Info("server shutting down", zap.String("environment", cfg.Server.Environment))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
