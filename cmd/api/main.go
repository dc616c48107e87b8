package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	_ "github.com/saishdhuri8/Authspark/docs" // Swagger docs (generated)
	"github.com/saishdhuri8/Authspark/internal/auth"
	"github.com/saishdhuri8/Authspark/internal/config"
	"github.com/saishdhuri8/Authspark/internal/database"
	httpServer "github.com/saishdhuri8/Authspark/internal/http"
	"github.com/saishdhuri8/Authspark/internal/logging"
	"github.com/saishdhuri8/Authspark/internal/owner"
	"github.com/saishdhuri8/Authspark/internal/project"
	"github.com/saishdhuri8/Authspark/internal/projectuser"
)

// @title           Authspark
// @version         1.0
// @description     Multi-tenant authentication-as-a-service: owner accounts, isolated projects, API-key-scoped end-user stores.

// @contact.name   API Support
// @contact.email  support@authspark.dev

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Initialize Redis connection
	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize token codec
	codec, err := auth.NewTokenCodec(cfg.Auth.PasetoKey)
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}

	// Initialize repositories
	ownerRepo := owner.NewRepository(db)
	projectRepo := project.NewRepository(db)
	statsCache := project.NewStatsCache(redisClient)

	// Initialize webhook notifier
	notifier := projectuser.NewNotifier(cfg.Webhook.Timeout)

	// Initialize services
	ownerService := owner.NewService(ownerRepo, codec, logger, cfg.Auth.OwnerTokenDuration)
	projectService := project.NewService(projectRepo, statsCache, codec, logger)
	projectUserService := projectuser.NewService(projectRepo, codec, notifier, logger)

	// Initialize HTTP handlers
	ownerHandler := owner.NewHandler(ownerService, projectService, logger)
	projectHandler := project.NewHandler(projectService, logger)
	projectUserHandler := projectuser.NewHandler(projectUserService, logger)
	authMiddleware := auth.NewMiddleware(codec)

	// Initialize router
	router := httpServer.NewRouter(cfg, ownerHandler, projectHandler, projectUserHandler, authMiddleware, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
