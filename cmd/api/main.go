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

	_ "github.com/bloghub/bloghub/docs" // Swagger docs (generated)
	"github.com/bloghub/bloghub/internal/account"
	"github.com/bloghub/bloghub/internal/auth"
	"github.com/bloghub/bloghub/internal/config"
	"github.com/bloghub/bloghub/internal/database"
	"github.com/bloghub/bloghub/internal/email"
	httpServer "github.com/bloghub/bloghub/internal/http"
	"github.com/bloghub/bloghub/internal/logging"
	"github.com/bloghub/bloghub/internal/post"
	"github.com/bloghub/bloghub/internal/profile"
	"github.com/bloghub/bloghub/internal/upload"
)

// @title           BlogHub API
// @version         1.0
// @description     A blogging platform backend with accounts, email verification, profiles and posts.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

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

	if err := database.CreateSchema(context.Background(), db); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Initialize Redis connection
	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize token service
	tokenService, err := initTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Initialize email delivery: SMTP sender behind a Redis-backed outbox
	smtpSender := email.NewSMTPSender(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	outbox := email.NewOutbox(redisClient, smtpSender, logger)

	outboxCtx, stopOutbox := context.WithCancel(context.Background())
	defer stopOutbox()
	go outbox.Run(outboxCtx)

	// Initialize repositories
	accountRepo := account.NewRepository(db)
	profileRepo := profile.NewRepository(db)
	postRepo := post.NewRepository(db)

	// Initialize auth service
	authService := auth.NewService(
		accountRepo,
		outbox,
		tokenService,
		logger,
		cfg.Auth.SessionTokenDuration,
		cfg.Auth.ResetTokenTTL,
		cfg.Server.BaseURL(),
	)

	// Initialize upload storage
	uploads := upload.NewStorage(cfg.Uploads.Dir, cfg.Uploads.MaxBytes, cfg.Server.BaseURL())

	// Initialize HTTP handlers
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(tokenService, accountRepo)
	profileHandler := profile.NewHandler(profileRepo, accountRepo, uploads)
	postHandler := post.NewHandler(postRepo, uploads)

	// Initialize router
	router := httpServer.NewRouter(
		cfg,
		authHandler,
		profileHandler,
		postHandler,
		authMiddleware,
		uploads.Dir(),
		logger,
	)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
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
		logger.Info("received shutdown signal", "signal", sig.String())

		stopOutbox()

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

// initTokenService selects the session token backend from configuration
func initTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	switch cfg.Backend {
	case config.TokenBackendJWT:
		return auth.NewJWTService(cfg.SecretKey)
	default:
		return auth.NewPasetoService(cfg.SecretKey)
	}
}
