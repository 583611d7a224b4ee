package main

// @title           Ident Core API
// @version         1.0
// @description     User registration and authentication API. Ident Core issues JWT access/refresh token pairs and manages credential lifecycle.

// @contact.name   Ident OSS
// @contact.url    https://github.com/custodia-labs/ident-core/issues

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/ident-core/internal/adapters/driven/auth"
	"github.com/custodia-labs/ident-core/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/ident-core/internal/adapters/driven/redis"
	httpserver "github.com/custodia-labs/ident-core/internal/adapters/driving/http"
	"github.com/custodia-labs/ident-core/internal/config"
	"github.com/custodia-labs/ident-core/internal/core/ports/driven"
	"github.com/custodia-labs/ident-core/internal/core/services"
	"github.com/custodia-labs/ident-core/internal/worker"
	_ "github.com/custodia-labs/ident-core/docs"
)

var version = "dev"

func main() {
	log.Printf("ident-core %s starting", version)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Initialize PostgreSQL =====
	log.Println("Connecting to PostgreSQL...")
	dbConfig := postgres.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	}
	db, err := postgres.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize schema (idempotent)
	if err := db.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("PostgreSQL connected and schema initialized")

	// ===== Initialize Redis (optional) =====
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	// ===== Driven adapters (infrastructure) =====
	hasher := auth.NewHasher()
	tokenProvider := auth.NewTokenProvider(cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	userStore := postgres.NewUserStore(db)

	// ===== Session Store (Redis if available, otherwise PostgreSQL) =====
	var sessionStore driven.SessionStore
	var redisPinger httpserver.Pinger
	if redisClient != nil {
		sessionStore = redisadapter.NewSessionStore(redisClient)
		redisPinger = redisHealth{client: redisClient}
		log.Println("Using Redis session store")
	} else {
		sessionStore = postgres.NewSessionStore(db)
		log.Println("Using PostgreSQL session store")
	}

	// Services (core business logic)
	authService := services.NewAuthService(userStore, sessionStore, hasher, tokenProvider)

	// ===== Session cleanup worker =====
	sessionWorker := worker.NewWorker(worker.Config{
		Sessions: sessionStore,
		Logger:   slog.Default(),
		Interval: cfg.SessionSweepInterval,
	})
	if err := sessionWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start session worker: %v", err)
	}
	defer sessionWorker.Stop()

	server := httpserver.NewServer(
		httpserver.Config{
			Host:    cfg.Host,
			Port:    cfg.Port,
			Version: version,
		},
		authService,
		db,
		redisPinger,
	)

	log.Printf("API server starting on :%d", cfg.Port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// redisHealth adapts a redis client to the server's health check interface
type redisHealth struct {
	client *redis.Client
}

func (r redisHealth) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
