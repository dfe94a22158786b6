// Package main is the entry point for the wallet API server.
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tuplepay/internal/config"
	"tuplepay/internal/handlers"
	"tuplepay/internal/repositories"
	"tuplepay/internal/repositories/cache"
	"tuplepay/internal/routes"
	"tuplepay/internal/services/auth"
	"tuplepay/internal/services/cashback"
	"tuplepay/internal/services/notification"
	"tuplepay/internal/services/transaction"
	"tuplepay/internal/services/wallet"
	"tuplepay/internal/utils"
	"tuplepay/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

const version = "1.0.0"

func main() {
	config.LoadEnv()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	healthChecks := map[string]handlers.HealthCheckFunc{}

	// Store
	var store repositories.Store
	switch cfg.StoreDriver {
	case "memory":
		log.Println("⚠️ Using in-memory store, balances are lost on restart")
		store = repositories.NewMemoryStore()
	default:
		db, err := repositories.InitDB(cfg.DB)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer repositories.CloseDB(db)
		store = repositories.NewStore(db)

		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("Failed to get database instance: %v", err)
		}
		healthChecks["database"] = sqlDB.PingContext
		go logPoolStats(ctx, sqlDB)
	}

	// Redis backs the statement cache and, optionally, the notification outbox.
	var redisClient *redis.Client
	var statementCache wallet.StatementCache
	if cfg.Redis.Host != "" {
		redisClient = cache.NewRedisClient(&cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cacheService := cache.NewCacheService(redisClient, cfg.StatementCacheTTL)
		defer func() {
			if err := cacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}()

		if err := cacheService.HealthCheck(ctx); err != nil {
			log.Printf("⚠️ Redis unavailable, statement cache disabled: %v", err)
		} else {
			log.Println("✅ Redis connected")
			statementCache = cacheService
		}
		healthChecks["redis"] = cacheService.HealthCheck
		go logCacheStats(ctx, cacheService)
	}

	// Notifications
	sender := notification.NewService()
	var publisher notification.Publisher
	if cfg.NotificationDriver == "redis" && redisClient != nil {
		outbox := notification.NewRedisOutbox(redisClient, notification.DefaultOutboxKey)
		go outbox.Run(ctx, sender)
		publisher = outbox
		log.Println("✅ Notifications queued in redis outbox")
	} else {
		dispatcher := notification.NewDispatcher(sender, 256)
		defer dispatcher.Close()
		publisher = dispatcher
	}

	// Services
	policy, err := cashback.NewPolicy(cashback.Config{
		LowerFraction: cfg.Cashback.LowerFraction,
		UpperFraction: cfg.Cashback.UpperFraction,
	}, nil)
	if err != nil {
		log.Fatalf("Invalid cashback configuration: %v", err)
	}

	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatalf("Invalid token configuration: %v", err)
	}
	if config.IsProduction() && cfg.JWTSecret == "tuplepay-dev-secret" {
		log.Fatal("JWT_SECRET must be set in production")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	walletService := wallet.NewService(
		store,
		policy,
		publisher,
		statementCache,
		wallet.WalletConfig{},
		wallet.NewPrometheusMetricsCollector(registry),
	)

	// HTTP
	app := fiber.New(fiber.Config{
		AppName:      "tuplepay " + version,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		AuthService:        auth.NewService(store.Accounts(), tokens),
		WalletService:      walletService,
		TransactionService: transaction.NewService(store),
		Validator:          validation.NewHelper(),
		Gatherer:           registry,
		HealthChecks:       healthChecks,
		Version:            version,
		AuthRateLimit:      config.GetIntEnv("AUTH_RATE_LIMIT", 5),
	})

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("⚠️ Server shutdown error: %v", err)
		}
	}()

	log.Printf("🚀 Listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}

func logPoolStats(ctx context.Context, sqlDB *sql.DB) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := sqlDB.Stats()
			log.Printf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
				stats.OpenConnections, stats.Idle, stats.InUse, stats.WaitCount, stats.WaitDuration)
		}
	}
}

func logCacheStats(ctx context.Context, cacheService *cache.CacheService) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := cacheService.GetStats()
			log.Printf("Redis Stats: Hits=%d, Misses=%d, Timeouts=%d, TotalConns=%d, IdleConns=%d, StaleConns=%d",
				stats.Hits, stats.Misses, stats.Timeouts, stats.TotalConns, stats.IdleConns, stats.StaleConns)
		}
	}
}
