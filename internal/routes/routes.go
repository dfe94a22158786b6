// Package routes defines the API routing configuration.
package routes

import (
	"time"

	"tuplepay/internal/handlers"
	"tuplepay/internal/middleware"
	"tuplepay/internal/services/auth"
	"tuplepay/internal/services/transaction"
	"tuplepay/internal/services/wallet"
	"tuplepay/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the services the routes are served by.
type Dependencies struct {
	AuthService        auth.Service
	WalletService      wallet.Service
	TransactionService transaction.Service
	Validator          *validation.Helper

	// Gatherer backs /metrics; nil leaves the endpoint out.
	Gatherer     prometheus.Gatherer
	HealthChecks map[string]handlers.HealthCheckFunc
	Version      string

	// AuthRateLimit caps register and login calls per IP and minute; zero
	// disables the limiter.
	AuthRateLimit int
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	validator := deps.Validator
	if validator == nil {
		validator = validation.NewHelper()
	}

	healthHandler := handlers.NewHealthHandler(deps.Version, deps.HealthChecks)
	authHandler := handlers.NewAuthHandler(deps.AuthService, validator)
	walletHandler := handlers.NewWalletHandler(deps.WalletService, validator)
	transactionHandler := handlers.NewTransactionHandler(deps.TransactionService)
	authMiddleware := middleware.NewAuthMiddleware(deps.AuthService)

	app.Get("/health", healthHandler.HealthCheck)
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Public routes
	authGroup := api.Group("/auth")
	if deps.AuthRateLimit > 0 {
		authGroup.Use(authLimiter(deps.AuthRateLimit))
	}
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Wallet routes with authentication
	walletGroup := api.Group("/wallet", authMiddleware.Handler)
	walletGroup.Post("/recharge", walletHandler.Recharge)
	walletGroup.Post("/transfer", walletHandler.Transfer)
	walletGroup.Get("/statement", walletHandler.Statement)
	walletGroup.Get("/transactions/:username", transactionHandler.ListTransactions)
	walletGroup.Get("/cashbacks/:username", transactionHandler.ListCashbacks)
	walletGroup.Get("/transaction/:id", transactionHandler.GetTransaction)
}

func authLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
}
