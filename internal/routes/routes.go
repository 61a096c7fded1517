// Package routes wires services, middleware and handlers onto the fiber app.
package routes

import (
	"zeropay/internal/config"
	"zeropay/internal/events"
	"zeropay/internal/handlers"
	"zeropay/internal/metrics"
	"zeropay/internal/middleware"
	"zeropay/internal/repositories"
	"zeropay/internal/repositories/cache"
	"zeropay/internal/services/auth"
	"zeropay/internal/services/dispute"
	"zeropay/internal/services/notification"
	"zeropay/internal/services/payment"
	"zeropay/internal/services/webhook"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps carries the process-level dependencies constructed in main.
type Deps struct {
	DB         *gorm.DB
	Cache      *cache.Service
	Publisher  events.Publisher
	Recorder   metrics.Recorder
	Dispatcher *webhook.Dispatcher
}

// Setup builds the service graph and registers all routes.
func Setup(app *fiber.App, deps Deps) {
	txRepo := repositories.NewTransactionRepository(deps.DB)
	merchantRepo := repositories.NewMerchantRepository(deps.DB)
	disputeRepo := repositories.NewDisputeRepository(deps.DB)
	webhookRepo := repositories.NewWebhookRepository(deps.DB)
	auditRepo := repositories.NewAuditLogRepository(deps.DB)

	var txCache payment.Cache
	var keyCache auth.KeyCache
	if deps.Cache != nil {
		txCache = deps.Cache
		keyCache = deps.Cache
	}

	mailer := notification.NewService(notification.LogMailer{})
	authService := auth.NewService(
		merchantRepo,
		keyCache,
		auditRepo,
		config.GetEnv("JWT_SECRET", "zeropay-dev-secret"),
		config.GetDurationEnv("SESSION_TTL", 0),
	)
	paymentService := payment.NewService(
		txRepo,
		merchantRepo,
		txCache,
		payment.RandomPolicy{SuccessRate: config.GetFloatEnv("SETTLEMENT_SUCCESS_RATE", 0.8)},
		deps.Dispatcher,
		mailer,
		deps.Publisher,
		deps.Recorder,
	)
	disputeService := dispute.NewService(
		disputeRepo,
		txRepo,
		merchantRepo,
		auditRepo,
		mailer,
		paymentService,
		deps.Publisher,
		deps.Recorder,
	)
	webhookService := webhook.NewService(webhookRepo)

	paymentHandler := handlers.NewPaymentHandler(paymentService)
	disputeHandler := handlers.NewDisputeHandler(disputeService)
	webhookHandler := handlers.NewWebhookHandler(webhookService)
	authHandler := handlers.NewAuthHandler(authService, auditRepo)
	adminHandler := handlers.NewAdminHandler(disputeService, config.GetEnv("ADMIN_EMAIL", "admin@zeropay.test"))
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Cache)

	sessionAuth := middleware.NewSessionAuth(authService)
	apiKeyAuth := middleware.NewAPIKeyAuth(merchantRepo, deps.Cache)
	adminAuth := middleware.NewAdminAuth(config.GetEnv("ADMIN_TOKEN", ""))

	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Public: signup, login, and the checkout page's settlement call.
	api.Post("/auth/signup", authHandler.Signup)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/payment/verify", paymentHandler.Verify)

	// Server-to-server, authenticated by secret API key. Middleware is
	// attached per route because the /merchant tree mixes key-authenticated
	// and session-authenticated endpoints.
	api.Post("/merchant/payment/create", apiKeyAuth.Handler, paymentHandler.Create)

	// Merchant dashboard, authenticated by session token.
	merchant := api.Group("/merchant")
	merchant.Post("/payment/refund", sessionAuth.Handler, paymentHandler.Refund)
	merchant.Get("/payment/status/:orderId", sessionAuth.Handler, paymentHandler.Status)
	merchant.Get("/transactions", sessionAuth.Handler, paymentHandler.List)
	merchant.Get("/disputes", sessionAuth.Handler, disputeHandler.List)
	merchant.Post("/disputes", sessionAuth.Handler, disputeHandler.Open)
	merchant.Post("/disputes/:id/respond", sessionAuth.Handler, disputeHandler.Respond)
	merchant.Patch("/toggle-sandbox", sessionAuth.Handler, authHandler.ToggleSandbox)
	merchant.Get("/audit-logs", sessionAuth.Handler, authHandler.AuditLogs)
	merchant.Get("/webhooks", sessionAuth.Handler, webhookHandler.List)
	merchant.Post("/webhooks", sessionAuth.Handler, webhookHandler.Create)
	merchant.Delete("/webhooks/:id", sessionAuth.Handler, webhookHandler.Delete)

	api.Post("/auth/regenerate-keys", sessionAuth.Handler, authHandler.RegenerateKeys)

	// Admin oversight.
	admin := api.Group("/admin", adminAuth.Handler)
	admin.Get("/disputes", adminHandler.ListDisputes)
	admin.Post("/disputes/:id/resolve", adminHandler.ResolveDispute)
}
