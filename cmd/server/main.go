// Package main is the entry point for the ZeroPay gateway. It constructs
// every dependency explicitly (database, cache, event publisher, webhook
// dispatcher), wires the routes and runs the HTTP server until a shutdown
// signal arrives.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"zeropay/internal/config"
	"zeropay/internal/events"
	"zeropay/internal/metrics"
	"zeropay/internal/repositories"
	"zeropay/internal/repositories/cache"
	"zeropay/internal/routes"
	"zeropay/internal/services/webhook"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadEnv()

	db, err := repositories.NewDB(repositories.DBConfigFromEnv())
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer func() {
		if err := repositories.CloseDB(db); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	cacheService := cache.NewService(redisClient, config.GetDurationEnv("CACHE_TTL", time.Hour))
	defer func() {
		if err := cacheService.Close(); err != nil {
			log.Printf("failed to close redis: %v", err)
		}
	}()

	var publisher events.Publisher = events.NoopPublisher{}
	if brokers := config.GetEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher = events.NewKafkaPublisher(strings.Split(brokers, ","))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("failed to close event publisher: %v", err)
		}
	}()

	collector := metrics.NewCollector()

	dispatcher := webhook.NewDispatcher(
		repositories.NewWebhookRepository(db),
		webhook.DispatcherConfig{
			Workers:    config.GetIntEnv("WEBHOOK_WORKERS", 4),
			QueueSize:  config.GetIntEnv("WEBHOOK_QUEUE_SIZE", 256),
			Timeout:    config.GetDurationEnv("WEBHOOK_TIMEOUT", 10*time.Second),
			MaxRetries: config.GetIntEnv("WEBHOOK_MAX_RETRIES", 2),
		},
		collector,
	)

	app := fiber.New(fiber.Config{
		AppName: "zeropay",
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Api-Key, X-Admin-Token",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	if !config.IsProduction() {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	routes.Setup(app, routes.Deps{
		DB:         db,
		Cache:      cacheService,
		Publisher:  publisher,
		Recorder:   collector,
		Dispatcher: dispatcher,
	})

	go func() {
		addr := ":" + config.GetEnv("PORT", "3000")
		if err := app.Listen(addr); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	if err := app.Shutdown(); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	// Let in-flight webhook deliveries finish before closing connections.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	dispatcher.Stop(ctx)
}
