package handlers

import (
	"context"
	"time"

	"zeropay/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler reports liveness of the service and its dependencies.
type HealthHandler struct {
	db    *gorm.DB
	cache *cache.Service
}

func NewHealthHandler(db *gorm.DB, cacheService *cache.Service) *HealthHandler {
	return &HealthHandler{db: db, cache: cacheService}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.Map{"status": "ok"}
	code := fiber.StatusOK

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status["database"] = "down"
		code = fiber.StatusServiceUnavailable
	} else {
		status["database"] = "up"
	}

	if h.cache != nil {
		if err := h.cache.HealthCheck(ctx); err != nil {
			status["cache"] = "down"
		} else {
			status["cache"] = "up"
		}
	}

	return c.Status(code).JSON(status)
}
