package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/marketplace/db"
	"github.com/meinhoongagan/marketplace/logger"
	"go.uber.org/zap"
)

// Status reports whether the API and its database are reachable.
func Status(c *fiber.Ctx) error {
	if err := db.Ping(c.UserContext(), 3*time.Second); err != nil {
		logger.L().Warn("health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": "unreachable"})
	}
	return c.JSON(fiber.Map{"status": "ok", "database": "ok"})
}
