package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/marketplace/controllers"
	"github.com/meinhoongagan/marketplace/middleware"
)

// SetupAdminRoutes configures provider moderation, admin tokens only.
func SetupAdminRoutes(api fiber.Router, secret string) {
	admin := api.Group("/admin", middleware.Protected(secret), middleware.RequireAdmin())
	admin.Get("/providers", controllers.GetAdminProviders)
	admin.Patch("/providers/:id/status", controllers.UpdateProviderStatus)
}
