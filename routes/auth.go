package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/marketplace/controllers"
)

// SetupAuthRoutes configures registration, login and password recovery
func SetupAuthRoutes(api fiber.Router) {
	api.Post("/register", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/forgot-password", controllers.ForgotPassword)
	api.Post("/reset-password", controllers.ResetPassword)
}
