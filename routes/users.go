package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/marketplace/controllers"
)

func SetupUserRoutes(api fiber.Router) {
	users := api.Group("/users")
	users.Get("/find-by-email", controllers.FindUserByEmail)
	users.Put("/:id", controllers.UpdateUser)
	users.Patch("/:id", controllers.UpdateUser)

	profiles := api.Group("/professional_profiles")
	profiles.Get("/:id", controllers.GetProfessionalProfile)
	profiles.Patch("/:id", controllers.UpdateProfessionalProfile)
}

func SetupProviderRoutes(api fiber.Router) {
	providers := api.Group("/providers")
	providers.Get("/", controllers.GetProviders)
	providers.Put("/:id", controllers.UpdateProvider)
	providers.Get("/:id/reviews", controllers.GetProviderReviews)
}
