package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/marketplace/controllers"
)

func SetupOrderRoutes(api fiber.Router) {
	orders := api.Group("/orders")
	orders.Post("/", controllers.CreateOrder)
	orders.Get("/user/:id", controllers.GetUserOrders)
	orders.Get("/provider/:id", controllers.GetProviderOrders)
	orders.Get("/:id", controllers.GetOrder)
	orders.Patch("/:id", controllers.UpdateOrder)

	reviews := api.Group("/reviews")
	reviews.Post("/", controllers.CreateReview)
	reviews.Get("/provider/:id", controllers.GetProviderReviews)
}
