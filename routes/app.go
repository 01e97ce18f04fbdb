package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/meinhoongagan/marketplace/controllers"
	"github.com/meinhoongagan/marketplace/metrics"
	"github.com/meinhoongagan/marketplace/middleware"
	"github.com/meinhoongagan/marketplace/utils"
)

// bodyLimit leaves room for multipart photo uploads.
const bodyLimit = 10 * 1024 * 1024

// NewApp builds the Fiber application with every route mounted.
func NewApp(secret string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "marketplace",
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    bodyLimit,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: utils.GenerateUUID}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLogger())

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	Setup(app, secret)
	return app
}

// Setup mounts the JSON API under /api.
func Setup(app *fiber.App, secret string) {
	api := app.Group("/api")
	api.Get("/status", controllers.Status)
	api.Post("/uploads", controllers.UploadImage)

	SetupAuthRoutes(api)
	SetupUserRoutes(api)
	SetupProviderRoutes(api)
	SetupOrderRoutes(api)
	SetupAdminRoutes(api, secret)
}
