package adRoutes

import (
	controller "thulobazaar/controllers/ad"
	"thulobazaar/middleware"
	validator "thulobazaar/validators/ad"

	"github.com/gofiber/fiber/v2"
)

func SetupAdRoutes(app *fiber.App) {
	ads := app.Group("/ads")

	ads.Get("/", controller.AdList)
	ads.Get("/:id", middleware.OptionalJWTMiddleware, controller.GetAd)
	ads.Post("/", validator.CreateAd(), middleware.JWTMiddleware, controller.CreateAd)
}
