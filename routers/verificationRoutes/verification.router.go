package verificationRoutes

import (
	controller "thulobazaar/controllers/verification"
	"thulobazaar/middleware"
	validator "thulobazaar/validators/verification"

	"github.com/gofiber/fiber/v2"
)

func SetupVerificationRoutes(app *fiber.App) {
	verification := app.Group("/verification")

	verification.Post("/submit", validator.Submit(), middleware.JWTMiddleware, controller.SubmitRequest)
	verification.Get("/mine", middleware.JWTMiddleware, controller.MyRequests)

	// Staff-only review queue
	verification.Get("/pending", middleware.JWTMiddleware, middleware.RequireStaff(), controller.PendingRequests)
	verification.Post("/review", validator.Review(), middleware.JWTMiddleware, middleware.RequireStaff(), controller.ReviewRequest)
}
