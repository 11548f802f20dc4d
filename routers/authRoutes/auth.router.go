package authRoutes

import (
	controller "thulobazaar/controllers/auth"
	validator "thulobazaar/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	auth.Post("/signup", validator.Signup(), controller.Signup)
	auth.Post("/login", validator.Login(), controller.Login)
}
