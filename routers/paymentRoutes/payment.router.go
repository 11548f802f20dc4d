package paymentRoutes

import (
	controller "thulobazaar/controllers/payment"
	"thulobazaar/middleware"
	validator "thulobazaar/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	payments := app.Group("/payments")

	payments.Post("/initiate", validator.Initiate(), middleware.JWTMiddleware, controller.InitiatePayment)
	payments.Post("/verify", validator.Verify(), middleware.JWTMiddleware, controller.VerifyPayment)
	payments.Get("/status/:orderId", middleware.JWTMiddleware, controller.PaymentStatus)
	payments.Get("/history", middleware.JWTMiddleware, controller.PaymentHistory)

	// Browser redirect from the gateway; carries no bearer token.
	payments.Get("/callback/:gateway", controller.PaymentCallback)
}
