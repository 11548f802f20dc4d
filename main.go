package main

import (
	"log"
	"thulobazaar/config"
	"thulobazaar/database"
	adRoutes "thulobazaar/routers/adRoutes"
	authRoutes "thulobazaar/routers/authRoutes"
	paymentRoutes "thulobazaar/routers/paymentRoutes"
	supportRoutes "thulobazaar/routers/supportRoutes"
	verificationRoutes "thulobazaar/routers/verificationRoutes"
	"thulobazaar/utils"
	"thulobazaar/ws"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	adRoutes.SetupAdRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	supportRoutes.SetupSupportRoutes(app)
	verificationRoutes.SetupVerificationRoutes(app)

	// Support chat socket; same bearer token, passed as ?token=
	app.Get("/ws/support", ws.UpgradeMiddleware, ws.ConnHandler)

	utils.InitializePromotionScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
