package supportRoutes

import (
	controller "thulobazaar/controllers/support"
	"thulobazaar/middleware"
	validator "thulobazaar/validators/support"

	"github.com/gofiber/fiber/v2"
)

func SetupSupportRoutes(app *fiber.App) {
	support := app.Group("/support")

	support.Post("/tickets", validator.CreateSupportTicket(), middleware.JWTMiddleware, controller.CreateSupportTicket)
	support.Get("/tickets", middleware.JWTMiddleware, controller.TicketList)
	support.Get("/tickets/:id", middleware.JWTMiddleware, controller.GetTicket)
	support.Post("/tickets/:id/messages", validator.PostMessage(), middleware.JWTMiddleware, controller.PostMessage)

	// Staff-only
	support.Get("/admin/tickets", validator.AdminTicketList(), middleware.JWTMiddleware, middleware.RequireStaff(), controller.AdminTicketList)
	support.Patch("/tickets/:id", validator.UpdateTicket(), middleware.JWTMiddleware, middleware.RequireStaff(), controller.UpdateTicket)
	support.Get("/stats", middleware.JWTMiddleware, middleware.RequireStaff(), controller.AdminSupportStats)
}
