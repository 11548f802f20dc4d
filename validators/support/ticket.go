package supportValidators

import (
	"strings"
	"thulobazaar/middleware"

	"github.com/gofiber/fiber/v2"
)

var validPriority = map[string]bool{"LOW": true, "NORMAL": true, "HIGH": true, "URGENT": true}
var validCategory = map[string]bool{"GENERAL": true, "TECHNICAL": true, "BILLING": true, "REPORT": true, "VERIFICATION": true}
var validStatus = map[string]bool{"OPEN": true, "IN_PROGRESS": true, "WAITING_ON_USER": true, "RESOLVED": true, "CLOSED": true}

func CreateSupportTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Subject  string  `json:"subject"`
			Message  string  `json:"message"`
			Priority *string `json:"priority"`
			Category *string `json:"category"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Subject = strings.TrimSpace(reqData.Subject)
		if reqData.Subject == "" {
			errors["subject"] = "Subject is required!"
		} else if len(reqData.Subject) > 200 {
			errors["subject"] = "Subject must not exceed 200 characters!"
		}

		reqData.Message = strings.TrimSpace(reqData.Message)
		if reqData.Message == "" {
			errors["message"] = "Message is required!"
		}

		if reqData.Priority != nil && !validPriority[strings.ToUpper(*reqData.Priority)] {
			errors["priority"] = "Invalid priority! Allowed: LOW, NORMAL, HIGH, URGENT"
		}
		if reqData.Category != nil && !validCategory[strings.ToUpper(*reqData.Category)] {
			errors["category"] = "Invalid category! Allowed: GENERAL, TECHNICAL, BILLING, REPORT, VERIFICATION"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSupportTicket", reqData)
		return c.Next()
	}
}

func PostMessage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Content    string `json:"content"`
			IsInternal bool   `json:"isInternal"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Content = strings.TrimSpace(reqData.Content)
		if reqData.Content == "" {
			errors["content"] = "Message content is required!"
		} else if len(reqData.Content) > 5000 {
			errors["content"] = "Message must not exceed 5000 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedMessage", reqData)
		return c.Next()
	}
}

func UpdateTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Status     *string `json:"status"`
			Priority   *string `json:"priority"`
			AssignedTo *uint   `json:"assignedTo"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Status != nil && !validStatus[strings.ToUpper(*reqData.Status)] {
			errors["status"] = "Invalid status! Allowed: OPEN, IN_PROGRESS, WAITING_ON_USER, RESOLVED, CLOSED"
		}
		if reqData.Priority != nil && !validPriority[strings.ToUpper(*reqData.Priority)] {
			errors["priority"] = "Invalid priority! Allowed: LOW, NORMAL, HIGH, URGENT"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTicketUpdate", reqData)
		return c.Next()
	}
}

func AdminTicketList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page       *int    `query:"page"`
			Limit      *int    `query:"limit"`
			Status     *string `query:"status"`
			Priority   *string `query:"priority"`
			Category   *string `query:"category"`
			AssignedTo *uint   `query:"assignedTo"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit != nil && *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		if reqData.Status != nil && !validStatus[strings.ToUpper(*reqData.Status)] {
			errors["status"] = "Invalid status! Allowed: OPEN, IN_PROGRESS, WAITING_ON_USER, RESOLVED, CLOSED"
		}
		if reqData.Priority != nil && !validPriority[strings.ToUpper(*reqData.Priority)] {
			errors["priority"] = "Invalid priority! Allowed: LOW, NORMAL, HIGH, URGENT"
		}
		if reqData.Category != nil && !validCategory[strings.ToUpper(*reqData.Category)] {
			errors["category"] = "Invalid category! Allowed: GENERAL, TECHNICAL, BILLING, REPORT, VERIFICATION"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdminList", reqData)
		return c.Next()
	}
}
