package verificationValidators

import (
	"strings"
	"thulobazaar/middleware"

	"github.com/gofiber/fiber/v2"
)

func Submit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Kind         string `json:"kind"`
			DocumentURL  string `json:"documentUrl"`
			BusinessName string `json:"businessName"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		kind := strings.ToUpper(strings.TrimSpace(reqData.Kind))
		if kind != "INDIVIDUAL" && kind != "BUSINESS" {
			errors["kind"] = "Invalid kind! Allowed: INDIVIDUAL, BUSINESS"
		}

		reqData.DocumentURL = strings.TrimSpace(reqData.DocumentURL)
		if reqData.DocumentURL == "" {
			errors["documentUrl"] = "Document URL is required!"
		}

		if kind == "BUSINESS" && strings.TrimSpace(reqData.BusinessName) == "" {
			errors["businessName"] = "Business name is required for business verification!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVerification", reqData)
		return c.Next()
	}
}

func Review() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			RequestID uint   `json:"requestId"`
			Approve   bool   `json:"approve"`
			Note      string `json:"note"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.RequestID == 0 {
			errors["requestId"] = "Request ID is required!"
		}
		if !reqData.Approve && strings.TrimSpace(reqData.Note) == "" {
			errors["note"] = "A note is required when rejecting!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}
