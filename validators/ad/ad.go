package adValidators

import (
	"strings"
	"thulobazaar/middleware"

	"github.com/gofiber/fiber/v2"
)

var validAdCategory = map[string]bool{
	"electronics": true, "vehicles": true, "property": true,
	"fashion": true, "pets": true, "jobs": true, "services": true,
	"furniture": true, "sports": true, "books": true, "other": true,
}

func CreateAd() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			Price       float64 `json:"price"`
			Category    string  `json:"category"`
			Subcategory string  `json:"subcategory"`
			Location    string  `json:"location"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		} else if len(reqData.Title) > 150 {
			errors["title"] = "Title must not exceed 150 characters!"
		}

		if reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}

		if !validAdCategory[strings.ToLower(strings.TrimSpace(reqData.Category))] {
			errors["category"] = "Invalid category!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAd", reqData)
		return c.Next()
	}
}
