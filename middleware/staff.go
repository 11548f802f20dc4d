package middleware

import (
	"thulobazaar/database"
	"thulobazaar/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// roleRank orders the moderation hierarchy. Higher ranks satisfy gates
// for lower ones.
var roleRank = map[string]int{
	"USER":        0,
	"EDITOR":      1,
	"ADMIN":       2,
	"SUPER-ADMIN": 3,
}

// RequireRole returns a middleware that checks the caller's stored role
// against the database, not just the token claim.
func RequireRole(minRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Unauthorized: User ID not found",
				"data":    nil,
			})
		}

		var user models.User
		err := database.Database.Db.Where("id = ? AND is_deleted = false AND is_blocked = false", userID).First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"status":  false,
					"message": "You do not have permission to access this resource!",
					"data":    nil,
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  false,
				"message": "Server error while checking permissions!",
				"data":    nil,
			})
		}

		if roleRank[user.Role] < roleRank[minRole] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  false,
				"message": "You do not have permission to access this resource!",
				"data":    nil,
			})
		}

		c.Locals("role", user.Role)
		c.Locals("isStaff", user.IsStaff())
		return c.Next()
	}
}

// RequireStaff gates editor-and-above routes.
func RequireStaff() fiber.Handler {
	return RequireRole("EDITOR")
}

// RequireAdmin gates admin-and-above routes.
func RequireAdmin() fiber.Handler {
	return RequireRole("ADMIN")
}
