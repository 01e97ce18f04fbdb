package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/marketplace/db"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/meinhoongagan/marketplace/utils"
)

// RequireAdmin must follow Protected. The token's admin claim is re-checked
// against the database so a demoted admin loses access before expiry.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, _ := c.Locals("isAdmin").(bool); !isAdmin {
			return utils.Fail(c, fiber.StatusForbidden, "administrator access required")
		}

		userID, _ := c.Locals("userID").(uint)
		var user models.User
		if err := db.DB.First(&user, userID).Error; err != nil {
			return utils.Fail(c, fiber.StatusUnauthorized, "user not found")
		}
		if !user.IsAdminAccount() {
			return utils.Fail(c, fiber.StatusForbidden, "administrator access required")
		}
		return c.Next()
	}
}
