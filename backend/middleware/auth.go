package middleware

import (
	"studyhub/backend/config"
	"studyhub/backend/models"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := utils.ParseToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		utils.SetUserID(c, userID)
		return c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, role, err := utils.ParseToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if role != models.RoleAdmin {
			return utils.Forbidden(c, "Forbidden - Admin access required")
		}
		return c.Next()
	}
}
