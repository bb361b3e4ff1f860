package middlewares

import (
	"crypto/subtle"
	"time"

	"luckyspin/database"
	"luckyspin/helpers"
	"luckyspin/models"

	"github.com/gofiber/fiber/v2"
)

// UserAuthMiddleware resolves the session token into the active user and
// stashes it in locals for the handlers.
func UserAuthMiddleware(c *fiber.Ctx) error {
	token := c.Get("X-Session-Token")
	if token == "" {
		return helpers.JSONError(c, "SESSION_TOKEN_REQUIRED")
	}

	var session models.Session
	if err := database.DB.Where("sid = ?", token).First(&session).Error; err != nil {
		return helpers.JSONError(c, "INVALID_SESSION")
	}
	if time.Now().After(session.ExpiresAt) {
		return helpers.JSONError(c, "SESSION_EXPIRED")
	}

	var user models.User
	if err := database.DB.Where("user_id = ? AND is_active = true", session.UserID).First(&user).Error; err != nil {
		return helpers.JSONError(c, "USER_NOT_FOUND_OR_INACTIVE")
	}

	c.Locals("user", user)
	return c.Next()
}

// AdminAuth gates the admin configuration endpoints on a shared token.
func AdminAuth(adminToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if adminToken == "" {
			return helpers.JSONError(c, "ADMIN_API_DISABLED")
		}
		provided := c.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(adminToken)) != 1 {
			return helpers.JSONError(c, "INVALID_ADMIN_TOKEN")
		}
		return c.Next()
	}
}
