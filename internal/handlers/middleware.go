package handlers

import (
	"strings"

	"github.com/feedbackhq/feedback-backend/utils"
	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware extracts the caller identity from the Authorization header.
// A missing, malformed, expired or tampered token is one uniform 401; the
// response never reveals which check failed.
func (h *Handler) AuthMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized - Invalid or missing token")
	}

	userID, err := h.tokens.Validate(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized - Invalid or missing token")
	}

	c.Locals("userId", userID)
	return c.Next()
}

// CORS permits any origin. The preflight answer is a bare 200 with an
// empty body.
func CORS() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusOK)
		}
		return c.Next()
	}
}

func callerID(c *fiber.Ctx) int64 {
	id, _ := c.Locals("userId").(int64)
	return id
}
