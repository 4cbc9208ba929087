package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API. Submission is deliberately outside the
// auth middleware; everything else under /api/forms is owner-scoped.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/health", h.Health)

	auth := api.Group("/auth")
	auth.Post("/signup", h.Signup)
	auth.Post("/login", h.Login)

	api.Get("/forms", h.AuthMiddleware, h.ListForms)
	api.Post("/forms", h.AuthMiddleware, h.CreateForm)
	api.Get("/forms/:id", h.AuthMiddleware, h.GetForm)
	api.Put("/forms/:id", h.AuthMiddleware, h.UpdateForm)
	api.Delete("/forms/:id", h.AuthMiddleware, h.DeleteForm)
	api.Get("/forms/:id/responses", h.AuthMiddleware, h.ListResponses)

	api.Post("/forms/:id/submit", h.SubmitResponse)
}
