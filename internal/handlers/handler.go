package handlers

import (
	"github.com/feedbackhq/feedback-backend/internal/auth"
	"github.com/feedbackhq/feedback-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

// Store interfaces cover exactly what the routing core needs from the
// persistence gateway. The repository types satisfy them; tests use fakes.

type UserStore interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByID(id int64) (*models.User, error)
	ExistsByEmail(email string) (bool, error)
}

type FormStore interface {
	Create(form *models.FeedbackForm) error
	FindByID(id int64) (*models.FeedbackForm, error)
	FindByOwner(userID int64) ([]models.FeedbackForm, error)
	Update(form *models.FeedbackForm) error
	Delete(id int64) (bool, error)
}

type ResponseStore interface {
	Create(response *models.FeedbackResponse) error
	FindByForm(formID int64) ([]models.FeedbackResponse, error)
}

// Handler holds the injected services. One instance is constructed at
// process start; there is no other shared mutable state across requests.
type Handler struct {
	users      UserStore
	forms      FormStore
	responses  ResponseStore
	tokens     *auth.TokenManager
	bcryptCost int
}

func New(users UserStore, forms FormStore, responses ResponseStore, tokens *auth.TokenManager, bcryptCost int) *Handler {
	return &Handler{
		users:      users,
		forms:      forms,
		responses:  responses,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"message": err.Error(),
	})
}
