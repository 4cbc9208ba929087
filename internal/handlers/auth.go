package handlers

import (
	"errors"
	"strings"

	"github.com/feedbackhq/feedback-backend/internal/auth"
	"github.com/feedbackhq/feedback-backend/internal/models"
	"github.com/feedbackhq/feedback-backend/pkg/logger"
	"github.com/feedbackhq/feedback-backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func (h *Handler) Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := utils.Validate.Struct(req); err != nil || req.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "All fields are required")
	}

	if !auth.IsValidPassword(req.Password) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Password must be at least 6 characters long")
	}

	if !auth.IsValidEmail(req.Email) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Please enter a valid email address")
	}

	exists, err := h.users.ExistsByEmail(req.Email)
	if err != nil {
		logger.Errorf("signup: email lookup failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error creating user")
	}
	if exists {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "User already exists with this email")
	}

	hashed, err := auth.HashPassword(req.Password, h.bcryptCost)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     "user",
	}

	if err := h.users.Create(&user); err != nil {
		// The unique index is the authority; a concurrent signup can still
		// race past the exists check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "User already exists with this email")
		}
		logger.Errorf("signup: create user failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error creating user")
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	logger.Infof("user created: %s", user.Email)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"token":   token,
		"user":    userPayload(&user),
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := utils.Validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Email and password are required")
	}

	user, err := h.users.FindByEmail(req.Email)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	logger.Infof("login successful: %s", user.Email)

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    userPayload(user),
	})
}

func userPayload(user *models.User) fiber.Map {
	return fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
}
