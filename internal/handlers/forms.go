package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/feedbackhq/feedback-backend/internal/models"
	"github.com/feedbackhq/feedback-backend/pkg/logger"
	"github.com/feedbackhq/feedback-backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func (h *Handler) ListForms(c *fiber.Ctx) error {
	forms, err := h.forms.FindByOwner(callerID(c))
	if err != nil {
		logger.Errorf("list forms failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error fetching forms")
	}
	if forms == nil {
		forms = []models.FeedbackForm{}
	}
	return c.JSON(forms)
}

func (h *Handler) CreateForm(c *fiber.Ctx) error {
	var req models.CreateFormRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Title is required")
	}

	form := models.FeedbackForm{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   callerID(c),
		IsActive:    true,
		Fields:      req.Fields,
	}

	if err := h.forms.Create(&form); err != nil {
		logger.Errorf("create form failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error creating form")
	}

	logger.Infof("form created: %d (%s) with %d fields", form.ID, form.Title, len(form.Fields))
	return c.Status(fiber.StatusCreated).JSON(form)
}

func (h *Handler) GetForm(c *fiber.Ctx) error {
	formID, err := parseFormID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid form ID")
	}

	form, err := h.forms.FindByID(formID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Form not found")
		}
		logger.Errorf("get form %d failed: %v", formID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error fetching form")
	}

	if form.CreatedBy != callerID(c) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Unauthorized - You don't have access to this form")
	}

	return c.JSON(form)
}

func (h *Handler) UpdateForm(c *fiber.Ctx) error {
	formID, err := parseFormID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid form ID")
	}

	form, err := h.forms.FindByID(formID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Form not found")
		}
		logger.Errorf("update form %d failed: %v", formID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error updating form")
	}

	if form.CreatedBy != callerID(c) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Unauthorized - You don't have access to this form")
	}

	var req models.UpdateFormRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	// Partial update: absent attributes keep their value, and an empty title
	// is ignored rather than rejected.
	if req.Title != nil {
		if title := strings.TrimSpace(*req.Title); title != "" {
			form.Title = title
		}
	}
	if req.Description != nil {
		form.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		form.IsActive = *req.IsActive
	}
	if req.Fields != nil {
		form.Fields = *req.Fields
	}

	if err := h.forms.Update(form); err != nil {
		logger.Errorf("update form %d failed: %v", formID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error updating form")
	}
	form.UpdatedAt = time.Now()

	logger.Infof("form updated: %d (%s) with %d fields", form.ID, form.Title, len(form.Fields))
	return c.JSON(form)
}

func (h *Handler) DeleteForm(c *fiber.Ctx) error {
	formID, err := parseFormID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid form ID")
	}

	if form, err := h.forms.FindByID(formID); err == nil && form.CreatedBy != callerID(c) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Unauthorized - You don't have access to this form")
	}

	// Not-found and delete failure collapse into one outcome. Responses to
	// the form are kept.
	deleted, err := h.forms.Delete(formID)
	if err != nil || !deleted {
		if err != nil {
			logger.Errorf("delete form %d failed: %v", formID, err)
		}
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Form not found or error deleting")
	}

	logger.Infof("form deleted: %d", formID)
	return c.JSON(fiber.Map{
		"message": "Form deleted successfully",
	})
}

func parseFormID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
