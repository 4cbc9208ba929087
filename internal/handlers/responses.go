package handlers

import (
	"errors"
	"strings"

	"github.com/feedbackhq/feedback-backend/internal/models"
	"github.com/feedbackhq/feedback-backend/pkg/logger"
	"github.com/feedbackhq/feedback-backend/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubmitResponse accepts a submission against a form. No authentication is
// required and the answer map is persisted verbatim; answers are not checked
// against the form's declared fields.
func (h *Handler) SubmitResponse(c *fiber.Ctx) error {
	formID, err := parseFormID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid form ID")
	}

	if _, err := h.forms.FindByID(formID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Form not found")
		}
		logger.Errorf("submit to form %d failed: %v", formID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error submitting form")
	}

	var req models.SubmitResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if len(req.Responses) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "No response data provided")
	}

	respondentEmail := "anonymous"
	if email, ok := req.Responses["email"].(string); ok && strings.TrimSpace(email) != "" {
		respondentEmail = email
	}

	response := models.FeedbackResponse{
		FormID:          formID,
		RespondentEmail: respondentEmail,
		ResponseData:    req.Responses,
	}

	if err := h.responses.Create(&response); err != nil {
		logger.Errorf("submit to form %d failed: %v", formID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error submitting form")
	}

	logger.Infof("response %d submitted for form %d", response.ID, formID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Form submitted successfully",
		"responseId": response.ID,
	})
}

// ListResponses returns a form's submissions to its owner, newest first.
func (h *Handler) ListResponses(c *fiber.Ctx) error {
	formID, err := parseFormID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid form ID")
	}

	form, err := h.forms.FindByID(formID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Form not found")
		}
		logger.Errorf("list responses for form %d failed: %v", formID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error fetching responses")
	}

	if form.CreatedBy != callerID(c) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Unauthorized - You don't have access to this form")
	}

	responses, err := h.responses.FindByForm(formID)
	if err != nil {
		logger.Errorf("list responses for form %d failed: %v", formID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error fetching responses")
	}
	if responses == nil {
		responses = []models.FeedbackResponse{}
	}
	return c.JSON(responses)
}
