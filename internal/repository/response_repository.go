package repository

import (
	"github.com/feedbackhq/feedback-backend/internal/models"
	"github.com/feedbackhq/feedback-backend/pkg/logger"
	"gorm.io/gorm"
)

type ResponseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Create inserts a submission and assigns its id. The answer map is stored
// verbatim as one JSON blob keyed by field id.
func (r *ResponseRepository) Create(response *models.FeedbackResponse) error {
	raw, err := encodeAnswers(response.ResponseData)
	if err != nil {
		return err
	}
	response.RawData = raw
	return r.db.Create(response).Error
}

// FindByForm returns submissions for a form, newest first. The form id is
// not required to still resolve; orphaned responses stay queryable.
func (r *ResponseRepository) FindByForm(formID int64) ([]models.FeedbackResponse, error) {
	var responses []models.FeedbackResponse
	err := r.db.Where("form_id = ?", formID).
		Order("submitted_at DESC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	for i := range responses {
		r.hydrate(&responses[i])
	}
	return responses, nil
}

func (r *ResponseRepository) hydrate(response *models.FeedbackResponse) {
	response.ResponseData, response.DataCorrupt = decodeAnswers(response.RawData)
	if response.DataCorrupt {
		logger.Warnf("response %d: stored data failed to decode, treating as empty", response.ID)
	}
}
