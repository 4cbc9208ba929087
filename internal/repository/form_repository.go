package repository

import (
	"github.com/feedbackhq/feedback-backend/internal/models"
	"github.com/feedbackhq/feedback-backend/pkg/logger"
	"gorm.io/gorm"
)

type FormRepository struct {
	db *gorm.DB
}

func NewFormRepository(db *gorm.DB) *FormRepository {
	return &FormRepository{db: db}
}

// Create inserts a form and assigns its id. The field list is serialized
// into the fields column as one unit.
func (r *FormRepository) Create(form *models.FeedbackForm) error {
	raw, err := encodeFields(form.Fields)
	if err != nil {
		return err
	}
	form.RawFields = raw
	return r.db.Create(form).Error
}

func (r *FormRepository) FindByID(id int64) (*models.FeedbackForm, error) {
	var form models.FeedbackForm
	if err := r.db.Where("id = ?", id).First(&form).Error; err != nil {
		return nil, err
	}
	r.hydrate(&form)
	return &form, nil
}

// FindByOwner returns the owner's forms, newest first.
func (r *FormRepository) FindByOwner(userID int64) ([]models.FeedbackForm, error) {
	var forms []models.FeedbackForm
	err := r.db.Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&forms).Error
	if err != nil {
		return nil, err
	}
	for i := range forms {
		r.hydrate(&forms[i])
	}
	return forms, nil
}

func (r *FormRepository) FindAllActive() ([]models.FeedbackForm, error) {
	var forms []models.FeedbackForm
	err := r.db.Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&forms).Error
	if err != nil {
		return nil, err
	}
	for i := range forms {
		r.hydrate(&forms[i])
	}
	return forms, nil
}

// Update replaces title, description, active flag and fields. Id, owner and
// creation timestamp are immutable; updated_at is bumped by GORM.
func (r *FormRepository) Update(form *models.FeedbackForm) error {
	raw, err := encodeFields(form.Fields)
	if err != nil {
		return err
	}
	form.RawFields = raw
	return r.db.Model(&models.FeedbackForm{}).
		Where("id = ?", form.ID).
		Updates(map[string]interface{}{
			"title":       form.Title,
			"description": form.Description,
			"is_active":   form.IsActive,
			"fields":      form.RawFields,
		}).Error
}

// Delete removes a form permanently. Responses are intentionally left in
// place. Returns false when no row matched.
func (r *FormRepository) Delete(id int64) (bool, error) {
	res := r.db.Delete(&models.FeedbackForm{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *FormRepository) hydrate(form *models.FeedbackForm) {
	form.Fields, form.FieldsCorrupt = decodeFields(form.RawFields)
	if form.FieldsCorrupt {
		logger.Warnf("form %d: stored fields failed to decode, treating as empty", form.ID)
	}
}
