package models

import (
	"time"

	"gorm.io/datatypes"
)

// FormField describes one input element of a form's schema. The field list is
// serialized as a single JSON array into the fields column; it is never
// queried field-by-field.
type FormField struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	Order       int      `json:"order"`
}

type FeedbackForm struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedBy   int64     `json:"createdBy" gorm:"column:created_by;not null;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
	IsActive    bool      `json:"isActive" gorm:"column:is_active;default:true"`

	// RawFields is the stored encoding; Fields is the decoded view maintained
	// by the repository. FieldsCorrupt distinguishes "no fields" from a stored
	// blob that failed to decode.
	RawFields     datatypes.JSON `json:"-" gorm:"column:fields"`
	Fields        []FormField    `json:"fields" gorm:"-"`
	FieldsCorrupt bool           `json:"-" gorm:"-"`
}

func (FeedbackForm) TableName() string {
	return "feedback_forms"
}

type CreateFormRequest struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	Fields      []FormField `json:"fields"`
}

// UpdateFormRequest uses pointers so absent attributes are left unchanged.
type UpdateFormRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	IsActive    *bool        `json:"isActive"`
	Fields      *[]FormField `json:"fields"`
}
