package models

import (
	"time"

	"gorm.io/datatypes"
)

// FeedbackResponse is one submission against a form. Responses are immutable
// and are intentionally kept when their form is deleted.
type FeedbackResponse struct {
	ID              int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	FormID          int64  `json:"formId" gorm:"column:form_id;not null;index"`
	RespondentEmail string `json:"respondentEmail" gorm:"type:varchar(100)"`

	RawData      datatypes.JSON         `json:"-" gorm:"column:response_data"`
	ResponseData map[string]interface{} `json:"responseData" gorm:"-"`
	DataCorrupt  bool                   `json:"-" gorm:"-"`

	SubmittedAt time.Time `json:"submittedAt" gorm:"column:submitted_at;autoCreateTime"`
}

func (FeedbackResponse) TableName() string {
	return "feedback_responses"
}

type SubmitResponseRequest struct {
	Responses map[string]interface{} `json:"responses"`
}
