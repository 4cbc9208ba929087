package repository

import (
	"encoding/json"

	"github.com/feedbackhq/feedback-backend/internal/models"
	"gorm.io/datatypes"
)

// The field list and the answer map are stored as one JSON blob each.
// A decode failure on read is non-fatal: the caller gets empty data plus a
// corrupt flag so "no fields" and "corrupt storage" stay distinguishable.

func encodeFields(fields []models.FormField) (datatypes.JSON, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func decodeFields(raw datatypes.JSON) ([]models.FormField, bool) {
	if len(raw) == 0 {
		return []models.FormField{}, false
	}
	var fields []models.FormField
	if err := json.Unmarshal(raw, &fields); err != nil {
		return []models.FormField{}, true
	}
	if fields == nil {
		fields = []models.FormField{}
	}
	return fields, false
}

func encodeAnswers(answers map[string]interface{}) (datatypes.JSON, error) {
	if len(answers) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func decodeAnswers(raw datatypes.JSON) (map[string]interface{}, bool) {
	if len(raw) == 0 {
		return map[string]interface{}{}, false
	}
	var answers map[string]interface{}
	if err := json.Unmarshal(raw, &answers); err != nil {
		return map[string]interface{}{}, true
	}
	if answers == nil {
		answers = map[string]interface{}{}
	}
	return answers, false
}
