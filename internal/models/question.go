package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Question is a catalog entry of the questionnaire. Options and weights are
// stored as JSON arrays of equal length.
type Question struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Category  string         `gorm:"size:64;not null;index" json:"category"`
	Question  string         `gorm:"type:text;not null" json:"question"`
	Options   datatypes.JSON `gorm:"type:json;not null" json:"-"`
	Weights   datatypes.JSON `gorm:"type:json;not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
}

// TableName pins the table name shared with existing databases.
func (Question) TableName() string {
	return "questions"
}

// SetOptions serializes the option labels into the JSON column.
func (q *Question) SetOptions(options []string) error {
	data, err := json.Marshal(options)
	if err != nil {
		return err
	}
	q.Options = datatypes.JSON(data)
	return nil
}

// SetWeights serializes the option weights into the JSON column.
func (q *Question) SetWeights(weights []int) error {
	data, err := json.Marshal(weights)
	if err != nil {
		return err
	}
	q.Weights = datatypes.JSON(data)
	return nil
}

// OptionList decodes the stored option labels.
func (q Question) OptionList() ([]string, error) {
	if len(q.Options) == 0 {
		return []string{}, nil
	}

	var options []string
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil, fmt.Errorf("question %d options: %w", q.ID, err)
	}
	return options, nil
}

// WeightList decodes the stored option weights.
func (q Question) WeightList() ([]int, error) {
	if len(q.Weights) == 0 {
		return []int{}, nil
	}

	var weights []int
	if err := json.Unmarshal(q.Weights, &weights); err != nil {
		return nil, fmt.Errorf("question %d weights: %w", q.ID, err)
	}
	return weights, nil
}

// CategoryCount reports how many questions belong to a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
