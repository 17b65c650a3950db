package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/eq-test-api/internal/scoring"
)

// TestResult is a persisted, scored questionnaire submission. Results are
// append-only; description and suggestions are derived from Level on read.
type TestResult struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserName        string         `gorm:"size:128" json:"user_name"`
	Score           int            `gorm:"not null" json:"score"`
	TotalPercentage int            `gorm:"not null;default:0" json:"total_percentage"`
	Level           string         `gorm:"size:32;not null;index" json:"level"`
	Dimensions      datatypes.JSON `gorm:"type:json;not null" json:"-"`
	SkippedAnswers  int            `gorm:"not null;default:0" json:"skipped_answers"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
}

// TableName pins the table name shared with existing databases.
func (TestResult) TableName() string {
	return "test_results"
}

// SetDimensions serializes the dimension scores into the JSON column.
func (r *TestResult) SetDimensions(dimensions []scoring.DimensionScore) error {
	if dimensions == nil {
		dimensions = []scoring.DimensionScore{}
	}
	data, err := json.Marshal(dimensions)
	if err != nil {
		return err
	}
	r.Dimensions = datatypes.JSON(data)
	return nil
}

// DimensionList restores the dimension scores in their stored order.
func (r TestResult) DimensionList() ([]scoring.DimensionScore, error) {
	if len(r.Dimensions) == 0 {
		return []scoring.DimensionScore{}, nil
	}

	var dimensions []scoring.DimensionScore
	if err := json.Unmarshal(r.Dimensions, &dimensions); err != nil {
		return nil, fmt.Errorf("result %d dimensions: %w", r.ID, err)
	}
	return dimensions, nil
}
