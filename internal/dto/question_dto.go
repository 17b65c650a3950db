package dto

import (
	"github.com/noah-isme/eq-test-api/internal/models"
)

// QuestionResponse is a catalog entry as served to questionnaire clients.
type QuestionResponse struct {
	ID       uint     `json:"id"`
	Category string   `json:"category"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Weights  []int    `json:"weights"`
}

// CategoryResponse reports the number of questions in a dimension.
type CategoryResponse struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// NewQuestionResponse converts a Question model into a DTO.
func NewQuestionResponse(model models.Question) (QuestionResponse, error) {
	options, err := model.OptionList()
	if err != nil {
		return QuestionResponse{}, err
	}
	weights, err := model.WeightList()
	if err != nil {
		return QuestionResponse{}, err
	}

	return QuestionResponse{
		ID:       model.ID,
		Category: model.Category,
		Question: model.Question,
		Options:  options,
		Weights:  weights,
	}, nil
}

// NewQuestionResponseSlice converts question models into DTOs.
func NewQuestionResponseSlice(items []models.Question) ([]QuestionResponse, error) {
	responses := make([]QuestionResponse, 0, len(items))
	for _, item := range items {
		response, err := NewQuestionResponse(item)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// NewCategoryResponseSlice converts category counts into DTOs.
func NewCategoryResponseSlice(items []models.CategoryCount) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, CategoryResponse{Category: item.Category, Count: item.Count})
	}
	return responses
}
