package dto

import (
	"time"

	"github.com/noah-isme/eq-test-api/internal/models"
	"github.com/noah-isme/eq-test-api/internal/scoring"
)

// AnswerRequest is one answer of a questionnaire submission.
type AnswerRequest struct {
	QuestionID  int `json:"questionId"`
	AnswerIndex int `json:"answerIndex"`
}

// TestSubmissionRequest is the payload accepted by the submit endpoint.
type TestSubmissionRequest struct {
	UserName string          `json:"userName" validate:"omitempty,max=64"`
	Answers  []AnswerRequest `json:"answers"`
}

// ToSubmission converts the request into the scoring input.
func (r TestSubmissionRequest) ToSubmission() scoring.Submission {
	answers := make([]scoring.Answer, 0, len(r.Answers))
	for _, answer := range r.Answers {
		answers = append(answers, scoring.Answer{QuestionID: answer.QuestionID, AnswerIndex: answer.AnswerIndex})
	}
	return scoring.Submission{UserName: r.UserName, Answers: answers}
}

// TestResultResponse is a stored result as returned to API clients.
type TestResultResponse struct {
	ID              uint                     `json:"id"`
	UserName        string                   `json:"userName"`
	TotalScore      int                      `json:"totalScore"`
	TotalPercentage int                      `json:"totalPercentage"`
	Level           string                   `json:"level"`
	Description     string                   `json:"description"`
	Suggestions     []string                 `json:"suggestions"`
	Dimensions      []scoring.DimensionScore `json:"dimensions"`
	SkippedAnswers  int                      `json:"skippedAnswers"`
	CreatedAt       time.Time                `json:"createdAt"`
}

// NewTestResultResponse restores a stored result, decoding its dimensions and
// re-attaching the feedback text bound to its level.
func NewTestResultResponse(model models.TestResult) (TestResultResponse, error) {
	dimensions, err := model.DimensionList()
	if err != nil {
		return TestResultResponse{}, err
	}

	response := TestResultResponse{
		ID:              model.ID,
		UserName:        model.UserName,
		TotalScore:      model.Score,
		TotalPercentage: model.TotalPercentage,
		Level:           model.Level,
		Suggestions:     []string{},
		Dimensions:      dimensions,
		SkippedAnswers:  model.SkippedAnswers,
		CreatedAt:       model.CreatedAt,
	}

	if band, ok := scoring.BandForLevel(scoring.Level(model.Level)); ok {
		response.Description = band.Description
		response.Suggestions = band.SuggestionList()
	}

	return response, nil
}

// NewTestResultResponseSlice converts stored results into DTOs.
func NewTestResultResponseSlice(items []models.TestResult) ([]TestResultResponse, error) {
	responses := make([]TestResultResponse, 0, len(items))
	for _, item := range items {
		response, err := NewTestResultResponse(item)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}
