package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// MaxPointsPerQuestion is the fixed ceiling every answered question adds to the
// maximum score. It is intentionally independent of the weights a question carries.
const MaxPointsPerQuestion = 4

// AnonymousUserName labels submissions that arrive without a respondent name.
const AnonymousUserName = "匿名用户"

var (
	// ErrNoAnswers indicates the submission carried an empty answer set.
	ErrNoAnswers = errors.New("no answers supplied")
	// ErrNoValidAnswers indicates none of the answers resolved against the catalog.
	ErrNoValidAnswers = errors.New("no valid answers")
	// ErrCatalogUnavailable indicates the question catalog could not be read.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// Question is the read-only view of a catalog entry needed for scoring.
type Question struct {
	ID       int
	Category string
	Options  []string
	Weights  []int
}

// Answer is a single respondent choice.
type Answer struct {
	QuestionID  int `json:"questionId"`
	AnswerIndex int `json:"answerIndex"`
}

// Submission groups the respondent label with the chosen answers.
type Submission struct {
	UserName string
	Answers  []Answer
}

// DimensionScore is the aggregated score of one category.
type DimensionScore struct {
	Category   string `json:"category"`
	Score      int    `json:"score"`
	MaxScore   int    `json:"maxScore"`
	Percentage int    `json:"percentage"`
}

// Result is the scored submission, ready to be stored.
type Result struct {
	UserName        string
	TotalScore      int
	TotalMaxScore   int
	TotalPercentage int
	Level           Level
	Description     string
	Suggestions     []string
	Dimensions      []DimensionScore
	// AnsweredCount is the number of answers that resolved to a catalog question.
	AnsweredCount int
	// SkippedAnswers counts answers whose question id is not in the catalog.
	SkippedAnswers int
	// InvalidOptions counts resolved answers whose option index was out of range.
	InvalidOptions int
}

// CatalogSource supplies the question catalog on demand.
type CatalogSource interface {
	Catalog(ctx context.Context) ([]Question, error)
}

// Evaluate rejects empty submissions, loads the catalog and scores the answers.
// The catalog is never read for an empty submission.
func Evaluate(ctx context.Context, source CatalogSource, submission Submission) (Result, error) {
	if len(submission.Answers) == 0 {
		return Result{}, ErrNoAnswers
	}

	catalog, err := source.Catalog(ctx)
	if err != nil {
		if errors.Is(err, ErrCatalogUnavailable) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	return Score(catalog, submission)
}

// Score turns a submission into per-category and overall scores against the
// supplied catalog snapshot. Unknown questions and out-of-range option indexes
// contribute nothing to the score.
func Score(catalog []Question, submission Submission) (Result, error) {
	if len(submission.Answers) == 0 {
		return Result{}, ErrNoAnswers
	}

	index := make(map[int]Question, len(catalog))
	for _, question := range catalog {
		index[question.ID] = question
	}

	result := Result{UserName: normalizeUserName(submission.UserName)}
	dimensions := make([]DimensionScore, 0)
	positions := make(map[string]int)

	for _, answer := range submission.Answers {
		question, ok := index[answer.QuestionID]
		if !ok {
			result.SkippedAnswers++
			continue
		}

		weight, valid := question.weight(answer.AnswerIndex)
		if !valid {
			result.InvalidOptions++
		}

		result.AnsweredCount++
		result.TotalScore += weight
		result.TotalMaxScore += MaxPointsPerQuestion

		pos, seen := positions[question.Category]
		if !seen {
			pos = len(dimensions)
			positions[question.Category] = pos
			dimensions = append(dimensions, DimensionScore{Category: question.Category})
		}
		dimensions[pos].Score += weight
		dimensions[pos].MaxScore += MaxPointsPerQuestion
	}

	if result.TotalMaxScore == 0 {
		return Result{}, ErrNoValidAnswers
	}

	for i := range dimensions {
		dimensions[i].Percentage = Percentage(dimensions[i].Score, dimensions[i].MaxScore)
	}

	result.Dimensions = dimensions
	result.TotalPercentage = Percentage(result.TotalScore, result.TotalMaxScore)

	band := Classify(result.TotalPercentage)
	result.Level = band.Level
	result.Description = band.Description
	result.Suggestions = band.SuggestionList()

	return result, nil
}

// Percentage returns round(score / max * 100) with halves rounded up, computed
// on the float64 ratio the way JavaScript's Math.round does. A zero max yields 0.
func Percentage(score, max int) int {
	if max == 0 {
		return 0
	}
	return int(math.Floor(float64(score)/float64(max)*100 + 0.5))
}

func (q Question) weight(index int) (int, bool) {
	if index < 0 || index >= len(q.Weights) {
		return 0, false
	}
	return q.Weights[index], true
}

func normalizeUserName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return AnonymousUserName
	}
	return trimmed
}
