package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/eq-test-api/internal/models"
)

// QuestionRepository exposes read access to the question catalog plus the
// batch insert used for seeding.
type QuestionRepository interface {
	List(ctx context.Context) ([]models.Question, error)
	Count(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context) ([]models.CategoryCount, error)
	CreateBatch(ctx context.Context, questions []models.Question) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates the repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) List(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Question{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *questionRepository) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	var counts []models.CategoryCount
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("MIN(id) ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *questionRepository) CreateBatch(ctx context.Context, questions []models.Question) (int64, error) {
	if len(questions) == 0 {
		return 0, nil
	}

	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Create(&questions)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
