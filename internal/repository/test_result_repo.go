package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/eq-test-api/internal/models"
)

// TestResultRepository persists scored submissions. Rows are append-only.
type TestResultRepository interface {
	Create(ctx context.Context, result *models.TestResult) error
	ListRecent(ctx context.Context, limit int) ([]models.TestResult, error)
	GetByID(ctx context.Context, id uint) (models.TestResult, error)
}

type testResultRepository struct {
	db *gorm.DB
}

// NewTestResultRepository instantiates the repository.
func NewTestResultRepository(db *gorm.DB) TestResultRepository {
	return &testResultRepository{db: db}
}

func (r *testResultRepository) Create(ctx context.Context, result *models.TestResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *testResultRepository) ListRecent(ctx context.Context, limit int) ([]models.TestResult, error) {
	query := r.db.WithContext(ctx).Model(&models.TestResult{}).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var results []models.TestResult
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *testResultRepository) GetByID(ctx context.Context, id uint) (models.TestResult, error) {
	var result models.TestResult
	if err := r.db.WithContext(ctx).First(&result, id).Error; err != nil {
		return models.TestResult{}, err
	}
	return result, nil
}
