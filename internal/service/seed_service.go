package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/eq-test-api/internal/models"
	"github.com/noah-isme/eq-test-api/internal/repository"
	"github.com/noah-isme/eq-test-api/internal/seed"
)

// ErrInvalidCatalogItem indicates a seed question violates the catalog invariants.
var ErrInvalidCatalogItem = errors.New("invalid catalog item")

// CatalogCache is invalidated after the catalog changes.
type CatalogCache interface {
	InvalidateCache(ctx context.Context) error
}

// SeedService installs the default questionnaire into an empty catalog.
type SeedService interface {
	EnsureCatalog(ctx context.Context) (int64, error)
	SeedCatalog(ctx context.Context, items []seed.Item) (int64, error)
}

type seedService struct {
	questions repository.QuestionRepository
	cache     CatalogCache
	logger    zerolog.Logger
}

// NewSeedService constructs a seeding service. cache may be nil.
func NewSeedService(questions repository.QuestionRepository, cache CatalogCache, logger zerolog.Logger) SeedService {
	return &seedService{
		questions: questions,
		cache:     cache,
		logger:    logger.With().Str("component", "seed_service").Logger(),
	}
}

// EnsureCatalog seeds the default questions when the catalog is empty.
func (s *seedService) EnsureCatalog(ctx context.Context) (int64, error) {
	return s.SeedCatalog(ctx, seed.DefaultQuestions())
}

// SeedCatalog inserts items only when the catalog has no questions yet.
func (s *seedService) SeedCatalog(ctx context.Context, items []seed.Item) (int64, error) {
	total, err := s.questions.Count(ctx)
	if err != nil {
		return 0, err
	}
	if total > 0 {
		s.logger.Debug().Int64("questions", total).Msg("catalog already seeded")
		return 0, nil
	}

	questions := make([]models.Question, 0, len(items))
	for i, item := range items {
		question, err := buildQuestion(item)
		if err != nil {
			return 0, fmt.Errorf("seed item %d: %w", i, err)
		}
		questions = append(questions, question)
	}

	affected, err := s.questions.CreateBatch(ctx, questions)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateCache(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate catalog cache")
		}
	}

	s.logger.Info().Int64("affected", affected).Msg("catalog seeded")
	return affected, nil
}

func buildQuestion(item seed.Item) (models.Question, error) {
	category := strings.TrimSpace(item.Category)
	prompt := strings.TrimSpace(item.Question)
	switch {
	case category == "":
		return models.Question{}, fmt.Errorf("%w: category is required", ErrInvalidCatalogItem)
	case prompt == "":
		return models.Question{}, fmt.Errorf("%w: question text is required", ErrInvalidCatalogItem)
	case len(item.Options) == 0:
		return models.Question{}, fmt.Errorf("%w: at least one option is required", ErrInvalidCatalogItem)
	case len(item.Options) != len(item.Weights):
		return models.Question{}, fmt.Errorf("%w: %d options but %d weights", ErrInvalidCatalogItem, len(item.Options), len(item.Weights))
	}

	question := models.Question{Category: category, Question: prompt}
	if err := question.SetOptions(item.Options); err != nil {
		return models.Question{}, err
	}
	if err := question.SetWeights(item.Weights); err != nil {
		return models.Question{}, err
	}
	return question, nil
}
