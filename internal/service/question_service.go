package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/eq-test-api/internal/dto"
	"github.com/noah-isme/eq-test-api/internal/observability"
	"github.com/noah-isme/eq-test-api/internal/repository"
	"github.com/noah-isme/eq-test-api/internal/scoring"
)

const catalogCacheKey = "eqtest:catalog"

// QuestionService serves the question catalog to clients and to the scoring engine.
type QuestionService interface {
	List(ctx context.Context) ([]dto.QuestionResponse, error)
	Categories(ctx context.Context) ([]dto.CategoryResponse, error)
	Catalog(ctx context.Context) ([]scoring.Question, error)
	InvalidateCache(ctx context.Context) error
}

type questionService struct {
	questions repository.QuestionRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    zerolog.Logger
}

// NewQuestionService builds the catalog service. A nil cache disables caching.
func NewQuestionService(questions repository.QuestionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions: questions,
		cache:     cache,
		cacheTTL:  ttl,
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

func (s *questionService) List(ctx context.Context) ([]dto.QuestionResponse, error) {
	if cached, ok := s.readCache(ctx); ok {
		return cached, nil
	}

	questions, err := s.questions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", scoring.ErrCatalogUnavailable, err)
	}

	response, err := dto.NewQuestionResponseSlice(questions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", scoring.ErrCatalogUnavailable, err)
	}

	s.writeCache(ctx, response)

	return response, nil
}

func (s *questionService) Categories(ctx context.Context) ([]dto.CategoryResponse, error) {
	counts, err := s.questions.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", scoring.ErrCatalogUnavailable, err)
	}
	return dto.NewCategoryResponseSlice(counts), nil
}

// Catalog returns the scoring view of the catalog.
func (s *questionService) Catalog(ctx context.Context) ([]scoring.Question, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	catalog := make([]scoring.Question, 0, len(items))
	for _, item := range items {
		if len(item.Options) != len(item.Weights) {
			s.logger.Warn().Uint("question_id", item.ID).Msg("question options and weights differ in length")
		}
		catalog = append(catalog, scoring.Question{
			ID:       int(item.ID),
			Category: item.Category,
			Options:  item.Options,
			Weights:  item.Weights,
		})
	}

	return catalog, nil
}

func (s *questionService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, catalogCacheKey).Err()
}

func (s *questionService) readCache(ctx context.Context) ([]dto.QuestionResponse, bool) {
	if s.cache == nil {
		return nil, false
	}

	cached, err := s.cache.Get(ctx, catalogCacheKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			observability.CatalogCacheLookups().WithLabelValues("miss").Inc()
		} else {
			observability.CatalogCacheLookups().WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Msg("failed to read catalog cache")
		}
		return nil, false
	}

	var response []dto.QuestionResponse
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		observability.CatalogCacheLookups().WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Msg("discarding undecodable catalog cache entry")
		return nil, false
	}

	observability.CatalogCacheLookups().WithLabelValues("hit").Inc()
	s.logger.Debug().Int("questions", len(response)).Msg("catalog cache hit")
	return response, true
}

func (s *questionService) writeCache(ctx context.Context, response []dto.QuestionResponse) {
	if s.cache == nil || len(response) == 0 {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, catalogCacheKey, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store catalog cache")
	}
}
