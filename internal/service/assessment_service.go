package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/eq-test-api/internal/dto"
	"github.com/noah-isme/eq-test-api/internal/models"
	"github.com/noah-isme/eq-test-api/internal/observability"
	"github.com/noah-isme/eq-test-api/internal/repository"
	"github.com/noah-isme/eq-test-api/internal/scoring"
)

// DefaultResultsLimit caps the recent results listing.
const DefaultResultsLimit = 50

var (
	// ErrResultNotFound indicates a stored result could not be found.
	ErrResultNotFound = errors.New("test result not found")
	// ErrResultStoreUnavailable indicates the result could not be persisted or read.
	ErrResultStoreUnavailable = errors.New("result store unavailable")
)

// AssessmentService scores questionnaire submissions and serves stored results.
type AssessmentService interface {
	Submit(ctx context.Context, payload dto.TestSubmissionRequest) (dto.TestResultResponse, error)
	ListRecent(ctx context.Context, limit int) ([]dto.TestResultResponse, error)
	Get(ctx context.Context, id uint) (dto.TestResultResponse, error)
}

type assessmentService struct {
	catalog   scoring.CatalogSource
	results   repository.TestResultRepository
	publisher ResultPublisher
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	tracer    trace.Tracer
	listLimit int
	logger    zerolog.Logger
}

// NewAssessmentService wires the scoring workflow. publisher may be nil.
func NewAssessmentService(catalog scoring.CatalogSource, results repository.TestResultRepository, publisher ResultPublisher, validate *validator.Validate, listLimit int, logger zerolog.Logger) AssessmentService {
	if listLimit <= 0 || listLimit > DefaultResultsLimit {
		listLimit = DefaultResultsLimit
	}

	return &assessmentService{
		catalog:   catalog,
		results:   results,
		publisher: publisher,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		tracer:    otel.Tracer("github.com/noah-isme/eq-test-api/internal/service/assessment"),
		listLimit: listLimit,
		logger:    logger.With().Str("component", "assessment_service").Logger(),
	}
}

func (s *assessmentService) Submit(ctx context.Context, payload dto.TestSubmissionRequest) (dto.TestResultResponse, error) {
	ctx, span := s.tracer.Start(ctx, "assessment.submit", trace.WithAttributes(
		attribute.Int("assessment.answers", len(payload.Answers)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		observability.AssessmentsRejected().WithLabelValues("validation").Inc()
		return dto.TestResultResponse{}, err
	}

	submission := payload.ToSubmission()
	submission.UserName = s.sanitizeUserName(submission.UserName)

	result, err := scoring.Evaluate(ctx, s.catalog, submission)
	if err != nil {
		observability.AssessmentsRejected().WithLabelValues(rejectionReason(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return dto.TestResultResponse{}, err
	}

	model := models.TestResult{
		UserName:        result.UserName,
		Score:           result.TotalScore,
		TotalPercentage: result.TotalPercentage,
		Level:           string(result.Level),
		SkippedAnswers:  result.SkippedAnswers,
	}
	if err := model.SetDimensions(result.Dimensions); err != nil {
		return dto.TestResultResponse{}, err
	}

	if err := s.results.Create(ctx, &model); err != nil {
		observability.AssessmentsRejected().WithLabelValues("store_unavailable").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "result store unavailable")
		return dto.TestResultResponse{}, fmt.Errorf("%w: %w", ErrResultStoreUnavailable, err)
	}

	response, err := dto.NewTestResultResponse(model)
	if err != nil {
		return dto.TestResultResponse{}, err
	}

	observability.AssessmentsSubmitted().WithLabelValues(response.Level).Inc()
	observability.TotalPercentage().Observe(float64(response.TotalPercentage))
	if result.SkippedAnswers > 0 {
		observability.SkippedAnswers().Add(float64(result.SkippedAnswers))
	}

	span.SetAttributes(
		attribute.Int64("assessment.result_id", int64(model.ID)),
		attribute.String("assessment.level", response.Level),
		attribute.Int("assessment.total_percentage", response.TotalPercentage),
	)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, response); err != nil {
			s.logger.Warn().Err(err).Uint("result_id", model.ID).Msg("failed to publish result event")
		}
	}

	s.logger.Info().
		Uint("result_id", model.ID).
		Str("level", response.Level).
		Int("total_percentage", response.TotalPercentage).
		Int("skipped_answers", result.SkippedAnswers).
		Int("invalid_options", result.InvalidOptions).
		Msg("assessment scored")

	return response, nil
}

func (s *assessmentService) ListRecent(ctx context.Context, limit int) ([]dto.TestResultResponse, error) {
	if limit <= 0 || limit > s.listLimit {
		limit = s.listLimit
	}

	results, err := s.results.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResultStoreUnavailable, err)
	}

	return dto.NewTestResultResponseSlice(results)
}

func (s *assessmentService) Get(ctx context.Context, id uint) (dto.TestResultResponse, error) {
	result, err := s.results.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TestResultResponse{}, ErrResultNotFound
		}
		return dto.TestResultResponse{}, fmt.Errorf("%w: %w", ErrResultStoreUnavailable, err)
	}

	return dto.NewTestResultResponse(result)
}

// sanitizeUserName strips markup and decodes the entities the strict policy
// escapes, so plain text labels are stored exactly as typed.
func (s *assessmentService) sanitizeUserName(name string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(name)))
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, scoring.ErrNoAnswers):
		return "no_answers"
	case errors.Is(err, scoring.ErrNoValidAnswers):
		return "no_valid_answers"
	case errors.Is(err, scoring.ErrCatalogUnavailable):
		return "catalog_unavailable"
	default:
		return "other"
	}
}
