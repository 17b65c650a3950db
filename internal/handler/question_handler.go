package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/eq-test-api/internal/middleware"
	"github.com/noah-isme/eq-test-api/internal/scoring"
	"github.com/noah-isme/eq-test-api/internal/service"
	"github.com/noah-isme/eq-test-api/internal/utils"
)

// QuestionHandler serves the questionnaire catalog.
type QuestionHandler struct {
	service service.QuestionService
	logger  zerolog.Logger
}

// NewQuestionHandler builds a question handler instance.
func NewQuestionHandler(service service.QuestionService, logger zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		service: service,
		logger:  logger.With().Str("component", "question_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *QuestionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/categories", h.categories)
}

func (h *QuestionHandler) list(c *fiber.Ctx) error {
	questions, err := h.service.List(middleware.RequestContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "questions retrieved", questions)
}

func (h *QuestionHandler) categories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(middleware.RequestContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "categories retrieved", categories)
}

func (h *QuestionHandler) handleError(c *fiber.Ctx, err error) error {
	logger := requestLogger(h.logger, c)
	if errors.Is(err, scoring.ErrCatalogUnavailable) {
		logger.Error().Err(err).Msg("catalog unavailable")
		return utils.SendErrorCode(c, fiber.StatusServiceUnavailable, codeCatalogUnavailable, "question catalog unavailable")
	}

	logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
