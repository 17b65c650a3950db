package handler

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/eq-test-api/internal/dto"
	"github.com/noah-isme/eq-test-api/internal/middleware"
	"github.com/noah-isme/eq-test-api/internal/scoring"
	"github.com/noah-isme/eq-test-api/internal/service"
	"github.com/noah-isme/eq-test-api/internal/utils"
)

// Error kinds returned in the response envelope so clients can tell failures apart.
const (
	codeInvalidRequest     = "invalid_request"
	codeNoAnswers          = "no_answers"
	codeNoValidAnswers     = "no_valid_answers"
	codeCatalogUnavailable = "catalog_unavailable"
	codeStoreUnavailable   = "store_unavailable"
	codeNotFound           = "not_found"
)

// ResultFeed streams stored results to live subscribers.
type ResultFeed interface {
	Subscribe() (<-chan dto.TestResultResponse, func())
}

// AssessmentHandler manages submission and result endpoints.
type AssessmentHandler struct {
	service service.AssessmentService
	feed    ResultFeed
	submit  []fiber.Handler
	logger  zerolog.Logger
}

// NewAssessmentHandler builds an assessment handler instance. feed may be nil,
// in which case the live stream route is not registered. submitMiddleware runs
// in front of the submit route only.
func NewAssessmentHandler(service service.AssessmentService, feed ResultFeed, logger zerolog.Logger, submitMiddleware ...fiber.Handler) *AssessmentHandler {
	return &AssessmentHandler{
		service: service,
		feed:    feed,
		submit:  submitMiddleware,
		logger:  logger.With().Str("component", "assessment_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AssessmentHandler) Register(router fiber.Router) {
	submitChain := append(append([]fiber.Handler{}, h.submit...), h.create)
	router.Post("/submit", submitChain...)
	router.Get("/results", h.list)
	router.Get("/results/:id", h.get)

	if h.feed != nil {
		router.Use("/stream", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		router.Get("/stream", websocket.New(h.stream))
	}
}

func (h *AssessmentHandler) create(c *fiber.Ctx) error {
	var payload dto.TestSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, codeInvalidRequest, "invalid request body")
	}

	result, err := h.service.Submit(middleware.RequestContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "test submitted", result)
}

func (h *AssessmentHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, codeInvalidRequest, err.Error())
	}

	results, err := h.service.ListRecent(middleware.RequestContext(c), limit)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "results retrieved", results)
}

func (h *AssessmentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, codeInvalidRequest, err.Error())
	}

	result, err := h.service.Get(middleware.RequestContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "result retrieved", result)
}

func (h *AssessmentHandler) stream(conn *websocket.Conn) {
	results, cleanup := h.feed.Subscribe()
	defer cleanup()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.logger.Debug().Msg("result stream connected")
	for {
		select {
		case <-done:
			h.logger.Debug().Msg("result stream disconnected")
			return
		case result, ok := <-results:
			if !ok {
				return
			}
			payload, err := json.Marshal(result)
			if err != nil {
				h.logger.Warn().Err(err).Msg("failed to encode streamed result")
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

func (h *AssessmentHandler) handleError(c *fiber.Ctx, err error) error {
	logger := requestLogger(h.logger, c)
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendErrorCode(c, fiber.StatusBadRequest, codeInvalidRequest, validationErrors.Error())
	case errors.Is(err, scoring.ErrNoAnswers):
		return utils.SendErrorCode(c, fiber.StatusBadRequest, codeNoAnswers, "no answers supplied")
	case errors.Is(err, scoring.ErrNoValidAnswers):
		logger.Warn().Msg("submission had no answers matching the catalog")
		return utils.SendErrorCode(c, fiber.StatusUnprocessableEntity, codeNoValidAnswers, "no answers match the current question catalog")
	case errors.Is(err, scoring.ErrCatalogUnavailable):
		logger.Error().Err(err).Msg("catalog unavailable")
		return utils.SendErrorCode(c, fiber.StatusServiceUnavailable, codeCatalogUnavailable, "question catalog unavailable")
	case errors.Is(err, service.ErrResultStoreUnavailable):
		logger.Error().Err(err).Msg("result store unavailable")
		return utils.SendErrorCode(c, fiber.StatusServiceUnavailable, codeStoreUnavailable, "result store unavailable")
	case errors.Is(err, service.ErrResultNotFound):
		return utils.SendErrorCode(c, fiber.StatusNotFound, codeNotFound, "result not found")
	default:
		logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
