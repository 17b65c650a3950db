package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/eq-test-api/internal/config"
	"github.com/noah-isme/eq-test-api/internal/handler"
	"github.com/noah-isme/eq-test-api/internal/middleware"
	"github.com/noah-isme/eq-test-api/internal/models"
	"github.com/noah-isme/eq-test-api/internal/repository"
	"github.com/noah-isme/eq-test-api/internal/router"
	"github.com/noah-isme/eq-test-api/internal/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

type testStack struct {
	app         *fiber.App
	db          *gorm.DB
	broadcaster service.ResultBroadcaster
}

type stackOptions struct {
	submitMiddleware []fiber.Handler
	extraChecks      []handler.DependencyCheck
}

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Question{}, &models.TestResult{}))
	return db
}

func newTestStack(t *testing.T, opts stackOptions) testStack {
	t.Helper()

	db := setupHandlerDB(t)
	logger := zerolog.New(io.Discard)

	questionRepo := repository.NewQuestionRepository(db)
	resultRepo := repository.NewTestResultRepository(db)
	questionService := service.NewQuestionService(questionRepo, nil, time.Minute, logger)
	broadcaster := service.NewResultBroadcaster(nil, "", nil, logger)
	assessmentService := service.NewAssessmentService(
		questionService,
		resultRepo,
		broadcaster,
		validator.New(validator.WithRequiredStructEnabled()),
		50,
		logger,
	)

	app := fiber.New()
	middleware.Register(app, middleware.Config{})
	router.Register(app, config.Config{AppName: "EQ Test API", AppEnv: "test"}, router.Dependencies{
		QuestionHandler:   handler.NewQuestionHandler(questionService, logger),
		AssessmentHandler: handler.NewAssessmentHandler(assessmentService, broadcaster, logger, opts.submitMiddleware...),
		HealthChecks: append([]handler.DependencyCheck{
			handler.CatalogCheck(questionRepo),
			handler.ResultStoreCheck(resultRepo),
		}, opts.extraChecks...),
	})

	return testStack{app: app, db: db, broadcaster: broadcaster}
}

func insertQuestion(t *testing.T, db *gorm.DB, category string, weights ...int) models.Question {
	t.Helper()
	question := models.Question{Category: category, Question: "how often in " + category}
	options := make([]string, len(weights))
	for i := range options {
		options[i] = fmt.Sprintf("option %d", i+1)
	}
	require.NoError(t, question.SetOptions(options))
	require.NoError(t, question.SetWeights(weights))
	require.NoError(t, db.Create(&question).Error)
	return question
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(body, target))
}

func decodeEnvelope(t *testing.T, resp *http.Response, data interface{}) envelope {
	t.Helper()
	var env envelope
	decodeResponse(t, resp, &env)
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func startFiberServer(t *testing.T, app *fiber.App) (string, func()) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		if err := app.Listener(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Logf("fiber listener stopped: %v", err)
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)

	shutdown := func() {
		_ = app.Shutdown()
		_ = listener.Close()
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	}

	return "http://" + listener.Addr().String(), shutdown
}
